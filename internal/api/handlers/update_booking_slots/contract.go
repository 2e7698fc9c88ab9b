package update_booking_slots

import (
	"context"

	updateSlots "github.com/qhomebase/QH-BookingService/internal/usecase/update_booking_slots"
)

type UpdateBookingSlotsUseCase interface {
	Execute(ctx context.Context, req *updateSlots.Request) (*updateSlots.Response, error)
}

type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}
