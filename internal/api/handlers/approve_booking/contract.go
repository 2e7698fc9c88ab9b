package approve_booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/qhomebase/QH-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	Approve(ctx context.Context, bookingID uuid.UUID, actor models.Actor, req *models.ApproveBookingRequest) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}
