package get_user_bookings

import (
	"context"

	"github.com/google/uuid"

	"github.com/qhomebase/QH-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest, actor models.Actor) (*models.BookingListResponse, error)
	GetUnpaidBookings(ctx context.Context, userID uuid.UUID, actor models.Actor) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}
