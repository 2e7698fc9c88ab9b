package search_bookings

import (
	"context"

	"github.com/qhomebase/QH-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	Search(ctx context.Context, req *models.SearchBookingsRequest, actor models.Actor) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}
