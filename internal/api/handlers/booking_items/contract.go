package booking_items

import (
	"context"

	"github.com/google/uuid"

	"github.com/qhomebase/QH-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	AddItem(ctx context.Context, bookingID uuid.UUID, actor models.Actor, req *models.AddItemRequest) (*models.BookingResponse, error)
	UpdateItem(ctx context.Context, bookingID, itemID uuid.UUID, actor models.Actor, req *models.UpdateItemRequest) (*models.BookingResponse, error)
	DeleteItem(ctx context.Context, bookingID, itemID uuid.UUID, actor models.Actor) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}
