package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/qhomebase/QH-BookingService/internal/domain"
	"github.com/qhomebase/QH-BookingService/internal/integrations/catalog"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetActiveUnpaidByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Booking, error)
	Search(ctx context.Context, filter domain.SearchFilter) ([]*domain.Booking, error)
	AcceptTerms(ctx context.Context, id uuid.UUID) error
	Cancel(ctx context.Context, id uuid.UUID, reason string, cancelPayment bool) error
	Approve(ctx context.Context, id uuid.UUID, approvedBy uuid.UUID, adminNote *string) error
	Reject(ctx context.Context, id uuid.UUID, reason string, cancelPayment bool) error
	Complete(ctx context.Context, id uuid.UUID) error
	UpdatePayment(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, gateway, txnRef *string, paymentDate *time.Time) error
	UpdateTotalAmount(ctx context.Context, id uuid.UUID, total float64) error
	InsertItem(ctx context.Context, item *domain.BookingItem) (*domain.BookingItem, error)
	GetItem(ctx context.Context, bookingID, itemID uuid.UUID) (*domain.BookingItem, error)
	UpdateItemQuantity(ctx context.Context, bookingID, itemID uuid.UUID, quantity int, totalPrice float64) error
	DeleteItem(ctx context.Context, bookingID, itemID uuid.UUID) error
}

// CatalogClient интерфейс клиента каталога услуг
type CatalogClient interface {
	GetService(ctx context.Context, serviceID uuid.UUID) (*catalog.Service, error)
}

// NotifyPublisher интерфейс публикации событий жизненного цикла
// Публикация best-effort и не влияет на результат операции
type NotifyPublisher interface {
	Publish(ctx context.Context, key string, event interface{})
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
