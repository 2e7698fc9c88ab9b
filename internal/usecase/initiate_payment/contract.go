package initiate_payment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/qhomebase/QH-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	UpdatePayment(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, gateway, txnRef *string, paymentDate *time.Time) error
}

// PaymentRepository интерфейс репозитория платёжных попыток
type PaymentRepository interface {
	Create(ctx context.Context, attempt *domain.PaymentAttempt) (*domain.PaymentAttempt, error)
}

// PaymentGateway интерфейс платёжного шлюза
type PaymentGateway interface {
	BuildPaymentUrl(txnRef string, amount float64, orderInfo, clientIP, returnURL string) (string, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
