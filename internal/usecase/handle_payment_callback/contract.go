package handle_payment_callback

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/qhomebase/QH-BookingService/internal/domain"
)

// PaymentRepository интерфейс репозитория платёжных попыток
type PaymentRepository interface {
	GetByTxnRef(ctx context.Context, txnRef string) (*domain.PaymentAttempt, error)
	Finalize(ctx context.Context, id uuid.UUID, outcome domain.PaymentOutcome, responseCode string, signatureValid bool) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	UpdatePayment(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, gateway, txnRef *string, paymentDate *time.Time) error
}

// PaymentGateway интерфейс платёжного шлюза
type PaymentGateway interface {
	VerifySignature(params map[string]string) bool
}

// NotifyPublisher интерфейс публикации событий результата оплаты
type NotifyPublisher interface {
	Publish(ctx context.Context, key string, event interface{})
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
