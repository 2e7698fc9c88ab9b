package create_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/qhomebase/QH-BookingService/internal/domain"
	"github.com/qhomebase/QH-BookingService/internal/integrations/catalog"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetActiveUnpaidByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Booking, error)
	GetSlotsByServiceAndDateRange(ctx context.Context, serviceID uuid.UUID, from, to time.Time) ([]*domain.BookingSlot, error)
}

// CatalogClient интерфейс клиента каталога услуг
type CatalogClient interface {
	GetService(ctx context.Context, serviceID uuid.UUID) (*catalog.Service, error)
}

// ConflictDetector интерфейс детектора конфликтов
type ConflictDetector interface {
	Check(service *catalog.Service, requested []domain.SlotInterval, existing []*domain.BookingSlot, excludeBookingID *uuid.UUID) error
}

// NotifyPublisher интерфейс публикации событий жизненного цикла
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
