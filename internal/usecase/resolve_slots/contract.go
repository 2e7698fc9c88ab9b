package resolve_slots

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/qhomebase/QH-BookingService/internal/domain"
	"github.com/qhomebase/QH-BookingService/internal/integrations/catalog"
)

// SlotRepository интерфейс репозитория слотов бронирований
type SlotRepository interface {
	GetSlotsByServiceAndDateRange(ctx context.Context, serviceID uuid.UUID, from, to time.Time) ([]*domain.BookingSlot, error)
}

// CatalogClient интерфейс клиента каталога услуг
type CatalogClient interface {
	GetService(ctx context.Context, serviceID uuid.UUID) (*catalog.Service, error)
}

// ConflictDetector интерфейс детектора конфликтов
type ConflictDetector interface {
	CountBooked(interval domain.SlotInterval, existing []*domain.BookingSlot) int
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
