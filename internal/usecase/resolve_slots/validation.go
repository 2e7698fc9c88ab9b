package resolve_slots

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/qhomebase/QH-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ServiceID == uuid.Nil {
		return fmt.Errorf("%w: serviceID is required", ErrInvalidInput)
	}

	if req.DateFrom.IsZero() || req.DateTo.IsZero() {
		return fmt.Errorf("%w: dateFrom and dateTo are required", ErrInvalidInput)
	}

	if req.DateTo.Before(req.DateFrom) {
		return fmt.Errorf("%w: dateTo is before dateFrom", ErrInvalidDateRange)
	}

	// Ограничиваем диапазон, чтобы не генерировать слоты на годы вперёд
	days := int(req.DateTo.Sub(req.DateFrom).Hours()/24) + 1
	if days > domain.MaxResolveRangeDays {
		return fmt.Errorf("%w: range exceeds %d days", ErrInvalidDateRange, domain.MaxResolveRangeDays)
	}

	return nil
}
