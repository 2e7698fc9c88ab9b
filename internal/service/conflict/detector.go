package conflict

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/qhomebase/QH-BookingService/internal/domain"
	"github.com/qhomebase/QH-BookingService/internal/integrations/catalog"
)

// Detector проверяет набор запрошенных интервалов на конфликты
// Чистая логика над уже загруженными данными: окна доступности услуги
// и занятые слоты передаются снаружи. Блокировки и транзакции - зона
// ответственности вызывающего usecase
type Detector struct{}

// NewDetector создает новый экземпляр детектора конфликтов
func NewDetector() *Detector {
	return &Detector{}
}

// Check проверяет запрошенные интервалы в строгом порядке:
// 1. пересечения внутри самого запроса;
// 2. попадание каждого интервала в окно доступности своего дня недели;
// 3. вместимость окна с учётом уже занятых слотов других бронирований.
//
// excludeBookingID исключает слоты собственного бронирования из подсчёта
// вместимости (используется при замене набора слотов)
func (d *Detector) Check(
	service *catalog.Service,
	requested []domain.SlotInterval,
	existing []*domain.BookingSlot,
	excludeBookingID *uuid.UUID,
) error {
	// 1. Пересечения внутри запроса: самая специфичная ошибка, проверяется первой
	for i := 0; i < len(requested); i++ {
		for j := i + 1; j < len(requested); j++ {
			if requested[i].Overlaps(requested[j]) {
				return fmt.Errorf("%w: %s %s-%s and %s %s-%s",
					ErrOverlapsWithinRequest,
					requested[i].Date.Format(domain.DateFormat), requested[i].Start, requested[i].End,
					requested[j].Date.Format(domain.DateFormat), requested[j].Start, requested[j].End,
				)
			}
		}
	}

	if !service.HasAvailability() {
		return ErrNoAvailability
	}

	// 2. Каждый интервал должен целиком лежать в каком-то окне своего дня
	windows := make([]*catalog.AvailabilityWindow, len(requested))
	for i, interval := range requested {
		window := containingWindow(service, interval)
		if window == nil {
			return fmt.Errorf("%w: %s %s-%s",
				ErrOutsideAvailability,
				interval.Date.Format(domain.DateFormat), interval.Start, interval.End,
			)
		}
		windows[i] = window
	}

	// 3. Вместимость: считаем занятые слоты чужих бронирований на каждом интервале
	for i, interval := range requested {
		booked := countOverlapping(interval, existing, excludeBookingID)
		if booked >= windows[i].Capacity {
			return fmt.Errorf("%w: %s %s-%s",
				ErrAlreadyBooked,
				interval.Date.Format(domain.DateFormat), interval.Start, interval.End,
			)
		}
	}

	return nil
}

// CountBooked возвращает число занятых слотов, пересекающих интервал
// Используется при построении списка кандидатов
func (d *Detector) CountBooked(interval domain.SlotInterval, existing []*domain.BookingSlot) int {
	return countOverlapping(interval, existing, nil)
}

// containingWindow находит доступное окно дня, целиком содержащее интервал
func containingWindow(service *catalog.Service, interval domain.SlotInterval) *catalog.AvailabilityWindow {
	windows := service.WindowsForDate(interval.Date)
	for i := range windows {
		if windows[i].Contains(interval.Start, interval.End) {
			return &windows[i]
		}
	}
	return nil
}

// countOverlapping считает слоты, пересекающие интервал, исключая слоты excludeBookingID
func countOverlapping(interval domain.SlotInterval, existing []*domain.BookingSlot, excludeBookingID *uuid.UUID) int {
	count := 0
	for _, slot := range existing {
		if excludeBookingID != nil && slot.BookingID == *excludeBookingID {
			continue
		}
		occupied := domain.SlotInterval{Date: slot.SlotDate, Start: slot.StartTime, End: slot.EndTime}
		if interval.Overlaps(occupied) {
			count++
		}
	}
	return count
}
