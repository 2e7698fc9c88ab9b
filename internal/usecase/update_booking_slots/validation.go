package update_booking_slots

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/qhomebase/QH-BookingService/internal/domain"
	"github.com/qhomebase/QH-BookingService/internal/service/conflict"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, now time.Time) error {
	if req.BookingID == uuid.Nil {
		return fmt.Errorf("%w: bookingID is required", ErrInvalidInput)
	}
	if req.Actor.UserID == uuid.Nil {
		return fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}

	if len(req.Slots) == 0 {
		return fmt.Errorf("%w: at least one slot is required", ErrInvalidInput)
	}
	if len(req.Slots) > domain.MaxSlotsPerBooking {
		return fmt.Errorf("%w: at most %d slots per booking", ErrInvalidInput, domain.MaxSlotsPerBooking)
	}

	for _, slot := range req.Slots {
		if slot.Date.IsZero() {
			return fmt.Errorf("%w: slot date is required", ErrInvalidInput)
		}
		if isDateInPast(slot.Date, now) {
			return fmt.Errorf("%w: slot date %s is in the past", ErrInvalidDate, slot.Date.Format(domain.DateFormat))
		}
		if err := slot.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid slot startTime: %v", ErrInvalidInput, err)
		}
		if err := slot.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid slot endTime: %v", ErrInvalidInput, err)
		}
		if !slot.StartTime.IsBefore(slot.EndTime) {
			return fmt.Errorf("%w: slot startTime must be before endTime", ErrInvalidInput)
		}
	}

	// Пересечения внутри самого запроса отсекаются до любых обращений к хранилищу
	return checkRequestOverlaps(toIntervals(req.Slots))
}

// checkRequestOverlaps проверяет, что интервалы запроса не пересекаются между собой
func checkRequestOverlaps(intervals []domain.SlotInterval) error {
	for i := 0; i < len(intervals); i++ {
		for j := i + 1; j < len(intervals); j++ {
			if intervals[i].Overlaps(intervals[j]) {
				return fmt.Errorf("%w: %s %s-%s and %s %s-%s",
					conflict.ErrOverlapsWithinRequest,
					intervals[i].Date.Format(domain.DateFormat), intervals[i].Start, intervals[i].End,
					intervals[j].Date.Format(domain.DateFormat), intervals[j].Start, intervals[j].End,
				)
			}
		}
	}
	return nil
}

// isDateInPast проверяет, что дата раньше сегодняшнего дня
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
