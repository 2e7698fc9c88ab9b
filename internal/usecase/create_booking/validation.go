package create_booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/qhomebase/QH-BookingService/internal/domain"
	"github.com/qhomebase/QH-BookingService/internal/service/conflict"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, now time.Time) error {
	if req.UserID == uuid.Nil {
		return fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}
	if req.UnitID == uuid.Nil {
		return fmt.Errorf("%w: unitID is required", ErrInvalidInput)
	}
	if req.ServiceID == uuid.Nil {
		return fmt.Errorf("%w: serviceID is required", ErrInvalidInput)
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
	if err := checkRequestOverlaps(toIntervals(req.Slots)); err != nil {
		return err
	}

	if len(req.Items) > domain.MaxItemsPerBooking {
		return fmt.Errorf("%w: at most %d items per booking", ErrInvalidInput, domain.MaxItemsPerBooking)
	}

	for _, item := range req.Items {
		if item.ItemID == uuid.Nil {
			return fmt.Errorf("%w: itemID is required", ErrInvalidInput)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("%w: item quantity must be positive", ErrInvalidInput)
		}
	}

	if req.NumberOfPeople != nil && *req.NumberOfPeople < 1 {
		return fmt.Errorf("%w: numberOfPeople must be positive", ErrInvalidInput)
	}

	if req.Purpose != nil && len(*req.Purpose) > domain.MaxPurposeLength {
		return fmt.Errorf("%w: purpose is too long", ErrInvalidInput)
	}

	return nil
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
