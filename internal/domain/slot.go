package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/qhomebase/QH-BookingService/pkg/types"
)

// BookingSlot зарезервированный временной интервал, принадлежащий бронированию
// Идентичность слота для проверки конфликтов - (service, date, start, end)
type BookingSlot struct {
	ID        uuid.UUID
	BookingID uuid.UUID
	ServiceID uuid.UUID

	SlotDate  time.Time
	StartTime types.TimeString
	EndTime   types.TimeString

	CreatedAt time.Time
}

// SlotInterval запрошенный интервал (date, start, end) без привязки к бронированию
// Используется при создании бронирования и замене набора слотов
type SlotInterval struct {
	Date  time.Time
	Start types.TimeString
	End   types.TimeString
}

// Overlaps возвращает true, если интервалы реально пересекаются
// Граничные случаи (конец одного == начало другого) пересечением не считаются
func (s SlotInterval) Overlaps(other SlotInterval) bool {
	if !sameDay(s.Date, other.Date) {
		return false
	}
	return IntervalsOverlap(s.Start, s.End, other.Start, other.End)
}

// IntervalsOverlap проверяет строгое пересечение интервалов [aStart, aEnd) и [bStart, bEnd)
//
// Примеры:
// - 11:30-12:00 и 11:20-11:40 → ЕСТЬ пересечение (11:30-11:40)
// - 11:30-12:00 и 11:00-11:30 → НЕТ пересечения (граничат)
// - 11:30-12:00 и 12:00-12:30 → НЕТ пересечения (граничат)
func IntervalsOverlap(aStart, aEnd, bStart, bEnd types.TimeString) bool {
	return aStart.IsBefore(bEnd) && bStart.IsBefore(aEnd)
}

// CandidateSlot кандидат для бронирования, вычисленный из окна доступности
// Не хранится в БД - вычисляется на лету; полностью занятые слоты
// возвращаются с Available=false, а не скрываются
type CandidateSlot struct {
	SlotDate    time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	BookedCount int
	Capacity    int
}

// Available возвращает true, если в слоте остались свободные места
func (s *CandidateSlot) Available() bool {
	return s.BookedCount < s.Capacity
}

// sameDay проверяет, что две даты относятся к одному календарному дню
func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
