package resolve_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/qhomebase/QH-BookingService/internal/domain"
)

// Request модель запроса на подбор слотов
type Request struct {
	ServiceID uuid.UUID // ID услуги
	DateFrom  time.Time // Начало диапазона (включительно)
	DateTo    time.Time // Конец диапазона (включительно)
}

// Slot кандидат для бронирования
// Полностью занятые слоты возвращаются с Available=false, а не скрываются
type Slot struct {
	SlotDate    string `json:"slotDate"`  // "2026-09-15"
	StartTime   string `json:"startTime"` // "10:00"
	EndTime     string `json:"endTime"`   // "10:30"
	BookedCount int    `json:"bookedCount"`
	Capacity    int    `json:"capacity"`
	Available   bool   `json:"available"`
}

// Response модель ответа со списком кандидатов
// Слоты упорядочены по возрастанию даты и времени начала
type Response struct {
	ServiceID uuid.UUID `json:"serviceId"`
	Slots     []Slot    `json:"slots"`
}

// fromCandidate конвертирует domain кандидата в DTO
func fromCandidate(c *domain.CandidateSlot) Slot {
	return Slot{
		SlotDate:    c.SlotDate.Format(domain.DateFormat),
		StartTime:   c.StartTime.String(),
		EndTime:     c.EndTime.String(),
		BookedCount: c.BookedCount,
		Capacity:    c.Capacity,
		Available:   c.Available(),
	}
}
