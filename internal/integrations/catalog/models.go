package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/qhomebase/QH-BookingService/pkg/types"
)

// PricingType тип тарификации услуги
type PricingType string

const (
	PricingHourly  PricingType = "hourly"
	PricingSession PricingType = "session"
	PricingFree    PricingType = "free"
)

// Service модель услуги из каталога (read-only справочные данные)
type Service struct {
	ID          uuid.UUID `json:"id"`
	CategoryID  uuid.UUID `json:"category_id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`

	PricingType     PricingType `json:"pricing_type"`
	PricePerHour    *float64    `json:"price_per_hour,omitempty"`
	PricePerSession *float64    `json:"price_per_session,omitempty"`

	// RequiresScheduling - требует ли услуга выбора временных слотов
	RequiresScheduling     bool `json:"requires_scheduling"`
	SlotGranularityMinutes int  `json:"slot_granularity_minutes"`

	IsActive bool `json:"is_active"`

	Availabilities []AvailabilityWindow `json:"availabilities"`
	Options        []Option             `json:"options"`
	Combos         []Combo              `json:"combos"`
}

// AvailabilityWindow еженедельное окно доступности услуги
// day_of_week по ISO: 1 = понедельник ... 7 = воскресенье
type AvailabilityWindow struct {
	ID          uuid.UUID        `json:"id"`
	ServiceID   uuid.UUID        `json:"service_id"`
	DayOfWeek   int              `json:"day_of_week"`
	StartTime   types.TimeString `json:"start_time"`
	EndTime     types.TimeString `json:"end_time"`
	Capacity    int              `json:"capacity"`
	IsAvailable bool             `json:"is_available"`
}

// Contains проверяет, что интервал [start, end) целиком лежит внутри окна
func (w AvailabilityWindow) Contains(start, end types.TimeString) bool {
	return !w.StartTime.IsAfter(start) && !w.EndTime.IsBefore(end)
}

// Option опция услуги (дополнительная позиция)
type Option struct {
	ID       uuid.UUID `json:"id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	Price    float64   `json:"price"`
	IsActive bool      `json:"is_active"`
}

// Combo комбо-набор услуги
type Combo struct {
	ID       uuid.UUID `json:"id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	Price    float64   `json:"price"`
	IsActive bool      `json:"is_active"`
}

// WindowsForDate возвращает активные окна доступности услуги
// на день недели указанной даты
func (s *Service) WindowsForDate(date time.Time) []AvailabilityWindow {
	dow := isoDayOfWeek(date)
	windows := make([]AvailabilityWindow, 0)
	for _, w := range s.Availabilities {
		if w.IsAvailable && w.DayOfWeek == dow {
			windows = append(windows, w)
		}
	}
	return windows
}

// HasAvailability возвращает true, если у услуги есть хотя бы одно активное окно
func (s *Service) HasAvailability() bool {
	for _, w := range s.Availabilities {
		if w.IsAvailable {
			return true
		}
	}
	return false
}

// FindOption ищет активную опцию услуги по ID
func (s *Service) FindOption(id uuid.UUID) *Option {
	for i := range s.Options {
		if s.Options[i].ID == id && s.Options[i].IsActive {
			return &s.Options[i]
		}
	}
	return nil
}

// FindCombo ищет активное комбо услуги по ID
func (s *Service) FindCombo(id uuid.UUID) *Combo {
	for i := range s.Combos {
		if s.Combos[i].ID == id && s.Combos[i].IsActive {
			return &s.Combos[i]
		}
	}
	return nil
}

// BasePrice возвращает базовую стоимость бронирования по типу тарификации
// Для почасовой тарификации duration - длительность в часах
func (s *Service) BasePrice(durationHours float64) float64 {
	switch s.PricingType {
	case PricingHourly:
		if s.PricePerHour == nil {
			return 0
		}
		if durationHours <= 0 {
			durationHours = 1
		}
		return *s.PricePerHour * durationHours
	case PricingSession:
		if s.PricePerSession == nil {
			return 0
		}
		return *s.PricePerSession
	default:
		return 0
	}
}

// isoDayOfWeek возвращает день недели по ISO (1 = понедельник ... 7 = воскресенье)
func isoDayOfWeek(date time.Time) int {
	wd := int(date.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// ErrorResponse модель ошибки от каталога
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
