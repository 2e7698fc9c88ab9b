package domain

// Форматы даты и времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Значения по умолчанию
const (
	DefaultSlotGranularityMinutes = 30
	DefaultWindowCapacity         = 1
)

// Бизнес-ограничения валидации
const (
	MinSlotGranularityMinutes   = 5
	MaxSlotGranularityMinutes   = 480 // 8 часов
	MaxPurposeLength            = 500
	MaxCancellationReasonLength = 500
	MaxAdminNoteLength          = 500
	MaxSlotsPerBooking          = 10
	MaxItemsPerBooking          = 50
	MaxResolveRangeDays         = 62 // ~2 месяца на один запрос слотов
)

// TerminalStatuses статусы, из которых нет переходов
// Бронирование в терминальном статусе неизменяемо
var TerminalStatuses = []BookingStatus{
	StatusCompleted,
	StatusRejected,
	StatusCancelled,
}

// ActiveStatuses статусы, при которых слоты бронирования занимают время
// Используются при подсчёте занятости слотов
var ActiveStatuses = []BookingStatus{
	StatusPendingTerms,
	StatusPending,
	StatusApproved,
	StatusCompleted,
}
