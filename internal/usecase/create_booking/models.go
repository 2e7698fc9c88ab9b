package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/qhomebase/QH-BookingService/internal/service/bookings/models"
	"github.com/qhomebase/QH-BookingService/pkg/types"
)

// SlotRequest запрошенный временной интервал
type SlotRequest struct {
	Date      time.Time        // Дата слота (без времени)
	StartTime types.TimeString // Время начала, например "10:00"
	EndTime   types.TimeString // Время конца, например "10:30"
}

// ItemRequest запрошенная позиция бронирования
type ItemRequest struct {
	ItemType string    // "option" | "combo"
	ItemID   uuid.UUID // ID опции или комбо в каталоге
	Quantity int
}

// Request модель запроса на создание бронирования
type Request struct {
	UserID    uuid.UUID // ID резидента
	UnitID    uuid.UUID // ID юнита резидента
	ServiceID uuid.UUID // ID услуги

	Slots []SlotRequest // Запрошенные интервалы
	Items []ItemRequest // Опции и комбо (опционально)

	NumberOfPeople *int    // Количество человек (опционально)
	Purpose        *string // Цель бронирования (опционально)

	TermsAccepted bool // Условия приняты сразу при создании
}

// Response модель ответа с созданным бронированием
type Response = models.BookingResponse
