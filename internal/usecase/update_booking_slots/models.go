package update_booking_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/qhomebase/QH-BookingService/internal/service/bookings/models"
	"github.com/qhomebase/QH-BookingService/pkg/types"
)

// SlotRequest запрошенный временной интервал
type SlotRequest struct {
	Date      time.Time        // Дата слота (без времени)
	StartTime types.TimeString // Время начала
	EndTime   types.TimeString // Время конца
}

// Request модель запроса на замену набора слотов бронирования
type Request struct {
	BookingID uuid.UUID
	Actor     models.Actor
	Slots     []SlotRequest // Новый набор интервалов (полная замена)
}

// Response модель ответа с обновлённым бронированием
type Response = models.BookingResponse
