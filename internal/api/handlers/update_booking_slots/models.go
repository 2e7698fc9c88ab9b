package update_booking_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/qhomebase/QH-BookingService/internal/domain"
	"github.com/qhomebase/QH-BookingService/internal/service/bookings/models"
	updateSlots "github.com/qhomebase/QH-BookingService/internal/usecase/update_booking_slots"
	"github.com/qhomebase/QH-BookingService/pkg/types"
)

// SlotRequest HTTP модель запрошенного интервала
type SlotRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// UpdateBookingSlotsRequest HTTP request model
type UpdateBookingSlotsRequest struct {
	Slots []SlotRequest `json:"slots"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateBookingSlotsRequest) ToUseCaseRequest(bookingID uuid.UUID, actor models.Actor) (*updateSlots.Request, error) {
	slots := make([]updateSlots.SlotRequest, 0, len(r.Slots))
	for _, slot := range r.Slots {
		date, err := time.Parse(domain.DateFormat, slot.Date)
		if err != nil {
			return nil, err
		}
		start, err := types.NewTimeStringFromString(slot.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := types.NewTimeStringFromString(slot.EndTime)
		if err != nil {
			return nil, err
		}
		slots = append(slots, updateSlots.SlotRequest{
			Date:      date,
			StartTime: start,
			EndTime:   end,
		})
	}

	return &updateSlots.Request{
		BookingID: bookingID,
		Actor:     actor,
		Slots:     slots,
	}, nil
}
