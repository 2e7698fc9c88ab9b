package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/qhomebase/QH-BookingService/internal/domain"
	"github.com/qhomebase/QH-BookingService/internal/service/bookings/models"
	createBooking "github.com/qhomebase/QH-BookingService/internal/usecase/create_booking"
	"github.com/qhomebase/QH-BookingService/pkg/types"
)

// SlotRequest HTTP модель запрошенного интервала
type SlotRequest struct {
	Date      string `json:"date"`      // "2026-09-15"
	StartTime string `json:"startTime"` // "10:00"
	EndTime   string `json:"endTime"`   // "10:30"
}

// ItemRequest HTTP модель позиции бронирования
type ItemRequest struct {
	ItemType string    `json:"itemType"` // "option" | "combo"
	ItemID   uuid.UUID `json:"itemId"`
	Quantity int       `json:"quantity"`
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	UnitID    uuid.UUID `json:"unitId"`
	ServiceID uuid.UUID `json:"serviceId"`

	Slots []SlotRequest `json:"slots,omitempty"`
	Items []ItemRequest `json:"items,omitempty"`

	NumberOfPeople *int    `json:"numberOfPeople,omitempty"`
	Purpose        *string `json:"purpose,omitempty"`

	TermsAccepted bool `json:"termsAccepted,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(actor models.Actor) (*createBooking.Request, error) {
	slots := make([]createBooking.SlotRequest, 0, len(r.Slots))
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
		slots = append(slots, createBooking.SlotRequest{
			Date:      date,
			StartTime: start,
			EndTime:   end,
		})
	}

	items := make([]createBooking.ItemRequest, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, createBooking.ItemRequest{
			ItemType: item.ItemType,
			ItemID:   item.ItemID,
			Quantity: item.Quantity,
		})
	}

	return &createBooking.Request{
		UserID:         actor.UserID,
		UnitID:         r.UnitID,
		ServiceID:      r.ServiceID,
		Slots:          slots,
		Items:          items,
		NumberOfPeople: r.NumberOfPeople,
		Purpose:        r.Purpose,
		TermsAccepted:  r.TermsAccepted,
	}, nil
}
