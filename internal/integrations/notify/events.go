package notify

import "github.com/google/uuid"

// Routing keys событий бронирований и платежей
const (
	RKBookingCreated   = "booking.created"
	RKBookingConfirmed = "booking.confirmed"
	RKBookingCancelled = "booking.cancelled"
	RKBookingApproved  = "booking.approved"
	RKBookingRejected  = "booking.rejected"
	RKBookingCompleted = "booking.completed"
	RKPaymentPaid      = "payment.paid"
	RKPaymentFailed    = "payment.failed"
)

// BookingEvent событие изменения жизненного цикла бронирования
type BookingEvent struct {
	BookingID   uuid.UUID `json:"booking_id"`
	UserID      uuid.UUID `json:"user_id"`
	ServiceCode string    `json:"service_code"`
	Status      string    `json:"status"`
	BookingDate string    `json:"booking_date"`
	Reason      string    `json:"reason,omitempty"`
}

// PaymentEvent событие результата оплаты бронирования
type PaymentEvent struct {
	BookingID    uuid.UUID `json:"booking_id"`
	UserID       uuid.UUID `json:"user_id"`
	TxnRef       string    `json:"txn_ref"`
	Amount       float64   `json:"amount"`
	Gateway      string    `json:"gateway"`
	ResponseCode string    `json:"response_code,omitempty"`
}
