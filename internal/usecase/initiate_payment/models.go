package initiate_payment

import (
	"github.com/google/uuid"

	"github.com/qhomebase/QH-BookingService/internal/service/bookings/models"
)

// Request модель запроса на инициацию оплаты бронирования
type Request struct {
	BookingID uuid.UUID
	Actor     models.Actor
	ClientIP  string // IP клиента, передаётся шлюзу
}

// Response модель ответа с платёжным URL
type Response struct {
	BookingID  uuid.UUID `json:"bookingId"`
	TxnRef     string    `json:"txnRef"`
	Amount     float64   `json:"amount"`
	PaymentURL string    `json:"paymentUrl"`
}
