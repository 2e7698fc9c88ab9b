package handle_payment_callback

import "github.com/google/uuid"

// Request модель callback-а платёжного шлюза
type Request struct {
	Params map[string]string // Сырые query-параметры callback-а
}

// Response итог обработки callback-а
// Повторная доставка уже обработанного callback-а возвращает записанный итог
type Response struct {
	BookingID      uuid.UUID `json:"bookingId"`
	TxnRef         string    `json:"txnRef"`
	Outcome        string    `json:"outcome"` // pending | success | failed
	ResponseCode   string    `json:"responseCode,omitempty"`
	SignatureValid bool      `json:"signatureValid"`
}
