package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentOutcome итог платёжной попытки
type PaymentOutcome string

const (
	OutcomePending PaymentOutcome = "pending"
	OutcomeSuccess PaymentOutcome = "success"
	OutcomeFailed  PaymentOutcome = "failed"
)

// PaymentAttempt логическая попытка оплаты бронирования
// Финализируется ровно один раз callback-ом платёжного шлюза;
// повторные callback-и с тем же transaction reference - no-op
type PaymentAttempt struct {
	ID        uuid.UUID
	BookingID uuid.UUID

	TxnRef  string // Уникальный transaction reference, выбирается на нашей стороне
	Amount  float64
	Gateway string

	Outcome        PaymentOutcome
	ResponseCode   *string // Сырой код ответа шлюза
	SignatureValid *bool   // Результат проверки подписи (nil - callback ещё не приходил)

	CreatedAt   time.Time
	FinalizedAt *time.Time
}

// IsFinalized возвращает true, если попытка уже закрыта callback-ом
func (a *PaymentAttempt) IsFinalized() bool {
	return a.Outcome == OutcomeSuccess || a.Outcome == OutcomeFailed
}
