package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/qhomebase/QH-BookingService/pkg/types"
)

// BookingStatus represents the status of a service booking
type BookingStatus string

const (
	StatusPendingTerms BookingStatus = "pending_terms"
	StatusPending      BookingStatus = "pending"
	StatusApproved     BookingStatus = "approved"
	StatusCompleted    BookingStatus = "completed"
	StatusRejected     BookingStatus = "rejected"
	StatusCancelled    BookingStatus = "cancelled"
)

// PaymentStatus represents the payment status of a booking
type PaymentStatus string

const (
	PaymentUnpaid    PaymentStatus = "unpaid"
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentCancelled PaymentStatus = "cancelled"
)

// Booking represents a resident service booking (aggregate root)
// Все изменения статуса, позиций и слотов проходят только через
// transition-таблицу (transitions.go) и сервисный слой
type Booking struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	UnitID    uuid.UUID
	ServiceID uuid.UUID

	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString

	Status        BookingStatus
	PaymentStatus PaymentStatus

	// Denormalized data for history
	ServiceCode string
	ServiceName string

	NumberOfPeople *int
	Purpose        *string
	TotalAmount    float64

	PaymentDate    *time.Time
	PaymentGateway *string
	PaymentTxnRef  *string

	TermsAccepted   bool
	TermsAcceptedAt *time.Time

	CancellationReason *string
	AdminNote          *string
	ApprovedBy         *uuid.UUID
	ApprovedAt         *time.Time

	Items []*BookingItem
	Slots []*BookingSlot

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal returns true if the booking is in a terminal state
// Бронирование в терминальном статусе неизменяемо
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted ||
		b.Status == StatusRejected ||
		b.Status == StatusCancelled
}

// IsActive returns true if the booking's slots still occupy time
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled && b.Status != StatusRejected
}

// CanBeCancelled returns true if the booking can be cancelled by the resident
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPendingTerms || b.Status == StatusPending
}

// CanBeUpdated returns true if items/slots of the booking can be modified
func (b *Booking) CanBeUpdated() bool {
	return b.Status == StatusPending
}

// IsPaid returns true if the booking has been paid
func (b *Booking) IsPaid() bool {
	return b.PaymentStatus == PaymentPaid
}

// HasActiveUnpaidPayment возвращает true, если по бронированию есть
// незакрытая оплата (unpaid/pending). Отменённый платёжный статус не считается
func (b *Booking) HasActiveUnpaidPayment() bool {
	return b.PaymentStatus == PaymentUnpaid || b.PaymentStatus == PaymentPending
}

// TotalItemsAmount возвращает сумму по всем позициям бронирования
func (b *Booking) TotalItemsAmount() float64 {
	total := 0.0
	for _, item := range b.Items {
		total += item.TotalPrice
	}
	return total
}

// SearchFilter фильтр для административного поиска бронирований
type SearchFilter struct {
	UserID    *uuid.UUID     // Фильтр по пользователю (опционально)
	ServiceID *uuid.UUID     // Фильтр по услуге (опционально)
	Status    *BookingStatus // Фильтр по статусу (опционально)
	StartDate *time.Time     // Начало периода по booking_date (опционально)
	EndDate   *time.Time     // Конец периода по booking_date (опционально)
}
