package models

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/qhomebase/QH-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidPaymentStatus возвращается при некорректном платёжном статусе
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
)

// Actor действующее лицо запроса (из заголовков аутентификации)
type Actor struct {
	UserID uuid.UUID
	Role   domain.Role
}

// IsAdmin возвращает true для администратора
func (a Actor) IsAdmin() bool {
	return a.Role == domain.RoleAdmin
}

// Request модели

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID uuid.UUID `json:"userId"`
	Status *string   `json:"status,omitempty"`
}

// SearchBookingsRequest административный поиск бронирований
type SearchBookingsRequest struct {
	UserID    *uuid.UUID `json:"userId,omitempty"`
	ServiceID *uuid.UUID `json:"serviceId,omitempty"`
	Status    *string    `json:"status,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *SearchBookingsRequest) ToDomainFilter() (domain.SearchFilter, error) {
	filter := domain.SearchFilter{
		UserID:    r.UserID,
		ServiceID: r.ServiceID,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// ApproveBookingRequest запрос на подтверждение бронирования администратором
type ApproveBookingRequest struct {
	AdminNote *string `json:"adminNote,omitempty"`
}

// RejectBookingRequest запрос на отклонение бронирования администратором
type RejectBookingRequest struct {
	Reason string `json:"reason"`
}

// UpdatePaymentRequest прямое изменение платёжного статуса администратором
type UpdatePaymentRequest struct {
	PaymentStatus string `json:"paymentStatus"`
}

// AddItemRequest запрос на добавление позиции к бронированию
type AddItemRequest struct {
	ItemType string    `json:"itemType"` // "option" | "combo"
	ItemID   uuid.UUID `json:"itemId"`
	Quantity int       `json:"quantity"`
}

// UpdateItemRequest запрос на изменение количества позиции
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// Response модели

// BookingItemResponse позиция бронирования
type BookingItemResponse struct {
	ID         uuid.UUID `json:"id"`
	ItemType   string    `json:"itemType"`
	ItemID     uuid.UUID `json:"itemId"`
	ItemCode   string    `json:"itemCode"`
	ItemName   string    `json:"itemName"`
	Quantity   int       `json:"quantity"`
	UnitPrice  float64   `json:"unitPrice"`
	TotalPrice float64   `json:"totalPrice"`
}

// BookingSlotResponse слот бронирования
type BookingSlotResponse struct {
	ID        uuid.UUID `json:"id"`
	SlotDate  string    `json:"slotDate"`  // "2026-09-15"
	StartTime string    `json:"startTime"` // "10:00"
	EndTime   string    `json:"endTime"`   // "10:30"
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	UnitID    uuid.UUID `json:"unitId"`
	ServiceID uuid.UUID `json:"serviceId"`

	BookingDate string `json:"bookingDate"` // "2026-09-15"
	StartTime   string `json:"startTime"`   // "10:00"
	EndTime     string `json:"endTime"`     // "11:00"

	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`

	// Денормализованные данные
	ServiceCode string `json:"serviceCode"`
	ServiceName string `json:"serviceName"`

	NumberOfPeople *int    `json:"numberOfPeople,omitempty"`
	Purpose        *string `json:"purpose,omitempty"`
	TotalAmount    float64 `json:"totalAmount"`

	PaymentDate    *time.Time `json:"paymentDate,omitempty"`
	PaymentGateway *string    `json:"paymentGateway,omitempty"`
	PaymentTxnRef  *string    `json:"paymentTxnRef,omitempty"`

	TermsAccepted   bool       `json:"termsAccepted"`
	TermsAcceptedAt *time.Time `json:"termsAcceptedAt,omitempty"`

	CancellationReason *string    `json:"cancellationReason,omitempty"`
	AdminNote          *string    `json:"adminNote,omitempty"`
	ApprovedBy         *uuid.UUID `json:"approvedBy,omitempty"`
	ApprovedAt         *time.Time `json:"approvedAt,omitempty"`

	Items []BookingItemResponse `json:"items"`
	Slots []BookingSlotResponse `json:"slots"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:        b.ID,
		UserID:    b.UserID,
		UnitID:    b.UnitID,
		ServiceID: b.ServiceID,

		BookingDate: b.BookingDate.Format(domain.DateFormat),
		StartTime:   b.StartTime.String(),
		EndTime:     b.EndTime.String(),

		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),

		ServiceCode: b.ServiceCode,
		ServiceName: b.ServiceName,

		NumberOfPeople: b.NumberOfPeople,
		Purpose:        b.Purpose,
		TotalAmount:    b.TotalAmount,

		PaymentDate:    b.PaymentDate,
		PaymentGateway: b.PaymentGateway,
		PaymentTxnRef:  b.PaymentTxnRef,

		TermsAccepted:   b.TermsAccepted,
		TermsAcceptedAt: b.TermsAcceptedAt,

		CancellationReason: b.CancellationReason,
		AdminNote:          b.AdminNote,
		ApprovedBy:         b.ApprovedBy,
		ApprovedAt:         b.ApprovedAt,

		Items: make([]BookingItemResponse, 0, len(b.Items)),
		Slots: make([]BookingSlotResponse, 0, len(b.Slots)),

		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}

	for _, item := range b.Items {
		resp.Items = append(resp.Items, FromDomainItem(item))
	}
	for _, slot := range b.Slots {
		resp.Slots = append(resp.Slots, BookingSlotResponse{
			ID:        slot.ID,
			SlotDate:  slot.SlotDate.Format(domain.DateFormat),
			StartTime: slot.StartTime.String(),
			EndTime:   slot.EndTime.String(),
		})
	}

	return resp
}

// FromDomainItem конвертирует позицию бронирования в DTO
func FromDomainItem(item *domain.BookingItem) BookingItemResponse {
	return BookingItemResponse{
		ID:         item.ID,
		ItemType:   string(item.ItemType),
		ItemID:     item.ItemID,
		ItemCode:   item.ItemCode,
		ItemName:   item.ItemName,
		Quantity:   item.Quantity,
		UnitPrice:  item.UnitPrice,
		TotalPrice: item.TotalPrice,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}
	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	switch domain.BookingStatus(s) {
	case domain.StatusPendingTerms,
		domain.StatusPending,
		domain.StatusApproved,
		domain.StatusCompleted,
		domain.StatusRejected,
		domain.StatusCancelled:
		return domain.BookingStatus(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// ToDomainPaymentStatus конвертирует строку в domain.PaymentStatus
func ToDomainPaymentStatus(s string) (domain.PaymentStatus, error) {
	switch domain.PaymentStatus(s) {
	case domain.PaymentUnpaid,
		domain.PaymentPending,
		domain.PaymentPaid,
		domain.PaymentCancelled:
		return domain.PaymentStatus(s), nil
	default:
		return "", ErrInvalidPaymentStatus
	}
}
