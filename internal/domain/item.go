package domain

import (
	"time"

	"github.com/google/uuid"
)

// ItemType тип позиции бронирования (опция услуги или комбо)
type ItemType string

const (
	ItemTypeOption ItemType = "option"
	ItemTypeCombo  ItemType = "combo"
)

// IsValid проверяет, что тип позиции известен системе
func (t ItemType) IsValid() bool {
	return t == ItemTypeOption || t == ItemTypeCombo
}

// BookingItem позиция бронирования (выбранная опция или комбо услуги)
// Принадлежит ровно одному бронированию; создаётся и изменяется
// только пока бронирование в изменяемом статусе
type BookingItem struct {
	ID        uuid.UUID
	BookingID uuid.UUID

	ItemType ItemType
	ItemID   uuid.UUID

	// Denormalized data for history
	ItemCode string
	ItemName string

	Quantity   int
	UnitPrice  float64
	TotalPrice float64

	CreatedAt time.Time
}

// ComputeTotal пересчитывает сумму позиции из цены и количества
func (i *BookingItem) ComputeTotal() {
	i.TotalPrice = i.UnitPrice * float64(i.Quantity)
}
