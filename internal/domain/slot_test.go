package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qhomebase/QH-BookingService/pkg/types"
)

func mustTime(t *testing.T, s string) types.TimeString {
	t.Helper()
	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

func TestIntervalsOverlap(t *testing.T) {
	tests := []struct {
		name   string
		aStart string
		aEnd   string
		bStart string
		bEnd   string
		want   bool
	}{
		{"partial overlap", "11:30", "12:00", "11:20", "11:40", true},
		{"contained", "10:00", "12:00", "10:30", "11:00", true},
		{"identical", "10:00", "11:00", "10:00", "11:00", true},
		{"touching end to start", "11:00", "11:30", "11:30", "12:00", false},
		{"touching start to end", "11:30", "12:00", "11:00", "11:30", false},
		{"disjoint", "09:00", "10:00", "14:00", "15:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IntervalsOverlap(
				mustTime(t, tt.aStart), mustTime(t, tt.aEnd),
				mustTime(t, tt.bStart), mustTime(t, tt.bEnd),
			)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlotInterval_Overlaps_DifferentDays(t *testing.T) {
	a := SlotInterval{
		Date:  time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		Start: mustTime(t, "10:00"),
		End:   mustTime(t, "11:00"),
	}
	b := SlotInterval{
		Date:  time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		Start: mustTime(t, "10:00"),
		End:   mustTime(t, "11:00"),
	}

	assert.False(t, a.Overlaps(b))
	assert.True(t, a.Overlaps(a))
}

func TestCandidateSlot_Available(t *testing.T) {
	slot := &CandidateSlot{BookedCount: 0, Capacity: 1}
	assert.True(t, slot.Available())

	slot.BookedCount = 1
	assert.False(t, slot.Available())
}

func TestBooking_HasActiveUnpaidPayment(t *testing.T) {
	b := &Booking{PaymentStatus: PaymentUnpaid}
	assert.True(t, b.HasActiveUnpaidPayment())

	b.PaymentStatus = PaymentPending
	assert.True(t, b.HasActiveUnpaidPayment())

	b.PaymentStatus = PaymentCancelled
	assert.False(t, b.HasActiveUnpaidPayment())

	b.PaymentStatus = PaymentPaid
	assert.False(t, b.HasActiveUnpaidPayment())
}
