package conflict

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qhomebase/QH-BookingService/internal/domain"
	"github.com/qhomebase/QH-BookingService/internal/integrations/catalog"
	"github.com/qhomebase/QH-BookingService/pkg/types"
)

// monday — понедельник, попадает в окна с day_of_week=1
var monday = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

func ts(t *testing.T, s string) types.TimeString {
	t.Helper()
	v, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return v
}

func testService(capacity int) *catalog.Service {
	return &catalog.Service{
		ID: uuid.New(),
		Availabilities: []catalog.AvailabilityWindow{
			{
				DayOfWeek:   1,
				StartTime:   "09:00",
				EndTime:     "18:00",
				Capacity:    capacity,
				IsAvailable: true,
			},
		},
	}
}

func interval(t *testing.T, date time.Time, start, end string) domain.SlotInterval {
	t.Helper()
	return domain.SlotInterval{Date: date, Start: ts(t, start), End: ts(t, end)}
}

func bookedSlot(t *testing.T, bookingID uuid.UUID, date time.Time, start, end string) *domain.BookingSlot {
	t.Helper()
	return &domain.BookingSlot{
		ID:        uuid.New(),
		BookingID: bookingID,
		SlotDate:  date,
		StartTime: ts(t, start),
		EndTime:   ts(t, end),
	}
}

func TestDetector_Check_OK(t *testing.T) {
	d := NewDetector()

	err := d.Check(testService(1), []domain.SlotInterval{
		interval(t, monday, "10:00", "10:30"),
		interval(t, monday, "10:30", "11:00"),
	}, nil, nil)

	assert.NoError(t, err)
}

func TestDetector_Check_NoAvailability(t *testing.T) {
	d := NewDetector()
	service := &catalog.Service{ID: uuid.New()}

	err := d.Check(service, []domain.SlotInterval{interval(t, monday, "10:00", "10:30")}, nil, nil)

	assert.ErrorIs(t, err, ErrNoAvailability)

	// Пересечение внутри запроса специфичнее отсутствия окон
	err = d.Check(service, []domain.SlotInterval{
		interval(t, monday, "10:00", "10:30"),
		interval(t, monday, "10:15", "10:45"),
	}, nil, nil)

	assert.ErrorIs(t, err, ErrOverlapsWithinRequest)
}

func TestDetector_Check_OverlapWithinRequest(t *testing.T) {
	d := NewDetector()

	// Пересечение внутри запроса обнаруживается раньше остальных проверок,
	// даже когда интервалы лежат вне окон доступности
	err := d.Check(testService(1), []domain.SlotInterval{
		interval(t, monday, "20:00", "21:00"),
		interval(t, monday, "20:30", "21:30"),
	}, nil, nil)

	assert.ErrorIs(t, err, ErrOverlapsWithinRequest)
}

func TestDetector_Check_OutsideAvailability(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		name  string
		start string
		end   string
	}{
		{"before window", "08:00", "09:00"},
		{"after window", "18:00", "19:00"},
		{"crosses window start", "08:30", "09:30"},
		{"crosses window end", "17:30", "18:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := d.Check(testService(1), []domain.SlotInterval{
				interval(t, monday, tt.start, tt.end),
			}, nil, nil)
			assert.ErrorIs(t, err, ErrOutsideAvailability)
		})
	}

	// Другой день недели без окон
	tuesday := monday.AddDate(0, 0, 1)
	err := d.Check(testService(1), []domain.SlotInterval{
		interval(t, tuesday, "10:00", "11:00"),
	}, nil, nil)
	assert.ErrorIs(t, err, ErrOutsideAvailability)
}

func TestDetector_Check_AlreadyBooked(t *testing.T) {
	d := NewDetector()
	other := uuid.New()
	existing := []*domain.BookingSlot{
		bookedSlot(t, other, monday, "10:00", "10:30"),
	}

	err := d.Check(testService(1), []domain.SlotInterval{
		interval(t, monday, "10:00", "10:30"),
	}, existing, nil)

	assert.ErrorIs(t, err, ErrAlreadyBooked)
}

func TestDetector_Check_TouchingSlotsDoNotConflict(t *testing.T) {
	d := NewDetector()
	other := uuid.New()
	existing := []*domain.BookingSlot{
		bookedSlot(t, other, monday, "10:00", "10:30"),
	}

	// Граничащий интервал не считается пересечением
	err := d.Check(testService(1), []domain.SlotInterval{
		interval(t, monday, "10:30", "11:00"),
	}, existing, nil)

	assert.NoError(t, err)
}

func TestDetector_Check_CapacityAllowsParallelBookings(t *testing.T) {
	d := NewDetector()
	existing := []*domain.BookingSlot{
		bookedSlot(t, uuid.New(), monday, "10:00", "10:30"),
	}

	// Окно с вместимостью 2: одно занятое место не блокирует второе
	err := d.Check(testService(2), []domain.SlotInterval{
		interval(t, monday, "10:00", "10:30"),
	}, existing, nil)
	assert.NoError(t, err)

	existing = append(existing, bookedSlot(t, uuid.New(), monday, "10:00", "10:30"))
	err = d.Check(testService(2), []domain.SlotInterval{
		interval(t, monday, "10:00", "10:30"),
	}, existing, nil)
	assert.ErrorIs(t, err, ErrAlreadyBooked)
}

func TestDetector_Check_ExcludesOwnBooking(t *testing.T) {
	d := NewDetector()
	own := uuid.New()
	existing := []*domain.BookingSlot{
		bookedSlot(t, own, monday, "10:00", "10:30"),
	}

	// Слоты собственного бронирования не считаются при замене набора
	err := d.Check(testService(1), []domain.SlotInterval{
		interval(t, monday, "10:00", "10:30"),
	}, existing, &own)

	assert.NoError(t, err)
}

func TestDetector_CountBooked(t *testing.T) {
	d := NewDetector()
	existing := []*domain.BookingSlot{
		bookedSlot(t, uuid.New(), monday, "10:00", "10:30"),
		bookedSlot(t, uuid.New(), monday, "10:00", "10:30"),
		bookedSlot(t, uuid.New(), monday, "11:00", "11:30"),
	}

	assert.Equal(t, 2, d.CountBooked(interval(t, monday, "10:00", "10:30"), existing))
	assert.Equal(t, 0, d.CountBooked(interval(t, monday, "12:00", "12:30"), existing))
}
