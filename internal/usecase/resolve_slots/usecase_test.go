package resolve_slots

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qhomebase/QH-BookingService/internal/domain"
	"github.com/qhomebase/QH-BookingService/internal/integrations/catalog"
	"github.com/qhomebase/QH-BookingService/internal/service/conflict"
	"github.com/qhomebase/QH-BookingService/pkg/types"
)

// monday — понедельник, попадает в окна с day_of_week=1
var monday = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

type stubSlotRepo struct {
	slots []*domain.BookingSlot
	err   error
}

func (r *stubSlotRepo) GetSlotsByServiceAndDateRange(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]*domain.BookingSlot, error) {
	return r.slots, r.err
}

type stubCatalog struct {
	service *catalog.Service
	err     error
}

func (c *stubCatalog) GetService(_ context.Context, _ uuid.UUID) (*catalog.Service, error) {
	return c.service, c.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func hourlyService(granularity, capacity int) *catalog.Service {
	return &catalog.Service{
		ID:                     uuid.New(),
		Code:                   "GYM",
		RequiresScheduling:     true,
		SlotGranularityMinutes: granularity,
		Availabilities: []catalog.AvailabilityWindow{
			{
				DayOfWeek:   1,
				StartTime:   "09:00",
				EndTime:     "11:00",
				Capacity:    capacity,
				IsAvailable: true,
			},
		},
	}
}

func newTestUseCase(service *catalog.Service, slots []*domain.BookingSlot) *UseCase {
	return NewUseCase(
		&stubSlotRepo{slots: slots},
		&stubCatalog{service: service},
		conflict.NewDetector(),
		nopLogger{},
	)
}

func TestResolveSlots_GeneratesCandidatesFromWindows(t *testing.T) {
	uc := newTestUseCase(hourlyService(30, 1), nil)

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceID: uuid.New(),
		DateFrom:  monday,
		DateTo:    monday,
	})
	require.NoError(t, err)

	// Окно 09:00-11:00 с шагом 30 минут даёт 4 кандидата
	require.Len(t, resp.Slots, 4)
	assert.Equal(t, "09:00", resp.Slots[0].StartTime)
	assert.Equal(t, "09:30", resp.Slots[0].EndTime)
	assert.Equal(t, "10:30", resp.Slots[3].StartTime)
	assert.Equal(t, "11:00", resp.Slots[3].EndTime)

	for _, slot := range resp.Slots {
		assert.True(t, slot.Available)
		assert.Equal(t, 0, slot.BookedCount)
		assert.Equal(t, 1, slot.Capacity)
	}
}

func TestResolveSlots_FullSlotsReturnedAsUnavailable(t *testing.T) {
	start, _ := types.NewTimeStringFromString("09:00")
	end, _ := types.NewTimeStringFromString("09:30")
	booked := []*domain.BookingSlot{
		{
			ID:        uuid.New(),
			BookingID: uuid.New(),
			SlotDate:  monday,
			StartTime: start,
			EndTime:   end,
		},
	}
	uc := newTestUseCase(hourlyService(30, 1), booked)

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceID: uuid.New(),
		DateFrom:  monday,
		DateTo:    monday,
	})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 4)

	// Полностью занятый слот возвращается с Available=false, а не скрывается
	assert.False(t, resp.Slots[0].Available)
	assert.Equal(t, 1, resp.Slots[0].BookedCount)
	for _, slot := range resp.Slots[1:] {
		assert.True(t, slot.Available)
	}
}

func TestResolveSlots_MultiDayRangeOrdered(t *testing.T) {
	service := hourlyService(60, 1)
	service.Availabilities = append(service.Availabilities, catalog.AvailabilityWindow{
		DayOfWeek:   2,
		StartTime:   "14:00",
		EndTime:     "16:00",
		Capacity:    1,
		IsAvailable: true,
	})
	uc := newTestUseCase(service, nil)

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceID: uuid.New(),
		DateFrom:  monday,
		DateTo:    monday.AddDate(0, 0, 1),
	})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 4)

	assert.Equal(t, monday.Format(domain.DateFormat), resp.Slots[0].SlotDate)
	assert.Equal(t, monday.Format(domain.DateFormat), resp.Slots[1].SlotDate)
	tuesday := monday.AddDate(0, 0, 1).Format(domain.DateFormat)
	assert.Equal(t, tuesday, resp.Slots[2].SlotDate)
	assert.Equal(t, "14:00", resp.Slots[2].StartTime)
}

func TestResolveSlots_NoAvailability(t *testing.T) {
	service := &catalog.Service{ID: uuid.New(), RequiresScheduling: true}
	uc := newTestUseCase(service, nil)

	_, err := uc.Execute(context.Background(), &Request{
		ServiceID: uuid.New(),
		DateFrom:  monday,
		DateTo:    monday,
	})

	assert.ErrorIs(t, err, ErrNoAvailability)
}

func TestResolveSlots_ServiceNotFound(t *testing.T) {
	uc := NewUseCase(
		&stubSlotRepo{},
		&stubCatalog{err: catalog.ErrServiceNotFound},
		conflict.NewDetector(),
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), &Request{
		ServiceID: uuid.New(),
		DateFrom:  monday,
		DateTo:    monday,
	})

	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestResolveSlots_InvalidDateRange(t *testing.T) {
	uc := newTestUseCase(hourlyService(30, 1), nil)

	_, err := uc.Execute(context.Background(), &Request{
		ServiceID: uuid.New(),
		DateFrom:  monday,
		DateTo:    monday.AddDate(0, 0, -1),
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = uc.Execute(context.Background(), &Request{
		ServiceID: uuid.New(),
		DateFrom:  monday,
		DateTo:    monday.AddDate(0, 0, domain.MaxResolveRangeDays+1),
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestResolveSlots_WindowEndingAtMidnight(t *testing.T) {
	service := hourlyService(60, 1)
	service.Availabilities[0].StartTime = "22:00"
	service.Availabilities[0].EndTime = types.DayEnd
	uc := newTestUseCase(service, nil)

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceID: uuid.New(),
		DateFrom:  monday,
		DateTo:    monday,
	})
	require.NoError(t, err)

	// Окно до конца суток даёт последний кандидат с окончанием "24:00"
	require.Len(t, resp.Slots, 2)
	last := resp.Slots[1]
	assert.Equal(t, "23:00", last.StartTime)
	assert.Equal(t, types.DayEnd.String(), last.EndTime)
	assert.True(t, last.Available)
}
