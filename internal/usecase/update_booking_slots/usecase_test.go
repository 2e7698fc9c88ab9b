package update_booking_slots

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qhomebase/QH-BookingService/internal/domain"
	bookingRepo "github.com/qhomebase/QH-BookingService/internal/infra/storage/booking"
	"github.com/qhomebase/QH-BookingService/internal/integrations/catalog"
	"github.com/qhomebase/QH-BookingService/internal/service/bookings/models"
	"github.com/qhomebase/QH-BookingService/internal/service/conflict"
	"github.com/qhomebase/QH-BookingService/pkg/types"
)

type stubRepo struct {
	booking  *domain.Booking
	existing []*domain.BookingSlot

	calls    []string
	replaced []domain.SlotInterval
}

func (s *stubRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Booking, error) {
	s.calls = append(s.calls, "GetByID")
	if s.booking == nil || s.booking.ID != id {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return s.booking, nil
}

func (s *stubRepo) GetSlotsByServiceAndDateRange(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]*domain.BookingSlot, error) {
	s.calls = append(s.calls, "GetSlotsByServiceAndDateRange")
	return s.existing, nil
}

func (s *stubRepo) ReplaceSlots(_ context.Context, bookingID, serviceID uuid.UUID, intervals []domain.SlotInterval) error {
	s.calls = append(s.calls, "ReplaceSlots")
	s.replaced = intervals
	s.booking.Slots = make([]*domain.BookingSlot, 0, len(intervals))
	for _, interval := range intervals {
		s.booking.Slots = append(s.booking.Slots, &domain.BookingSlot{
			ID:        uuid.New(),
			BookingID: bookingID,
			ServiceID: serviceID,
			SlotDate:  interval.Date,
			StartTime: interval.Start,
			EndTime:   interval.End,
		})
	}
	return nil
}

func (s *stubRepo) UpdateSchedule(_ context.Context, _ uuid.UUID, date time.Time, start, end types.TimeString) error {
	s.calls = append(s.calls, "UpdateSchedule")
	s.booking.BookingDate = date
	s.booking.StartTime = start
	s.booking.EndTime = end
	return nil
}

type stubCatalog struct {
	svc *catalog.Service
	err error
}

func (s *stubCatalog) GetService(_ context.Context, _ uuid.UUID) (*catalog.Service, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.svc, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p fixedTimeProvider) Now() time.Time { return p.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func ts(t *testing.T, s string) types.TimeString {
	t.Helper()
	v, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return v
}

var (
	monday    = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	testClock = fixedTimeProvider{now: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)}
)

func mondayService() *catalog.Service {
	return &catalog.Service{
		ID:                     uuid.New(),
		Code:                   "meeting_room",
		RequiresScheduling:     true,
		SlotGranularityMinutes: 30,
		IsActive:               true,
		Availabilities: []catalog.AvailabilityWindow{
			{
				DayOfWeek:   1,
				StartTime:   types.TimeString("09:00"),
				EndTime:     types.TimeString("18:00"),
				Capacity:    1,
				IsAvailable: true,
			},
		},
	}
}

func pendingBooking(userID uuid.UUID, serviceID uuid.UUID) *domain.Booking {
	id := uuid.New()
	return &domain.Booking{
		ID:          id,
		UserID:      userID,
		UnitID:      uuid.New(),
		ServiceID:   serviceID,
		Status:      domain.StatusPending,
		BookingDate: monday,
		StartTime:   "10:00",
		EndTime:     "11:00",
		Slots: []*domain.BookingSlot{
			{ID: uuid.New(), BookingID: id, ServiceID: serviceID, SlotDate: monday, StartTime: "10:00", EndTime: "11:00"},
		},
	}
}

func newTestUseCase(repo *stubRepo, cat *stubCatalog) *UseCase {
	uc := NewUseCase(repo, cat, conflict.NewDetector(), fakeTxManager{}, nopLogger{})
	uc.timeProvider = testClock
	return uc
}

func slotsRequest(t *testing.T, bookingID uuid.UUID, actor models.Actor, windows ...[2]string) *Request {
	req := &Request{BookingID: bookingID, Actor: actor}
	for _, w := range windows {
		req.Slots = append(req.Slots, SlotRequest{Date: monday, StartTime: ts(t, w[0]), EndTime: ts(t, w[1])})
	}
	return req
}

func TestUseCase_Execute_ReplacesSlots(t *testing.T) {
	userID := uuid.New()
	service := mondayService()
	booking := pendingBooking(userID, service.ID)
	repo := &stubRepo{booking: booking}
	uc := newTestUseCase(repo, &stubCatalog{svc: service})

	actor := models.Actor{UserID: userID, Role: domain.RoleResident}
	resp, err := uc.Execute(context.Background(), slotsRequest(t, booking.ID, actor, [2]string{"14:00", "15:00"}, [2]string{"15:00", "16:00"}))
	require.NoError(t, err)

	require.Len(t, repo.replaced, 2)
	assert.Equal(t, "14:00", repo.replaced[0].Start.String())
	// Денормализованное расписание следует за новым набором
	assert.Equal(t, "14:00", resp.StartTime)
	assert.Equal(t, "16:00", resp.EndTime)
	assert.Equal(t, "2026-09-14", resp.BookingDate)
	require.Len(t, resp.Slots, 2)
}

func TestUseCase_Execute_ExcludesOwnSlots(t *testing.T) {
	userID := uuid.New()
	service := mondayService()
	booking := pendingBooking(userID, service.ID)
	// Единственный занятый слот в окне вместимости 1 - слот самого бронирования
	repo := &stubRepo{booking: booking, existing: booking.Slots}
	uc := newTestUseCase(repo, &stubCatalog{svc: service})

	actor := models.Actor{UserID: userID, Role: domain.RoleResident}
	_, err := uc.Execute(context.Background(), slotsRequest(t, booking.ID, actor, [2]string{"10:30", "11:30"}))
	require.NoError(t, err)
	require.Len(t, repo.replaced, 1)
}

func TestUseCase_Execute_ConflictKeepsOldSlots(t *testing.T) {
	userID := uuid.New()
	service := mondayService()
	booking := pendingBooking(userID, service.ID)
	repo := &stubRepo{
		booking: booking,
		existing: []*domain.BookingSlot{
			{ID: uuid.New(), BookingID: uuid.New(), ServiceID: service.ID, SlotDate: monday, StartTime: "14:00", EndTime: "15:00"},
		},
	}
	uc := newTestUseCase(repo, &stubCatalog{svc: service})

	actor := models.Actor{UserID: userID, Role: domain.RoleResident}
	_, err := uc.Execute(context.Background(), slotsRequest(t, booking.ID, actor, [2]string{"14:30", "15:30"}))
	assert.ErrorIs(t, err, conflict.ErrAlreadyBooked)

	// Всё-или-ничего: старый набор остаётся нетронутым
	assert.NotContains(t, repo.calls, "ReplaceSlots")
	assert.NotContains(t, repo.calls, "UpdateSchedule")
	assert.Equal(t, "10:00", booking.Slots[0].StartTime.String())
}

func TestUseCase_Execute_OverlapWithinRequest(t *testing.T) {
	userID := uuid.New()
	service := mondayService()
	booking := pendingBooking(userID, service.ID)
	repo := &stubRepo{booking: booking}
	uc := newTestUseCase(repo, &stubCatalog{svc: service})

	actor := models.Actor{UserID: userID, Role: domain.RoleResident}
	_, err := uc.Execute(context.Background(), slotsRequest(t, booking.ID, actor, [2]string{"09:00", "09:30"}, [2]string{"09:15", "09:45"}))
	assert.ErrorIs(t, err, conflict.ErrOverlapsWithinRequest)
	// Пересечение внутри запроса обнаруживается до обращений к хранилищу
	assert.Empty(t, repo.calls)
}

func TestUseCase_Execute_InvalidTransition(t *testing.T) {
	userID := uuid.New()
	service := mondayService()
	booking := pendingBooking(userID, service.ID)
	booking.Status = domain.StatusApproved
	repo := &stubRepo{booking: booking}
	uc := newTestUseCase(repo, &stubCatalog{svc: service})

	actor := models.Actor{UserID: userID, Role: domain.RoleResident}
	_, err := uc.Execute(context.Background(), slotsRequest(t, booking.ID, actor, [2]string{"14:00", "15:00"}))
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.NotContains(t, repo.calls, "ReplaceSlots")
}

func TestUseCase_Execute_AccessDenied(t *testing.T) {
	service := mondayService()
	booking := pendingBooking(uuid.New(), service.ID)
	uc := newTestUseCase(&stubRepo{booking: booking}, &stubCatalog{svc: service})

	actor := models.Actor{UserID: uuid.New(), Role: domain.RoleResident}
	_, err := uc.Execute(context.Background(), slotsRequest(t, booking.ID, actor, [2]string{"14:00", "15:00"}))
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestUseCase_Execute_NotFound(t *testing.T) {
	uc := newTestUseCase(&stubRepo{}, &stubCatalog{svc: mondayService()})

	actor := models.Actor{UserID: uuid.New(), Role: domain.RoleResident}
	_, err := uc.Execute(context.Background(), slotsRequest(t, uuid.New(), actor, [2]string{"14:00", "15:00"}))
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
