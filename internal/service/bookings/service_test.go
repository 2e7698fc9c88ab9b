package bookings

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
	"github.com/qhomebase/QH-BookingService/pkg/ptr"
)

// fakeRepo репозиторий в памяти для тестов сервиса
// Мутации применяются к хранимой модели так же, как это делает SQL слой
type fakeRepo struct {
	bookings map[uuid.UUID]*domain.Booking
}

func newFakeRepo(bookings ...*domain.Booking) *fakeRepo {
	r := &fakeRepo{bookings: make(map[uuid.UUID]*domain.Booking)}
	for _, b := range bookings {
		r.bookings[b.ID] = b
	}
	return r
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return b, nil
}

func (r *fakeRepo) GetByUserID(_ context.Context, userID uuid.UUID, status *domain.BookingStatus) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if b.UserID != userID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (r *fakeRepo) GetActiveUnpaidByUser(_ context.Context, userID uuid.UUID) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if b.UserID == userID && b.IsActive() && b.HasActiveUnpaidPayment() && b.TotalAmount > 0 {
			result = append(result, b)
		}
	}
	return result, nil
}

func (r *fakeRepo) Search(_ context.Context, filter domain.SearchFilter) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if filter.UserID != nil && b.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (r *fakeRepo) AcceptTerms(_ context.Context, id uuid.UUID) error {
	b := r.bookings[id]
	now := time.Now()
	b.Status = domain.StatusPending
	b.TermsAccepted = true
	b.TermsAcceptedAt = &now
	return nil
}

func (r *fakeRepo) Cancel(_ context.Context, id uuid.UUID, reason string, cancelPayment bool) error {
	b := r.bookings[id]
	b.Status = domain.StatusCancelled
	if reason != "" {
		b.CancellationReason = &reason
	}
	if cancelPayment {
		b.PaymentStatus = domain.PaymentCancelled
	}
	return nil
}

func (r *fakeRepo) Approve(_ context.Context, id uuid.UUID, approvedBy uuid.UUID, adminNote *string) error {
	b := r.bookings[id]
	now := time.Now()
	b.Status = domain.StatusApproved
	b.ApprovedBy = &approvedBy
	b.ApprovedAt = &now
	b.AdminNote = adminNote
	return nil
}

func (r *fakeRepo) Reject(_ context.Context, id uuid.UUID, reason string, cancelPayment bool) error {
	b := r.bookings[id]
	b.Status = domain.StatusRejected
	b.CancellationReason = &reason
	if cancelPayment {
		b.PaymentStatus = domain.PaymentCancelled
	}
	return nil
}

func (r *fakeRepo) Complete(_ context.Context, id uuid.UUID) error {
	r.bookings[id].Status = domain.StatusCompleted
	return nil
}

func (r *fakeRepo) UpdatePayment(_ context.Context, id uuid.UUID, status domain.PaymentStatus, gateway, txnRef *string, paymentDate *time.Time) error {
	b := r.bookings[id]
	b.PaymentStatus = status
	if gateway != nil {
		b.PaymentGateway = gateway
	}
	if txnRef != nil {
		b.PaymentTxnRef = txnRef
	}
	if paymentDate != nil {
		b.PaymentDate = paymentDate
	}
	return nil
}

func (r *fakeRepo) UpdateTotalAmount(_ context.Context, id uuid.UUID, total float64) error {
	r.bookings[id].TotalAmount = total
	return nil
}

func (r *fakeRepo) InsertItem(_ context.Context, item *domain.BookingItem) (*domain.BookingItem, error) {
	item.ID = uuid.New()
	b := r.bookings[item.BookingID]
	b.Items = append(b.Items, item)
	return item, nil
}

func (r *fakeRepo) GetItem(_ context.Context, bookingID, itemID uuid.UUID) (*domain.BookingItem, error) {
	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	for _, item := range b.Items {
		if item.ID == itemID {
			return item, nil
		}
	}
	return nil, bookingRepo.ErrItemNotFound
}

func (r *fakeRepo) UpdateItemQuantity(_ context.Context, bookingID, itemID uuid.UUID, quantity int, totalPrice float64) error {
	item, err := r.GetItem(context.Background(), bookingID, itemID)
	if err != nil {
		return err
	}
	item.Quantity = quantity
	item.TotalPrice = totalPrice
	return nil
}

func (r *fakeRepo) DeleteItem(_ context.Context, bookingID, itemID uuid.UUID) error {
	b := r.bookings[bookingID]
	for i, item := range b.Items {
		if item.ID == itemID {
			b.Items = append(b.Items[:i], b.Items[i+1:]...)
			return nil
		}
	}
	return bookingRepo.ErrItemNotFound
}

type fakeCatalog struct {
	service *catalog.Service
	err     error
}

func (c *fakeCatalog) GetService(_ context.Context, _ uuid.UUID) (*catalog.Service, error) {
	return c.service, c.err
}

type fakeNotifier struct {
	keys []string
}

func (n *fakeNotifier) Publish(_ context.Context, key string, _ interface{}) {
	n.keys = append(n.keys, key)
}

// fakeTxManager выполняет функцию без реальной транзакции
type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestService(repo *fakeRepo, notifier *fakeNotifier) *Service {
	return NewService(repo, &fakeCatalog{}, notifier, fakeTxManager{}, nopLogger{})
}

func pendingBooking(userID uuid.UUID) *domain.Booking {
	return &domain.Booking{
		ID:            uuid.New(),
		UserID:        userID,
		UnitID:        uuid.New(),
		ServiceID:     uuid.New(),
		BookingDate:   time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentUnpaid,
		ServiceCode:   "GYM",
		ServiceName:   "Gym session",
		TotalAmount:   100,
	}
}

func resident(userID uuid.UUID) models.Actor {
	return models.Actor{UserID: userID, Role: domain.RoleResident}
}

func admin() models.Actor {
	return models.Actor{UserID: uuid.New(), Role: domain.RoleAdmin}
}

func TestService_GetByID_AccessControl(t *testing.T) {
	userID := uuid.New()
	booking := pendingBooking(userID)
	svc := newTestService(newFakeRepo(booking), &fakeNotifier{})

	// Владелец видит своё бронирование
	resp, err := svc.GetByID(context.Background(), booking.ID, resident(userID))
	require.NoError(t, err)
	assert.Equal(t, booking.ID, resp.ID)

	// Чужой резидент - нет
	_, err = svc.GetByID(context.Background(), booking.ID, resident(uuid.New()))
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Администратор видит любое
	_, err = svc.GetByID(context.Background(), booking.ID, admin())
	assert.NoError(t, err)

	// Несуществующее бронирование
	_, err = svc.GetByID(context.Background(), uuid.New(), admin())
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_AcceptTerms(t *testing.T) {
	userID := uuid.New()
	booking := pendingBooking(userID)
	booking.Status = domain.StatusPendingTerms
	svc := newTestService(newFakeRepo(booking), &fakeNotifier{})

	resp, err := svc.AcceptTerms(context.Background(), booking.ID, resident(userID))
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.True(t, resp.TermsAccepted)

	// Повторное принятие условий из pending запрещено
	_, err = svc.AcceptTerms(context.Background(), booking.ID, resident(userID))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_AcceptTerms_AdminForbidden(t *testing.T) {
	userID := uuid.New()
	booking := pendingBooking(userID)
	booking.Status = domain.StatusPendingTerms
	svc := newTestService(newFakeRepo(booking), &fakeNotifier{})

	// Условия принимает только сам резидент, администратору переход не разрешён
	_, err := svc.AcceptTerms(context.Background(), booking.ID, admin())
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, domain.StatusPendingTerms, booking.Status)
}

func TestService_Cancel(t *testing.T) {
	userID := uuid.New()
	booking := pendingBooking(userID)
	notifier := &fakeNotifier{}
	svc := newTestService(newFakeRepo(booking), notifier)

	req := &models.CancelBookingRequest{CancellationReason: ptr.Ptr("plans changed")}
	resp, err := svc.Cancel(context.Background(), booking.ID, resident(userID), req)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	// Незакрытая оплата переводится в cancelled
	assert.Equal(t, string(domain.PaymentCancelled), resp.PaymentStatus)
	assert.Len(t, notifier.keys, 1)

	// Повторная отмена идемпотентна: ошибки нет, событие не публикуется
	resp, err = svc.Cancel(context.Background(), booking.ID, resident(userID), nil)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Len(t, notifier.keys, 1)
}

func TestService_Cancel_AdminForbidden(t *testing.T) {
	userID := uuid.New()
	booking := pendingBooking(userID)
	notifier := &fakeNotifier{}
	svc := newTestService(newFakeRepo(booking), notifier)

	// Отмена от имени резидента администратору не разрешена таблицей переходов
	_, err := svc.Cancel(context.Background(), booking.ID, admin(), nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, domain.StatusPending, booking.Status)
	assert.Empty(t, notifier.keys)
}

func TestService_Cancel_PaidPaymentKept(t *testing.T) {
	userID := uuid.New()
	booking := pendingBooking(userID)
	booking.PaymentStatus = domain.PaymentPaid
	svc := newTestService(newFakeRepo(booking), &fakeNotifier{})

	resp, err := svc.Cancel(context.Background(), booking.ID, resident(userID), nil)
	require.NoError(t, err)
	// Оплаченный статус не затирается при отмене
	assert.Equal(t, string(domain.PaymentPaid), resp.PaymentStatus)
}

func TestService_Cancel_ApprovedForbidden(t *testing.T) {
	userID := uuid.New()
	booking := pendingBooking(userID)
	booking.Status = domain.StatusApproved
	svc := newTestService(newFakeRepo(booking), &fakeNotifier{})

	_, err := svc.Cancel(context.Background(), booking.ID, resident(userID), nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_Approve(t *testing.T) {
	booking := pendingBooking(uuid.New())
	svc := newTestService(newFakeRepo(booking), &fakeNotifier{})

	resp, err := svc.Approve(context.Background(), booking.ID, admin(), &models.ApproveBookingRequest{
		AdminNote: ptr.Ptr("ok"),
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusApproved), resp.Status)
	require.NotNil(t, resp.ApprovedBy)

	// Повторное подтверждение запрещено
	_, err = svc.Approve(context.Background(), booking.ID, admin(), nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_Approve_ResidentForbidden(t *testing.T) {
	booking := pendingBooking(uuid.New())
	svc := newTestService(newFakeRepo(booking), &fakeNotifier{})

	_, err := svc.Approve(context.Background(), booking.ID, resident(booking.UserID), nil)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_Reject_RequiresReason(t *testing.T) {
	booking := pendingBooking(uuid.New())
	svc := newTestService(newFakeRepo(booking), &fakeNotifier{})

	_, err := svc.Reject(context.Background(), booking.ID, admin(), nil)
	assert.ErrorIs(t, err, ErrReasonRequired)

	_, err = svc.Reject(context.Background(), booking.ID, admin(), &models.RejectBookingRequest{})
	assert.ErrorIs(t, err, ErrReasonRequired)

	resp, err := svc.Reject(context.Background(), booking.ID, admin(), &models.RejectBookingRequest{
		Reason: "room unavailable",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusRejected), resp.Status)
	assert.Equal(t, string(domain.PaymentCancelled), resp.PaymentStatus)
}

func TestService_Complete(t *testing.T) {
	booking := pendingBooking(uuid.New())
	booking.Status = domain.StatusApproved
	svc := newTestService(newFakeRepo(booking), &fakeNotifier{})

	resp, err := svc.Complete(context.Background(), booking.ID, admin())
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), resp.Status)

	// Завершённое бронирование терминально
	_, err = svc.Complete(context.Background(), booking.ID, admin())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_UpdatePaymentStatus(t *testing.T) {
	booking := pendingBooking(uuid.New())
	svc := newTestService(newFakeRepo(booking), &fakeNotifier{})

	resp, err := svc.UpdatePaymentStatus(context.Background(), booking.ID, admin(), &models.UpdatePaymentRequest{
		PaymentStatus: "paid",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.PaymentPaid), resp.PaymentStatus)
	// Статус самого бронирования не меняется
	assert.Equal(t, string(domain.StatusPending), resp.Status)

	_, err = svc.UpdatePaymentStatus(context.Background(), booking.ID, admin(), &models.UpdatePaymentRequest{
		PaymentStatus: "bogus",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Search_AdminOnly(t *testing.T) {
	userID := uuid.New()
	booking := pendingBooking(userID)
	svc := newTestService(newFakeRepo(booking), &fakeNotifier{})

	_, err := svc.Search(context.Background(), &models.SearchBookingsRequest{}, resident(userID))
	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err := svc.Search(context.Background(), &models.SearchBookingsRequest{UserID: &userID}, admin())
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)
}

func TestService_GetUserBookings_AccessControl(t *testing.T) {
	userID := uuid.New()
	booking := pendingBooking(userID)
	svc := newTestService(newFakeRepo(booking), &fakeNotifier{})

	_, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: userID}, resident(uuid.New()))
	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: userID}, resident(userID))
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)

	badStatus := "bogus"
	_, err = svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: userID, Status: &badStatus}, resident(userID))
	assert.ErrorIs(t, err, ErrInvalidInput)
}
