package initiate_payment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qhomebase/QH-BookingService/internal/domain"
	bookingRepo "github.com/qhomebase/QH-BookingService/internal/infra/storage/booking"
	"github.com/qhomebase/QH-BookingService/internal/service/bookings/models"
)

type stubBookingRepo struct {
	booking *domain.Booking

	updatedStatus *domain.PaymentStatus
	updatedTxnRef *string
}

func (s *stubBookingRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Booking, error) {
	if s.booking == nil || s.booking.ID != id {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return s.booking, nil
}

func (s *stubBookingRepo) UpdatePayment(_ context.Context, _ uuid.UUID, status domain.PaymentStatus, _, txnRef *string, _ *time.Time) error {
	s.updatedStatus = &status
	s.updatedTxnRef = txnRef
	return nil
}

type stubPaymentRepo struct {
	attempts []*domain.PaymentAttempt
}

func (s *stubPaymentRepo) Create(_ context.Context, attempt *domain.PaymentAttempt) (*domain.PaymentAttempt, error) {
	attempt.ID = uuid.New()
	s.attempts = append(s.attempts, attempt)
	return attempt, nil
}

type stubGateway struct{}

func (stubGateway) BuildPaymentUrl(txnRef string, _ float64, _, _, _ string) (string, error) {
	return "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html?vnp_TxnRef=" + txnRef, nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func payableBooking(userID uuid.UUID) *domain.Booking {
	return &domain.Booking{
		ID:            uuid.New(),
		UserID:        userID,
		Status:        domain.StatusApproved,
		PaymentStatus: domain.PaymentUnpaid,
		ServiceCode:   "meeting_room",
		TotalAmount:   250,
	}
}

func newTestUseCase(repo *stubBookingRepo, payments *stubPaymentRepo) *UseCase {
	return NewUseCase(repo, payments, stubGateway{}, fakeTxManager{}, "https://app.example.com/payments/return", nopLogger{})
}

func TestUseCase_Execute_HappyPath(t *testing.T) {
	userID := uuid.New()
	booking := payableBooking(userID)
	repo := &stubBookingRepo{booking: booking}
	payments := &stubPaymentRepo{}
	uc := newTestUseCase(repo, payments)

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID: booking.ID,
		Actor:     models.Actor{UserID: userID, Role: domain.RoleResident},
		ClientIP:  "10.0.0.1",
	})
	require.NoError(t, err)

	assert.Equal(t, booking.ID, resp.BookingID)
	assert.Equal(t, 250.0, resp.Amount)
	assert.NotEmpty(t, resp.TxnRef)
	assert.Contains(t, resp.PaymentURL, resp.TxnRef)

	require.Len(t, payments.attempts, 1)
	attempt := payments.attempts[0]
	assert.Equal(t, booking.ID, attempt.BookingID)
	assert.Equal(t, resp.TxnRef, attempt.TxnRef)
	assert.Equal(t, "VNPAY", attempt.Gateway)
	assert.Equal(t, domain.OutcomePending, attempt.Outcome)

	require.NotNil(t, repo.updatedStatus)
	assert.Equal(t, domain.PaymentPending, *repo.updatedStatus)
	require.NotNil(t, repo.updatedTxnRef)
	assert.Equal(t, resp.TxnRef, *repo.updatedTxnRef)
}

func TestUseCase_Execute_FreshTxnRefPerAttempt(t *testing.T) {
	userID := uuid.New()
	booking := payableBooking(userID)
	payments := &stubPaymentRepo{}
	uc := newTestUseCase(&stubBookingRepo{booking: booking}, payments)

	req := &Request{BookingID: booking.ID, Actor: models.Actor{UserID: userID, Role: domain.RoleResident}}

	first, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first.TxnRef, second.TxnRef)
	assert.Len(t, payments.attempts, 2)
}

func TestUseCase_Execute_NotFound(t *testing.T) {
	uc := newTestUseCase(&stubBookingRepo{}, &stubPaymentRepo{})

	_, err := uc.Execute(context.Background(), &Request{
		BookingID: uuid.New(),
		Actor:     models.Actor{UserID: uuid.New(), Role: domain.RoleResident},
	})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestUseCase_Execute_AccessDenied(t *testing.T) {
	booking := payableBooking(uuid.New())
	uc := newTestUseCase(&stubBookingRepo{booking: booking}, &stubPaymentRepo{})

	_, err := uc.Execute(context.Background(), &Request{
		BookingID: booking.ID,
		Actor:     models.Actor{UserID: uuid.New(), Role: domain.RoleResident},
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestUseCase_Execute_AdminCanInitiate(t *testing.T) {
	booking := payableBooking(uuid.New())
	uc := newTestUseCase(&stubBookingRepo{booking: booking}, &stubPaymentRepo{})

	_, err := uc.Execute(context.Background(), &Request{
		BookingID: booking.ID,
		Actor:     models.Actor{UserID: uuid.New(), Role: domain.RoleAdmin},
	})
	assert.NoError(t, err)
}

func TestUseCase_Execute_AlreadyPaid(t *testing.T) {
	userID := uuid.New()
	booking := payableBooking(userID)
	booking.PaymentStatus = domain.PaymentPaid
	payments := &stubPaymentRepo{}
	uc := newTestUseCase(&stubBookingRepo{booking: booking}, payments)

	_, err := uc.Execute(context.Background(), &Request{
		BookingID: booking.ID,
		Actor:     models.Actor{UserID: userID, Role: domain.RoleResident},
	})
	assert.ErrorIs(t, err, ErrAlreadyPaid)
	assert.Empty(t, payments.attempts)
}

func TestUseCase_Execute_ClosedBooking(t *testing.T) {
	for _, status := range []domain.BookingStatus{domain.StatusCancelled, domain.StatusRejected} {
		t.Run(string(status), func(t *testing.T) {
			userID := uuid.New()
			booking := payableBooking(userID)
			booking.Status = status
			uc := newTestUseCase(&stubBookingRepo{booking: booking}, &stubPaymentRepo{})

			_, err := uc.Execute(context.Background(), &Request{
				BookingID: booking.ID,
				Actor:     models.Actor{UserID: userID, Role: domain.RoleResident},
			})
			assert.ErrorIs(t, err, ErrBookingClosed)
		})
	}
}

func TestUseCase_Execute_NothingToPay(t *testing.T) {
	userID := uuid.New()
	booking := payableBooking(userID)
	booking.TotalAmount = 0
	uc := newTestUseCase(&stubBookingRepo{booking: booking}, &stubPaymentRepo{})

	_, err := uc.Execute(context.Background(), &Request{
		BookingID: booking.ID,
		Actor:     models.Actor{UserID: userID, Role: domain.RoleResident},
	})
	assert.ErrorIs(t, err, ErrNothingToPay)
}

func TestUseCase_Execute_MissingBookingID(t *testing.T) {
	uc := newTestUseCase(&stubBookingRepo{}, &stubPaymentRepo{})

	_, err := uc.Execute(context.Background(), &Request{
		Actor: models.Actor{UserID: uuid.New(), Role: domain.RoleResident},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
