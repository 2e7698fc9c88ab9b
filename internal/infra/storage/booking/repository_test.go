package booking

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qhomebase/QH-BookingService/internal/domain"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func bookingRow(id, userID uuid.UUID) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(bookingColumns).AddRow(
		id.String(),
		userID.String(),
		uuid.New().String(),
		uuid.New().String(),
		time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		"10:00",
		"11:00",
		"pending",
		"unpaid",
		"meeting_room",
		"Переговорная",
		nil,
		nil,
		250.0,
		nil,
		nil,
		nil,
		true,
		now,
		nil,
		nil,
		nil,
		nil,
		now,
		now,
	)
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM bookings WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(bookingRow(id, userID))
	mock.ExpectQuery(`SELECT .+ FROM booking_items WHERE booking_id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "booking_id", "item_type", "item_id", "item_code",
			"item_name", "quantity", "unit_price", "total_price", "created_at",
		}).AddRow(
			uuid.New().String(), id.String(), "option", uuid.New().String(),
			"projector", "Проектор", 2, 50.0, 100.0, time.Now(),
		))
	mock.ExpectQuery(`SELECT .+ FROM booking_slots WHERE booking_id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "booking_id", "service_id", "slot_date", "start_time", "end_time", "created_at",
		}).AddRow(
			uuid.New().String(), id.String(), uuid.New().String(),
			time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC), "10:00", "11:00", time.Now(),
		))

	booking, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id, booking.ID)
	assert.Equal(t, userID, booking.UserID)
	assert.Equal(t, domain.StatusPending, booking.Status)
	assert.Equal(t, domain.PaymentUnpaid, booking.PaymentStatus)
	assert.Equal(t, "10:00", booking.StartTime.String())
	assert.Equal(t, 250.0, booking.TotalAmount)
	require.Len(t, booking.Items, 1)
	assert.Equal(t, domain.ItemTypeOption, booking.Items[0].ItemType)
	assert.Equal(t, 100.0, booking.Items[0].TotalPrice)
	require.Len(t, booking.Slots, 1)
	assert.Equal(t, "11:00", booking.Slots[0].EndTime.String())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM bookings WHERE id = \$1`).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectExec(`UPDATE bookings SET status = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(domain.StatusApproved, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), id, domain.StatusApproved)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectExec(`UPDATE bookings SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), id, domain.StatusApproved)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_AcceptTerms(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectExec(`UPDATE bookings SET status = \$1, terms_accepted = \$2, terms_accepted_at = NOW\(\)`).
		WithArgs(domain.StatusPending, true, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.AcceptTerms(context.Background(), id)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Cancel(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	t.Run("with payment cancellation", func(t *testing.T) {
		mock.ExpectExec(`UPDATE bookings SET .*payment_status`).
			WithArgs(domain.StatusCancelled, "plans changed", domain.PaymentCancelled, id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Cancel(context.Background(), id, "plans changed", true)
		assert.NoError(t, err)
	})

	t.Run("keeping payment status", func(t *testing.T) {
		mock.ExpectExec(`UPDATE bookings SET status = \$1, cancellation_reason = \$2, updated_at = NOW\(\)`).
			WithArgs(domain.StatusCancelled, "plans changed", id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Cancel(context.Background(), id, "plans changed", false)
		assert.NoError(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdatePayment(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()
	gateway := "VNPAY"
	txnRef := "abc123"
	paid := time.Now()

	mock.ExpectExec(`UPDATE bookings SET payment_status = \$1`).
		WithArgs(domain.PaymentPaid, gateway, txnRef, paid, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdatePayment(context.Background(), id, domain.PaymentPaid, &gateway, &txnRef, &paid)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
