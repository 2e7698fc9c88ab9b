package payment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/qhomebase/QH-BookingService/internal/domain"
	"github.com/qhomebase/QH-BookingService/pkg/dbmetrics"
	"github.com/qhomebase/QH-BookingService/pkg/psqlbuilder"
)

// Код ошибки Postgres unique_violation
const pgUniqueViolation = "23505"

var attemptColumns = []string{
	"id",
	"booking_id",
	"txn_ref",
	"amount",
	"gateway",
	"outcome",
	"response_code",
	"signature_valid",
	"created_at",
	"finalized_at",
}

// Repository репозиторий для работы с платёжными попытками
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория платёжных попыток
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую платёжную попытку в статусе pending
// txn_ref защищён уникальным индексом: гонка на один reference
// возвращает ErrDuplicateTxnRef
func (r *Repository) Create(ctx context.Context, attempt *domain.PaymentAttempt) (*domain.PaymentAttempt, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payment_attempts").
		Columns(
			"booking_id",
			"txn_ref",
			"amount",
			"gateway",
			"outcome",
		).
		Values(
			attempt.BookingID,
			attempt.TxnRef,
			attempt.Amount,
			attempt.Gateway,
			attempt.Outcome,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&attempt.ID, &createdAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == pgUniqueViolation {
			return nil, ErrDuplicateTxnRef
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	attempt.CreatedAt = createdAt.Time
	return attempt, nil
}

// GetByTxnRef получает платёжную попытку по transaction reference
// Внутри транзакции строка блокируется FOR UPDATE: обработка callback-а
// сериализуется с повторными доставками того же reference
func (r *Repository) GetByTxnRef(ctx context.Context, txnRef string) (*domain.PaymentAttempt, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(attemptColumns...).
		From("payment_attempts").
		Where(squirrel.Eq{"txn_ref": txnRef})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTxnRef - build select query: %v", ErrBuildQuery, err)
	}

	attempt, err := r.scanAttempt(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAttemptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTxnRef - scan attempt: %v", ErrScanRow, err)
	}

	return attempt, nil
}

// GetByBookingID получает платёжные попытки бронирования (новые первыми)
func (r *Repository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*domain.PaymentAttempt, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(attemptColumns...).
		From("payment_attempts").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("created_at DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	attempts := make([]*domain.PaymentAttempt, 0)
	for rows.Next() {
		attempt, err := r.scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByBookingID - scan row: %v", ErrScanRow, err)
		}
		attempts = append(attempts, attempt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - rows error: %v", ErrScanRow, err)
	}

	return attempts, nil
}

// Finalize закрывает платёжную попытку итогом callback-а
func (r *Repository) Finalize(ctx context.Context, id uuid.UUID, outcome domain.PaymentOutcome, responseCode string, signatureValid bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("payment_attempts").
		Set("outcome", outcome).
		Set("response_code", responseCode).
		Set("signature_valid", signatureValid).
		Set("finalized_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Finalize - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Finalize - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Finalize - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAttemptNotFound
	}

	return nil
}

// rowScanner покрывает *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanAttempt сканирует одну строку payment_attempts
func (r *Repository) scanAttempt(row rowScanner) (*domain.PaymentAttempt, error) {
	var attempt domain.PaymentAttempt
	var createdAt sql.NullTime

	err := row.Scan(
		&attempt.ID,
		&attempt.BookingID,
		&attempt.TxnRef,
		&attempt.Amount,
		&attempt.Gateway,
		&attempt.Outcome,
		&attempt.ResponseCode,
		&attempt.SignatureValid,
		&createdAt,
		&attempt.FinalizedAt,
	)
	if err != nil {
		return nil, err
	}

	attempt.CreatedAt = createdAt.Time
	return &attempt, nil
}
