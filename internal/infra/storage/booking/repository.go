package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/qhomebase/QH-BookingService/internal/domain"
	"github.com/qhomebase/QH-BookingService/pkg/dbmetrics"
	"github.com/qhomebase/QH-BookingService/pkg/psqlbuilder"
	"github.com/qhomebase/QH-BookingService/pkg/types"
)

// Колонки таблицы bookings в порядке сканирования
var bookingColumns = []string{
	"id",
	"user_id",
	"unit_id",
	"service_id",
	"booking_date",
	"start_time",
	"end_time",
	"status",
	"payment_status",
	"service_code",
	"service_name",
	"number_of_people",
	"purpose",
	"total_amount",
	"payment_date",
	"payment_gateway",
	"payment_txn_ref",
	"terms_accepted",
	"terms_accepted_at",
	"cancellation_reason",
	"admin_note",
	"approved_by",
	"approved_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями, их позициями и слотами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает бронирование вместе с позициями и слотами
// Обязан вызываться внутри транзакции (через txmanager): вставка идёт
// в три таблицы и должна быть атомарной
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"user_id",
			"unit_id",
			"service_id",
			"booking_date",
			"start_time",
			"end_time",
			"status",
			"payment_status",
			"service_code",
			"service_name",
			"number_of_people",
			"purpose",
			"total_amount",
			"terms_accepted",
			"terms_accepted_at",
		).
		Values(
			booking.UserID,
			booking.UnitID,
			booking.ServiceID,
			booking.BookingDate,
			booking.StartTime,
			booking.EndTime,
			booking.Status,
			booking.PaymentStatus,
			booking.ServiceCode,
			booking.ServiceName,
			booking.NumberOfPeople,
			booking.Purpose,
			booking.TotalAmount,
			booking.TermsAccepted,
			booking.TermsAcceptedAt,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	for _, item := range booking.Items {
		item.BookingID = booking.ID
		if _, err := r.InsertItem(ctx, item); err != nil {
			return nil, err
		}
	}

	for _, slot := range booking.Slots {
		slot.BookingID = booking.ID
		slot.ServiceID = booking.ServiceID
		if err := r.insertSlot(ctx, executor, slot); err != nil {
			return nil, err
		}
	}

	return booking, nil
}

// GetByID получает бронирование по ID вместе с позициями и слотами
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	if err := r.loadItems(ctx, booking); err != nil {
		return nil, err
	}
	if err := r.loadSlots(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

// GetByUserID получает список бронирований пользователя (без позиций и слотов)
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID uuid.UUID, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("booking_date DESC, start_time DESC")

	// Фильтрация по статусу, если указан
	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetActiveUnpaidByUser получает незакрытые неоплаченные бронирования пользователя
// Используется при создании нового бронирования: незакрытая оплата блокирует создание
func (r *Repository) GetActiveUnpaidByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	activeStatuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		activeStatuses[i] = string(s)
	}

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"status": activeStatuses}).
		Where(squirrel.Eq{"payment_status": []string{
			string(domain.PaymentUnpaid),
			string(domain.PaymentPending),
		}}).
		Where(squirrel.Gt{"total_amount": 0}).
		OrderBy("created_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveUnpaidByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveUnpaidByUser - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// Search получает бронирования по административному фильтру (без позиций и слотов)
func (r *Repository) Search(ctx context.Context, filter domain.SearchFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		OrderBy("booking_date DESC, start_time DESC")

	if filter.UserID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.ServiceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *filter.ServiceID})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": *filter.EndDate})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Search - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Search - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error {
	return r.execUpdate(ctx, "UpdateStatus", psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// AcceptTerms фиксирует принятие условий и переводит бронирование в pending
func (r *Repository) AcceptTerms(ctx context.Context, id uuid.UUID) error {
	return r.execUpdate(ctx, "AcceptTerms", psqlbuilder.Update("bookings").
		Set("status", domain.StatusPending).
		Set("terms_accepted", true).
		Set("terms_accepted_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// Cancel отменяет бронирование с указанием причины
// Если cancelPayment == true, платёжный статус также переводится в cancelled
func (r *Repository) Cancel(ctx context.Context, id uuid.UUID, reason string, cancelPayment bool) error {
	updateBuilder := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if cancelPayment {
		updateBuilder = updateBuilder.Set("payment_status", domain.PaymentCancelled)
	}

	return r.execUpdate(ctx, "Cancel", updateBuilder)
}

// Approve подтверждает бронирование администратором
func (r *Repository) Approve(ctx context.Context, id uuid.UUID, approvedBy uuid.UUID, adminNote *string) error {
	updateBuilder := psqlbuilder.Update("bookings").
		Set("status", domain.StatusApproved).
		Set("approved_by", approvedBy).
		Set("approved_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if adminNote != nil {
		updateBuilder = updateBuilder.Set("admin_note", *adminNote)
	}

	return r.execUpdate(ctx, "Approve", updateBuilder)
}

// Reject отклоняет бронирование администратором с обязательной причиной
// Если cancelPayment == true, платёжный статус также переводится в cancelled
func (r *Repository) Reject(ctx context.Context, id uuid.UUID, reason string, cancelPayment bool) error {
	updateBuilder := psqlbuilder.Update("bookings").
		Set("status", domain.StatusRejected).
		Set("cancellation_reason", reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if cancelPayment {
		updateBuilder = updateBuilder.Set("payment_status", domain.PaymentCancelled)
	}

	return r.execUpdate(ctx, "Reject", updateBuilder)
}

// Complete помечает бронирование как завершённое
func (r *Repository) Complete(ctx context.Context, id uuid.UUID) error {
	return r.execUpdate(ctx, "Complete", psqlbuilder.Update("bookings").
		Set("status", domain.StatusCompleted).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// UpdatePayment обновляет платёжные поля бронирования
// paymentDate/gateway/txnRef устанавливаются только при ненулевых значениях
func (r *Repository) UpdatePayment(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, gateway, txnRef *string, paymentDate *time.Time) error {
	updateBuilder := psqlbuilder.Update("bookings").
		Set("payment_status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if gateway != nil {
		updateBuilder = updateBuilder.Set("payment_gateway", *gateway)
	}
	if txnRef != nil {
		updateBuilder = updateBuilder.Set("payment_txn_ref", *txnRef)
	}
	if paymentDate != nil {
		updateBuilder = updateBuilder.Set("payment_date", *paymentDate)
	}

	return r.execUpdate(ctx, "UpdatePayment", updateBuilder)
}

// UpdateTotalAmount пересчитанная сумма бронирования после изменения позиций
func (r *Repository) UpdateTotalAmount(ctx context.Context, id uuid.UUID, total float64) error {
	return r.execUpdate(ctx, "UpdateTotalAmount", psqlbuilder.Update("bookings").
		Set("total_amount", total).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// UpdateSchedule обновляет денормализованные дату и время бронирования
// Вызывается вместе с ReplaceSlots внутри транзакции
func (r *Repository) UpdateSchedule(ctx context.Context, id uuid.UUID, date time.Time, start, end types.TimeString) error {
	return r.execUpdate(ctx, "UpdateSchedule", psqlbuilder.Update("bookings").
		Set("booking_date", date).
		Set("start_time", start).
		Set("end_time", end).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// --- Позиции бронирования ---

// InsertItem добавляет позицию к бронированию
func (r *Repository) InsertItem(ctx context.Context, item *domain.BookingItem) (*domain.BookingItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_items").
		Columns(
			"booking_id",
			"item_type",
			"item_id",
			"item_code",
			"item_name",
			"quantity",
			"unit_price",
			"total_price",
		).
		Values(
			item.BookingID,
			item.ItemType,
			item.ItemID,
			item.ItemCode,
			item.ItemName,
			item.Quantity,
			item.UnitPrice,
			item.TotalPrice,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: InsertItem - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&item.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: InsertItem - execute insert: %v", ErrExecQuery, err)
	}

	item.CreatedAt = createdAt.Time
	return item, nil
}

// GetItem получает позицию бронирования по ID в рамках бронирования
func (r *Repository) GetItem(ctx context.Context, bookingID, itemID uuid.UUID) (*domain.BookingItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"booking_id",
		"item_type",
		"item_id",
		"item_code",
		"item_name",
		"quantity",
		"unit_price",
		"total_price",
		"created_at",
	).
		From("booking_items").
		Where(squirrel.Eq{"id": itemID, "booking_id": bookingID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetItem - build select query: %v", ErrBuildQuery, err)
	}

	var item domain.BookingItem
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&item.ID,
		&item.BookingID,
		&item.ItemType,
		&item.ItemID,
		&item.ItemCode,
		&item.ItemName,
		&item.Quantity,
		&item.UnitPrice,
		&item.TotalPrice,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetItem - scan item: %v", ErrScanRow, err)
	}

	item.CreatedAt = createdAt.Time
	return &item, nil
}

// UpdateItemQuantity обновляет количество и пересчитанную сумму позиции
func (r *Repository) UpdateItemQuantity(ctx context.Context, bookingID, itemID uuid.UUID, quantity int, totalPrice float64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("booking_items").
		Set("quantity", quantity).
		Set("total_price", totalPrice).
		Where(squirrel.Eq{"id": itemID, "booking_id": bookingID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateItemQuantity - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateItemQuantity - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateItemQuantity - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}

// DeleteItem удаляет позицию бронирования
func (r *Repository) DeleteItem(ctx context.Context, bookingID, itemID uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("booking_items").
		Where(squirrel.Eq{"id": itemID, "booking_id": bookingID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteItem - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteItem - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteItem - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}

// --- Слоты бронирований ---

// GetSlotsByServiceAndDateRange получает занятые слоты услуги за период
// Учитываются только слоты активных бронирований (не cancelled/rejected).
// Если вызвано внутри транзакции, строки блокируются FOR UPDATE -
// так проверка конфликтов сериализуется с конкурентным созданием
func (r *Repository) GetSlotsByServiceAndDateRange(ctx context.Context, serviceID uuid.UUID, from, to time.Time) ([]*domain.BookingSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	activeStatuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		activeStatuses[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(
		"s.id",
		"s.booking_id",
		"s.service_id",
		"s.slot_date",
		"s.start_time",
		"s.end_time",
		"s.created_at",
	).
		From("booking_slots s").
		Join("bookings b ON b.id = s.booking_id").
		Where(squirrel.Eq{"s.service_id": serviceID}).
		Where(squirrel.GtOrEq{"s.slot_date": from}).
		Where(squirrel.LtOrEq{"s.slot_date": to}).
		Where(squirrel.Eq{"b.status": activeStatuses}).
		OrderBy("s.slot_date ASC, s.start_time ASC")

	// Блокируем слоты при проверке конфликтов внутри транзакции создания
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF s")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetSlotsByServiceAndDateRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetSlotsByServiceAndDateRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]*domain.BookingSlot, 0)
	for rows.Next() {
		var slot domain.BookingSlot
		var createdAt sql.NullTime

		err := rows.Scan(
			&slot.ID,
			&slot.BookingID,
			&slot.ServiceID,
			&slot.SlotDate,
			&slot.StartTime,
			&slot.EndTime,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetSlotsByServiceAndDateRange - scan row: %v", ErrScanRow, err)
		}

		slot.CreatedAt = createdAt.Time
		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetSlotsByServiceAndDateRange - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

// ReplaceSlots заменяет весь набор слотов бронирования
// Вызывается внутри транзакции после проверки конфликтов
func (r *Repository) ReplaceSlots(ctx context.Context, bookingID, serviceID uuid.UUID, intervals []domain.SlotInterval) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("booking_slots").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReplaceSlots - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceSlots - execute delete: %v", ErrExecQuery, err)
	}

	for _, interval := range intervals {
		slot := &domain.BookingSlot{
			BookingID: bookingID,
			ServiceID: serviceID,
			SlotDate:  interval.Date,
			StartTime: interval.Start,
			EndTime:   interval.End,
		}
		if err := r.insertSlot(ctx, executor, slot); err != nil {
			return err
		}
	}

	return nil
}

// insertSlot вставляет один слот бронирования
func (r *Repository) insertSlot(ctx context.Context, executor DBExecutor, slot *domain.BookingSlot) error {
	query, args, err := psqlbuilder.Insert("booking_slots").
		Columns(
			"booking_id",
			"service_id",
			"slot_date",
			"start_time",
			"end_time",
		).
		Values(
			slot.BookingID,
			slot.ServiceID,
			slot.SlotDate,
			slot.StartTime,
			slot.EndTime,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: insertSlot - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&slot.ID, &createdAt)
	if err != nil {
		return fmt.Errorf("%w: insertSlot - execute insert: %v", ErrExecQuery, err)
	}

	slot.CreatedAt = createdAt.Time
	return nil
}

// --- Вспомогательные методы ---

// execUpdate выполняет update-запрос и проверяет, что строка была затронута
func (r *Repository) execUpdate(ctx context.Context, op string, builder squirrel.UpdateBuilder) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// loadItems загружает позиции бронирования
func (r *Repository) loadItems(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"booking_id",
		"item_type",
		"item_id",
		"item_code",
		"item_name",
		"quantity",
		"unit_price",
		"total_price",
		"created_at",
	).
		From("booking_items").
		Where(squirrel.Eq{"booking_id": booking.ID}).
		OrderBy("created_at ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadItems - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadItems - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	items := make([]*domain.BookingItem, 0)
	for rows.Next() {
		var item domain.BookingItem
		var createdAt sql.NullTime

		err := rows.Scan(
			&item.ID,
			&item.BookingID,
			&item.ItemType,
			&item.ItemID,
			&item.ItemCode,
			&item.ItemName,
			&item.Quantity,
			&item.UnitPrice,
			&item.TotalPrice,
			&createdAt,
		)
		if err != nil {
			return fmt.Errorf("%w: loadItems - scan row: %v", ErrScanRow, err)
		}

		item.CreatedAt = createdAt.Time
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadItems - rows error: %v", ErrScanRow, err)
	}

	booking.Items = items
	return nil
}

// loadSlots загружает слоты бронирования
func (r *Repository) loadSlots(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"booking_id",
		"service_id",
		"slot_date",
		"start_time",
		"end_time",
		"created_at",
	).
		From("booking_slots").
		Where(squirrel.Eq{"booking_id": booking.ID}).
		OrderBy("slot_date ASC, start_time ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadSlots - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]*domain.BookingSlot, 0)
	for rows.Next() {
		var slot domain.BookingSlot
		var createdAt sql.NullTime

		err := rows.Scan(
			&slot.ID,
			&slot.BookingID,
			&slot.ServiceID,
			&slot.SlotDate,
			&slot.StartTime,
			&slot.EndTime,
			&createdAt,
		)
		if err != nil {
			return fmt.Errorf("%w: loadSlots - scan row: %v", ErrScanRow, err)
		}

		slot.CreatedAt = createdAt.Time
		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadSlots - rows error: %v", ErrScanRow, err)
	}

	booking.Slots = slots
	return nil
}

// rowScanner покрывает *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует одну строку bookings
func (r *Repository) scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.UnitID,
		&booking.ServiceID,
		&booking.BookingDate,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.ServiceCode,
		&booking.ServiceName,
		&booking.NumberOfPeople,
		&booking.Purpose,
		&booking.TotalAmount,
		&booking.PaymentDate,
		&booking.PaymentGateway,
		&booking.PaymentTxnRef,
		&booking.TermsAccepted,
		&booking.TermsAcceptedAt,
		&booking.CancellationReason,
		&booking.AdminNote,
		&booking.ApprovedBy,
		&booking.ApprovedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := r.scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
