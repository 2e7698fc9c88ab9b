package domain

// Role роль действующего лица
type Role string

const (
	RoleResident Role = "resident"
	RoleAdmin    Role = "admin"
)

// IsValid проверяет, что роль известна системе
func (r Role) IsValid() bool {
	return r == RoleResident || r == RoleAdmin
}

// Event событие жизненного цикла бронирования
type Event string

const (
	EventAcceptTerms   Event = "accept_terms"
	EventCancel        Event = "cancel"
	EventUpdateItems   Event = "update_items"
	EventUpdateSlots   Event = "update_slots"
	EventApprove       Event = "approve"
	EventReject        Event = "reject"
	EventComplete      Event = "complete"
	EventUpdatePayment Event = "update_payment"
)

// transitionKey ключ transition-таблицы: (текущий статус, событие, роль)
type transitionKey struct {
	from  BookingStatus
	event Event
	role  Role
}

// transitions единая таблица допустимых переходов жизненного цикла
// Заменяет разрозненные проверки ролей по эндпоинтам: любое изменение
// бронирования сначала сверяется с этой таблицей
var transitions = map[transitionKey]BookingStatus{
	// Резидент: принятие условий и отмена
	{StatusPendingTerms, EventAcceptTerms, RoleResident}: StatusPending,
	{StatusPendingTerms, EventCancel, RoleResident}:      StatusCancelled,
	{StatusPending, EventCancel, RoleResident}:           StatusCancelled,

	// Позиции и слоты изменяются только в статусе pending
	{StatusPending, EventUpdateItems, RoleResident}: StatusPending,
	{StatusPending, EventUpdateItems, RoleAdmin}:    StatusPending,
	{StatusPending, EventUpdateSlots, RoleResident}: StatusPending,
	{StatusPending, EventUpdateSlots, RoleAdmin}:    StatusPending,

	// Административные решения
	{StatusPending, EventApprove, RoleAdmin}:   StatusApproved,
	{StatusPending, EventReject, RoleAdmin}:    StatusRejected,
	{StatusApproved, EventComplete, RoleAdmin}: StatusCompleted,

	// Прямое изменение платёжного статуса не меняет статус бронирования
	{StatusPending, EventUpdatePayment, RoleAdmin}:  StatusPending,
	{StatusApproved, EventUpdatePayment, RoleAdmin}: StatusApproved,
}

// NextStatus возвращает следующий статус для перехода (from, event, role)
// Второе значение false означает недопустимый переход: событие не разрешено
// для этой роли, либо бронирование в терминальном статусе
func NextStatus(from BookingStatus, event Event, role Role) (BookingStatus, bool) {
	next, ok := transitions[transitionKey{from, event, role}]
	return next, ok
}
