package update_booking_slots

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("update_booking_slots: booking not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("update_booking_slots: service not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("update_booking_slots: access denied")

	// ErrInvalidTransition возвращается, когда слоты нельзя менять в текущем статусе
	ErrInvalidTransition = errors.New("update_booking_slots: slots are not updatable in current status")

	// ErrInvalidDate возвращается при некорректной дате слота
	ErrInvalidDate = errors.New("update_booking_slots: invalid slot date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_booking_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_booking_slots: internal error")
)
