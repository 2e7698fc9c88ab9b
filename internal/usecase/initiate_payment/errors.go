package initiate_payment

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("initiate_payment: booking not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("initiate_payment: access denied")

	// ErrAlreadyPaid возвращается, когда бронирование уже оплачено
	ErrAlreadyPaid = errors.New("initiate_payment: booking is already paid")

	// ErrBookingClosed возвращается, когда бронирование отменено или отклонено
	ErrBookingClosed = errors.New("initiate_payment: booking is cancelled or rejected")

	// ErrNothingToPay возвращается для бронирований с нулевой суммой
	ErrNothingToPay = errors.New("initiate_payment: booking total amount is zero")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("initiate_payment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("initiate_payment: internal error")
)
