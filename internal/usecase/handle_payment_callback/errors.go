package handle_payment_callback

import "errors"

var (
	// ErrAttemptNotFound возвращается, когда попытка с таким transaction reference не найдена
	ErrAttemptNotFound = errors.New("handle_payment_callback: payment attempt not found")

	// ErrInvalidInput возвращается при некорректных callback-параметрах
	ErrInvalidInput = errors.New("handle_payment_callback: invalid callback parameters")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("handle_payment_callback: internal error")
)
