package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrItemNotInCatalog возвращается, когда опция или комбо не найдены у услуги
	ErrItemNotInCatalog = errors.New("create_booking: item not found in service catalog")

	// ErrSlotsRequired возвращается, когда услуга требует расписания, а слоты не переданы
	ErrSlotsRequired = errors.New("create_booking: service requires at least one slot")

	// ErrUnpaidBookingExists возвращается, когда у пользователя есть незакрытое неоплаченное бронирование
	ErrUnpaidBookingExists = errors.New("create_booking: user has an active unpaid booking")

	// ErrInvalidDate возвращается при некорректной дате слота
	ErrInvalidDate = errors.New("create_booking: invalid slot date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
