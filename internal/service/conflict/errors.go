package conflict

import "errors"

var (
	// ErrNoAvailability возвращается, когда у услуги вообще нет окон доступности
	ErrNoAvailability = errors.New("conflict: service has no availability windows")

	// ErrOverlapsWithinRequest возвращается, когда запрошенные интервалы пересекаются между собой
	ErrOverlapsWithinRequest = errors.New("conflict: requested slots overlap each other")

	// ErrOutsideAvailability возвращается, когда интервал не попадает ни в одно окно доступности
	ErrOutsideAvailability = errors.New("conflict: slot is outside availability windows")

	// ErrAlreadyBooked возвращается, когда вместимость окна на интервале исчерпана
	ErrAlreadyBooked = errors.New("conflict: slot is already fully booked")
)
