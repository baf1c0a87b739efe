package scheduling

import "errors"

var (
	// ErrInvalidConfiguration возвращается при некорректных параметрах генерации слотов
	ErrInvalidConfiguration = errors.New("scheduling: invalid slot configuration")

	// ErrDateInPast дата раньше сегодняшнего дня
	ErrDateInPast = errors.New("scheduling: date is in the past")

	// ErrDateTooFarInFuture дата за пределами горизонта бронирования
	ErrDateTooFarInFuture = errors.New("scheduling: date is beyond the booking horizon")

	// ErrDayDisabled мастер не работает в этот день недели
	ErrDayDisabled = errors.New("scheduling: provider does not work on this weekday")
)
