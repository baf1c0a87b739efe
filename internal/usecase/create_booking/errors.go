package create_booking

import "errors"

var (
	// ErrScheduleNotPublished возвращается, когда мастер ещё не опубликовал расписание
	ErrScheduleNotPublished = errors.New("create_booking: provider has not published a schedule")

	// ErrServiceNotFound возвращается, когда выбранной услуги больше нет в каталоге мастера
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата за пределами горизонта бронирования
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrProviderClosed возвращается, когда мастер не работает в этот день недели
	ErrProviderClosed = errors.New("create_booking: provider does not work on this date")

	// ErrInvalidTimeSlot возвращается, когда время не входит в доступные слоты
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrSlotTaken возвращается, когда слот успел занять другой клиент
	ErrSlotTaken = errors.New("create_booking: slot is already taken")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
