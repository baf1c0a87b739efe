package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotCancel возвращается, когда бронирование уже не в статусе confirmed
	ErrCannotCancel = errors.New("booking cannot be cancelled")

	// ErrCancellationWindowClosed возвращается, когда до визита осталось 2 часа или меньше
	ErrCancellationWindowClosed = errors.New("booking can only be cancelled more than 2 hours in advance")

	// ErrCannotComplete возвращается, когда бронирование нельзя отметить выполненным
	ErrCannotComplete = errors.New("booking cannot be completed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrLiveUpdatesDisabled возвращается, если подписка на события не настроена
	ErrLiveUpdatesDisabled = errors.New("live updates are disabled")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
