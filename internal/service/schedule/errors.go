package schedule

import "errors"

var (
	// ErrScheduleNotFound возвращается, когда мастер ещё не опубликовал расписание
	ErrScheduleNotFound = errors.New("schedule not found")

	// ErrAccessDenied возвращается, когда расписание пытается сохранить не мастер
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
