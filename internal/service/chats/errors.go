package chats

import "errors"

var (
	// ErrChatNotFound возвращается, когда чат не найден
	ErrChatNotFound = errors.New("chat not found")

	// ErrAccessDenied возвращается, когда пользователь не участник чата
	ErrAccessDenied = errors.New("access denied")

	// ErrProfileRequired возвращается, когда у пользователя нет профиля
	ErrProfileRequired = errors.New("user profile required")

	// ErrParticipantNotFound возвращается, когда собеседник не найден
	ErrParticipantNotFound = errors.New("participant not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrLiveUpdatesDisabled возвращается, если подписка на события не настроена
	ErrLiveUpdatesDisabled = errors.New("live updates are disabled")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
