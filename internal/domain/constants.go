package domain

import "time"

// Правила бронирования
const (
	// LeadTimeMinutes минимальный запас до слота при бронировании на сегодня
	LeadTimeMinutes = 30
	// BookingHorizonDays на сколько дней вперёд можно бронировать
	BookingHorizonDays = 30
	// CancellationCutoff минимальное время до визита, когда отмена ещё разрешена
	CancellationCutoff = 2 * time.Hour
)

// Ограничения шаблона расписания и каталога
const (
	DefaultSlotDurationMinutes = 30
	MinSlotDurationMinutes     = 5
	MaxSlotDurationMinutes     = 480 // 8 hours
	MaxServiceNameLength       = 100
	MaxClientNameLength        = 100
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// AnonymousClientName имя клиента, если он его не указал
const AnonymousClientName = "Anonymous"

// InactiveStatuses статусы, которые не занимают слот для отображения
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
}

// ActiveStatuses статусы бронирований, которые показываются как занятые
var ActiveStatuses = []BookingStatus{
	StatusConfirmed,
	StatusCompleted,
}
