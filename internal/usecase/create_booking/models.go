package create_booking

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// Request модель запроса на бронирование слота
type Request struct {
	ProviderID string           // ID мастера
	ClientID   string           // ID клиента (из токена)
	ClientName string           // Имя клиента; пустое заменяется на Anonymous
	Date       time.Time        // Дата бронирования (без времени)
	Time       types.TimeString // Время начала слота (например, "10:00")
	ServiceIDs []string         // Выбранные услуги, минимум одна
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID         string           // Составной ID: providerId_YYYY-MM-DD_HHMM
	ProviderID string           // ID мастера
	ClientID   string           // ID клиента
	ClientName string           // Имя клиента
	Date       time.Time        // Дата бронирования
	Time       types.TimeString // Время начала
	Status     string           // Статус бронирования

	// Денормализованные данные услуг на момент бронирования
	Services             []Service
	TotalDurationMinutes int
	TotalPrice           float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Service выбранная услуга
type Service struct {
	ID              string
	Name            string
	DurationMinutes int
	Price           float64
}
