package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByClientID(ctx context.Context, clientID string, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByProviderWithFilter(ctx context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error)
	Cancel(ctx context.Context, id string, at time.Time) (*domain.Booking, error)
	Complete(ctx context.Context, id string, at time.Time) (*domain.Booking, error)
}

// EventPublisher публикует события жизненного цикла бронирования
type EventPublisher interface {
	Publish(ctx context.Context, event domain.BookingEvent) error
}

// EventSubscriber подписка на события бронирований мастера
type EventSubscriber interface {
	Subscribe(ctx context.Context, providerID string) (<-chan domain.BookingEvent, error)
}

// MetricsCollector учитывает результаты отмен
type MetricsCollector interface {
	ObserveCancellation(result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
