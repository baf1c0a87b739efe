package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// Create атомарно вставляет запись, если слот ещё свободен (иначе ErrSlotTaken)
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// ScheduleRepository интерфейс репозитория шаблонов расписания
type ScheduleRepository interface {
	GetByProviderID(ctx context.Context, providerID string) (*domain.ScheduleTemplate, error)
}

// ServiceResolver проверяет, что выбранные услуги есть в каталоге мастера
type ServiceResolver interface {
	ResolveServices(ctx context.Context, providerID string, ids []string) ([]*domain.Service, []string, error)
}

// EventPublisher публикует события жизненного цикла бронирования
type EventPublisher interface {
	Publish(ctx context.Context, event domain.BookingEvent) error
}

// MetricsCollector учитывает результаты бронирования
type MetricsCollector interface {
	ObserveReservation(result string)
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
