package schedule

import (
	"context"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// ScheduleRepository интерфейс репозитория шаблонов расписания
type ScheduleRepository interface {
	Upsert(ctx context.Context, template *domain.ScheduleTemplate) (*domain.ScheduleTemplate, error)
	GetByProviderID(ctx context.Context, providerID string) (*domain.ScheduleTemplate, error)
}

// UserRepository интерфейс репозитория профилей (проверка роли мастера)
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.UserProfile, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
