package users

import (
	"context"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// UserRepository интерфейс репозитория профилей
type UserRepository interface {
	Upsert(ctx context.Context, profile *domain.UserProfile) (*domain.UserProfile, error)
	GetByID(ctx context.Context, id string) (*domain.UserProfile, error)
	ListByRole(ctx context.Context, role domain.UserRole) ([]*domain.UserProfile, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
