package catalog

import (
	"context"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// ServiceRepository интерфейс репозитория каталога услуг
type ServiceRepository interface {
	Create(ctx context.Context, service *domain.Service) (*domain.Service, error)
	GetByID(ctx context.Context, id string) (*domain.Service, error)
	ListByProvider(ctx context.Context, providerID string) ([]*domain.Service, error)
	GetByIDs(ctx context.Context, providerID string, ids []string) ([]*domain.Service, error)
	Update(ctx context.Context, service *domain.Service) (*domain.Service, error)
	Delete(ctx context.Context, id string) error
}

// UserRepository интерфейс репозитория профилей (проверка роли мастера)
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.UserProfile, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// IDGenerator генерирует идентификаторы услуг
type IDGenerator func() string

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
