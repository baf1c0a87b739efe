package chats

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// ChatRepository интерфейс репозитория чатов
type ChatRepository interface {
	Ensure(ctx context.Context, chat *domain.Chat) error
	GetByID(ctx context.Context, id string) (*domain.Chat, error)
	ListByParticipant(ctx context.Context, userID string) ([]*domain.Chat, error)
	InsertMessage(ctx context.Context, msg *domain.Message) error
	UpdateLastMessage(ctx context.Context, msg *domain.Message) error
	ListMessages(ctx context.Context, chatID string) ([]*domain.Message, error)
	MarkRead(ctx context.Context, chatID, receiverID string) (int64, error)
}

// UserRepository интерфейс репозитория профилей
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.UserProfile, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикует события чатов
type EventPublisher interface {
	PublishChat(ctx context.Context, event domain.ChatEvent) error
}

// EventSubscriber подписка на события чата
type EventSubscriber interface {
	SubscribeChat(ctx context.Context, chatID string) (<-chan domain.ChatEvent, error)
}

// IDGenerator генерирует идентификаторы сообщений
type IDGenerator func() string

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
