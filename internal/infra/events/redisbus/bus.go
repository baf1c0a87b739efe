package redisbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

var (
	// ErrPublish возвращается при ошибке публикации в Redis
	ErrPublish = errors.New("redisbus: failed to publish event")

	// ErrSubscribe возвращается при ошибке подписки
	ErrSubscribe = errors.New("redisbus: failed to subscribe")
)

// subscriberBuffer размер буфера канала подписчика
const subscriberBuffer = 16

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Bus события бронирований и чатов через Redis pub/sub.
// У каждого мастера свой канал <prefix>:<providerID>, у чата <prefix>:chat:<chatID>
type Bus struct {
	client *redis.Client
	prefix string
	logger Logger
}

// New создает шину поверх готового клиента
func New(client *redis.Client, prefix string, logger Logger) *Bus {
	if prefix == "" {
		prefix = "bookings:events"
	}
	return &Bus{client: client, prefix: prefix, logger: logger}
}

// Publish отправляет событие в канал мастера
func (b *Bus) Publish(ctx context.Context, event domain.BookingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: Publish - marshal: %v", ErrPublish, err)
	}
	if err := b.client.Publish(ctx, b.channel(event.ProviderID), payload).Err(); err != nil {
		return fmt.Errorf("%w: Publish - send: %v", ErrPublish, err)
	}
	return nil
}

// Subscribe подписывается на события мастера. Канал закрывается, когда ctx завершён.
func (b *Bus) Subscribe(ctx context.Context, providerID string) (<-chan domain.BookingEvent, error) {
	out, err := subscribe(ctx, b, b.channel(providerID), decode[domain.BookingEvent])
	if err != nil {
		return nil, fmt.Errorf("%w: Subscribe - provider=%s: %v", ErrSubscribe, providerID, err)
	}
	return out, nil
}

// PublishChat отправляет событие в канал чата
func (b *Bus) PublishChat(ctx context.Context, event domain.ChatEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: PublishChat - marshal: %v", ErrPublish, err)
	}
	if err := b.client.Publish(ctx, b.chatChannel(event.ChatID), payload).Err(); err != nil {
		return fmt.Errorf("%w: PublishChat - send: %v", ErrPublish, err)
	}
	return nil
}

// SubscribeChat подписывается на события чата. Канал закрывается, когда ctx завершён.
func (b *Bus) SubscribeChat(ctx context.Context, chatID string) (<-chan domain.ChatEvent, error) {
	out, err := subscribe(ctx, b, b.chatChannel(chatID), decode[domain.ChatEvent])
	if err != nil {
		return nil, fmt.Errorf("%w: SubscribeChat - chat=%s: %v", ErrSubscribe, chatID, err)
	}
	return out, nil
}

// Ping проверяет соединение с Redis
func (b *Bus) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

func (b *Bus) channel(providerID string) string {
	return b.prefix + ":" + providerID
}

func (b *Bus) chatChannel(chatID string) string {
	return b.prefix + ":chat:" + chatID
}

// subscribe пересылает декодированные сообщения канала в out, пока жив ctx
func subscribe[T any](ctx context.Context, b *Bus, channel string, decodeFn func(string) (T, error)) (<-chan T, error) {
	pubsub := b.client.Subscribe(ctx, channel)

	// Дожидаемся подтверждения подписки, чтобы не потерять события
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	out := make(chan T, subscriberBuffer)
	go func() {
		defer close(out)
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				event, err := decodeFn(msg.Payload)
				if err != nil {
					b.logger.Warn("redisbus: skip malformed event on %s: %v", msg.Channel, err)
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func decode[T any](payload string) (T, error) {
	var event T
	err := json.Unmarshal([]byte(payload), &event)
	return event, err
}
