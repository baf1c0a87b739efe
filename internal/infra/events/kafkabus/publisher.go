package kafkabus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// ErrPublish возвращается при ошибке отправки события в Kafka
var ErrPublish = errors.New("kafkabus: failed to publish event")

// Заголовки сообщения
const (
	HeaderEventID   = "event_id"
	HeaderEventType = "event_type"
)

// MessageWriter интерфейс записи сообщений (реализуется *kafka.Writer)
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Config параметры публикации
type Config struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// Publisher публикует события бронирований в Kafka.
// Ключ сообщения = ID мастера, чтобы события одного мастера шли в одну партицию по порядку.
type Publisher struct {
	writer MessageWriter
	topic  string
}

// New создает publisher с kafka.Writer и балансировкой по ключу
func New(cfg Config) *Publisher {
	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           writeTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return NewWithWriter(writer, cfg.Topic)
}

// NewWithWriter создает publisher поверх произвольного writer'а
func NewWithWriter(writer MessageWriter, topic string) *Publisher {
	return &Publisher{writer: writer, topic: topic}
}

// Publish отправляет событие
func (p *Publisher) Publish(ctx context.Context, event domain.BookingEvent) error {
	msg, err := p.message(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: Publish - booking=%s: %v", ErrPublish, event.BookingID, err)
	}
	return nil
}

// Close закрывает writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func (p *Publisher) message(event domain.BookingEvent) (kafka.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("%w: marshal: %v", ErrPublish, err)
	}
	return kafka.Message{
		Key:   []byte(event.ProviderID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(uuid.NewString())},
			{Key: HeaderEventType, Value: []byte(event.Type)},
		},
	}, nil
}
