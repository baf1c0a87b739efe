package kafkabus

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := NewWithWriter(w, "booking-events")

	event := domain.BookingEvent{
		Type:       domain.EventBookingCreated,
		BookingID:  "barberA_2024-03-04_0900",
		ProviderID: "barberA",
		Status:     domain.StatusConfirmed,
	}
	require.NoError(t, p.Publish(context.Background(), event))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, "barberA", string(msg.Key))
	assert.Equal(t, "booking.created", header(msg, HeaderEventType))
	_, err := uuid.Parse(header(msg, HeaderEventID))
	assert.NoError(t, err)

	var decoded domain.BookingEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.BookingID, decoded.BookingID)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublisher_PublishError(t *testing.T) {
	p := NewWithWriter(&fakeWriter{err: errors.New("no brokers")}, "booking-events")
	err := p.Publish(context.Background(), domain.BookingEvent{BookingID: "b1"})
	assert.ErrorIs(t, err, ErrPublish)
}
