package redisbus

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
)

func TestBus_Channel(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	assert.Equal(t, "bookings:events:barberA", New(client, "", logger.NewNop()).channel("barberA"))
	assert.Equal(t, "custom:barberA", New(client, "custom", logger.NewNop()).channel("barberA"))
	assert.Equal(t, "bookings:events:chat:c1", New(client, "", logger.NewNop()).chatChannel("c1"))
}

func TestDecode(t *testing.T) {
	event := domain.BookingEvent{
		Type:       domain.EventBookingCancelled,
		BookingID:  "barberA_2024-03-04_0900",
		ProviderID: "barberA",
		Status:     domain.StatusCancelled,
		OccurredAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	got, err := decode[domain.BookingEvent](string(payload))
	require.NoError(t, err)
	assert.Equal(t, event, got)

	_, err = decode[domain.BookingEvent]("not json")
	assert.Error(t, err)
}

func TestDecode_ChatEvent(t *testing.T) {
	event := domain.ChatEvent{
		Type:       domain.EventChatMessage,
		ChatID:     "c1",
		MessageID:  "m1",
		SenderID:   "clientX",
		ReceiverID: "barberA",
		OccurredAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	got, err := decode[domain.ChatEvent](string(payload))
	require.NoError(t, err)
	assert.Equal(t, event, got)
}
