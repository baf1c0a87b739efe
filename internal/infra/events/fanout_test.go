package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

type recordingPublisher struct {
	got []domain.BookingEvent
	err error
}

func (p *recordingPublisher) Publish(_ context.Context, e domain.BookingEvent) error {
	p.got = append(p.got, e)
	return p.err
}

func TestFanout_Publish(t *testing.T) {
	failing := &recordingPublisher{err: errors.New("broker down")}
	ok := &recordingPublisher{}
	f := NewFanout(failing, nil, ok)

	assert.Equal(t, 2, f.Len())

	err := f.Publish(context.Background(), domain.BookingEvent{Type: domain.EventBookingCreated, BookingID: "b1"})
	assert.ErrorContains(t, err, "broker down")
	assert.Len(t, failing.got, 1)
	assert.Len(t, ok.got, 1)
}

func TestFanout_Empty(t *testing.T) {
	assert.NoError(t, NewFanout().Publish(context.Background(), domain.BookingEvent{}))
}
