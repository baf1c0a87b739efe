package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingID(t *testing.T) {
	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "barberA_2024-03-04_0900", BookingID("barberA", date, "09:00"))
}

func TestBooking_StatusHelpers(t *testing.T) {
	b := &Booking{Status: StatusConfirmed}
	assert.True(t, b.IsActive())
	assert.True(t, b.CanBeCancelled())

	b.Status = StatusCancelled
	assert.False(t, b.IsActive())
	assert.False(t, b.CanBeCancelled())
	assert.False(t, b.CanBeCompleted())

	b.Status = StatusCompleted
	assert.True(t, b.IsActive())
	assert.False(t, b.CanBeCancelled())
}

func TestWeekday(t *testing.T) {
	monday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, Monday, WeekdayOf(monday))
	assert.Equal(t, "monday", Monday.String())

	d, ok := ParseWeekday("Saturday")
	assert.True(t, ok)
	assert.Equal(t, Saturday, d)

	_, ok = ParseWeekday("funday")
	assert.False(t, ok)
}
