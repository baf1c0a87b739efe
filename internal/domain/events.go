package domain

import "time"

// BookingEventType тип события жизненного цикла бронирования
type BookingEventType string

const (
	EventBookingCreated   BookingEventType = "booking.created"
	EventBookingCancelled BookingEventType = "booking.cancelled"
	EventBookingCompleted BookingEventType = "booking.completed"
)

// BookingEvent событие об изменении бронирования
type BookingEvent struct {
	Type       BookingEventType `json:"type"`
	BookingID  string           `json:"bookingId"`
	ProviderID string           `json:"providerId"`
	ClientID   string           `json:"clientId"`
	Date       string           `json:"date"`
	Time       string           `json:"time"`
	Status     BookingStatus    `json:"status"`
	OccurredAt time.Time        `json:"occurredAt"`
}

// NewBookingEvent создает событие по бронированию
func NewBookingEvent(t BookingEventType, b *Booking, at time.Time) BookingEvent {
	return BookingEvent{
		Type:       t,
		BookingID:  b.ID,
		ProviderID: b.ProviderID,
		ClientID:   b.ClientID,
		Date:       b.Date.Format(DateFormat),
		Time:       b.Time.String(),
		Status:     b.Status,
		OccurredAt: at,
	}
}
