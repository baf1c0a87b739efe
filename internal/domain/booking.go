package domain

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// IsValid returns true for known statuses
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// Booking запись о бронировании слота у мастера.
// ID составной (см. BookingID) и служит ключом атомарной вставки.
type Booking struct {
	ID         string
	ProviderID string
	ClientID   string
	ClientName string
	Date       time.Time
	Time       types.TimeString
	ServiceIDs []string
	Status     BookingStatus

	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BookingID строит составной идентификатор: providerId_YYYY-MM-DD_HHMM
func BookingID(providerID string, date time.Time, slot types.TimeString) string {
	return providerID + "_" + date.Format(DateFormat) + "_" + slot.Compact()
}

// IsActive returns true if the booking still occupies its slot
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// CanBeCancelled returns true if the status allows cancellation
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusConfirmed
}

// CanBeCompleted returns true if the status allows completion
func (b *Booking) CanBeCompleted() bool {
	return b.Status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// StartsAt момент начала визита в часовом поясе loc
func (b *Booking) StartsAt(loc *time.Location) time.Time {
	return b.Time.On(b.Date, loc)
}

// ProviderBookingsFilter фильтр для получения бронирований мастера
type ProviderBookingsFilter struct {
	ProviderID      string         // Обязательный параметр
	StartDate       *time.Time     // Начало периода (включительно, опционально)
	EndDate         *time.Time     // Конец периода (включительно, опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отменённые бронирования
}

// IsSingleDate returns true if the filter targets exactly one date
func (f ProviderBookingsFilter) IsSingleDate() bool {
	return f.StartDate != nil && f.EndDate != nil && f.StartDate.Equal(*f.EndDate)
}
