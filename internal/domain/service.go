package domain

import "time"

// Service услуга из каталога мастера
type Service struct {
	ID              string
	ProviderID      string
	Name            string
	DurationMinutes int
	Price           float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ServiceUpdate частичное обновление услуги (nil = не менять)
type ServiceUpdate struct {
	Name            *string
	DurationMinutes *int
	Price           *float64
}

// IsEmpty returns true if nothing is going to change
func (u ServiceUpdate) IsEmpty() bool {
	return u.Name == nil && u.DurationMinutes == nil && u.Price == nil
}

// Apply применяет изменения к услуге
func (u ServiceUpdate) Apply(s *Service) {
	if u.Name != nil {
		s.Name = *u.Name
	}
	if u.DurationMinutes != nil {
		s.DurationMinutes = *u.DurationMinutes
	}
	if u.Price != nil {
		s.Price = *u.Price
	}
}
