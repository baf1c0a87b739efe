package create_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/api/identity"
	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	createBooking "github.com/m04kA/SMC-BarberBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ProviderID string   `json:"providerId"`
	Date       string   `json:"date"` // "2024-03-04"
	Time       string   `json:"time"` // "10:00"
	ServiceIDs []string `json:"serviceIds"`
	ClientName *string  `json:"clientName,omitempty"` // По умолчанию имя из токена
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID                   string          `json:"id"`
	ProviderID           string          `json:"providerId"`
	ClientID             string          `json:"clientId"`
	ClientName           string          `json:"clientName"`
	Date                 string          `json:"date"`
	Time                 string          `json:"time"`
	Status               string          `json:"status"`
	Services             []BookedService `json:"services"`
	TotalDurationMinutes int             `json:"totalDuration"`
	TotalPrice           float64         `json:"totalPrice"`
	CreatedAt            string          `json:"createdAt"`
	UpdatedAt            string          `json:"updatedAt"`
}

// BookedService услуга в составе бронирования
type BookedService struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"duration"`
	Price           float64 `json:"price"`
}

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid time")
)

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Клиент берётся из токена, а не из тела запроса.
func (r *CreateBookingRequest) ToUseCaseRequest(id identity.Identity) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	slot, err := types.NewTimeStringFromString(r.Time)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidTime, err)
	}

	clientName := id.DisplayName
	if r.ClientName != nil {
		clientName = *r.ClientName
	}

	return &createBooking.Request{
		ProviderID: r.ProviderID,
		ClientID:   id.UserID,
		ClientName: clientName,
		Date:       date,
		Time:       slot,
		ServiceIDs: r.ServiceIDs,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	services := make([]BookedService, 0, len(resp.Services))
	for _, s := range resp.Services {
		services = append(services, BookedService{
			ID:              s.ID,
			Name:            s.Name,
			DurationMinutes: s.DurationMinutes,
			Price:           s.Price,
		})
	}

	return &BookingResponse{
		ID:                   resp.ID,
		ProviderID:           resp.ProviderID,
		ClientID:             resp.ClientID,
		ClientName:           resp.ClientName,
		Date:                 resp.Date.Format(domain.DateFormat),
		Time:                 resp.Time.String(),
		Status:               resp.Status,
		Services:             services,
		TotalDurationMinutes: resp.TotalDurationMinutes,
		TotalPrice:           resp.TotalPrice,
		CreatedAt:            resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            resp.UpdatedAt.Format(time.RFC3339),
	}
}
