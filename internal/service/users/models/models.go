package models

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// UpsertProfileRequest запрос на сохранение профиля
type UpsertProfileRequest struct {
	UserID  string  `json:"-"`
	Email   string  `json:"email"`
	Name    string  `json:"name"`
	Role    string  `json:"role"` // client | barber
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

// ProfileResponse профиль пользователя
type ProfileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProviderResponse публичная карточка мастера
type ProviderResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

// ProviderListResponse список мастеров
type ProviderListResponse struct {
	Providers []ProviderResponse `json:"providers"`
}

// FromDomainProfile конвертирует domain модель в DTO
func FromDomainProfile(p *domain.UserProfile) *ProfileResponse {
	if p == nil {
		return nil
	}
	return &ProfileResponse{
		ID:        p.ID,
		Email:     p.Email,
		Name:      p.Name,
		Role:      string(p.Role),
		Phone:     p.Phone,
		Address:   p.Address,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// FromDomainProviders конвертирует список мастеров в DTO.
// Email в публичный список не попадает.
func FromDomainProviders(profiles []*domain.UserProfile) *ProviderListResponse {
	resp := &ProviderListResponse{Providers: make([]ProviderResponse, 0, len(profiles))}
	for _, p := range profiles {
		resp.Providers = append(resp.Providers, ProviderResponse{
			ID:      p.ID,
			Name:    p.Name,
			Phone:   p.Phone,
			Address: p.Address,
		})
	}
	return resp
}
