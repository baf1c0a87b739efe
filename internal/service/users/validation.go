package users

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/service/users/models"
)

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// toDomainProfile валидирует запрос и собирает профиль
func toDomainProfile(req *models.UpsertProfileRequest) (*domain.UserProfile, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	role := domain.UserRole(strings.ToLower(strings.TrimSpace(req.Role)))
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, req.Role)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	profile := &domain.UserProfile{
		ID:      req.UserID,
		Email:   strings.TrimSpace(req.Email),
		Name:    name,
		Role:    role,
		Phone:   trimmed(req.Phone),
		Address: trimmed(req.Address),
	}

	// Мастер без контактов не появится в каталоге
	if profile.IsProvider() {
		if profile.Phone == nil {
			return nil, fmt.Errorf("%w: phone is required for barbers", ErrInvalidInput)
		}
		if profile.Address == nil {
			return nil, fmt.Errorf("%w: address is required for barbers", ErrInvalidInput)
		}
	}
	return profile, nil
}
