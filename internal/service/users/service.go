package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	userRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/user"
	"github.com/m04kA/SMC-BarberBooking/internal/service/users/models"
)

// Service сервис профилей пользователей
type Service struct {
	userRepo UserRepository
	logger   Logger
}

// NewService создает новый экземпляр сервиса профилей
func NewService(userRepo UserRepository, logger Logger) *Service {
	return &Service{
		userRepo: userRepo,
		logger:   logger,
	}
}

// UpsertProfile создает или обновляет профиль текущего пользователя
func (s *Service) UpsertProfile(ctx context.Context, req *models.UpsertProfileRequest) (*models.ProfileResponse, error) {
	profile, err := toDomainProfile(req)
	if err != nil {
		s.logger.Warn("UpsertProfile: validation failed for user=%s: %v", req.UserID, err)
		return nil, err
	}

	saved, err := s.userRepo.Upsert(ctx, profile)
	if err != nil {
		s.logger.Error("UpsertProfile: repository error for user=%s: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: UpsertProfile - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpsertProfile: profile saved for user=%s, role=%s", saved.ID, saved.Role)
	return models.FromDomainProfile(saved), nil
}

// GetProfile получает профиль по ID
func (s *Service) GetProfile(ctx context.Context, userID string) (*models.ProfileResponse, error) {
	profile, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("GetProfile: repository error for user=%s: %v", userID, err)
		return nil, fmt.Errorf("%w: GetProfile - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainProfile(profile), nil
}

// ListProviders возвращает всех мастеров, отсортированных по имени
func (s *Service) ListProviders(ctx context.Context) (*models.ProviderListResponse, error) {
	providers, err := s.userRepo.ListByRole(ctx, domain.RoleBarber)
	if err != nil {
		s.logger.Error("ListProviders: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListProviders - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainProviders(providers), nil
}
