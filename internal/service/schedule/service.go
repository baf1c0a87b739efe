package schedule

import (
	"context"
	"errors"
	"fmt"

	scheduleRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/schedule"
	userRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/user"
	"github.com/m04kA/SMC-BarberBooking/internal/service/schedule/models"
)

// Service сервис шаблонов расписания мастеров
type Service struct {
	scheduleRepo ScheduleRepository
	userRepo     UserRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	userRepo UserRepository,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		userRepo:     userRepo,
		logger:       logger,
	}
}

// Get получает шаблон расписания мастера. Публичный метод.
func (s *Service) Get(ctx context.Context, providerID string) (*models.ScheduleResponse, error) {
	template, err := s.scheduleRepo.GetByProviderID(ctx, providerID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			s.logger.Warn("Get: schedule for provider=%s not found", providerID)
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("Get: repository error for provider=%s: %v", providerID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainTemplate(template), nil
}

// Upsert сохраняет шаблон расписания (полная замена).
// Доступно только пользователю с ролью barber.
func (s *Service) Upsert(ctx context.Context, req *models.UpsertScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("Upsert: saving schedule for provider=%s, slotDuration=%d", req.ProviderID, req.SlotDurationMinutes)

	// 1. Валидация
	template, err := toDomainTemplate(req)
	if err != nil {
		s.logger.Warn("Upsert: validation failed for provider=%s: %v", req.ProviderID, err)
		return nil, err
	}

	// 2. Только мастер публикует расписание
	if err := s.checkProvider(ctx, req.ProviderID); err != nil {
		return nil, err
	}

	// 3. Сохраняем
	saved, err := s.scheduleRepo.Upsert(ctx, template)
	if err != nil {
		s.logger.Error("Upsert: repository error for provider=%s: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: schedule saved for provider=%s", req.ProviderID)
	return models.FromDomainTemplate(saved), nil
}

func (s *Service) checkProvider(ctx context.Context, userID string) error {
	profile, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("checkProvider: user=%s has no profile", userID)
			return ErrAccessDenied
		}
		s.logger.Error("checkProvider: failed to get user=%s: %v", userID, err)
		return fmt.Errorf("%w: checkProvider - repository error: %v", ErrInternal, err)
	}

	if !profile.IsProvider() {
		s.logger.Warn("checkProvider: user=%s is not a barber (role=%s)", userID, profile.Role)
		return ErrAccessDenied
	}
	return nil
}
