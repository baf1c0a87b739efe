package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/catalog"
	userRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/user"
	"github.com/m04kA/SMC-BarberBooking/internal/service/catalog/models"
)

// Service сервис каталога услуг мастера
type Service struct {
	serviceRepo ServiceRepository
	userRepo    UserRepository
	txManager   TransactionManager
	newID       IDGenerator
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(
	serviceRepo ServiceRepository,
	userRepo UserRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		serviceRepo: serviceRepo,
		userRepo:    userRepo,
		txManager:   txManager,
		newID:       uuid.NewString,
		logger:      logger,
	}
}

// List получает услуги мастера. Публичный метод.
func (s *Service) List(ctx context.Context, providerID string) (*models.ServiceListResponse, error) {
	services, err := s.serviceRepo.ListByProvider(ctx, providerID)
	if err != nil {
		s.logger.Error("List: repository error for provider=%s: %v", providerID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainServiceList(services), nil
}

// Create добавляет услугу в каталог мастера
func (s *Service) Create(ctx context.Context, req *models.CreateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Create: adding service %q for provider=%s", req.Name, req.ProviderID)

	service := &domain.Service{
		ID:              s.newID(),
		ProviderID:      req.ProviderID,
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
	}
	if err := validateService(service); err != nil {
		s.logger.Warn("Create: validation failed for provider=%s: %v", req.ProviderID, err)
		return nil, err
	}

	if err := s.checkProvider(ctx, req.ProviderID); err != nil {
		return nil, err
	}

	created, err := s.serviceRepo.Create(ctx, service)
	if err != nil {
		s.logger.Error("Create: repository error for provider=%s: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: service id=%s created for provider=%s", created.ID, created.ProviderID)
	return models.FromDomainService(created), nil
}

// Update частично обновляет услугу. Чтение владельца и запись выполняются в одной транзакции.
func (s *Service) Update(ctx context.Context, callerID, serviceID string, req *models.UpdateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Update: updating service id=%s by user=%s", serviceID, callerID)

	update := req.ToDomainUpdate()
	if update.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	var updated *domain.Service
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		service, err := s.getOwned(ctx, "Update", callerID, serviceID)
		if err != nil {
			return err
		}

		update.Apply(service)
		if err := validateService(service); err != nil {
			return err
		}

		updated, err = s.serviceRepo.Update(ctx, service)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				return ErrServiceNotFound
			}
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, s.translateTxError("Update", serviceID, err)
	}

	s.logger.Info("Update: service id=%s updated", serviceID)
	return models.FromDomainService(updated), nil
}

// Delete удаляет услугу мастера
func (s *Service) Delete(ctx context.Context, callerID, serviceID string) error {
	s.logger.Info("Delete: deleting service id=%s by user=%s", serviceID, callerID)

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		if _, err := s.getOwned(ctx, "Delete", callerID, serviceID); err != nil {
			return err
		}
		if err := s.serviceRepo.Delete(ctx, serviceID); err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				return ErrServiceNotFound
			}
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return s.translateTxError("Delete", serviceID, err)
	}

	s.logger.Info("Delete: service id=%s deleted", serviceID)
	return nil
}

// ResolveServices возвращает найденные услуги мастера и ID, которых больше нет в каталоге.
// Порядок found совпадает с порядком ids; повторяющиеся ID учитываются один раз.
func (s *Service) ResolveServices(ctx context.Context, providerID string, ids []string) ([]*domain.Service, []string, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	services, err := s.serviceRepo.GetByIDs(ctx, providerID, unique)
	if err != nil {
		s.logger.Error("ResolveServices: repository error for provider=%s: %v", providerID, err)
		return nil, nil, fmt.Errorf("%w: ResolveServices - repository error: %v", ErrInternal, err)
	}

	byID := make(map[string]*domain.Service, len(services))
	for _, svc := range services {
		byID[svc.ID] = svc
	}

	found := make([]*domain.Service, 0, len(unique))
	missing := make([]string, 0)
	for _, id := range unique {
		if svc, ok := byID[id]; ok {
			found = append(found, svc)
		} else {
			missing = append(missing, id)
		}
	}
	return found, missing, nil
}

// getOwned получает услугу и проверяет, что она принадлежит callerID
func (s *Service) getOwned(ctx context.Context, op, callerID, serviceID string) (*domain.Service, error) {
	service, err := s.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	if service.ProviderID != callerID {
		return nil, ErrAccessDenied
	}
	return service, nil
}

func (s *Service) translateTxError(op, serviceID string, err error) error {
	switch {
	case errors.Is(err, ErrServiceNotFound):
		s.logger.Warn("%s: service id=%s not found", op, serviceID)
		return err
	case errors.Is(err, ErrAccessDenied):
		s.logger.Warn("%s: access denied to service id=%s", op, serviceID)
		return err
	case errors.Is(err, ErrInvalidInput):
		s.logger.Warn("%s: validation failed for service id=%s: %v", op, serviceID, err)
		return err
	case errors.Is(err, ErrInternal):
		s.logger.Error("%s: %v", op, err)
		return err
	default:
		s.logger.Error("%s: transaction error for service id=%s: %v", op, serviceID, err)
		return fmt.Errorf("%w: %s - transaction error: %v", ErrInternal, op, err)
	}
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
		s.logger.Warn("checkProvider: user=%s is not a barber", userID)
		return ErrAccessDenied
	}
	return nil
}
