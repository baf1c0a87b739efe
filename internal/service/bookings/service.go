package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-BarberBooking/internal/service/bookings/models"
)

// Результаты отмены для метрик
const (
	cancelResultOK       = "cancelled"
	cancelResultRejected = "rejected"
	cancelResultLostRace = "lost_race"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	publisher    EventPublisher
	subscriber   EventSubscriber
	metrics      MetricsCollector
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований.
// publisher, subscriber и metrics могут быть nil.
func NewService(
	bookingRepo BookingRepository,
	publisher EventPublisher,
	subscriber EventSubscriber,
	metrics MetricsCollector,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		publisher:    publisher,
		subscriber:   subscriber,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает бронирование по ID.
// Видеть бронирование могут только клиент и мастер, к которому он записан.
func (s *Service) GetByID(ctx context.Context, id string, userID string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for user=%s", id, userID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if booking.ClientID != userID && booking.ProviderID != userID {
		s.logger.Warn("GetByID: access denied for user=%s to booking id=%s", userID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetClientBookings получает бронирования клиента, ближайшие первыми.
// Опционально фильтрует по статусу
func (s *Service) GetClientBookings(ctx context.Context, req *models.GetClientBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetClientBookings: fetching bookings for client=%s, status=%v", req.ClientID, req.Status)

	if req.ClientID == "" {
		return nil, fmt.Errorf("%w: clientID is required", ErrInvalidInput)
	}

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetClientBookings: invalid status=%s for client=%s", *req.Status, req.ClientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByClientID(ctx, req.ClientID, domainStatus)
	if err != nil {
		s.logger.Error("GetClientBookings: repository error for client=%s: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: GetClientBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetClientBookings: fetched %d bookings for client=%s", len(bookings), req.ClientID)
	return models.FromDomainBookingList(bookings), nil
}

// GetProviderBookings получает бронирования мастера с фильтрацией по периоду и статусу
func (s *Service) GetProviderBookings(ctx context.Context, req *models.GetProviderBookingsRequest) (*models.BookingListResponse, error) {
	filter, err := s.providerFilter(req)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.GetByProviderWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetProviderBookings: repository error for provider=%s: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: GetProviderBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetProviderBookings: fetched %d bookings for provider=%s", len(bookings), req.ProviderID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование клиентом.
// Разрешено только для confirmed и строго больше чем за CancellationCutoff до визита.
func (s *Service) Cancel(ctx context.Context, bookingID string, clientID string) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%s by client=%s", bookingID, clientID)

	booking, err := s.getBooking(ctx, "Cancel", bookingID)
	if err != nil {
		return nil, err
	}

	// 1. Отменить может только сам клиент
	if booking.ClientID != clientID {
		s.logger.Warn("Cancel: access denied for client=%s to booking id=%s", clientID, bookingID)
		s.observeCancellation(cancelResultRejected)
		return nil, ErrAccessDenied
	}

	// 2. Статус
	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%s cannot be cancelled, status=%s", bookingID, booking.Status)
		s.observeCancellation(cancelResultRejected)
		return nil, ErrCannotCancel
	}

	// 3. Окно отмены
	now := s.timeProvider.Now()
	if booking.StartsAt(now.Location()).Sub(now) <= domain.CancellationCutoff {
		s.logger.Warn("Cancel: booking id=%s starts at %s, cancellation window closed", bookingID,
			booking.StartsAt(now.Location()).Format("2006-01-02 15:04"))
		s.observeCancellation(cancelResultRejected)
		return nil, ErrCancellationWindowClosed
	}

	// 4. Условное обновление: выигрывает только одна из параллельных отмен
	cancelled, err := s.bookingRepo.Cancel(ctx, bookingID, now)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			s.logger.Warn("Cancel: booking id=%s changed status concurrently", bookingID)
			s.observeCancellation(cancelResultLostRace)
			return nil, ErrCannotCancel
		}
		s.logger.Error("Cancel: repository error for booking id=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.observeCancellation(cancelResultOK)
	s.publish(ctx, domain.EventBookingCancelled, cancelled)

	s.logger.Info("Cancel: successfully cancelled booking id=%s", bookingID)
	return models.FromDomainBooking(cancelled), nil
}

// Complete отмечает визит выполненным. Доступно только мастеру бронирования.
func (s *Service) Complete(ctx context.Context, bookingID string, providerID string) (*models.BookingResponse, error) {
	s.logger.Info("Complete: completing booking id=%s by provider=%s", bookingID, providerID)

	booking, err := s.getBooking(ctx, "Complete", bookingID)
	if err != nil {
		return nil, err
	}

	if booking.ProviderID != providerID {
		s.logger.Warn("Complete: access denied for provider=%s to booking id=%s", providerID, bookingID)
		return nil, ErrAccessDenied
	}

	if !booking.CanBeCompleted() {
		s.logger.Warn("Complete: booking id=%s cannot be completed, status=%s", bookingID, booking.Status)
		return nil, ErrCannotComplete
	}

	completed, err := s.bookingRepo.Complete(ctx, bookingID, s.timeProvider.Now())
	if err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			s.logger.Warn("Complete: booking id=%s changed status concurrently", bookingID)
			return nil, ErrCannotComplete
		}
		s.logger.Error("Complete: repository error for booking id=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
	}

	s.publish(ctx, domain.EventBookingCompleted, completed)

	s.logger.Info("Complete: successfully completed booking id=%s", bookingID)
	return models.FromDomainBooking(completed), nil
}

// WatchProviderBookings отдаёт актуальный список бронирований мастера:
// сначала текущий снимок, затем новый снимок после каждого события по этому мастеру.
// Канал закрывается, когда ctx завершён.
func (s *Service) WatchProviderBookings(ctx context.Context, req *models.GetProviderBookingsRequest) (<-chan *models.BookingListResponse, error) {
	if s.subscriber == nil {
		return nil, ErrLiveUpdatesDisabled
	}

	filter, err := s.providerFilter(req)
	if err != nil {
		return nil, err
	}

	// Подписываемся до первого запроса, чтобы не пропустить изменения между ними
	events, err := s.subscriber.Subscribe(ctx, filter.ProviderID)
	if err != nil {
		s.logger.Error("WatchProviderBookings: subscribe failed for provider=%s: %v", filter.ProviderID, err)
		return nil, fmt.Errorf("%w: WatchProviderBookings - subscribe: %v", ErrInternal, err)
	}

	initial, err := s.bookingRepo.GetByProviderWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("WatchProviderBookings: repository error for provider=%s: %v", filter.ProviderID, err)
		return nil, fmt.Errorf("%w: WatchProviderBookings - repository error: %v", ErrInternal, err)
	}

	out := make(chan *models.BookingListResponse, 1)
	out <- models.FromDomainBookingList(initial)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-events:
				if !ok {
					return
				}
				snapshot, err := s.bookingRepo.GetByProviderWithFilter(ctx, filter)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					s.logger.Error("WatchProviderBookings: refresh after %s failed for provider=%s: %v",
						event.Type, filter.ProviderID, err)
					continue
				}
				select {
				case out <- models.FromDomainBookingList(snapshot):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, op string, id string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%s not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

func (s *Service) providerFilter(req *models.GetProviderBookingsRequest) (domain.ProviderBookingsFilter, error) {
	if req.ProviderID == "" {
		return domain.ProviderBookingsFilter{}, fmt.Errorf("%w: providerID is required", ErrInvalidInput)
	}
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetProviderBookings: invalid filter for provider=%s: %v", req.ProviderID, err)
		return filter, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return filter, nil
}

// publish отправляет событие; ошибка публикации не влияет на результат операции
func (s *Service) publish(ctx context.Context, eventType domain.BookingEventType, booking *domain.Booking) {
	if s.publisher == nil {
		return
	}
	event := domain.NewBookingEvent(eventType, booking, s.timeProvider.Now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish: failed to publish %s for booking id=%s: %v", eventType, booking.ID, err)
	}
}

func (s *Service) observeCancellation(result string) {
	if s.metrics != nil {
		s.metrics.ObserveCancellation(result)
	}
}
