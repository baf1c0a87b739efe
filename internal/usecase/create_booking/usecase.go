package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/booking"
	scheduleRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-BarberBooking/internal/scheduling"
)

const (
	reservationCreated   = "created"
	reservationSlotTaken = "slot_taken"
	reservationRejected  = "rejected"
	reservationError     = "error"
)

// UseCase use case бронирования слота у мастера
type UseCase struct {
	bookingRepo     BookingRepository
	scheduleRepo    ScheduleRepository
	serviceResolver ServiceResolver
	publisher       EventPublisher
	metrics         MetricsCollector
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// publisher и metrics могут быть nil.
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	serviceResolver ServiceResolver,
	publisher EventPublisher,
	metrics MetricsCollector,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:     bookingRepo,
		scheduleRepo:    scheduleRepo,
		serviceResolver: serviceResolver,
		publisher:       publisher,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case бронирования.
// Единственная запись в хранилище - атомарная вставка по составному ID,
// поэтому из двух одновременных запросов на один слот успешен ровно один.
// При ErrSlotTaken повтор запрещён: клиент должен заново запросить доступные слоты.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: client=%s, provider=%s, date=%s, time=%s, services=%v",
		req.ClientID, req.ProviderID, req.Date.Format(domain.DateFormat), req.Time, req.ServiceIDs)

	result, err := uc.execute(ctx, req)
	uc.observe(err)
	return result, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем шаблон расписания мастера
	template, err := uc.scheduleRepo.GetByProviderID(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			uc.logger.Warn("CreateBooking: provider=%s has no schedule", req.ProviderID)
			return nil, ErrScheduleNotPublished
		}
		uc.logger.Error("CreateBooking: failed to get schedule for provider=%s: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}

	// 4. Дата: не в прошлом, в пределах горизонта, рабочий день
	if err := scheduling.CheckSelectableDate(template, req.Date, now); err != nil {
		uc.logger.Warn("CreateBooking: date %s is not selectable: %v", req.Date.Format(domain.DateFormat), err)
		return nil, mapDateError(err)
	}

	// 5. Время должно быть среди доступных прямо сейчас слотов (список у клиента мог устареть)
	slots, err := scheduling.AvailableSlots(template, req.Date, now)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to generate slots for provider=%s: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}
	if !scheduling.ContainsSlot(slots, req.Time) {
		uc.logger.Warn("CreateBooking: time %s is not an available slot for provider=%s on %s",
			req.Time, req.ProviderID, req.Date.Format(domain.DateFormat))
		return nil, ErrInvalidTimeSlot
	}

	// 6. Все услуги должны принадлежать мастеру
	services, missing, err := uc.serviceResolver.ResolveServices(ctx, req.ProviderID, req.ServiceIDs)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to resolve services: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve services: %v", ErrInternal, err)
	}
	if len(missing) > 0 {
		uc.logger.Warn("CreateBooking: services %v are no longer offered by provider=%s", missing, req.ProviderID)
		return nil, fmt.Errorf("%w: %v", ErrServiceNotFound, missing)
	}

	// 7. Атомарная вставка по составному ID
	serviceIDs := make([]string, 0, len(services))
	for _, s := range services {
		serviceIDs = append(serviceIDs, s.ID)
	}

	date := scheduling.DateOnly(req.Date)
	booking := &domain.Booking{
		ID:         domain.BookingID(req.ProviderID, date, req.Time),
		ProviderID: req.ProviderID,
		ClientID:   req.ClientID,
		ClientName: req.ClientName,
		Date:       date,
		Time:       req.Time,
		ServiceIDs: serviceIDs,
		Status:     domain.StatusConfirmed,
	}

	created, err := uc.bookingRepo.Create(ctx, booking)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			uc.logger.Warn("CreateBooking: slot id=%s already taken", booking.ID)
			return nil, ErrSlotTaken
		}
		uc.logger.Error("CreateBooking: failed to create booking id=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%s", created.ID)

	// 8. Уведомляем подписчиков
	uc.publish(ctx, created)

	return toResponse(created, services), nil
}

func toResponse(b *domain.Booking, services []*domain.Service) *Response {
	resp := &Response{
		ID:         b.ID,
		ProviderID: b.ProviderID,
		ClientID:   b.ClientID,
		ClientName: b.ClientName,
		Date:       b.Date,
		Time:       b.Time,
		Status:     string(b.Status),
		Services:   make([]Service, 0, len(services)),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
	for _, s := range services {
		resp.Services = append(resp.Services, Service{
			ID:              s.ID,
			Name:            s.Name,
			DurationMinutes: s.DurationMinutes,
			Price:           s.Price,
		})
		resp.TotalDurationMinutes += s.DurationMinutes
		resp.TotalPrice += s.Price
	}
	return resp
}

// publish отправляет событие; ошибка публикации не влияет на результат бронирования
func (uc *UseCase) publish(ctx context.Context, booking *domain.Booking) {
	if uc.publisher == nil {
		return
	}
	event := domain.NewBookingEvent(domain.EventBookingCreated, booking, uc.timeProvider.Now())
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish event for booking id=%s: %v", booking.ID, err)
	}
}

func (uc *UseCase) observe(err error) {
	if uc.metrics == nil {
		return
	}
	switch {
	case err == nil:
		uc.metrics.ObserveReservation(reservationCreated)
	case errors.Is(err, ErrSlotTaken):
		uc.metrics.ObserveReservation(reservationSlotTaken)
	case errors.Is(err, ErrInternal):
		uc.metrics.ObserveReservation(reservationError)
	default:
		uc.metrics.ObserveReservation(reservationRejected)
	}
}
