package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-BarberBooking/internal/scheduling"
	"github.com/m04kA/SMC-BarberBooking/pkg/txmanager"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// UseCase use case для получения доступных слотов мастера
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: provider=%s, date=%s", req.ProviderID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Шаблон и записи читаем из одного снимка, чтобы занятость соответствовала расписанию
	var resp *Response
	err := uc.txManager.DoReadOnly(ctx, func(ctx context.Context) error {
		var err error
		resp, err = uc.resolve(ctx, req, now)
		return err
	})
	if err != nil {
		if errors.Is(err, txmanager.ErrBeginTx) || errors.Is(err, txmanager.ErrCommitTx) {
			uc.logger.Error("GetAvailableSlots: read transaction failed for provider=%s: %v", req.ProviderID, err)
			return nil, fmt.Errorf("%w: read transaction: %v", ErrInternal, err)
		}
		return nil, err
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for provider=%s, date=%s",
		len(resp.Slots), req.ProviderID, req.Date.Format(domain.DateFormat))

	return resp, nil
}

// resolve строит список слотов с отметкой занятости. Вызывается внутри read-only транзакции.
func (uc *UseCase) resolve(ctx context.Context, req *Request, now time.Time) (*Response, error) {
	// Получаем шаблон расписания
	template, err := uc.scheduleRepo.GetByProviderID(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			uc.logger.Warn("GetAvailableSlots: provider=%s has no schedule", req.ProviderID)
			return nil, ErrScheduleNotPublished
		}
		uc.logger.Error("GetAvailableSlots: failed to get schedule for provider=%s: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}

	// Проверяем дату
	if err := validateDate(template, req.Date, now); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	resp := &Response{
		Date:                req.Date,
		ProviderID:          req.ProviderID,
		SlotDurationMinutes: template.SlotDurationMinutes,
		Slots:               []Slot{},
	}

	// Генерируем слоты (для нерабочего дня список пустой)
	timeSlots, err := scheduling.AvailableSlots(template, req.Date, now)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots for provider=%s: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}
	if len(timeSlots) == 0 {
		uc.logger.Info("GetAvailableSlots: no slots for provider=%s on %s", req.ProviderID, req.Date.Format(domain.DateFormat))
		return resp, nil
	}

	// Получаем все записи на эту дату, включая отменённые: их ID не освобождается
	date := req.Date
	bookings, err := uc.bookingRepo.GetByProviderWithFilter(ctx, domain.ProviderBookingsFilter{
		ProviderID:      req.ProviderID,
		StartDate:       &date,
		EndDate:         &date,
		IncludeInactive: true,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// Отмечаем занятые слоты
	resp.Slots = markReserved(timeSlots, bookings)
	return resp, nil
}

func markReserved(timeSlots []types.TimeString, bookings []*domain.Booking) []Slot {
	taken := make(map[types.TimeString]struct{}, len(bookings))
	for _, b := range bookings {
		taken[b.Time] = struct{}{}
	}

	slots := make([]Slot, 0, len(timeSlots))
	for _, ts := range timeSlots {
		_, reserved := taken[ts]
		slots = append(slots, Slot{StartTime: ts, Reserved: reserved})
	}
	return slots
}
