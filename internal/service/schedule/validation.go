package schedule

import (
	"fmt"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/service/schedule/models"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// toDomainTemplate валидирует запрос и собирает шаблон
func toDomainTemplate(req *models.UpsertScheduleRequest) (*domain.ScheduleTemplate, error) {
	if req.ProviderID == "" {
		return nil, fmt.Errorf("%w: providerID is required", ErrInvalidInput)
	}

	if req.SlotDurationMinutes < domain.MinSlotDurationMinutes || req.SlotDurationMinutes > domain.MaxSlotDurationMinutes {
		return nil, fmt.Errorf("%w: slot duration must be between %d and %d minutes",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}

	template := &domain.ScheduleTemplate{
		ProviderID:          req.ProviderID,
		SlotDurationMinutes: req.SlotDurationMinutes,
	}

	for name, day := range req.Days {
		wd, ok := domain.ParseWeekday(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown weekday %q", ErrInvalidInput, name)
		}

		parsed, err := parseDay(wd, day)
		if err != nil {
			return nil, err
		}
		template.Days[wd] = parsed
	}

	return template, nil
}

// parseDay проверяет окно дня. Для выключенного дня время может быть пустым.
func parseDay(wd domain.Weekday, day models.DayRequest) (domain.DaySchedule, error) {
	result := domain.DaySchedule{Enabled: day.IsEnabled}

	if !day.IsEnabled && day.StartTime == "" && day.EndTime == "" {
		return result, nil
	}

	start, err := types.NewTimeStringFromString(day.StartTime)
	if err != nil {
		return result, fmt.Errorf("%w: %s start time: %v", ErrInvalidInput, wd, err)
	}
	end, err := types.NewTimeStringFromString(day.EndTime)
	if err != nil {
		return result, fmt.Errorf("%w: %s end time: %v", ErrInvalidInput, wd, err)
	}

	if day.IsEnabled && !start.IsBefore(end) {
		return result, fmt.Errorf("%w: %s start time must be before end time", ErrInvalidInput, wd)
	}

	result.StartTime = start
	result.EndTime = end
	return result, nil
}
