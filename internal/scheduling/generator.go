package scheduling

import (
	"fmt"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// GenerateSlots генерирует слоты с шагом durationMinutes от начала окна.
// Слот, начинающийся в момент окончания окна или позже, не выдаётся.
// Если начало не раньше конца, результат пустой.
func GenerateSlots(startHour, startMinute, endHour, endMinute, durationMinutes int) ([]types.TimeString, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: slot duration must be positive, got %d", ErrInvalidConfiguration, durationMinutes)
	}

	start, err := types.NewTimeStringFromClock(startHour, startMinute)
	if err != nil {
		return nil, fmt.Errorf("%w: GenerateSlots - start: %v", ErrInvalidConfiguration, err)
	}
	end, err := types.NewTimeStringFromClock(endHour, endMinute)
	if err != nil {
		return nil, fmt.Errorf("%w: GenerateSlots - end: %v", ErrInvalidConfiguration, err)
	}

	return walkWindow(start.Minutes(), end.Minutes(), durationMinutes), nil
}

// GenerateDaySlots генерирует слоты для рабочего дня шаблона
func GenerateDaySlots(day domain.DaySchedule, durationMinutes int) ([]types.TimeString, error) {
	if !day.Enabled {
		return []types.TimeString{}, nil
	}

	startHour, startMinute, err := clockOf(day.StartTime)
	if err != nil {
		return nil, err
	}
	endHour, endMinute, err := clockOf(day.EndTime)
	if err != nil {
		return nil, err
	}

	return GenerateSlots(startHour, startMinute, endHour, endMinute, durationMinutes)
}

func clockOf(t types.TimeString) (int, int, error) {
	if err := t.Validate(); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	h, m := t.Clock()
	return h, m, nil
}

// walkWindow обходит окно [start, end) в минутах от начала суток
func walkWindow(start, end, step int) []types.TimeString {
	slots := make([]types.TimeString, 0)
	for current := start; current < end; current += step {
		slot, err := types.FromMinutes(current)
		if err != nil {
			break
		}
		slots = append(slots, slot)
	}
	return slots
}
