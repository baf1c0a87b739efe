package scheduling

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// AvailableSlots возвращает слоты, которые можно предложить клиенту на дату date.
// Для сегодняшней даты остаются только слоты строго позже now + LeadTimeMinutes.
// Функция не проверяет горизонт бронирования, для этого есть CheckSelectableDate.
func AvailableSlots(template *domain.ScheduleTemplate, date, now time.Time) ([]types.TimeString, error) {
	if template == nil {
		return nil, fmt.Errorf("%w: template is nil", ErrInvalidConfiguration)
	}

	// 1. День недели выключен
	day := template.DayFor(date)
	if !day.Enabled {
		return []types.TimeString{}, nil
	}

	// 2. Генерация по шаблону
	slots, err := GenerateDaySlots(day, template.SlotDurationMinutes)
	if err != nil {
		return nil, err
	}

	// 3. Фильтр по запасу времени для сегодняшнего дня
	if !IsSameDay(date, now) {
		return slots, nil
	}

	threshold := now.Hour()*60 + now.Minute() + domain.LeadTimeMinutes
	available := make([]types.TimeString, 0, len(slots))
	for _, slot := range slots {
		if slot.Minutes() > threshold {
			available = append(available, slot)
		}
	}
	return available, nil
}

// IsSelectableDate сообщает, можно ли выбрать дату для бронирования
func IsSelectableDate(template *domain.ScheduleTemplate, date, now time.Time) bool {
	return CheckSelectableDate(template, date, now) == nil
}

// CheckSelectableDate проверяет дату: не раньше сегодня, не дальше BookingHorizonDays,
// рабочий день недели. Возвращает причину отказа.
func CheckSelectableDate(template *domain.ScheduleTemplate, date, now time.Time) error {
	day := DateOnly(date)
	today := DateOnly(now)

	if day.Before(today) {
		return ErrDateInPast
	}
	if day.After(today.AddDate(0, 0, domain.BookingHorizonDays)) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, domain.BookingHorizonDays)
	}
	if template == nil || !template.IsEnabledOn(date) {
		return ErrDayDisabled
	}
	return nil
}

// ContainsSlot проверяет наличие слота в списке
func ContainsSlot(slots []types.TimeString, slot types.TimeString) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}

// IsSameDay проверяет, что две даты относятся к одному календарному дню
func IsSameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DateOnly обнуляет время суток, сохраняя календарную дату в UTC
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
