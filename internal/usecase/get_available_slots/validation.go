package get_available_slots

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/scheduling"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ProviderID == "" {
		return fmt.Errorf("%w: providerID is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет, что дату можно выбрать.
// Нерабочий день ошибкой не считается: для него возвращается пустой список.
func validateDate(template *domain.ScheduleTemplate, date, now time.Time) error {
	err := scheduling.CheckSelectableDate(template, date, now)
	switch {
	case err == nil, errors.Is(err, scheduling.ErrDayDisabled):
		return nil
	case errors.Is(err, scheduling.ErrDateInPast):
		return ErrInvalidDate
	case errors.Is(err, scheduling.ErrDateTooFarInFuture):
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, domain.BookingHorizonDays)
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
