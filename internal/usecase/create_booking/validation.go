package create_booking

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/scheduling"
)

// validateRequest валидирует входные данные запроса и нормализует имя клиента
func validateRequest(req *Request) error {
	if req.ProviderID == "" {
		return fmt.Errorf("%w: providerID is required", ErrInvalidInput)
	}

	if req.ClientID == "" {
		return fmt.Errorf("%w: clientID is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.Time.IsZero() {
		return fmt.Errorf("%w: time is required", ErrInvalidInput)
	}

	if err := req.Time.Validate(); err != nil {
		return fmt.Errorf("%w: invalid time format: %v", ErrInvalidInput, err)
	}

	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service must be selected", ErrInvalidInput)
	}
	for _, id := range req.ServiceIDs {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: empty service id", ErrInvalidInput)
		}
	}

	req.ClientName = strings.TrimSpace(req.ClientName)
	if req.ClientName == "" {
		req.ClientName = domain.AnonymousClientName
	}
	if utf8.RuneCountInString(req.ClientName) > domain.MaxClientNameLength {
		return fmt.Errorf("%w: client name must be at most %d characters", ErrInvalidInput, domain.MaxClientNameLength)
	}

	return nil
}

// mapDateError переводит причину отказа из scheduling в ошибки usecase
func mapDateError(err error) error {
	switch {
	case errors.Is(err, scheduling.ErrDateInPast):
		return ErrInvalidDate
	case errors.Is(err, scheduling.ErrDateTooFarInFuture):
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, domain.BookingHorizonDays)
	case errors.Is(err, scheduling.ErrDayDisabled):
		return ErrProviderClosed
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
