package get_provider_bookings

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров.
// date задаёт один день и имеет приоритет над from/to.
func ToServiceRequest(providerID string, query url.Values) (*models.GetProviderBookingsRequest, error) {
	req := &models.GetProviderBookingsRequest{
		ProviderID: providerID,
	}

	if v := query.Get("date"); v != "" {
		date, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		req.StartDate = &date
		req.EndDate = &date
	} else {
		if v := query.Get("from"); v != "" {
			from, err := time.Parse(domain.DateFormat, v)
			if err != nil {
				return nil, fmt.Errorf("invalid from: %w", err)
			}
			req.StartDate = &from
		}
		if v := query.Get("to"); v != "" {
			to, err := time.Parse(domain.DateFormat, v)
			if err != nil {
				return nil, fmt.Errorf("invalid to: %w", err)
			}
			req.EndDate = &to
		}
	}

	if v := query.Get("status"); v != "" {
		req.Status = &v
	}

	if v := query.Get("includeInactive"); v != "" {
		includeInactive, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
