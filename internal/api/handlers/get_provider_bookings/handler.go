package get_provider_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/api/identity"
	"github.com/m04kA/SMC-BarberBooking/internal/service/bookings"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidParams = "некорректные параметры запроса"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/me/bookings
// Query params: date | from, to (YYYY-MM-DD), status, includeInactive (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	serviceReq, err := ToServiceRequest(id.UserID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /providers/me/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetProviderBookings(r.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			h.logger.Warn("GET /providers/me/bookings - Invalid filter: provider_id=%s, error=%v", id.UserID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		h.logger.Error("GET /providers/me/bookings - Failed to get bookings: provider_id=%s, error=%v", id.UserID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /providers/me/bookings - Bookings retrieved successfully: provider_id=%s, count=%d",
		id.UserID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
