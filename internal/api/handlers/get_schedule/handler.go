package get_schedule

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/service/schedule"
)

const msgNotFound = "мастер ещё не опубликовал расписание"

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/{providerId}/schedule
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	providerID := mux.Vars(r)["providerId"]

	result, err := h.service.Get(r.Context(), providerID)
	if err != nil {
		if errors.Is(err, schedule.ErrScheduleNotFound) {
			h.logger.Info("GET /providers/{id}/schedule - Schedule not found: provider_id=%s", providerID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}

		h.logger.Error("GET /providers/{id}/schedule - Failed to get schedule: provider_id=%s, error=%v",
			providerID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
