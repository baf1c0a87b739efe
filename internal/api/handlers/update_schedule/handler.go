package update_schedule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/api/identity"
	"github.com/m04kA/SMC-BarberBooking/internal/service/schedule"
	"github.com/m04kA/SMC-BarberBooking/internal/service/schedule/models"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidSchedule    = "некорректное расписание: проверьте время начала и окончания и длительность слота"
	msgForbidden          = "расписание может публиковать только мастер"
)

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

// Handle PUT /api/v1/providers/me/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		h.logger.Warn("PUT /providers/me/schedule - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpsertScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /providers/me/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	// Мастер всегда редактирует только своё расписание
	req.ProviderID = id.UserID

	result, err := h.service.Upsert(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /providers/me/schedule - Invalid schedule: provider_id=%s, error=%v", id.UserID, err)
			handlers.RespondBadRequest(w, msgInvalidSchedule)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("PUT /providers/me/schedule - Access denied: user_id=%s", id.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PUT /providers/me/schedule - Failed to save schedule: provider_id=%s, error=%v",
				id.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /providers/me/schedule - Schedule saved: provider_id=%s", id.UserID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
