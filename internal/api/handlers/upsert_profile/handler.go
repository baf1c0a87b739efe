package upsert_profile

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/api/identity"
	"github.com/m04kA/SMC-BarberBooking/internal/service/users"
	"github.com/m04kA/SMC-BarberBooking/internal/service/users/models"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidProfile     = "некорректные данные профиля: мастеру нужны телефон и адрес"
)

type Handler struct {
	service UserService
	logger  Logger
}

func NewHandler(service UserService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/users/me/profile
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		h.logger.Warn("PUT /users/me/profile - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpsertProfileRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /users/me/profile - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = id.UserID
	if strings.TrimSpace(req.Name) == "" {
		req.Name = id.DisplayName
	}

	result, err := h.service.UpsertProfile(r.Context(), &req)
	if err != nil {
		if errors.Is(err, users.ErrInvalidInput) {
			h.logger.Warn("PUT /users/me/profile - Invalid profile: user_id=%s, error=%v", id.UserID, err)
			handlers.RespondBadRequest(w, msgInvalidProfile)
			return
		}

		h.logger.Error("PUT /users/me/profile - Failed to save profile: user_id=%s, error=%v", id.UserID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /users/me/profile - Profile saved: user_id=%s, role=%s", id.UserID, result.Role)
	handlers.RespondJSON(w, http.StatusOK, result)
}
