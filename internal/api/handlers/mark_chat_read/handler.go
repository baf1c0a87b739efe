package mark_chat_read

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/api/identity"
	"github.com/m04kA/SMC-BarberBooking/internal/service/chats"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgNotFound      = "чат не найден"
	msgForbidden     = "доступ запрещен"
)

type Handler struct {
	service ChatService
	logger  Logger
}

func NewHandler(service ChatService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/chats/{chatId}/read
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	chatID := mux.Vars(r)["chatId"]

	id, ok := identity.FromContext(r.Context())
	if !ok {
		h.logger.Warn("PATCH /chats/{id}/read - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.MarkRead(r.Context(), chatID, id.UserID)
	if err != nil {
		switch {
		case errors.Is(err, chats.ErrChatNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, chats.ErrAccessDenied):
			h.logger.Warn("PATCH /chats/{id}/read - Access denied: chat_id=%s, user_id=%s", chatID, id.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PATCH /chats/{id}/read - Failed to mark read: chat_id=%s, error=%v", chatID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
