package list_chat_messages

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

// Handle GET /api/v1/chats/{chatId}/messages
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	chatID := mux.Vars(r)["chatId"]

	id, ok := identity.FromContext(r.Context())
	if !ok {
		h.logger.Warn("GET /chats/{id}/messages - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.ListMessages(r.Context(), chatID, id.UserID)
	if err != nil {
		switch {
		case errors.Is(err, chats.ErrChatNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, chats.ErrAccessDenied):
			h.logger.Warn("GET /chats/{id}/messages - Access denied: chat_id=%s, user_id=%s", chatID, id.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /chats/{id}/messages - Failed to list messages: chat_id=%s, error=%v", chatID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
