package send_message

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/api/identity"
	"github.com/m04kA/SMC-BarberBooking/internal/service/chats"
	"github.com/m04kA/SMC-BarberBooking/internal/service/chats/models"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidText        = "текст сообщения пуст или слишком длинный"
	msgNotFound           = "чат не найден"
	msgForbidden          = "доступ запрещен"
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

// Handle POST /api/v1/chats/{chatId}/messages
// Body: {"text": "..."}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	chatID := mux.Vars(r)["chatId"]

	id, ok := identity.FromContext(r.Context())
	if !ok {
		h.logger.Warn("POST /chats/{id}/messages - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.SendMessageRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /chats/{id}/messages - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.ChatID = chatID
	req.SenderID = id.UserID

	msg, err := h.service.SendMessage(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, chats.ErrInvalidInput):
			h.logger.Warn("POST /chats/{id}/messages - Invalid text: chat_id=%s, error=%v", chatID, err)
			handlers.RespondBadRequest(w, msgInvalidText)

		case errors.Is(err, chats.ErrChatNotFound):
			h.logger.Warn("POST /chats/{id}/messages - Chat not found: chat_id=%s", chatID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, chats.ErrAccessDenied):
			h.logger.Warn("POST /chats/{id}/messages - Access denied: chat_id=%s, user_id=%s", chatID, id.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /chats/{id}/messages - Failed to send message: chat_id=%s, error=%v", chatID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /chats/{id}/messages - Message sent: message_id=%s, chat_id=%s", msg.ID, chatID)
	handlers.RespondJSON(w, http.StatusCreated, msg)
}
