package open_chat

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/api/identity"
	"github.com/m04kA/SMC-BarberBooking/internal/service/chats"
	"github.com/m04kA/SMC-BarberBooking/internal/service/chats/models"
)

const (
	msgMissingUserID       = "отсутствует ID пользователя"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidParticipant  = "чат возможен только между клиентом и мастером"
	msgProfileRequired     = "сначала заполните профиль"
	msgParticipantNotFound = "собеседник не найден"
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

// Handle POST /api/v1/chats
// Body: {"participantId": "..."}. Повторный вызов возвращает тот же чат.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		h.logger.Warn("POST /chats - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.OpenChatRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /chats - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = id.UserID

	chat, err := h.service.OpenChat(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, chats.ErrInvalidInput):
			h.logger.Warn("POST /chats - Invalid participant: user_id=%s, error=%v", id.UserID, err)
			handlers.RespondBadRequest(w, msgInvalidParticipant)

		case errors.Is(err, chats.ErrProfileRequired):
			h.logger.Warn("POST /chats - Profile required: user_id=%s", id.UserID)
			handlers.RespondForbidden(w, msgProfileRequired)

		case errors.Is(err, chats.ErrParticipantNotFound):
			h.logger.Warn("POST /chats - Participant not found: participant_id=%s", req.ParticipantID)
			handlers.RespondNotFound(w, msgParticipantNotFound)

		default:
			h.logger.Error("POST /chats - Failed to open chat: user_id=%s, error=%v", id.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /chats - Chat opened: chat_id=%s, user_id=%s", chat.ID, id.UserID)
	handlers.RespondJSON(w, http.StatusOK, chat)
}
