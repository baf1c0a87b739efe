package list_chats

import (
	"net/http"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/api/identity"
)

const msgMissingUserID = "отсутствует ID пользователя"

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

// Handle GET /api/v1/chats
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		h.logger.Warn("GET /chats - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.ListChats(r.Context(), id.UserID)
	if err != nil {
		h.logger.Error("GET /chats - Failed to list chats: user_id=%s, error=%v", id.UserID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /chats - Found %d chats: user_id=%s", len(result.Chats), id.UserID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
