package stream_chat_messages

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/api/identity"
	"github.com/m04kA/SMC-BarberBooking/internal/service/chats"
)

const (
	msgMissingUserID   = "отсутствует ID пользователя"
	msgNotFound        = "чат не найден"
	msgForbidden       = "доступ запрещен"
	msgLiveUpdatesOff  = "живые обновления отключены"
	msgStreamingFailed = "потоковая передача не поддерживается"

	eventMessages    = "messages"
	defaultKeepAlive = 25 * time.Second
)

type Handler struct {
	service   ChatService
	logger    Logger
	keepAlive time.Duration
}

func NewHandler(service ChatService, logger Logger) *Handler {
	return &Handler{
		service:   service,
		logger:    logger,
		keepAlive: defaultKeepAlive,
	}
}

// Handle GET /api/v1/chats/{chatId}/messages/stream
// Server-Sent Events: event "messages" с полным списком сообщений чата.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	chatID := mux.Vars(r)["chatId"]

	id, ok := identity.FromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	updates, err := h.service.WatchMessages(r.Context(), chatID, id.UserID)
	if err != nil {
		switch {
		case errors.Is(err, chats.ErrLiveUpdatesDisabled):
			handlers.RespondError(w, http.StatusServiceUnavailable, handlers.CodeUnavailable, msgLiveUpdatesOff)
		case errors.Is(err, chats.ErrChatNotFound):
			handlers.RespondNotFound(w, msgNotFound)
		case errors.Is(err, chats.ErrAccessDenied):
			h.logger.Warn("GET /chats/{id}/messages/stream - Access denied: chat_id=%s, user_id=%s", chatID, id.UserID)
			handlers.RespondForbidden(w, msgForbidden)
		default:
			h.logger.Error("GET /chats/{id}/messages/stream - Failed to subscribe: chat_id=%s, error=%v", chatID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	rc := http.NewResponseController(w)
	// Поток живёт дольше WriteTimeout сервера
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		h.logger.Error("GET /chats/{id}/messages/stream - %s: %v", msgStreamingFailed, err)
		return
	}

	h.logger.Info("GET /chats/{id}/messages/stream - Stream opened: chat_id=%s, user_id=%s", chatID, id.UserID)
	defer h.logger.Info("GET /chats/{id}/messages/stream - Stream closed: chat_id=%s, user_id=%s", chatID, id.UserID)

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
		case list, ok := <-updates:
			if !ok {
				return
			}
			payload, err := json.Marshal(list)
			if err != nil {
				h.logger.Error("GET /chats/{id}/messages/stream - Failed to encode messages: %v", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventMessages, payload); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
