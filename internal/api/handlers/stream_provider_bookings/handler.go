package stream_provider_bookings

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/api/identity"
	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/service/bookings"
	"github.com/m04kA/SMC-BarberBooking/internal/service/bookings/models"
)

const (
	msgMissingUserID   = "отсутствует ID пользователя"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidParams   = "некорректные параметры запроса"
	msgLiveUpdatesOff  = "живые обновления отключены"
	msgStreamingFailed = "потоковая передача не поддерживается"

	eventSnapshot    = "snapshot"
	defaultKeepAlive = 25 * time.Second
)

type Handler struct {
	service   BookingService
	logger    Logger
	keepAlive time.Duration
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service:   service,
		logger:    logger,
		keepAlive: defaultKeepAlive,
	}
}

// Handle GET /api/v1/providers/me/bookings/stream
// Query params: date (опционально, YYYY-MM-DD). Server-Sent Events: event "snapshot" с актуальным списком.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	req := &models.GetProviderBookingsRequest{ProviderID: id.UserID}
	if v := r.URL.Query().Get("date"); v != "" {
		date, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.StartDate = &date
		req.EndDate = &date
	}

	snapshots, err := h.service.WatchProviderBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrLiveUpdatesDisabled):
			handlers.RespondError(w, http.StatusServiceUnavailable, handlers.CodeUnavailable, msgLiveUpdatesOff)
		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidParams)
		default:
			h.logger.Error("GET /providers/me/bookings/stream - Failed to subscribe: provider_id=%s, error=%v", id.UserID, err)
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
		h.logger.Error("GET /providers/me/bookings/stream - %s: %v", msgStreamingFailed, err)
		return
	}

	h.logger.Info("GET /providers/me/bookings/stream - Stream opened: provider_id=%s", id.UserID)
	defer h.logger.Info("GET /providers/me/bookings/stream - Stream closed: provider_id=%s", id.UserID)

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
		case snapshot, ok := <-snapshots:
			if !ok {
				return
			}
			payload, err := json.Marshal(snapshot)
			if err != nil {
				h.logger.Error("GET /providers/me/bookings/stream - Failed to encode snapshot: %v", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventSnapshot, payload); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
