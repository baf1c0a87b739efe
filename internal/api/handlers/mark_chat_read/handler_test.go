package mark_chat_read

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/api/identity"
	"github.com/m04kA/SMC-BarberBooking/internal/service/chats"
	"github.com/m04kA/SMC-BarberBooking/internal/service/chats/models"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
)

type fakeService struct {
	chatID string
	userID string
	err    error
}

func (f *fakeService) MarkRead(_ context.Context, chatID, userID string) (*models.MarkReadResponse, error) {
	f.chatID = chatID
	f.userID = userID
	if f.err != nil {
		return nil, f.err
	}
	return &models.MarkReadResponse{ChatID: chatID, Updated: 2}, nil
}

func serve(svc ChatService, userID string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/chats/{chatId}/read", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodPatch)

	req := httptest.NewRequest(http.MethodPatch, "/chats/chat-1/read", nil)
	if userID != "" {
		req = req.WithContext(identity.WithIdentity(req.Context(), identity.Identity{UserID: userID}))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Marked(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "barber-1")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "chat-1", svc.chatID)
	assert.Equal(t, "barber-1", svc.userID)
	assert.Contains(t, rec.Body.String(), `"updated":2`)
}

func TestHandler_ErrorMapping(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, serve(&fakeService{}, "").Code)
	assert.Equal(t, http.StatusNotFound, serve(&fakeService{err: chats.ErrChatNotFound}, "barber-1").Code)
	assert.Equal(t, http.StatusForbidden, serve(&fakeService{err: chats.ErrAccessDenied}, "barber-2").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&fakeService{err: chats.ErrInternal}, "barber-1").Code)
}
