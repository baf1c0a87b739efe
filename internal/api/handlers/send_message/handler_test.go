package send_message

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
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
	got *models.SendMessageRequest
	err error
}

func (f *fakeService) SendMessage(_ context.Context, req *models.SendMessageRequest) (*models.MessageResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.MessageResponse{ID: "m1", ChatID: req.ChatID, SenderID: req.SenderID, ReceiverID: "barber-1", Text: req.Text}, nil
}

func serve(svc ChatService, body string, userID string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/chats/{chatId}/messages", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/chats/chat-1/messages", strings.NewReader(body))
	if userID != "" {
		req = req.WithContext(identity.WithIdentity(req.Context(), identity.Identity{UserID: userID}))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Sent(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, `{"text":"hello"}`, "client-1")

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.got)
	assert.Equal(t, "chat-1", svc.got.ChatID)
	assert.Equal(t, "client-1", svc.got.SenderID)
	assert.Equal(t, "hello", svc.got.Text)
	assert.Contains(t, rec.Body.String(), `"receiverId":"barber-1"`)
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		userID     string
		err        error
		wantStatus int
	}{
		{name: "anonymous", body: `{"text":"hi"}`, wantStatus: http.StatusUnauthorized},
		{name: "bad json", body: `{`, userID: "client-1", wantStatus: http.StatusBadRequest},
		// отправитель берётся только из токена
		{name: "sender in body", body: `{"text":"hi","senderId":"barber-1"}`, userID: "client-1", wantStatus: http.StatusBadRequest},
		{name: "blank text", body: `{"text":" "}`, userID: "client-1", err: fmt.Errorf("%w: text is required", chats.ErrInvalidInput), wantStatus: http.StatusBadRequest},
		{name: "no chat", body: `{"text":"hi"}`, userID: "client-1", err: chats.ErrChatNotFound, wantStatus: http.StatusNotFound},
		{name: "stranger", body: `{"text":"hi"}`, userID: "client-2", err: chats.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "internal", body: `{"text":"hi"}`, userID: "client-1", err: chats.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.body, tt.userID)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
