package update_schedule

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/api/identity"
	"github.com/m04kA/SMC-BarberBooking/internal/service/schedule"
	"github.com/m04kA/SMC-BarberBooking/internal/service/schedule/models"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
)

type fakeService struct {
	got *models.UpsertScheduleRequest
	err error
}

func (f *fakeService) Upsert(_ context.Context, req *models.UpsertScheduleRequest) (*models.ScheduleResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.ScheduleResponse{ProviderID: req.ProviderID, SlotDurationMinutes: req.SlotDurationMinutes}, nil
}

const body = `{"schedule":{"monday":{"isEnabled":true,"startTime":"09:00","endTime":"18:00"}},"slotDuration":30}`

func serve(svc ScheduleService, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/providers/me/schedule", strings.NewReader(body))
	if userID != "" {
		req = req.WithContext(identity.WithIdentity(req.Context(), identity.Identity{UserID: userID}))
	}
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandler_SavesForCaller(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "barber-1")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got)
	assert.Equal(t, "barber-1", svc.got.ProviderID)
	assert.Equal(t, 30, svc.got.SlotDurationMinutes)
	assert.True(t, svc.got.Days["monday"].IsEnabled)
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		err        error
		wantStatus int
	}{
		{name: "anonymous", wantStatus: http.StatusUnauthorized},
		{name: "invalid", userID: "barber-1", err: schedule.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "client role", userID: "client-1", err: schedule.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "internal", userID: "barber-1", err: schedule.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.userID)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
