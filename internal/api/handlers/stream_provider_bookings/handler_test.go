package stream_provider_bookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/api/identity"
	"github.com/m04kA/SMC-BarberBooking/internal/service/bookings"
	"github.com/m04kA/SMC-BarberBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
)

type fakeService struct {
	got       *models.GetProviderBookingsRequest
	snapshots []*models.BookingListResponse
	err       error
}

func (f *fakeService) WatchProviderBookings(_ context.Context, req *models.GetProviderBookingsRequest) (<-chan *models.BookingListResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	ch := make(chan *models.BookingListResponse, len(f.snapshots))
	for _, s := range f.snapshots {
		ch <- s
	}
	close(ch)
	return ch, nil
}

func serve(svc BookingService, target string, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if userID != "" {
		req = req.WithContext(identity.WithIdentity(req.Context(), identity.Identity{UserID: userID}))
	}
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandler_StreamsSnapshots(t *testing.T) {
	svc := &fakeService{snapshots: []*models.BookingListResponse{
		{Bookings: []models.BookingResponse{}},
		{Bookings: []models.BookingResponse{{ID: "barber-1_2024-03-04_1000", Status: "confirmed"}}},
	}}

	rec := serve(svc, "/providers/me/bookings/stream?date=2024-03-04", "barber-1")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	require.NotNil(t, svc.got)
	assert.Equal(t, "barber-1", svc.got.ProviderID)
	require.NotNil(t, svc.got.StartDate)
	assert.Equal(t, "2024-03-04", svc.got.StartDate.Format("2006-01-02"))

	body := rec.Body.String()
	assert.Contains(t, body, "event: snapshot\ndata: {\"bookings\":[]}\n\n")
	assert.Contains(t, body, "barber-1_2024-03-04_1000")
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		userID     string
		err        error
		wantStatus int
	}{
		{name: "anonymous", target: "/providers/me/bookings/stream", wantStatus: http.StatusUnauthorized},
		{name: "bad date", target: "/providers/me/bookings/stream?date=x", userID: "barber-1", wantStatus: http.StatusBadRequest},
		{name: "live updates off", target: "/providers/me/bookings/stream", userID: "barber-1", err: bookings.ErrLiveUpdatesDisabled, wantStatus: http.StatusServiceUnavailable},
		{name: "internal", target: "/providers/me/bookings/stream", userID: "barber-1", err: bookings.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.target, tt.userID)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
