package upsert_profile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/api/identity"
	"github.com/m04kA/SMC-BarberBooking/internal/service/users"
	"github.com/m04kA/SMC-BarberBooking/internal/service/users/models"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
)

type fakeService struct {
	got *models.UpsertProfileRequest
	err error
}

func (f *fakeService) UpsertProfile(_ context.Context, req *models.UpsertProfileRequest) (*models.ProfileResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.ProfileResponse{ID: req.UserID, Name: req.Name, Role: req.Role}, nil
}

func serve(svc UserService, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/users/me/profile", strings.NewReader(body))
	req = req.WithContext(identity.WithIdentity(req.Context(), identity.Identity{
		UserID:      "user-1",
		DisplayName: "Анна",
	}))
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandler_NameFromToken(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, `{"email":"anna@example.com","role":"client"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got)
	assert.Equal(t, "user-1", svc.got.UserID)
	assert.Equal(t, "Анна", svc.got.Name)
}

func TestHandler_ExplicitName(t *testing.T) {
	svc := &fakeService{}

	serve(svc, `{"email":"anna@example.com","name":"Анна К.","role":"barber","phone":"+7900","address":"Ленина 1"}`)

	require.NotNil(t, svc.got)
	assert.Equal(t, "Анна К.", svc.got.Name)
	require.NotNil(t, svc.got.Phone)
	assert.Equal(t, "+7900", *svc.got.Phone)
}

func TestHandler_InvalidProfile(t *testing.T) {
	rec := serve(&fakeService{err: users.ErrInvalidInput}, `{"role":"barber"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
