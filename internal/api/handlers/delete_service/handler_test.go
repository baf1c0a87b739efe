package delete_service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-BarberBooking/internal/api/identity"
	"github.com/m04kA/SMC-BarberBooking/internal/service/catalog"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
)

type fakeService struct {
	callerID  string
	serviceID string
	err       error
}

func (f *fakeService) Delete(_ context.Context, callerID, serviceID string) error {
	f.callerID = callerID
	f.serviceID = serviceID
	return f.err
}

func serve(svc CatalogService) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/services/{serviceId}", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodDelete)

	req := httptest.NewRequest(http.MethodDelete, "/services/svc-1", nil)
	req = req.WithContext(identity.WithIdentity(req.Context(), identity.Identity{UserID: "barber-1"}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Deleted(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "barber-1", svc.callerID)
	assert.Equal(t, "svc-1", svc.serviceID)
}

func TestHandler_ErrorMapping(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, serve(&fakeService{err: catalog.ErrServiceNotFound}).Code)
	assert.Equal(t, http.StatusForbidden, serve(&fakeService{err: catalog.ErrAccessDenied}).Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&fakeService{err: catalog.ErrInternal}).Code)
}
