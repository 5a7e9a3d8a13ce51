package delete_appointment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/appointweb-booking/internal/api/middleware"
	"github.com/m04kA/appointweb-booking/internal/service/appointments"
)

type mockService struct{ mock.Mock }

func (m *mockService) Delete(ctx context.Context, businessID, appointmentID, userID string) error {
	return m.Called(ctx, businessID, appointmentID, userID).Error(0)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(svc *mockService, userID string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Handle("/businesses/{businessId}/appointments/{appointmentId}",
		middleware.Auth(http.HandlerFunc(NewHandler(svc, nopLogger{}).Handle))).Methods(http.MethodDelete)

	req := httptest.NewRequest(http.MethodDelete, "/businesses/b-1/appointments/a-1", nil)
	if userID != "" {
		req.Header.Set(middleware.UserIDHeader, userID)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name     string
		userID   string
		svcErr   error
		wantCode int
	}{
		{name: "deleted", userID: "owner-1", wantCode: http.StatusNoContent},
		{name: "no user header", wantCode: http.StatusUnauthorized},
		{name: "unknown appointment", userID: "owner-1", svcErr: appointments.ErrAppointmentNotFound, wantCode: http.StatusNotFound},
		{name: "unknown business", userID: "owner-1", svcErr: appointments.ErrBusinessNotFound, wantCode: http.StatusNotFound},
		{name: "not owner", userID: "intruder", svcErr: appointments.ErrAccessDenied, wantCode: http.StatusForbidden},
		{name: "internal", userID: "owner-1", svcErr: appointments.ErrInternal, wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			if tt.userID != "" {
				svc.On("Delete", mock.Anything, "b-1", "a-1", tt.userID).Return(tt.svcErr)
			}

			rec := serve(svc, tt.userID)
			assert.Equal(t, tt.wantCode, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}
