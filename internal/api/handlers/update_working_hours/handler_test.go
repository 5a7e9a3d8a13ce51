package update_working_hours

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/appointweb-booking/internal/api/middleware"
	"github.com/m04kA/appointweb-booking/internal/domain"
	"github.com/m04kA/appointweb-booking/internal/service/business"
	"github.com/m04kA/appointweb-booking/internal/service/business/models"
)

type mockService struct{ mock.Mock }

func (m *mockService) UpdateWorkingHours(ctx context.Context, businessID, userID string, hours domain.WorkingHours) (*models.WorkingHoursResponse, error) {
	args := m.Called(ctx, businessID, userID, hours)
	if r := args.Get(0); r != nil {
		return r.(*models.WorkingHoursResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(svc *mockService, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Handle("/businesses/{businessId}/working-hours",
		middleware.Auth(http.HandlerFunc(NewHandler(svc, nopLogger{}).Handle))).Methods(http.MethodPut)

	req := httptest.NewRequest(http.MethodPut, "/businesses/b-1/working-hours", strings.NewReader(body))
	req.Header.Set(middleware.UserIDHeader, "owner-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_UpdatesHours(t *testing.T) {
	svc := &mockService{}
	want := domain.WorkingHours{
		domain.Monday: {IsOpen: true, Start: "08:00", End: "12:00"},
		domain.Sunday: {IsOpen: false},
	}
	svc.On("UpdateWorkingHours", mock.Anything, "b-1", "owner-1", want).
		Return(&models.WorkingHoursResponse{BusinessID: "b-1", WorkingHours: want}, nil)

	rec := serve(svc, `{"workingHours":{"monday":{"isOpen":true,"start":"08:00","end":"12:00"},"sunday":{"isOpen":false}}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"businessId":"b-1"`)
	svc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	validBody := `{"workingHours":{"monday":{"isOpen":true,"start":"08:00","end":"12:00"}}}`

	tests := []struct {
		name     string
		body     string
		svcErr   error
		wantCode int
	}{
		{name: "malformed json", body: `{`, wantCode: http.StatusBadRequest},
		{name: "missing hours", body: `{}`, wantCode: http.StatusBadRequest},
		{name: "invalid hours", body: validBody, svcErr: fmt.Errorf("%w: monday: start after end", business.ErrInvalidInput), wantCode: http.StatusBadRequest},
		{name: "not owner", body: validBody, svcErr: business.ErrAccessDenied, wantCode: http.StatusForbidden},
		{name: "not found", body: validBody, svcErr: business.ErrBusinessNotFound, wantCode: http.StatusNotFound},
		{name: "internal", body: validBody, svcErr: business.ErrInternal, wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			if tt.svcErr != nil {
				svc.On("UpdateWorkingHours", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.svcErr)
			}

			rec := serve(svc, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}
