package update_custom_url

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
	"github.com/m04kA/appointweb-booking/internal/service/business"
	"github.com/m04kA/appointweb-booking/internal/service/business/models"
)

type mockService struct{ mock.Mock }

func (m *mockService) UpdateCustomURL(ctx context.Context, req *models.UpdateCustomURLRequest) (*models.CustomURLResponse, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*models.CustomURLResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(svc *mockService, userID, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	protected := r.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)
	protected.HandleFunc("/businesses/{businessId}/custom-url", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodPut)

	req := httptest.NewRequest(http.MethodPut, "/businesses/b-1/custom-url", strings.NewReader(body))
	if userID != "" {
		req.Header.Set(middleware.UserIDHeader, userID)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_UpdatesCustomURL(t *testing.T) {
	svc := &mockService{}
	svc.On("UpdateCustomURL", mock.Anything, mock.MatchedBy(func(req *models.UpdateCustomURLRequest) bool {
		return req.BusinessID == "b-1" && req.UserID == "owner-1" && req.CustomURL == "bella"
	})).Return(&models.CustomURLResponse{BusinessID: "b-1", CustomURL: "bella"}, nil)

	rec := serve(svc, "owner-1", `{"customUrl":"bella"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"businessId":"b-1","customUrl":"bella"}`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name     string
		userID   string
		body     string
		svcErr   error
		wantCode int
	}{
		{name: "no user header", body: `{"customUrl":"bella"}`, wantCode: http.StatusUnauthorized},
		{name: "malformed body", userID: "owner-1", body: `{"customUrl":`, wantCode: http.StatusBadRequest},
		{name: "invalid format", userID: "owner-1", body: `{"customUrl":"Bella Salon"}`,
			svcErr: fmt.Errorf("%w: bad url", business.ErrInvalidInput), wantCode: http.StatusBadRequest},
		{name: "taken", userID: "owner-1", body: `{"customUrl":"other"}`, svcErr: business.ErrCustomURLTaken, wantCode: http.StatusConflict},
		{name: "not owner", userID: "intruder", body: `{"customUrl":"bella"}`, svcErr: business.ErrAccessDenied, wantCode: http.StatusForbidden},
		{name: "unknown business", userID: "owner-1", body: `{"customUrl":"bella"}`, svcErr: business.ErrBusinessNotFound, wantCode: http.StatusNotFound},
		{name: "internal", userID: "owner-1", body: `{"customUrl":"bella"}`, svcErr: business.ErrInternal, wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			if tt.svcErr != nil {
				svc.On("UpdateCustomURL", mock.Anything, mock.Anything).Return(nil, tt.svcErr)
			}

			rec := serve(svc, tt.userID, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}
