package get_available_slots

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/appointweb-booking/internal/domain"
	getAvailableSlots "github.com/m04kA/appointweb-booking/internal/usecase/get_available_slots"
	"github.com/m04kA/appointweb-booking/pkg/types"
)

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*getAvailableSlots.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(uc *mockUseCase, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/businesses/{businessId}/available-slots", NewHandler(uc, nopLogger{}).Handle)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_ReturnsSlots(t *testing.T) {
	uc := &mockUseCase{}
	date := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	uc.On("Execute", mock.Anything, &getAvailableSlots.Request{BusinessID: "b-1", ServiceID: "s-1", Date: date}).
		Return(&getAvailableSlots.Response{
			Date: date, BusinessID: "b-1", ServiceID: "s-1", ServiceName: "Haircut", DurationMinutes: 30,
			Slots: []domain.TimeSlot{
				{StartTime: types.MustParseTimeOfDay("09:00"), EndTime: types.MustParseTimeOfDay("09:30"), Available: true},
				{StartTime: types.MustParseTimeOfDay("09:15"), EndTime: types.MustParseTimeOfDay("09:45"), Available: false},
			},
		}, nil)

	rec := serve(uc, "/businesses/b-1/available-slots?serviceId=s-1&date=2026-10-19")
	require.Equal(t, http.StatusOK, rec.Code)

	var body AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2026-10-19", body.Date)
	assert.Equal(t, 1, body.AvailableCount)
	require.Len(t, body.Slots, 2)
	assert.Equal(t, SlotResponse{StartTime: "09:15", EndTime: "09:45", Available: false}, body.Slots[1])
}

func TestHandle_ClosedDayReturnsEmptyArray(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).
		Return(&getAvailableSlots.Response{Date: time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), Slots: []domain.TimeSlot{}}, nil)

	rec := serve(uc, "/businesses/b-1/available-slots?serviceId=s-1&date=2026-10-18")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slots":[]`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		target   string
		ucErr    error
		wantCode int
	}{
		{target: "/businesses/b-1/available-slots?date=2026-10-19", wantCode: http.StatusBadRequest},
		{target: "/businesses/b-1/available-slots?serviceId=s-1", wantCode: http.StatusBadRequest},
		{target: "/businesses/b-1/available-slots?serviceId=s-1&date=19.10.2026", wantCode: http.StatusBadRequest},
		{target: "/businesses/b-1/available-slots?serviceId=s-1&date=2026-10-19", ucErr: getAvailableSlots.ErrBusinessNotFound, wantCode: http.StatusNotFound},
		{target: "/businesses/b-1/available-slots?serviceId=s-1&date=2026-10-19", ucErr: getAvailableSlots.ErrServiceNotFound, wantCode: http.StatusNotFound},
		{target: "/businesses/b-1/available-slots?serviceId=s-1&date=2026-10-19", ucErr: getAvailableSlots.ErrInvalidDate, wantCode: http.StatusBadRequest},
		{target: "/businesses/b-1/available-slots?serviceId=s-1&date=2026-10-19", ucErr: getAvailableSlots.ErrDateTooFarInFuture, wantCode: http.StatusBadRequest},
		{target: "/businesses/b-1/available-slots?serviceId=s-1&date=2026-10-19", ucErr: fmt.Errorf("%w: db down", getAvailableSlots.ErrInternal), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%v", tt.target, tt.ucErr), func(t *testing.T) {
			uc := &mockUseCase{}
			if tt.ucErr != nil {
				uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.ucErr)
			}

			rec := serve(uc, tt.target)
			assert.Equal(t, tt.wantCode, rec.Code)

			var body struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}
