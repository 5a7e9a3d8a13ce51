package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/appointweb-booking/internal/domain"
	businessRepo "github.com/m04kA/appointweb-booking/internal/infra/storage/business"
	"github.com/m04kA/appointweb-booking/pkg/types"
)

type mockBusinessReader struct{ mock.Mock }

func (m *mockBusinessReader) GetByID(ctx context.Context, id string) (*domain.Business, error) {
	args := m.Called(ctx, id)
	if b := args.Get(0); b != nil {
		return b.(*domain.Business), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockAppointmentRepo struct{ mock.Mock }

func (m *mockAppointmentRepo) ListActiveByDate(ctx context.Context, businessID string, date time.Time) ([]*domain.Appointment, error) {
	args := m.Called(ctx, businessID, date)
	if a := args.Get(0); a != nil {
		return a.([]*domain.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

type countingMetrics struct{ outcomes []string }

func (c *countingMetrics) IncSlotComputation(outcome string) { c.outcomes = append(c.outcomes, outcome) }

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var (
	// четверг
	today  = time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
)

func testBusiness() *domain.Business {
	hours := domain.DefaultWorkingHours()
	hours[domain.Monday] = domain.DaySchedule{IsOpen: true, Start: "09:00", End: "11:00"}
	hours[domain.Thursday] = domain.DaySchedule{IsOpen: true, Start: "09:00", End: "12:00"}
	return &domain.Business{
		ID:           "b-1",
		Status:       domain.BusinessActive,
		WorkingHours: hours,
		Services:     []domain.Service{{ID: "s-1", Name: "Haircut", DurationMinutes: 30}},
	}
}

func newUseCase(now time.Time, policy domain.BookingPolicy) (*UseCase, *mockBusinessReader, *mockAppointmentRepo, *countingMetrics) {
	businesses := &mockBusinessReader{}
	appointments := &mockAppointmentRepo{}
	m := &countingMetrics{}
	uc := NewUseCase(businesses, appointments, policy, m, nopLogger{})
	uc.timeProvider = fixedTime{now: now}
	return uc, businesses, appointments, m
}

func TestExecute_ReturnsSlotsWithAvailability(t *testing.T) {
	uc, businesses, appointments, m := newUseCase(today.Add(8*time.Hour), domain.BookingPolicy{})
	ctx := context.Background()

	businesses.On("GetByID", ctx, "b-1").Return(testBusiness(), nil)
	appointments.On("ListActiveByDate", ctx, "b-1", monday).Return([]*domain.Appointment{
		{Date: monday, StartTime: types.MustParseTimeOfDay("10:00"), DurationMinutes: 30, Status: domain.StatusConfirmed},
	}, nil)

	resp, err := uc.Execute(ctx, &Request{BusinessID: "b-1", ServiceID: "s-1", Date: monday})
	require.NoError(t, err)

	assert.Equal(t, "Haircut", resp.ServiceName)
	assert.Equal(t, 30, resp.DurationMinutes)
	require.Len(t, resp.Slots, 7) // 09:00 .. 10:30

	want := map[string]bool{
		"09:00": true, "09:15": true, "09:30": true,
		"09:45": false, "10:00": false, "10:15": false,
		"10:30": true,
	}
	for _, s := range resp.Slots {
		assert.Equal(t, want[s.StartTime.String()], s.Available, s.StartTime.String())
	}
	assert.Equal(t, []string{"ok"}, m.outcomes)
}

func TestExecute_ClosedDayIsEmpty(t *testing.T) {
	uc, businesses, appointments, m := newUseCase(today, domain.BookingPolicy{})
	ctx := context.Background()
	saturday := monday.AddDate(0, 0, -2)

	businesses.On("GetByID", ctx, "b-1").Return(testBusiness(), nil)
	appointments.On("ListActiveByDate", ctx, "b-1", saturday).Return([]*domain.Appointment{}, nil)

	resp, err := uc.Execute(ctx, &Request{BusinessID: "b-1", ServiceID: "s-1", Date: saturday})
	require.NoError(t, err)
	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
	assert.Equal(t, []string{"empty"}, m.outcomes)
}

func TestExecute_TodayHidesSlotsInsideNoticeWindow(t *testing.T) {
	now := today.Add(10*time.Hour + 5*time.Minute) // 10:05
	uc, businesses, appointments, _ := newUseCase(now, domain.BookingPolicy{MinNoticeMinutes: 60})
	ctx := context.Background()

	businesses.On("GetByID", ctx, "b-1").Return(testBusiness(), nil)
	appointments.On("ListActiveByDate", ctx, "b-1", today).Return(nil, nil)

	resp, err := uc.Execute(ctx, &Request{BusinessID: "b-1", ServiceID: "s-1", Date: today})
	require.NoError(t, err)

	// earliest start 11:05, close 12:00, duration 30
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, "11:15", resp.Slots[0].StartTime.String())
	assert.Equal(t, "11:30", resp.Slots[1].StartTime.String())
}

func TestExecute_Errors(t *testing.T) {
	ctx := context.Background()
	dbErr := errors.New("connection reset")

	tests := []struct {
		name    string
		req     *Request
		policy  domain.BookingPolicy
		setup   func(b *mockBusinessReader, a *mockAppointmentRepo)
		wantErr error
	}{
		{
			name:    "missing business id",
			req:     &Request{ServiceID: "s-1", Date: monday},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing date",
			req:     &Request{BusinessID: "b-1", ServiceID: "s-1"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "past date",
			req:     &Request{BusinessID: "b-1", ServiceID: "s-1", Date: today.AddDate(0, 0, -1)},
			wantErr: ErrInvalidDate,
		},
		{
			name:    "beyond advance window",
			req:     &Request{BusinessID: "b-1", ServiceID: "s-1", Date: monday},
			policy:  domain.BookingPolicy{AdvanceBookingDays: 2},
			wantErr: ErrDateTooFarInFuture,
		},
		{
			name: "business not found",
			req:  &Request{BusinessID: "b-1", ServiceID: "s-1", Date: monday},
			setup: func(b *mockBusinessReader, _ *mockAppointmentRepo) {
				b.On("GetByID", ctx, "b-1").Return(nil, businessRepo.ErrBusinessNotFound)
			},
			wantErr: ErrBusinessNotFound,
		},
		{
			name: "business store failure",
			req:  &Request{BusinessID: "b-1", ServiceID: "s-1", Date: monday},
			setup: func(b *mockBusinessReader, _ *mockAppointmentRepo) {
				b.On("GetByID", ctx, "b-1").Return(nil, dbErr)
			},
			wantErr: ErrInternal,
		},
		{
			name: "inactive business",
			req:  &Request{BusinessID: "b-1", ServiceID: "s-1", Date: monday},
			setup: func(b *mockBusinessReader, _ *mockAppointmentRepo) {
				biz := testBusiness()
				biz.Status = domain.BusinessSuspended
				b.On("GetByID", ctx, "b-1").Return(biz, nil)
			},
			wantErr: ErrBusinessInactive,
		},
		{
			name: "unknown service",
			req:  &Request{BusinessID: "b-1", ServiceID: "s-9", Date: monday},
			setup: func(b *mockBusinessReader, _ *mockAppointmentRepo) {
				b.On("GetByID", ctx, "b-1").Return(testBusiness(), nil)
			},
			wantErr: ErrServiceNotFound,
		},
		{
			name: "appointments failure",
			req:  &Request{BusinessID: "b-1", ServiceID: "s-1", Date: monday},
			setup: func(b *mockBusinessReader, a *mockAppointmentRepo) {
				b.On("GetByID", ctx, "b-1").Return(testBusiness(), nil)
				a.On("ListActiveByDate", ctx, "b-1", monday).Return(nil, dbErr)
			},
			wantErr: ErrInternal,
		},
		{
			name: "corrupted schedule",
			req:  &Request{BusinessID: "b-1", ServiceID: "s-1", Date: monday},
			setup: func(b *mockBusinessReader, a *mockAppointmentRepo) {
				biz := testBusiness()
				biz.WorkingHours[domain.Monday] = domain.DaySchedule{IsOpen: true, Start: "nine", End: "11:00"}
				b.On("GetByID", ctx, "b-1").Return(biz, nil)
				a.On("ListActiveByDate", ctx, "b-1", monday).Return(nil, nil)
			},
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, businesses, appointments, _ := newUseCase(today.Add(9*time.Hour), tt.policy)
			if tt.setup != nil {
				tt.setup(businesses, appointments)
			}

			resp, err := uc.Execute(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, resp)
			businesses.AssertExpectations(t)
			appointments.AssertExpectations(t)
		})
	}
}
