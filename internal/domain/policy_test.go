package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/appointweb-booking/pkg/types"
)

func TestBookingPolicy_ValidateDate(t *testing.T) {
	now := time.Date(2026, 10, 15, 16, 40, 0, 0, time.UTC)
	policy := BookingPolicy{AdvanceBookingDays: 30}

	assert.NoError(t, policy.ValidateDate(time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), now))
	assert.NoError(t, policy.ValidateDate(time.Date(2026, 11, 14, 0, 0, 0, 0, time.UTC), now))
	assert.ErrorIs(t, policy.ValidateDate(time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), now), ErrDateInPast)
	assert.ErrorIs(t, policy.ValidateDate(time.Date(2026, 11, 15, 0, 0, 0, 0, time.UTC), now), ErrDateTooFarInFuture)

	unlimited := BookingPolicy{}
	assert.NoError(t, unlimited.ValidateDate(time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC), now))
}

func TestBookingPolicy_FilterNotice(t *testing.T) {
	now := time.Date(2026, 10, 15, 10, 20, 0, 0, time.UTC)
	policy := BookingPolicy{MinNoticeMinutes: 20}

	slots := []TimeSlot{
		{StartTime: types.MustParseTimeOfDay("10:30")},
		{StartTime: types.MustParseTimeOfDay("10:45")},
		{StartTime: types.MustParseTimeOfDay("11:00")},
	}

	today := policy.FilterNotice(time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), now, slots)
	assert.Len(t, today, 2)
	assert.Equal(t, "10:45", today[0].StartTime.String())

	tomorrow := policy.FilterNotice(time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), now, slots)
	assert.Equal(t, slots, tomorrow)

	assert.True(t, policy.TooLateToBook(now, now, types.MustParseTimeOfDay("10:30").Minutes()))
	assert.False(t, policy.TooLateToBook(now, now, types.MustParseTimeOfDay("10:50").Minutes()))
	assert.False(t, policy.TooLateToBook(now.AddDate(0, 0, 1), now, 0))
}
