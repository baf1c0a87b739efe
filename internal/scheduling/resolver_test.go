package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

func weekdayTemplate(duration int) *domain.ScheduleTemplate {
	tpl := &domain.ScheduleTemplate{ProviderID: "barberA", SlotDurationMinutes: duration}
	for _, d := range []domain.Weekday{domain.Monday, domain.Tuesday, domain.Wednesday, domain.Thursday, domain.Friday} {
		tpl.Days[d] = domain.DaySchedule{Enabled: true, StartTime: "09:00", EndTime: "12:00"}
	}
	tpl.Days[domain.Saturday] = domain.DaySchedule{Enabled: false, StartTime: "10:00", EndTime: "14:00"}
	return tpl
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAvailableSlots_MondayScenario(t *testing.T) {
	monday := day(2024, 3, 4)
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	got, err := AvailableSlots(weekdayTemplate(60), monday, now)
	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"09:00", "10:00", "11:00"}, got)
}

func TestAvailableSlots_DisabledDay(t *testing.T) {
	tpl := weekdayTemplate(30)
	saturday := day(2024, 3, 9)

	nows := []time.Time{
		time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 9, 11, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC),
	}
	for _, now := range nows {
		got, err := AvailableSlots(tpl, saturday, now)
		require.NoError(t, err)
		assert.Empty(t, got)
	}

	// Sunday is zero-valued in the template
	got, err := AvailableSlots(tpl, day(2024, 3, 10), nows[0])
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAvailableSlots_SameDayLeadTime(t *testing.T) {
	tpl := &domain.ScheduleTemplate{SlotDurationMinutes: 1}
	tpl.Days[domain.Monday] = domain.DaySchedule{Enabled: true, StartTime: "10:00", EndTime: "11:00"}

	// 2024-01-01 is a Monday
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	got, err := AvailableSlots(tpl, day(2024, 1, 1), now)
	require.NoError(t, err)

	assert.False(t, ContainsSlot(got, "10:15"))
	assert.False(t, ContainsSlot(got, "10:30"), "exactly now+30min must be excluded")
	assert.True(t, ContainsSlot(got, "10:31"))
	assert.Equal(t, types.TimeString("10:31"), got[0])
}

func TestAvailableSlots_FutureDateNotFiltered(t *testing.T) {
	now := time.Date(2024, 3, 3, 23, 50, 0, 0, time.UTC)
	got, err := AvailableSlots(weekdayTemplate(60), day(2024, 3, 4), now)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestAvailableSlots_PastEndOfWindow(t *testing.T) {
	now := time.Date(2024, 3, 4, 11, 45, 0, 0, time.UTC)
	got, err := AvailableSlots(weekdayTemplate(60), day(2024, 3, 4), now)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAvailableSlots_RepeatedCallsStable(t *testing.T) {
	tpl := weekdayTemplate(20)
	now := time.Date(2024, 3, 4, 9, 10, 0, 0, time.UTC)

	first, err := AvailableSlots(tpl, day(2024, 3, 4), now)
	require.NoError(t, err)
	second, err := AvailableSlots(tpl, day(2024, 3, 4), now)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, types.TimeString("10:00"), first[0])
}

func TestAvailableSlots_NilTemplate(t *testing.T) {
	_, err := AvailableSlots(nil, day(2024, 3, 4), time.Now())
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestCheckSelectableDate(t *testing.T) {
	tpl := weekdayTemplate(30)
	// Monday
	now := time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		date    time.Time
		wantErr error
	}{
		{name: "today", date: day(2024, 3, 4)},
		{name: "tomorrow", date: day(2024, 3, 5)},
		{name: "yesterday", date: day(2024, 3, 3), wantErr: ErrDateInPast},
		{name: "horizon edge", date: day(2024, 4, 3)},
		{name: "beyond horizon", date: day(2024, 4, 4), wantErr: ErrDateTooFarInFuture},
		{name: "disabled saturday", date: day(2024, 3, 9), wantErr: ErrDayDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSelectableDate(tpl, tt.date, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, IsSelectableDate(tpl, tt.date, now))
				return
			}
			assert.NoError(t, err)
			assert.True(t, IsSelectableDate(tpl, tt.date, now))
		})
	}
}
