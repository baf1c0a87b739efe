package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

func TestGenerateSlots(t *testing.T) {
	tests := []struct {
		name                       string
		startH, startM, endH, endM int
		duration                   int
		want                       []types.TimeString
	}{
		{
			name:   "morning window hourly",
			startH: 9, endH: 12, duration: 60,
			want: []types.TimeString{"09:00", "10:00", "11:00"},
		},
		{
			name:   "last slot may run past the end",
			startH: 9, endH: 10, endM: 45, duration: 60,
			want: []types.TimeString{"09:00", "10:00"},
		},
		{
			name:   "half hour steps",
			startH: 17, startM: 30, endH: 19, duration: 30,
			want: []types.TimeString{"17:30", "18:00", "18:30"},
		},
		{
			name:   "start equals end",
			startH: 9, endH: 9, duration: 30,
			want: []types.TimeString{},
		},
		{
			name:   "start after end",
			startH: 18, endH: 9, duration: 30,
			want: []types.TimeString{},
		},
		{
			name:   "window till 23:59",
			startH: 23, endH: 23, endM: 59, duration: 20,
			want: []types.TimeString{"23:00", "23:20", "23:40"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateSlots(tt.startH, tt.startM, tt.endH, tt.endM, tt.duration)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateSlots_InvalidConfiguration(t *testing.T) {
	_, err := GenerateSlots(9, 0, 12, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = GenerateSlots(9, 0, 12, 0, -15)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = GenerateSlots(25, 0, 12, 0, 30)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestGenerateSlots_BoundsAndSpacing(t *testing.T) {
	windows := []struct{ startH, startM, endH, endM int }{
		{8, 0, 20, 0},
		{9, 15, 13, 50},
		{0, 0, 23, 59},
		{10, 5, 10, 35},
	}
	durations := []int{5, 7, 15, 25, 30, 45, 60, 90, 480}

	for _, w := range windows {
		start := w.startH*60 + w.startM
		end := w.endH*60 + w.endM
		for _, d := range durations {
			slots, err := GenerateSlots(w.startH, w.startM, w.endH, w.endM, d)
			require.NoError(t, err)
			require.NotEmpty(t, slots)

			for i, s := range slots {
				m := s.Minutes()
				assert.GreaterOrEqual(t, m, start)
				assert.Less(t, m, end)
				if i > 0 {
					assert.Equal(t, d, m-slots[i-1].Minutes())
				}
			}
			assert.Equal(t, start, slots[0].Minutes())
			assert.GreaterOrEqual(t, slots[len(slots)-1].Minutes()+d, end)
		}
	}
}

func TestGenerateSlots_Deterministic(t *testing.T) {
	first, err := GenerateSlots(9, 30, 18, 0, 45)
	require.NoError(t, err)
	second, err := GenerateSlots(9, 30, 18, 0, 45)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateDaySlots(t *testing.T) {
	got, err := GenerateDaySlots(domain.DaySchedule{Enabled: false, StartTime: "09:00", EndTime: "12:00"}, 60)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = GenerateDaySlots(domain.DaySchedule{Enabled: true, StartTime: "09:00", EndTime: "12:00"}, 60)
	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"09:00", "10:00", "11:00"}, got)

	_, err = GenerateDaySlots(domain.DaySchedule{Enabled: true, StartTime: "9am", EndTime: "12:00"}, 60)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}
