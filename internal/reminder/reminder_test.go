package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/didyoueat/didyoueat/internal/checkin"
	apperrors "github.com/didyoueat/didyoueat/internal/errors"
	"github.com/didyoueat/didyoueat/internal/state"
)

func schedule(t *testing.T) *Schedule {
	t.Helper()
	s, err := FromSettings(state.DefaultSettings())
	require.NoError(t, err)
	return s
}

func day(h, m int) time.Time {
	return time.Date(2024, 3, 10, h, m, 0, 0, time.UTC)
}

func TestFromSettingsOrdersSlots(t *testing.T) {
	settings := state.DefaultSettings()
	settings.BreakfastTime = "13:00"
	s, err := FromSettings(settings)
	require.NoError(t, err)

	slots := s.Slots()
	require.Len(t, slots, 3)
	assert.Equal(t, checkin.Lunch, slots[0].Category)
	assert.Equal(t, checkin.Breakfast, slots[1].Category)
	assert.Equal(t, checkin.Dinner, slots[2].Category)
}

func TestFromSettingsRejectsBadTime(t *testing.T) {
	settings := state.DefaultSettings()
	settings.DinnerTime = "7pm"
	_, err := FromSettings(settings)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTime)
}

func TestNext(t *testing.T) {
	s := schedule(t)
	tests := []struct {
		name  string
		after time.Time
		cat   checkin.Category
		want  time.Time
	}{
		{"early morning", day(6, 0), checkin.Breakfast, day(8, 0)},
		{"exactly breakfast", day(8, 0), checkin.Lunch, day(12, 30)},
		{"afternoon", day(15, 0), checkin.Dinner, day(19, 0)},
		{"late night wraps", day(22, 0), checkin.Breakfast, day(8, 0).AddDate(0, 0, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := s.Next(tt.after)
			assert.Equal(t, tt.cat, r.Category)
			assert.True(t, tt.want.Equal(r.At), "got %s", r.At)
		})
	}
}

func TestDue(t *testing.T) {
	s := schedule(t)

	assert.Empty(t, s.Due(day(9, 0), day(12, 0)))

	due := s.Due(day(7, 0), day(13, 0))
	require.Len(t, due, 2)
	assert.Equal(t, checkin.Breakfast, due[0].Category)
	assert.Equal(t, checkin.Lunch, due[1].Category)

	assert.Len(t, s.Due(day(7, 0), day(7, 0).AddDate(0, 0, 1)), 3)
	assert.Empty(t, s.Due(day(13, 0), day(7, 0)))
}

func TestTracker(t *testing.T) {
	var got []Reminder
	tr := NewTracker(schedule(t), day(8, 0), func(r Reminder) { got = append(got, r) })

	assert.Empty(t, tr.Check(day(8, 0)), "start time itself is never reported")
	assert.Empty(t, tr.Check(day(12, 0)))

	due := tr.Check(day(12, 30))
	require.Len(t, due, 1)
	assert.Equal(t, checkin.Lunch, due[0].Category)
	assert.Empty(t, tr.Check(day(12, 31)), "a crossed reminder fires once")
	assert.Len(t, got, 1)
	assert.Equal(t, "Lunch at 12:30", got[0].String())
}
