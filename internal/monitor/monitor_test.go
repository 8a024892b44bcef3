package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/didyoueat/didyoueat/internal/checkin"
)

const day = int64(24 * 60 * 60 * 1000)

func ev(ts int64, outcome checkin.Outcome) checkin.Event {
	return checkin.Event{ID: "e", Timestamp: ts, Category: checkin.Extra, Outcome: outcome}
}

func ptr(v int64) *int64 { return &v }

func TestAnchor(t *testing.T) {
	t.Run("max confirmed regardless of order", func(t *testing.T) {
		log := checkin.Log{
			ev(5000, checkin.Confirmed),
			ev(9000, checkin.Deferred),
			ev(7000, checkin.Confirmed), // out-of-order timestamp wins
			ev(1000, checkin.Confirmed),
		}
		anchor, src := Anchor(log, 50_000)
		assert.Equal(t, int64(7000), anchor)
		assert.Equal(t, AnchorConfirmed, src)
	})

	t.Run("falls back to newest inserted when only deferred", func(t *testing.T) {
		log := checkin.Log{
			ev(3000, checkin.Deferred),
			ev(8000, checkin.Deferred),
		}
		anchor, src := Anchor(log, 50_000)
		assert.Equal(t, int64(3000), anchor)
		assert.Equal(t, AnchorLatest, src)
	})

	t.Run("empty log anchors to now", func(t *testing.T) {
		anchor, src := Anchor(nil, 42)
		assert.Equal(t, int64(42), anchor)
		assert.Equal(t, AnchorNow, src)
	})
}

func TestEvaluateEmptyLogIsFreshWindow(t *testing.T) {
	cfg := DefaultConfig()
	for _, now := range []int64{0, 1, 1_700_000_000_000} {
		res := Evaluate(nil, nil, now, false, cfg)
		assert.Equal(t, StateNormal, res.State)
		assert.Equal(t, day, res.Remaining)
		assert.Equal(t, "24h 0m", res.Display)
	}
}

func TestEvaluateBreachBoundary(t *testing.T) {
	cfg := DefaultConfig()
	const anchor = int64(1_000_000)
	log := checkin.Log{ev(anchor, checkin.Confirmed)}

	before := Evaluate(log, nil, anchor+day-1, false, cfg)
	assert.Equal(t, StateNormal, before.State)
	assert.Equal(t, int64(1), before.Remaining)
	assert.True(t, before.ClearOverlay)
	assert.False(t, before.ShouldTriggerNewAlert)

	at := Evaluate(log, nil, anchor+day, false, cfg)
	assert.Equal(t, StateBreached, at.State)
	assert.Equal(t, int64(0), at.Remaining)
	assert.Equal(t, AlertMarker, at.Display)
	assert.False(t, at.ClearOverlay)
}

func TestEvaluateDebounce(t *testing.T) {
	cfg := DefaultConfig()
	half := day / 2
	log := checkin.Log{ev(0, checkin.Confirmed)}
	d := 3 * day

	tests := []struct {
		name         string
		lastAlert    *int64
		overlayShown bool
		want         bool
	}{
		{"never dispatched", nil, false, true},
		{"dispatched just inside half window", ptr(d - half + 1), false, false},
		{"dispatched just outside half window", ptr(d - half - 1), false, true},
		{"dispatched exactly half window ago", ptr(d - half), false, true},
		{"overlay already shown", nil, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Evaluate(log, tt.lastAlert, d, tt.overlayShown, cfg)
			require.True(t, res.Breached())
			assert.Equal(t, tt.want, res.ShouldTriggerNewAlert)
		})
	}
}

func TestEvaluateRecoversOnConfirmed(t *testing.T) {
	cfg := DefaultConfig()
	log := checkin.Log{ev(0, checkin.Confirmed)}
	now := 2 * day

	require.True(t, Evaluate(log, nil, now, false, cfg).Breached())

	log, _ = checkin.Append(log, checkin.Extra, checkin.Confirmed, now, nil)
	res := Evaluate(log, nil, now, true, cfg)
	assert.Equal(t, StateNormal, res.State)
	assert.Equal(t, day, res.Remaining)
	assert.True(t, res.ClearOverlay)
}

func TestEvaluateDeferredDoesNotRecoverConfirmedAnchor(t *testing.T) {
	cfg := DefaultConfig()
	log := checkin.Log{ev(0, checkin.Confirmed)}
	log, _ = checkin.Append(log, checkin.Lunch, checkin.Deferred, 2*day, nil)

	res := Evaluate(log, nil, 2*day, false, cfg)
	assert.True(t, res.Breached())
	assert.Equal(t, AnchorConfirmed, res.AnchorSource)
}

func TestEvaluateScenarios(t *testing.T) {
	cfg := DefaultConfig()
	log := checkin.Log{ev(1000, checkin.Confirmed)}

	t.Run("one ms past the deadline with no prior alert", func(t *testing.T) {
		res := Evaluate(log, nil, 1000+day+1, false, cfg)
		assert.True(t, res.Breached())
		assert.True(t, res.ShouldTriggerNewAlert)
	})

	t.Run("twelve hours in", func(t *testing.T) {
		res := Evaluate(log, nil, 1000+day/2, false, cfg)
		assert.Equal(t, StateNormal, res.State)
		assert.Equal(t, "12h 0m", res.Display)
	})

	t.Run("twelve hours and one ms in floors to minutes", func(t *testing.T) {
		res := Evaluate(log, nil, 1000+day/2+1, false, cfg)
		assert.Equal(t, "11h 59m", res.Display)
	})
}

func TestEvaluateCustomConfig(t *testing.T) {
	cfg := Config{Window: time.Hour, DebounceFraction: 0.25}
	log := checkin.Log{ev(0, checkin.Confirmed)}
	hour := time.Hour.Milliseconds()

	res := Evaluate(log, ptr(hour), hour+hour/4, false, cfg)
	assert.True(t, res.Breached())
	assert.True(t, res.ShouldTriggerNewAlert)

	res = Evaluate(log, ptr(hour), hour+hour/4-1, false, cfg)
	assert.False(t, res.ShouldTriggerNewAlert)
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "0h 0m"},
		{59_999, "0h 0m"},
		{60_000, "0h 1m"},
		{3_600_000, "1h 0m"},
		{day - 1, "23h 59m"},
		{-5, "0h 0m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatRemaining(tt.ms), "ms=%d", tt.ms)
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "normal", StateNormal.String())
	assert.Equal(t, "breached", StateBreached.String())
}
