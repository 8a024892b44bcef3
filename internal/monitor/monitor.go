// Package monitor decides whether the check-in deadline has passed.
//
// Evaluation is recomputed from scratch on every call from the log, the last
// alert dispatch time, and the current time. There is no persisted "breached"
// flag: a new Confirmed event becomes the anchor on the very next evaluation.
package monitor

import (
	"fmt"
	"time"

	"github.com/didyoueat/didyoueat/internal/checkin"
)

const (
	// DefaultWindow is the maximum allowed silence before a breach.
	DefaultWindow = 24 * time.Hour

	// DefaultDebounceFraction is the share of the window that must pass after
	// a dispatch before the alert overlay is raised automatically again.
	DefaultDebounceFraction = 0.5

	// AlertMarker replaces the countdown once the deadline has passed.
	AlertMarker = "ALERT TRIGGERED"
)

// Config holds the monitor's tunables.
type Config struct {
	Window           time.Duration
	DebounceFraction float64
}

// DefaultConfig returns the 24h window with a half-window debounce.
func DefaultConfig() Config {
	return Config{
		Window:           DefaultWindow,
		DebounceFraction: DefaultDebounceFraction,
	}
}

// WindowMillis returns the window in milliseconds.
func (c Config) WindowMillis() int64 {
	return c.Window.Milliseconds()
}

// DebounceMillis returns window*fraction in milliseconds.
func (c Config) DebounceMillis() int64 {
	return int64(float64(c.WindowMillis()) * c.DebounceFraction)
}

// State classifies an evaluation.
type State int

const (
	StateNormal State = iota
	StateBreached
)

func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateBreached:
		return "breached"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// AnchorSource records which rule picked the anchor.
type AnchorSource string

const (
	AnchorConfirmed AnchorSource = "confirmed" // newest Confirmed timestamp
	AnchorLatest    AnchorSource = "latest"    // log[0], no Confirmed events
	AnchorNow       AnchorSource = "now"       // empty log
)

// Result is the outcome of one evaluation. All times are ms since epoch.
type Result struct {
	State        State
	Anchor       int64
	AnchorSource AnchorSource
	Deadline     int64
	Remaining    int64 // deadline - now; <= 0 once breached

	// ShouldTriggerNewAlert is only ever true when breached.
	ShouldTriggerNewAlert bool

	// ClearOverlay is true when the countdown is running again.
	ClearOverlay bool

	// Display is either "<h>h <m>m" or AlertMarker.
	Display string
}

// Breached is shorthand for State == StateBreached.
func (r Result) Breached() bool {
	return r.State == StateBreached
}

// Anchor picks the reference timestamp for the deadline.
func Anchor(log checkin.Log, now int64) (int64, AnchorSource) {
	var (
		anchor int64
		found  bool
	)
	for _, ev := range log {
		if !ev.Outcome.IsConfirmed() {
			continue
		}
		if !found || ev.Timestamp > anchor {
			anchor = ev.Timestamp
			found = true
		}
	}
	if found {
		return anchor, AnchorConfirmed
	}
	if len(log) > 0 {
		return log[0].Timestamp, AnchorLatest
	}
	return now, AnchorNow
}

// Evaluate computes the deadline state. overlayShown reports whether an alert
// overlay is currently surfaced; it suppresses a repeat trigger.
func Evaluate(log checkin.Log, lastAlertDispatchedAt *int64, now int64, overlayShown bool, cfg Config) Result {
	anchor, source := Anchor(log, now)
	deadline := anchor + cfg.WindowMillis()
	remaining := deadline - now

	res := Result{
		Anchor:       anchor,
		AnchorSource: source,
		Deadline:     deadline,
		Remaining:    remaining,
	}

	if remaining <= 0 {
		var last int64
		if lastAlertDispatchedAt != nil {
			last = *lastAlertDispatchedAt
		}
		sinceLastAlert := now - last

		res.State = StateBreached
		res.ShouldTriggerNewAlert = sinceLastAlert >= cfg.DebounceMillis() && !overlayShown
		res.Display = AlertMarker
		return res
	}

	res.State = StateNormal
	res.ClearOverlay = true
	res.Display = FormatRemaining(remaining)
	return res
}

// FormatRemaining renders ms as whole hours and minutes, seconds dropped.
func FormatRemaining(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	hourMs := time.Hour.Milliseconds()
	minuteMs := time.Minute.Milliseconds()
	hours := ms / hourMs
	mins := (ms % hourMs) / minuteMs
	return fmt.Sprintf("%dh %dm", hours, mins)
}
