// Package app owns the single in-memory application state. Every mutation
// goes through the Controller, returns the new state, and is written through
// to the store before the call returns.
package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/didyoueat/didyoueat/internal/alert"
	"github.com/didyoueat/didyoueat/internal/checkin"
	"github.com/didyoueat/didyoueat/internal/clock"
	apperrors "github.com/didyoueat/didyoueat/internal/errors"
	"github.com/didyoueat/didyoueat/internal/logging"
	"github.com/didyoueat/didyoueat/internal/monitor"
	"github.com/didyoueat/didyoueat/internal/state"
)

// Action is an externally triggered check-in, e.g. a notification button.
type Action string

const (
	ActionYes    Action = "yes"
	ActionNotYet Action = "not_yet"
)

// ParseAction maps an action name to the outcome it records.
func ParseAction(s string) (checkin.Outcome, error) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case ActionYes:
		return checkin.Confirmed, nil
	case ActionNotYet:
		return checkin.Deferred, nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownAction, s)
}

// MaskPhone hides all but the last four digits of a phone number.
func MaskPhone(phone string) string {
	if len(phone) <= 4 {
		return strings.Repeat("*", len(phone))
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}

// Snapshot is the UI-facing result of an evaluation.
type Snapshot struct {
	// Active is false until setup completes; the monitor is not run before then.
	Active       bool
	Result       monitor.Result
	OverlayShown bool
	Countdown    string
	// Raised is true when this evaluation newly surfaced the overlay.
	Raised bool
	At     time.Time
}

// Options configures a Controller.
type Options struct {
	Store      state.Store
	Clock      clock.Clock
	IDs        checkin.IDGenerator
	Dispatcher alert.Dispatcher
	Monitor    monitor.Config
}

// Controller is the explicit state container.
type Controller struct {
	mu sync.Mutex

	store      state.Store
	clock      clock.Clock
	ids        checkin.IDGenerator
	dispatcher alert.Dispatcher
	cfg        monitor.Config

	state        state.State
	unsaved      bool
	overlayShown bool
	countdown    string
}

// New loads state from the store and returns a ready controller.
func New(ctx context.Context, opts Options) *Controller {
	c := &Controller{
		store:      opts.Store,
		clock:      opts.Clock,
		ids:        opts.IDs,
		dispatcher: opts.Dispatcher,
		cfg:        opts.Monitor,
	}
	if c.clock == nil {
		c.clock = clock.System{}
	}
	if c.ids == nil {
		c.ids = checkin.UUIDGenerator{}
	}
	if c.cfg.Window <= 0 {
		c.cfg = monitor.DefaultConfig()
	}
	c.state = c.store.Load(ctx)
	return c
}

// Config returns the monitor configuration in use.
func (c *Controller) Config() monitor.Config {
	return c.cfg
}

// State returns a copy of the current state.
func (c *Controller) State() state.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// OverlayShown reports whether the alert overlay is currently surfaced.
func (c *Controller) OverlayShown() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overlayShown
}

// Reload re-reads the store and returns the current state.
func (c *Controller) Reload(ctx context.Context) state.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresh(ctx)
	return c.state.Clone()
}

// refresh picks up writes made by other processes sharing the store. It must
// be called with mu held. While a save is outstanding the in-memory state
// wins, and a failed read keeps it too.
func (c *Controller) refresh(ctx context.Context) {
	if c.unsaved {
		return
	}
	st, err := c.store.Read(ctx)
	if err != nil {
		logging.Warn("Failed to reload state, keeping in-memory copy", logging.Err(err))
		return
	}
	c.state = st
}

// Now returns the controller's current time.
func (c *Controller) Now() time.Time {
	return c.clock.Now()
}

func (c *Controller) nowMillis() int64 {
	return c.clock.Now().UnixMilli()
}

// commit replaces the state and writes it through. Save errors are logged
// and not returned: the in-memory state stays authoritative and the next
// mutation writes again.
func (c *Controller) commit(ctx context.Context, next state.State) state.State {
	c.state = next
	err := c.store.Save(ctx, next)
	c.unsaved = err != nil
	if err != nil {
		logging.Error("Failed to persist state", logging.Err(err))
	}
	return next.Clone()
}

// CompleteSetup validates settings, marks setup complete, and saves.
func (c *Controller) CompleteSetup(ctx context.Context, s state.Settings) (state.State, error) {
	if err := s.Validate(); err != nil {
		return c.State(), err
	}
	s.IsSetupComplete = true

	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresh(ctx)
	next := c.state.Clone()
	next.Settings = s
	logging.Info("Setup complete", logging.String("contact", s.ContactName))
	return c.commit(ctx, next), nil
}

// UpdateSettings validates and replaces the settings. The setup-complete
// flag is preserved from the current state.
func (c *Controller) UpdateSettings(ctx context.Context, s state.Settings) (state.State, error) {
	if err := s.Validate(); err != nil {
		return c.State(), err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresh(ctx)
	next := c.state.Clone()
	s.IsSetupComplete = next.Settings.IsSetupComplete
	next.Settings = s
	logging.Info("Settings updated", logging.String("contact", s.ContactName))
	return c.commit(ctx, next), nil
}

// CheckIn records an event at the current time. A Confirmed outcome clears
// the alert overlay immediately.
func (c *Controller) CheckIn(ctx context.Context, category checkin.Category, outcome checkin.Outcome) (state.State, checkin.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.refresh(ctx)
	next := c.state.Clone()
	var ev checkin.Event
	next.Logs, ev = checkin.Append(next.Logs, category, outcome, c.nowMillis(), c.ids)
	if outcome.IsConfirmed() {
		c.overlayShown = false
	}

	logging.Info("Check-in recorded",
		logging.String("id", ev.ID),
		logging.String("category", string(ev.Category)),
		logging.String("outcome", string(ev.Outcome)))
	return c.commit(ctx, next), ev
}

// HandleAction injects a check-in from an external entry point (a
// notification button or ?checkin= query). Each call appends one event.
func (c *Controller) HandleAction(ctx context.Context, action string) (state.State, checkin.Event, error) {
	outcome, err := ParseAction(action)
	if err != nil {
		return c.State(), checkin.Event{}, err
	}
	st, ev := c.CheckIn(ctx, checkin.Extra, outcome)
	return st, ev, nil
}

// Dispatch records the alert time, hands the message off, and dismisses the
// overlay. A handoff error is logged; the alert still counts as dispatched
// because delivery is never confirmed either way.
func (c *Controller) Dispatch(ctx context.Context) (state.State, error) {
	c.mu.Lock()
	c.refresh(ctx)
	next := c.state.Clone()
	if !next.Settings.IsSetupComplete {
		c.mu.Unlock()
		return next, apperrors.ErrSetupIncomplete
	}
	now := c.nowMillis()
	next.LastSmsSentAt = &now
	c.overlayShown = false
	saved := c.commit(ctx, next)
	contact := next.Settings.Contact()
	c.mu.Unlock()

	logging.Warn("Emergency message handed off",
		logging.String("contact", contact.Name),
		logging.String("phone", MaskPhone(contact.Phone)))

	if c.dispatcher != nil {
		if err := c.dispatcher.Dispatch(ctx, contact, alert.Message); err != nil {
			logging.Error("Alert handoff failed", logging.Err(err))
		}
	}
	return saved, nil
}

// Evaluate reloads the state, runs the monitor against it, and updates the
// overlay flag and countdown.
func (c *Controller) Evaluate(ctx context.Context) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.refresh(ctx)
	now := c.clock.Now()
	if !c.state.Settings.IsSetupComplete {
		return Snapshot{At: now}
	}

	res := monitor.Evaluate(c.state.Logs, c.state.LastSmsSentAt, now.UnixMilli(), c.overlayShown, c.cfg)
	raised := false
	switch {
	case res.ShouldTriggerNewAlert:
		c.overlayShown = true
		raised = true
	case res.ClearOverlay:
		c.overlayShown = false
	}
	c.countdown = res.Display

	return Snapshot{
		Active:       true,
		Result:       res,
		OverlayShown: c.overlayShown,
		Countdown:    res.Display,
		Raised:       raised,
		At:           now,
	}
}

// Countdown returns the display string from the last evaluation.
func (c *Controller) Countdown() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.countdown
}

// DismissOverlay hides the overlay without dispatching.
func (c *Controller) DismissOverlay() {
	c.mu.Lock()
	c.overlayShown = false
	c.mu.Unlock()
}

// SimulateInactivity backdates the log so the next evaluation breaches: it
// inserts a Confirmed Breakfast event one hour past the window ago, keeps
// only events older than that, and clears the last alert time.
func (c *Controller) SimulateInactivity(ctx context.Context) state.State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.refresh(ctx)
	past := c.nowMillis() - (c.cfg.WindowMillis() + time.Hour.Milliseconds())
	logs := checkin.Log{{
		ID:        "debug-old",
		Timestamp: past,
		Category:  checkin.Breakfast,
		Outcome:   checkin.Confirmed,
	}}
	for _, ev := range c.state.Logs {
		if ev.Timestamp < past {
			logs = append(logs, ev)
		}
	}
	if len(logs) > checkin.MaxEvents {
		logs = logs[:checkin.MaxEvents]
	}

	next := c.state.Clone()
	next.Logs = logs
	next.LastSmsSentAt = nil
	logging.Warn("Simulated inactivity", logging.Int64("anchor", past))
	return c.commit(ctx, next)
}

// Reset clears persisted state and returns to defaults.
func (c *Controller) Reset(ctx context.Context) (state.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Reset(ctx); err != nil {
		return c.state.Clone(), fmt.Errorf("failed to reset state: %w", err)
	}
	c.state = state.Default()
	c.unsaved = false
	c.overlayShown = false
	c.countdown = ""
	logging.Info("State reset")
	return c.state.Clone(), nil
}
