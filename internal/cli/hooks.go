package cli

import (
	"context"
	"io"
	"sync"

	"github.com/didyoueat/didyoueat/internal/app"
	"github.com/didyoueat/didyoueat/internal/logging"
	"github.com/didyoueat/didyoueat/internal/poller"
	"github.com/didyoueat/didyoueat/internal/reminder"
)

// reminderHook reports meal reminders crossed between polls. The schedule is
// rebuilt from the current settings on each tick so edits apply live.
type reminderHook struct {
	ctl     *app.Controller
	notify  reminder.Notifier
	mu      sync.Mutex
	tracker *reminder.Tracker
}

func newReminderHook(ctl *app.Controller, notify reminder.Notifier) *reminderHook {
	return &reminderHook{ctl: ctl, notify: notify}
}

func (h *reminderHook) onTick(snap app.Snapshot) {
	if !snap.Active {
		return
	}
	sched, err := reminder.FromSettings(h.ctl.State().Settings)
	if err != nil {
		logging.Warn("Reminder schedule unavailable", logging.Err(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.tracker == nil {
		h.tracker = reminder.NewTracker(sched, snap.At, h.notify)
		return
	}
	h.tracker.SetSchedule(sched)
	h.tracker.Check(snap.At)
}

func printReminder(w io.Writer) reminder.Notifier {
	return func(r reminder.Reminder) {
		logging.Info("Meal reminder", logging.String("meal", string(r.Category)), logging.Time("at", r.At))
		printInfo(w, "🍽  Time for %s. Did you eat? (didyoueat checkin yes|not_yet)", r.Category)
	}
}

// alertCallbacks surfaces a breach. With autoDispatch the SMS handoff
// happens immediately; otherwise the user is prompted.
func alertCallbacks(ctx context.Context, ctl *app.Controller, w io.Writer, autoDispatch bool) *poller.Callbacks {
	return &poller.Callbacks{
		OnBreach: func(snap app.Snapshot) {
			contact := ctl.State().Settings.Contact()
			printWarning(w, "No confirmed meal within %s.", ctl.Config().Window)
			if !autoDispatch {
				printInfo(w, "Run 'didyoueat alert' to notify %s, or check in.", contact.Name)
				return
			}
			if _, err := ctl.Dispatch(ctx); err != nil {
				logging.Error("Alert dispatch failed", logging.Err(err))
				return
			}
			printInfo(w, "Alert handed off for %s (%s)", contact.Name, contact.Phone)
		},
		OnRecover: func(snap app.Snapshot) {
			printSuccess(w, "Check-in received. Time until alert: %s", snap.Countdown)
		},
	}
}
