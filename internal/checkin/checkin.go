// Package checkin models the bounded, newest-first history of check-in events.
package checkin

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/didyoueat/didyoueat/internal/errors"
)

// MaxEvents is the number of events retained in a log.
const MaxEvents = 100

// Category is the time-of-day slot a check-in belongs to.
type Category string

const (
	Breakfast Category = "Breakfast"
	Lunch     Category = "Lunch"
	Dinner    Category = "Dinner"
	Extra     Category = "Extra"
)

// Categories lists every valid category in display order.
var Categories = []Category{Breakfast, Lunch, Dinner, Extra}

// ParseCategory parses a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "breakfast":
		return Breakfast, nil
	case "lunch":
		return Lunch, nil
	case "dinner":
		return Dinner, nil
	case "extra":
		return Extra, nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownCategory, s)
}

// UnmarshalJSON rejects values outside the closed set.
func (c *Category) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// CategoryForHour picks the meal slot for a local hour of day.
func CategoryForHour(hour int) Category {
	switch {
	case hour < 11:
		return Breakfast
	case hour < 16:
		return Lunch
	case hour < 22:
		return Dinner
	default:
		return Extra
	}
}

// Outcome is the user's answer to a check-in prompt.
type Outcome string

const (
	Confirmed Outcome = "YES"
	Deferred  Outcome = "NOT_YET"
)

// ParseOutcome accepts the wire values and a few friendly aliases.
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "confirmed", "ok":
		return Confirmed, nil
	case "not_yet", "not-yet", "notyet", "no", "deferred":
		return Deferred, nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownOutcome, s)
}

// UnmarshalJSON rejects values outside the closed set.
func (o *Outcome) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseOutcome(s)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// IsConfirmed reports whether the outcome counts as proof of life.
func (o Outcome) IsConfirmed() bool {
	switch o {
	case Confirmed:
		return true
	case Deferred:
		return false
	}
	return false
}

// Event is a single recorded check-in.
type Event struct {
	ID        string   `json:"id"`
	Timestamp int64    `json:"timestamp"` // ms since epoch
	Category  Category `json:"mealType"`
	Outcome   Outcome  `json:"response"`
}

// Log is an insertion-ordered history, newest first.
type Log []Event

// IDGenerator produces opaque event identifiers.
type IDGenerator interface {
	New() string
}

// UUIDGenerator issues random v4 UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string {
	return uuid.NewString()
}

// Append returns a new log with an event for (category, outcome) at now
// prepended, truncated to MaxEvents. The input log is not modified.
func Append(log Log, category Category, outcome Outcome, now int64, ids IDGenerator) (Log, Event) {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	ev := Event{
		ID:        ids.New(),
		Timestamp: now,
		Category:  category,
		Outcome:   outcome,
	}

	n := len(log) + 1
	if n > MaxEvents {
		n = MaxEvents
	}
	out := make(Log, 0, n)
	out = append(out, ev)
	out = append(out, log[:n-1]...)
	return out, ev
}

// LastConfirmed returns the newest-inserted Confirmed event, if any.
func (l Log) LastConfirmed() (Event, bool) {
	for _, ev := range l {
		if ev.Outcome.IsConfirmed() {
			return ev, true
		}
	}
	return Event{}, false
}
