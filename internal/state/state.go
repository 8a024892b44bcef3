// Package state holds the single persisted application blob and the stores
// that load and save it.
package state

import (
	"fmt"
	"strings"
	"time"

	"github.com/didyoueat/didyoueat/internal/checkin"
	apperrors "github.com/didyoueat/didyoueat/internal/errors"
)

// Settings is the user-editable configuration captured by setup.
type Settings struct {
	IsSetupComplete bool   `json:"isSetupComplete"`
	BreakfastTime   string `json:"breakfastTime"`
	LunchTime       string `json:"lunchTime"`
	DinnerTime      string `json:"dinnerTime"`
	ContactName     string `json:"contactName"`
	ContactPhone    string `json:"contactPhone"`
}

// DefaultSettings returns an incomplete setup with the stock meal times.
func DefaultSettings() Settings {
	return Settings{
		IsSetupComplete: false,
		BreakfastTime:   "08:00",
		LunchTime:       "12:30",
		DinnerTime:      "19:00",
	}
}

// Contact is the emergency contact named in the settings.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Contact returns the emergency contact.
func (s Settings) Contact() Contact {
	return Contact{Name: s.ContactName, Phone: s.ContactPhone}
}

// Validate checks the settings before they are accepted. A failure leaves
// previously saved settings untouched.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.ContactName) == "" || strings.TrimSpace(s.ContactPhone) == "" {
		return apperrors.ErrMissingContact
	}
	if !strings.HasPrefix(strings.TrimSpace(s.ContactPhone), "+") {
		return apperrors.ErrInvalidPhone
	}
	for _, f := range []struct {
		name, value string
	}{
		{"breakfast", s.BreakfastTime},
		{"lunch", s.LunchTime},
		{"dinner", s.DinnerTime},
	} {
		if _, err := ParseClock(f.value); err != nil {
			return fmt.Errorf("%s time %q: %w", f.name, f.value, err)
		}
	}
	return nil
}

// ParseClock parses "HH:MM" into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, apperrors.ErrInvalidTime
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// State is the whole persisted blob.
type State struct {
	Settings Settings    `json:"settings"`
	Logs     checkin.Log `json:"logs"`

	// LastSmsSentAt is when the alert was last handed off (ms since epoch).
	LastSmsSentAt *int64 `json:"lastSmsSentAt"`
}

// Default returns the state used when nothing has been saved yet.
func Default() State {
	return State{
		Settings: DefaultSettings(),
		Logs:     checkin.Log{},
	}
}

// Clone returns a deep copy so callers never alias the controller's state.
func (s State) Clone() State {
	out := s
	out.Logs = append(checkin.Log{}, s.Logs...)
	if s.LastSmsSentAt != nil {
		v := *s.LastSmsSentAt
		out.LastSmsSentAt = &v
	}
	return out
}

// normalize fills gaps left by older or hand-edited blobs.
func (s *State) normalize() {
	d := DefaultSettings()
	if s.Settings.BreakfastTime == "" {
		s.Settings.BreakfastTime = d.BreakfastTime
	}
	if s.Settings.LunchTime == "" {
		s.Settings.LunchTime = d.LunchTime
	}
	if s.Settings.DinnerTime == "" {
		s.Settings.DinnerTime = d.DinnerTime
	}
	if s.Logs == nil {
		s.Logs = checkin.Log{}
	}
	if len(s.Logs) > checkin.MaxEvents {
		s.Logs = s.Logs[:checkin.MaxEvents]
	}
}
