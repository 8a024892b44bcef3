package api

import (
	"strings"

	"github.com/didyoueat/didyoueat/internal/checkin"
	"github.com/didyoueat/didyoueat/internal/state"
)

// CheckInBody is the request body for recording a check-in.
// Category is optional and defaults from the time of day.
type CheckInBody struct {
	Category string `json:"category,omitempty"`
	Outcome  string `json:"outcome"`

	category checkin.Category
	outcome  checkin.Outcome
}

func (b *CheckInBody) Validate() error {
	var err error
	if b.outcome, err = checkin.ParseOutcome(b.Outcome); err != nil {
		return err
	}
	if strings.TrimSpace(b.Category) != "" {
		if b.category, err = checkin.ParseCategory(b.Category); err != nil {
			return err
		}
	}
	return nil
}

// SettingsBody is the request body for saving settings.
// Empty meal times keep their current values.
type SettingsBody struct {
	BreakfastTime string `json:"breakfast_time"`
	LunchTime     string `json:"lunch_time"`
	DinnerTime    string `json:"dinner_time"`
	ContactName   string `json:"contact_name"`
	ContactPhone  string `json:"contact_phone"`
}

// Validation happens in state.Settings.Validate once merged.
func (b *SettingsBody) Validate() error {
	return nil
}

// merge overlays the body onto current settings
func (b *SettingsBody) merge(cur state.Settings) state.Settings {
	out := cur
	if v := strings.TrimSpace(b.BreakfastTime); v != "" {
		out.BreakfastTime = v
	}
	if v := strings.TrimSpace(b.LunchTime); v != "" {
		out.LunchTime = v
	}
	if v := strings.TrimSpace(b.DinnerTime); v != "" {
		out.DinnerTime = v
	}
	out.ContactName = strings.TrimSpace(b.ContactName)
	out.ContactPhone = strings.TrimSpace(b.ContactPhone)
	return out
}
