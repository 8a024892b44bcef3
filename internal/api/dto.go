package api

import (
	"time"

	"github.com/didyoueat/didyoueat/internal/app"
	"github.com/didyoueat/didyoueat/internal/checkin"
	"github.com/didyoueat/didyoueat/internal/state"
)

// ErrorDTO is the body of every error response
type ErrorDTO struct {
	Error string `json:"error" yaml:"error"`
}

// StatusDTO is the API representation of one monitor evaluation
type StatusDTO struct {
	SetupComplete bool       `json:"setup_complete" yaml:"setup_complete"`
	State         string     `json:"state,omitempty" yaml:"state,omitempty"`
	Countdown     string     `json:"countdown,omitempty" yaml:"countdown,omitempty"`
	RemainingMs   int64      `json:"remaining_ms" yaml:"remaining_ms"`
	Deadline      *time.Time `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	Anchor        *time.Time `json:"anchor,omitempty" yaml:"anchor,omitempty"`
	AnchorSource  string     `json:"anchor_source,omitempty" yaml:"anchor_source,omitempty"`
	OverlayShown  bool       `json:"overlay_shown" yaml:"overlay_shown"`
	LastAlertAt   *time.Time `json:"last_alert_at,omitempty" yaml:"last_alert_at,omitempty"`
	Contact       string     `json:"contact,omitempty" yaml:"contact,omitempty"`
	EvaluatedAt   time.Time  `json:"evaluated_at" yaml:"evaluated_at"`
}

// EventDTO is the API representation of a check-in event
type EventDTO struct {
	ID       string    `json:"id" yaml:"id"`
	Time     time.Time `json:"time" yaml:"time"`
	Category string    `json:"category" yaml:"category"`
	Outcome  string    `json:"outcome" yaml:"outcome"`
}

// CheckInResultDTO is returned after recording a check-in
type CheckInResultDTO struct {
	Event  EventDTO  `json:"event" yaml:"event"`
	Status StatusDTO `json:"status" yaml:"status"`
}

// AlertResultDTO is returned after an alert handoff
type AlertResultDTO struct {
	DispatchedAt time.Time `json:"dispatched_at" yaml:"dispatched_at"`
	Contact      string    `json:"contact" yaml:"contact"`
	Message      string    `json:"message" yaml:"message"`
}

// SettingsDTO is the API representation of the user settings
type SettingsDTO struct {
	SetupComplete bool   `json:"setup_complete" yaml:"setup_complete"`
	BreakfastTime string `json:"breakfast_time" yaml:"breakfast_time"`
	LunchTime     string `json:"lunch_time" yaml:"lunch_time"`
	DinnerTime    string `json:"dinner_time" yaml:"dinner_time"`
	ContactName   string `json:"contact_name" yaml:"contact_name"`
	ContactPhone  string `json:"contact_phone" yaml:"contact_phone"`
}

func millisTime(ms int64) *time.Time {
	t := time.UnixMilli(ms).UTC()
	return &t
}

// ToStatusDTO converts a snapshot and state to a StatusDTO
func ToStatusDTO(snap app.Snapshot, st state.State) StatusDTO {
	dto := StatusDTO{
		SetupComplete: st.Settings.IsSetupComplete,
		OverlayShown:  snap.OverlayShown,
		EvaluatedAt:   snap.At.UTC(),
	}
	if st.LastSmsSentAt != nil {
		dto.LastAlertAt = millisTime(*st.LastSmsSentAt)
	}
	if !snap.Active {
		return dto
	}
	dto.State = snap.Result.State.String()
	dto.Countdown = snap.Countdown
	dto.RemainingMs = snap.Result.Remaining
	dto.Deadline = millisTime(snap.Result.Deadline)
	dto.Anchor = millisTime(snap.Result.Anchor)
	dto.AnchorSource = string(snap.Result.AnchorSource)
	dto.Contact = st.Settings.ContactName
	return dto
}

// ToEventDTO converts a check-in event
func ToEventDTO(ev checkin.Event) EventDTO {
	return EventDTO{
		ID:       ev.ID,
		Time:     time.UnixMilli(ev.Timestamp).UTC(),
		Category: string(ev.Category),
		Outcome:  string(ev.Outcome),
	}
}

// ToEventDTOs converts a log, newest first
func ToEventDTOs(log checkin.Log) []EventDTO {
	dtos := make([]EventDTO, len(log))
	for i, ev := range log {
		dtos[i] = ToEventDTO(ev)
	}
	return dtos
}

// ToSettingsDTO converts settings
func ToSettingsDTO(s state.Settings) SettingsDTO {
	return SettingsDTO{
		SetupComplete: s.IsSetupComplete,
		BreakfastTime: s.BreakfastTime,
		LunchTime:     s.LunchTime,
		DinnerTime:    s.DinnerTime,
		ContactName:   s.ContactName,
		ContactPhone:  s.ContactPhone,
	}
}
