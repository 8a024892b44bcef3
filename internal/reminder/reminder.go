// Package reminder computes daily meal reminder times from the user's
// settings.
package reminder

import (
	"fmt"
	"sort"
	"time"

	"github.com/didyoueat/didyoueat/internal/checkin"
	"github.com/didyoueat/didyoueat/internal/state"
)

// Slot is one daily reminder.
type Slot struct {
	Category checkin.Category
	// Offset from local midnight.
	Offset time.Duration
}

// Reminder is a concrete upcoming reminder.
type Reminder struct {
	Category checkin.Category
	At       time.Time
}

func (r Reminder) String() string {
	return fmt.Sprintf("%s at %s", r.Category, r.At.Format("15:04"))
}

// Schedule is the set of daily reminder slots, ordered by time of day.
type Schedule struct {
	slots []Slot
}

// FromSettings builds a schedule from the configured meal times.
func FromSettings(s state.Settings) (*Schedule, error) {
	times := []struct {
		cat checkin.Category
		val string
	}{
		{checkin.Breakfast, s.BreakfastTime},
		{checkin.Lunch, s.LunchTime},
		{checkin.Dinner, s.DinnerTime},
	}

	sched := &Schedule{}
	for _, t := range times {
		off, err := state.ParseClock(t.val)
		if err != nil {
			return nil, fmt.Errorf("invalid %s time: %w", t.cat, err)
		}
		sched.slots = append(sched.slots, Slot{Category: t.cat, Offset: off})
	}
	sort.SliceStable(sched.slots, func(i, j int) bool {
		return sched.slots[i].Offset < sched.slots[j].Offset
	})
	return sched, nil
}

// Slots returns the daily slots in time-of-day order.
func (s *Schedule) Slots() []Slot {
	out := make([]Slot, len(s.slots))
	copy(out, s.slots)
	return out
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func at(day time.Time, off time.Duration) time.Time {
	h := int(off / time.Hour)
	m := int((off % time.Hour) / time.Minute)
	y, mo, d := day.Date()
	return time.Date(y, mo, d, h, m, 0, 0, day.Location())
}

// Next returns the first reminder strictly after 'after', in after's location.
func (s *Schedule) Next(after time.Time) Reminder {
	day := midnight(after)
	for i := 0; i < 2; i++ {
		for _, slot := range s.slots {
			when := at(day, slot.Offset)
			if when.After(after) {
				return Reminder{Category: slot.Category, At: when}
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	// Unreachable with at least one slot.
	return Reminder{}
}

// Due returns the reminders in the half-open interval (from, to], oldest first.
func (s *Schedule) Due(from, to time.Time) []Reminder {
	if len(s.slots) == 0 || !to.After(from) {
		return nil
	}
	var due []Reminder
	for r := s.Next(from); !r.At.After(to); r = s.Next(r.At) {
		due = append(due, r)
	}
	return due
}

// Notifier delivers a reminder.
type Notifier func(r Reminder)

// Tracker remembers the last check time and reports reminders crossed since.
type Tracker struct {
	schedule *Schedule
	last     time.Time
	notify   Notifier
}

// NewTracker starts tracking at 'start'; reminders at or before start are
// never reported.
func NewTracker(schedule *Schedule, start time.Time, notify Notifier) *Tracker {
	return &Tracker{schedule: schedule, last: start, notify: notify}
}

// Check reports reminders crossed since the previous check and advances.
func (t *Tracker) Check(now time.Time) []Reminder {
	if !now.After(t.last) {
		return nil
	}
	due := t.schedule.Due(t.last, now)
	t.last = now
	if t.notify != nil {
		for _, r := range due {
			t.notify(r)
		}
	}
	return due
}

// SetSchedule swaps the schedule, e.g. after settings change.
func (t *Tracker) SetSchedule(s *Schedule) {
	t.schedule = s
}
