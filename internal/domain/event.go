package domain

import (
	"time"
)

// EventOrigin distinguishes events entered by hand from events created by
// an automatic rule (e.g. scheduling a post creates its capture slot).
type EventOrigin string

const (
	OriginManual    EventOrigin = "manual"
	OriginAutomatic EventOrigin = "automatic"
)

// FilterAll is the sentinel accepted by type/origin filters meaning
// "no filter".
const FilterAll = "all"

type EventStatus string

const (
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusDone      EventStatus = "done"
	EventStatusCancelled EventStatus = "cancelled"
)

// CalendarEvent is one scheduled occurrence on the team calendar
// (capture, edit, meeting, publication slot, ...).
type CalendarEvent struct {
	ID           string
	Title        string
	StartsAt     time.Time
	EndsAt       time.Time
	Type         string
	AssigneeID   string
	AssigneeName string
	Origin       EventOrigin
	IsBlocking   bool
	IsExtra      bool
	ProjectID    string
	ClientID     string
	Status       EventStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (e *CalendarEvent) IsAutomatic() bool {
	return e.Origin == OriginAutomatic
}

// Validate checks the start < end invariant.
func (e *CalendarEvent) Validate() error {
	if !e.StartsAt.Before(e.EndsAt) {
		return ErrInvalidEventWindow
	}
	return nil
}

// Overlaps reports whether two events intersect in time
// (startA < endB && startB < endA).
func (e *CalendarEvent) Overlaps(other *CalendarEvent) bool {
	return e.StartsAt.Before(other.EndsAt) && other.StartsAt.Before(e.EndsAt)
}

// DayKey returns the calendar day of the event start in the given display
// timezone, formatted as YYYY-MM-DD.
func (e *CalendarEvent) DayKey(loc *time.Location) string {
	return e.StartsAt.In(loc).Format(DateLayout)
}
