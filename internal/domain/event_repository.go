package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=event_repository.go -destination=mock_event_repository.go -package=domain

// EventWindowQuery selects events whose start or end falls inside
// [Start, End], inclusive on both ends. An empty AssigneeID means the
// full unfiltered window, never a single-assignee fallback.
type EventWindowQuery struct {
	Start      time.Time
	End        time.Time
	AssigneeID string
}

type EventRepository interface {
	FetchWindow(ctx context.Context, q EventWindowQuery) ([]CalendarEvent, error)
	GetByID(ctx context.Context, id string) (*CalendarEvent, error)
	Create(ctx context.Context, event *CalendarEvent) error
	Update(ctx context.Context, event *CalendarEvent) error
	Delete(ctx context.Context, id string) error
}
