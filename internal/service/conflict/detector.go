package conflict

import (
	"fmt"
	"sort"
	"time"

	"github.com/comercial-bex/criativo-flow-sub009/internal/domain"
)

const (
	// dailyOverloadThreshold is the event count above which a day is
	// flagged as overloaded; above the high threshold severity escalates.
	dailyOverloadThreshold     = 3
	dailyOverloadHighThreshold = 5
)

// Detector finds schedule overlaps and daily overload per assignee.
// Detection is pure and recomputed from scratch on every call; nothing is
// cached or persisted. Output order is unspecified.
type Detector struct {
	loc *time.Location
}

// NewDetector builds a detector that buckets days in the given display
// timezone.
func NewDetector(loc *time.Location) *Detector {
	if loc == nil {
		loc = time.UTC
	}
	return &Detector{loc: loc}
}

func (d *Detector) Detect(events []domain.CalendarEvent) []domain.Conflict {
	byAssignee := make(map[string][]domain.CalendarEvent)
	for _, e := range events {
		// Events without an assignee are excluded from conflict analysis.
		if e.AssigneeID == "" {
			continue
		}
		byAssignee[e.AssigneeID] = append(byAssignee[e.AssigneeID], e)
	}

	var conflicts []domain.Conflict
	for assigneeID, assigned := range byAssignee {
		sort.Slice(assigned, func(i, j int) bool {
			return assigned[i].StartsAt.Before(assigned[j].StartsAt)
		})

		conflicts = append(conflicts, d.detectOverlaps(assigneeID, assigned)...)
		conflicts = append(conflicts, d.detectDailyOverload(assigneeID, assigned)...)
	}
	return conflicts
}

// detectOverlaps checks adjacent pairs in start order. A chain of 3+
// mutually overlapping events surfaces as multiple adjacent-pair conflicts,
// not one merged conflict.
func (d *Detector) detectOverlaps(assigneeID string, sorted []domain.CalendarEvent) []domain.Conflict {
	var conflicts []domain.Conflict
	for i := 0; i+1 < len(sorted); i++ {
		current, next := sorted[i], sorted[i+1]
		if current.EndsAt.After(next.StartsAt) {
			conflicts = append(conflicts, domain.Conflict{
				AssigneeID:   assigneeID,
				AssigneeName: current.AssigneeName,
				Kind:         domain.ConflictOverlap,
				Severity:     domain.SeverityHigh,
				Events:       []domain.CalendarEvent{current, next},
				Message: fmt.Sprintf("%s has overlapping events: %q and %q",
					current.AssigneeName, current.Title, next.Title),
			})
		}
	}
	return conflicts
}

func (d *Detector) detectDailyOverload(assigneeID string, events []domain.CalendarEvent) []domain.Conflict {
	byDay := make(map[string][]domain.CalendarEvent)
	for _, e := range events {
		day := e.DayKey(d.loc)
		byDay[day] = append(byDay[day], e)
	}

	var conflicts []domain.Conflict
	for day, dayEvents := range byDay {
		count := len(dayEvents)
		if count <= dailyOverloadThreshold {
			continue
		}

		severity := domain.SeverityMedium
		if count > dailyOverloadHighThreshold {
			severity = domain.SeverityHigh
		}

		conflicts = append(conflicts, domain.Conflict{
			AssigneeID:   assigneeID,
			AssigneeName: dayEvents[0].AssigneeName,
			Kind:         domain.ConflictDailyOverload,
			Severity:     severity,
			Events:       dayEvents,
			Day:          day,
			EventCount:   count,
			Message: fmt.Sprintf("%s has %d events on %s",
				dayEvents[0].AssigneeName, count, day),
		})
	}
	return conflicts
}
