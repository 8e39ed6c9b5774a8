package domain

// ConflictKind classifies a scheduling conflict finding.
type ConflictKind string

const (
	ConflictOverlap       ConflictKind = "overlap"
	ConflictDailyOverload ConflictKind = "daily-overload"
)

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

func (s Severity) String() string {
	return string(s)
}

// Conflict is a derived finding over one assignee's events. Conflicts are
// recomputed from scratch on every input change and never persisted.
type Conflict struct {
	AssigneeID   string
	AssigneeName string
	Kind         ConflictKind
	Severity     Severity
	// Events are the implicated events: exactly 2 for overlap conflicts,
	// all events of the day for daily-overload conflicts.
	Events []CalendarEvent
	// Day and EventCount are set for daily-overload conflicts only.
	Day        string
	EventCount int
	Message    string
}
