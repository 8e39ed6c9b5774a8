package domain

import "time"

// PendingMove is the ephemeral record of an in-flight drag operation.
// It is created at drag start, consumed on successful completion, and
// used to roll back or to power undo. Pending moves live in a map owned
// by the reschedule engine instance, never in the store.
type PendingMove struct {
	PostID       string
	OriginalDate string
	OriginalTime string
	TargetDate   string
	TargetTime   string
	StartedAt    time.Time
}
