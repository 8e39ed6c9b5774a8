package reschedule

import "time"

// Outcome tells the caller how a drop or resolution ended.
type Outcome string

const (
	// OutcomeApplied: the move is confirmed at the store and a timed undo
	// is armed.
	OutcomeApplied Outcome = "applied"
	// OutcomeSlotConflict: the backend rejected the slot and suggested the
	// next available one; the caller must accept or decline.
	OutcomeSlotConflict Outcome = "slot-conflict"
	// OutcomeRolledBack: the optimistic move was reverted to the original
	// slot.
	OutcomeRolledBack Outcome = "rolled-back"
)

type DropResult struct {
	Outcome      Outcome
	PostID       string
	Date         string
	Time         string
	SuggestedAt  *time.Time
	UndoDeadline *time.Time
}

type pendingConflict struct {
	suggestedAt time.Time
}

type undoEntry struct {
	originalDate string
	originalTime string
	deadline     time.Time
}
