package scheduleapi

import (
	"fmt"
	"time"
)

// SlotConflictError reports that the requested slot is already taken and
// carries the backend's suggested next available slot. It is not fatal;
// the caller must ask the user to accept or decline the suggestion.
type SlotConflictError struct {
	SuggestedAt time.Time
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("slot already taken, next available %s", e.SuggestedAt.Format(time.RFC3339))
}
