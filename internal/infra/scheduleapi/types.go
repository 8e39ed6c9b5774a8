package scheduleapi

type rescheduleRequest struct {
	PostID      string `json:"post_id"`
	ScheduledAt string `json:"scheduled_at"`
}

type errorResponse struct {
	Error             string `json:"error"`
	Message           string `json:"message,omitempty"`
	NextAvailableSlot string `json:"next_available_slot,omitempty"`
}

const (
	codeSlotConflict    = "slot_conflict"
	codePastDate        = "past_date"
	codePublishedLocked = "published_locked"
)
