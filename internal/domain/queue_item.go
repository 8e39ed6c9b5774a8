package domain

import (
	"time"
)

type QueueStatus string

const (
	QueueStatusPending    QueueStatus = "pending"
	QueueStatusProcessing QueueStatus = "processing"
	QueueStatusPublished  QueueStatus = "published"
	QueueStatusError      QueueStatus = "error"
)

// PlatformResult is the outcome of one platform publish attempt.
type PlatformResult struct {
	Success        bool   `json:"success"`
	PlatformPostID string `json:"platform_post_id,omitempty"`
	Error          string `json:"error,omitempty"`
}

// QueueItem is one durable unit of publish work. Items are created when a
// post is scheduled and mutated exclusively by the queue processor; they
// are terminal at published or attempts-exhausted error.
type QueueItem struct {
	ID           string
	PostID       string
	ClientID     string
	ScheduledAt  time.Time
	Platforms    []Platform
	Status       QueueStatus
	Attempts     int
	MaxAttempts  int
	Results      map[Platform]PlatformResult
	ErrorMessage string
	PublishedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Exhausted reports whether the item has used up its attempt budget and
// must be excluded from future polling.
func (q *QueueItem) Exhausted() bool {
	return q.Attempts >= q.MaxAttempts
}

// OverallSuccess reports whether every targeted platform succeeded.
func (q *QueueItem) OverallSuccess() bool {
	if len(q.Results) == 0 {
		return false
	}
	for _, p := range q.Platforms {
		r, ok := q.Results[p]
		if !ok || !r.Success {
			return false
		}
	}
	return true
}
