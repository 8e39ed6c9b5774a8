package scheduleapi

import (
	"context"
	"time"
)

//go:generate mockgen -source=repository.go -destination=mock.go -package=scheduleapi

// PostScheduler is the remote reschedule operation. The target carries the
// full date, time and business UTC offset; the backend answers success, a
// slot conflict with a suggested alternative, or a structured rejection.
type PostScheduler interface {
	Reschedule(ctx context.Context, postID string, target time.Time) error
}
