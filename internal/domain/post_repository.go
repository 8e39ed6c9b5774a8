package domain

import "context"

//go:generate mockgen -source=post_repository.go -destination=mock_post_repository.go -package=domain

type PostRepository interface {
	GetByID(ctx context.Context, id string) (*PlannedPost, error)
	// ListByDay returns all posts scheduled on the given date (YYYY-MM-DD).
	ListByDay(ctx context.Context, date string) ([]PlannedPost, error)
	UpdateSchedule(ctx context.Context, id, date, clock string) error
	UpdateStatus(ctx context.Context, id string, status PostStatus) error
}
