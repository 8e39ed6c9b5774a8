package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/comercial-bex/criativo-flow-sub009/internal/domain"
)

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) domain.PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*domain.PlannedPost, error) {
	var row postRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPostNotFound
		}
		return nil, err
	}

	return postFromRow(row)
}

func (r *postRepository) ListByDay(ctx context.Context, date string) ([]domain.PlannedPost, error) {
	var rows []postRow
	if err := r.db.WithContext(ctx).
		Where("scheduled_date = ?", date).
		Order("scheduled_time asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	posts := make([]domain.PlannedPost, 0, len(rows))
	for _, row := range rows {
		post, err := postFromRow(row)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, nil
}

func (r *postRepository) UpdateSchedule(ctx context.Context, id, date, clock string) error {
	res := r.db.WithContext(ctx).Model(&postRow{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"scheduled_date": date,
			"scheduled_time": clock,
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *postRepository) UpdateStatus(ctx context.Context, id string, status domain.PostStatus) error {
	res := r.db.WithContext(ctx).Model(&postRow{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func postFromRow(row postRow) (*domain.PlannedPost, error) {
	platforms, err := unmarshalPlatforms(row.Platforms)
	if err != nil {
		return nil, err
	}

	return &domain.PlannedPost{
		ID:            row.ID,
		ClientID:      row.ClientID,
		ProjectID:     row.ProjectID,
		Status:        domain.PostStatus(row.Status),
		ScheduledDate: row.ScheduledDate,
		ScheduledTime: row.ScheduledTime,
		Platforms:     platforms,
		Caption:       row.Caption,
		MediaURL:      row.MediaURL,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}, nil
}
