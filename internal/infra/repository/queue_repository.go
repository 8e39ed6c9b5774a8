package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/comercial-bex/criativo-flow-sub009/internal/domain"
)

type queueRepository struct {
	db *gorm.DB
}

func NewQueueRepository(db *gorm.DB) domain.QueueRepository {
	return &queueRepository{db: db}
}

func (r *queueRepository) Create(ctx context.Context, item *domain.QueueItem) error {
	row, err := queueItemToRow(item)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	row.CreatedAt = now
	row.UpdatedAt = now

	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *queueRepository) GetByID(ctx context.Context, id string) (*domain.QueueItem, error) {
	var row queueItemRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrQueueItemNotFound
		}
		return nil, err
	}

	return queueItemFromRow(row)
}

// retriableStatuses are the states SelectDue and Claim consider eligible.
// Errored items stay in the queue and are picked up again on a later
// invocation until their attempt counter reaches max_attempts.
var retriableStatuses = []string{
	string(domain.QueueStatusPending),
	string(domain.QueueStatusError),
}

func (r *queueRepository) SelectDue(ctx context.Context, now time.Time, limit int) ([]domain.QueueItem, error) {
	var rows []queueItemRow
	if err := r.db.WithContext(ctx).
		Where("status IN ? AND scheduled_at <= ? AND attempts < max_attempts", retriableStatuses, now.UTC()).
		Order("scheduled_at asc").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]domain.QueueItem, 0, len(rows))
	for _, row := range rows {
		item, err := queueItemFromRow(row)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

// Claim is conditional on the item still being in a retriable state, so
// two overlapping invocations cannot both take the same item. The attempt
// counter is incremented in the same write, before any platform call
// happens.
func (r *queueRepository) Claim(ctx context.Context, id string) (*domain.QueueItem, error) {
	res := r.db.WithContext(ctx).Model(&queueItemRow{}).
		Where("id = ? AND status IN ? AND attempts < max_attempts", id, retriableStatuses).
		Updates(map[string]any{
			"status":     string(domain.QueueStatusProcessing),
			"attempts":   gorm.Expr("attempts + 1"),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrItemNotClaimable
	}

	return r.GetByID(ctx, id)
}

func (r *queueRepository) Finalize(ctx context.Context, item *domain.QueueItem) error {
	results, err := marshalResults(item.Results)
	if err != nil {
		return err
	}

	updates := map[string]any{
		"status":        string(item.Status),
		"results":       results,
		"error_message": item.ErrorMessage,
		"published_at":  item.PublishedAt,
		"updated_at":    time.Now().UTC(),
	}

	res := r.db.WithContext(ctx).Model(&queueItemRow{}).
		Where("id = ?", item.ID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrQueueItemNotFound
	}
	return nil
}

func queueItemToRow(item *domain.QueueItem) (queueItemRow, error) {
	platforms, err := marshalPlatforms(item.Platforms)
	if err != nil {
		return queueItemRow{}, err
	}
	results, err := marshalResults(item.Results)
	if err != nil {
		return queueItemRow{}, err
	}

	return queueItemRow{
		ID:           item.ID,
		PostID:       item.PostID,
		ClientID:     item.ClientID,
		ScheduledAt:  item.ScheduledAt.UTC(),
		Platforms:    platforms,
		Status:       string(item.Status),
		Attempts:     item.Attempts,
		MaxAttempts:  item.MaxAttempts,
		Results:      results,
		ErrorMessage: item.ErrorMessage,
		PublishedAt:  item.PublishedAt,
	}, nil
}

func queueItemFromRow(row queueItemRow) (*domain.QueueItem, error) {
	platforms, err := unmarshalPlatforms(row.Platforms)
	if err != nil {
		return nil, err
	}
	results, err := unmarshalResults(row.Results)
	if err != nil {
		return nil, err
	}

	return &domain.QueueItem{
		ID:           row.ID,
		PostID:       row.PostID,
		ClientID:     row.ClientID,
		ScheduledAt:  row.ScheduledAt,
		Platforms:    platforms,
		Status:       domain.QueueStatus(row.Status),
		Attempts:     row.Attempts,
		MaxAttempts:  row.MaxAttempts,
		Results:      results,
		ErrorMessage: row.ErrorMessage,
		PublishedAt:  row.PublishedAt,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}, nil
}
