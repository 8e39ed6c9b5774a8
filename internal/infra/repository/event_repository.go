package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/comercial-bex/criativo-flow-sub009/internal/domain"
)

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) domain.EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) FetchWindow(ctx context.Context, q domain.EventWindowQuery) ([]domain.CalendarEvent, error) {
	// [start, end] is inclusive on both ends against event start/end.
	query := r.db.WithContext(ctx).
		Where("starts_at <= ? AND ends_at >= ?", q.End, q.Start)

	// An empty assignee means the full unfiltered window. The filter is only
	// attached when a concrete assignee is requested; reusing the filtered
	// path for "all" would silently drop every other assignee's events.
	if q.AssigneeID != "" {
		query = query.Where("assignee_id = ?", q.AssigneeID)
	}

	var rows []eventRow
	if err := query.Order("starts_at asc").Find(&rows).Error; err != nil {
		return nil, err
	}

	events := make([]domain.CalendarEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, eventFromRow(row))
	}
	return events, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.CalendarEvent, error) {
	var row eventRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}

	event := eventFromRow(row)
	return &event, nil
}

func (r *eventRepository) Create(ctx context.Context, event *domain.CalendarEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	row := eventToRow(event)
	now := time.Now().UTC()
	row.CreatedAt = now
	row.UpdatedAt = now

	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *eventRepository) Update(ctx context.Context, event *domain.CalendarEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	row := eventToRow(event)
	row.UpdatedAt = time.Now().UTC()

	res := r.db.WithContext(ctx).Model(&eventRow{}).
		Where("id = ?", event.ID).
		Select("*").Omit("id", "created_at").
		Updates(&row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&eventRow{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func eventToRow(e *domain.CalendarEvent) eventRow {
	return eventRow{
		ID:           e.ID,
		Title:        e.Title,
		StartsAt:     e.StartsAt.UTC(),
		EndsAt:       e.EndsAt.UTC(),
		Type:         e.Type,
		AssigneeID:   e.AssigneeID,
		AssigneeName: e.AssigneeName,
		Origin:       string(e.Origin),
		IsBlocking:   e.IsBlocking,
		IsExtra:      e.IsExtra,
		ProjectID:    e.ProjectID,
		ClientID:     e.ClientID,
		Status:       string(e.Status),
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func eventFromRow(row eventRow) domain.CalendarEvent {
	return domain.CalendarEvent{
		ID:           row.ID,
		Title:        row.Title,
		StartsAt:     row.StartsAt,
		EndsAt:       row.EndsAt,
		Type:         row.Type,
		AssigneeID:   row.AssigneeID,
		AssigneeName: row.AssigneeName,
		Origin:       domain.EventOrigin(row.Origin),
		IsBlocking:   row.IsBlocking,
		IsExtra:      row.IsExtra,
		ProjectID:    row.ProjectID,
		ClientID:     row.ClientID,
		Status:       domain.EventStatus(row.Status),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
