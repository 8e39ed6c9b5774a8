package eventcache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/comercial-bex/criativo-flow-sub009/internal/domain"
)

const (
	windowKeyPrefix = "events:window:"

	windowTTL = 5 * time.Minute
)

var ErrInvalidCacheData = errors.New("invalid cached event data")

type eventRecord struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
	Type         string    `json:"type"`
	AssigneeID   string    `json:"assignee_id,omitempty"`
	AssigneeName string    `json:"assignee_name,omitempty"`
	Origin       string    `json:"origin"`
	IsBlocking   bool      `json:"is_blocking"`
	IsExtra      bool      `json:"is_extra"`
	ProjectID    string    `json:"project_id,omitempty"`
	ClientID     string    `json:"client_id,omitempty"`
	Status       string    `json:"status"`
}

// Cache holds recently fetched event windows. Mutations invalidate every
// cached window; that invalidation is the only consistency mechanism
// between writers and readers of the calendar.
type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Get(ctx context.Context, q domain.EventWindowQuery) ([]domain.CalendarEvent, bool, error) {
	data, err := c.client.Get(ctx, windowKey(q)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var records []eventRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, false, ErrInvalidCacheData
	}

	events := make([]domain.CalendarEvent, 0, len(records))
	for _, r := range records {
		events = append(events, domain.CalendarEvent{
			ID:           r.ID,
			Title:        r.Title,
			StartsAt:     r.StartsAt,
			EndsAt:       r.EndsAt,
			Type:         r.Type,
			AssigneeID:   r.AssigneeID,
			AssigneeName: r.AssigneeName,
			Origin:       domain.EventOrigin(r.Origin),
			IsBlocking:   r.IsBlocking,
			IsExtra:      r.IsExtra,
			ProjectID:    r.ProjectID,
			ClientID:     r.ClientID,
			Status:       domain.EventStatus(r.Status),
		})
	}
	return events, true, nil
}

func (c *Cache) Set(ctx context.Context, q domain.EventWindowQuery, events []domain.CalendarEvent) error {
	records := make([]eventRecord, 0, len(events))
	for _, e := range events {
		records = append(records, eventRecord{
			ID:           e.ID,
			Title:        e.Title,
			StartsAt:     e.StartsAt,
			EndsAt:       e.EndsAt,
			Type:         e.Type,
			AssigneeID:   e.AssigneeID,
			AssigneeName: e.AssigneeName,
			Origin:       string(e.Origin),
			IsBlocking:   e.IsBlocking,
			IsExtra:      e.IsExtra,
			ProjectID:    e.ProjectID,
			ClientID:     e.ClientID,
			Status:       string(e.Status),
		})
	}

	data, err := json.Marshal(records)
	if err != nil {
		return ErrInvalidCacheData
	}

	return c.client.Set(ctx, windowKey(q), data, windowTTL).Err()
}

// Invalidate drops every cached window. Single-event mutations can land in
// any number of overlapping windows, so everything goes.
func (c *Cache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, windowKeyPrefix+"*", 0).Iterator()

	pipe := c.client.Pipeline()
	for iter.Next(ctx) {
		pipe.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	_, err := pipe.Exec(ctx)
	return err
}

func windowKey(q domain.EventWindowQuery) string {
	assignee := q.AssigneeID
	if assignee == "" {
		assignee = "all"
	}
	return windowKeyPrefix +
		q.Start.UTC().Format(time.RFC3339) + ":" +
		q.End.UTC().Format(time.RFC3339) + ":" +
		assignee
}
