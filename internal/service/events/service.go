package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/comercial-bex/criativo-flow-sub009/internal/domain"
	"github.com/comercial-bex/criativo-flow-sub009/internal/infra/eventcache"
)

// WindowQuery is the adapter-level fetch contract: [Start, End] is required
// and inclusive on both ends, the assignee filter is pushed to the store,
// and type/origin are applied in-memory after the fetch. An empty value or
// domain.FilterAll on Type/Origin means no filter.
type WindowQuery struct {
	Start      time.Time
	End        time.Time
	AssigneeID string
	Type       string
	Origin     string
}

// Service is the CRUD and query facade over the calendar event store.
type Service struct {
	eventRepo   domain.EventRepository
	postRepo    domain.PostRepository
	queueRepo   domain.QueueRepository
	cache       *eventcache.Cache
	loc         *time.Location
	maxAttempts int
}

func NewService(
	eventRepo domain.EventRepository,
	postRepo domain.PostRepository,
	queueRepo domain.QueueRepository,
	cache *eventcache.Cache,
	loc *time.Location,
	maxAttempts int,
) *Service {
	return &Service{
		eventRepo:   eventRepo,
		postRepo:    postRepo,
		queueRepo:   queueRepo,
		cache:       cache,
		loc:         loc,
		maxAttempts: maxAttempts,
	}
}

func (s *Service) FetchWindow(ctx context.Context, q WindowQuery) ([]domain.CalendarEvent, error) {
	repoQuery := domain.EventWindowQuery{
		Start:      q.Start,
		End:        q.End,
		AssigneeID: q.AssigneeID,
	}

	events, hit, err := s.cachedFetch(ctx, repoQuery)
	if err != nil {
		return nil, err
	}

	if !hit {
		events, err = s.eventRepo.FetchWindow(ctx, repoQuery)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch events: %w", err)
		}

		if s.cache != nil {
			if err := s.cache.Set(ctx, repoQuery, events); err != nil {
				slog.WarnContext(ctx, "failed to cache event window",
					slog.String("error", err.Error()),
				)
			}
		}
	}

	return filterInMemory(events, q.Type, q.Origin), nil
}

func (s *Service) cachedFetch(ctx context.Context, q domain.EventWindowQuery) ([]domain.CalendarEvent, bool, error) {
	if s.cache == nil {
		return nil, false, nil
	}

	events, hit, err := s.cache.Get(ctx, q)
	if err != nil {
		slog.WarnContext(ctx, "failed to read event window cache",
			slog.String("error", err.Error()),
		)
		return nil, false, nil
	}
	return events, hit, nil
}

// filterInMemory narrows by type and origin after the fetch. The store
// query never carries these filters.
func filterInMemory(events []domain.CalendarEvent, eventType, origin string) []domain.CalendarEvent {
	filterType := eventType != "" && eventType != domain.FilterAll
	filterOrigin := origin != "" && origin != domain.FilterAll
	if !filterType && !filterOrigin {
		return events
	}

	filtered := make([]domain.CalendarEvent, 0, len(events))
	for _, e := range events {
		if filterType && e.Type != eventType {
			continue
		}
		if filterOrigin && string(e.Origin) != origin {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

func (s *Service) GetEvent(ctx context.Context, id string) (*domain.CalendarEvent, error) {
	return s.eventRepo.GetByID(ctx, id)
}

func (s *Service) CreateEvent(ctx context.Context, event *domain.CalendarEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Origin == "" {
		event.Origin = domain.OriginManual
	}
	if event.Status == "" {
		event.Status = domain.EventStatusScheduled
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	s.invalidate(ctx)
	return nil
}

func (s *Service) UpdateEvent(ctx context.Context, event *domain.CalendarEvent) error {
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	s.invalidate(ctx)
	return nil
}

func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	s.invalidate(ctx)
	return nil
}

// SchedulePost sets a post's publication slot, enqueues its publish work
// and creates the automatic calendar event for the slot.
func (s *Service) SchedulePost(ctx context.Context, postID, date, clock string) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.IsLocked() {
		return domain.ErrPostPublished
	}
	if clock == "" {
		clock = post.SlotTime()
	}

	scheduledAt, err := domain.ResolveTimestamp(date, clock, s.loc)
	if err != nil {
		return err
	}

	if err := s.postRepo.UpdateSchedule(ctx, postID, date, clock); err != nil {
		return fmt.Errorf("failed to schedule post: %w", err)
	}
	if err := s.postRepo.UpdateStatus(ctx, postID, domain.PostStatusScheduled); err != nil {
		return fmt.Errorf("failed to mark post scheduled: %w", err)
	}

	item := &domain.QueueItem{
		ID:          uuid.NewString(),
		PostID:      post.ID,
		ClientID:    post.ClientID,
		ScheduledAt: scheduledAt,
		Platforms:   post.Platforms,
		Status:      domain.QueueStatusPending,
		MaxAttempts: s.maxAttempts,
	}
	if err := s.queueRepo.Create(ctx, item); err != nil {
		return fmt.Errorf("failed to enqueue publication: %w", err)
	}

	event := &domain.CalendarEvent{
		ID:       uuid.NewString(),
		Title:    fmt.Sprintf("Publication: %s", post.ID),
		StartsAt: scheduledAt,
		EndsAt:   scheduledAt.Add(time.Hour),
		Type:     "publication",
		Origin:   domain.OriginAutomatic,
		ClientID: post.ClientID,
		Status:   domain.EventStatusScheduled,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("failed to create publication event: %w", err)
	}

	slog.InfoContext(ctx, "post scheduled",
		slog.String("post_id", post.ID),
		slog.Time("scheduled_at", scheduledAt),
		slog.String("queue_item_id", item.ID),
	)

	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		slog.WarnContext(ctx, "failed to invalidate event window cache",
			slog.String("error", err.Error()),
		)
	}
}
