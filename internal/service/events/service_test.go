package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/comercial-bex/criativo-flow-sub009/internal/domain"
)

func testEvents() []domain.CalendarEvent {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return []domain.CalendarEvent{
		{ID: "e1", Title: "Gravação", Type: "gravacao", Origin: domain.OriginManual, StartsAt: base, EndsAt: base.Add(time.Hour)},
		{ID: "e2", Title: "Edição", Type: "edicao", Origin: domain.OriginManual, StartsAt: base.Add(2 * time.Hour), EndsAt: base.Add(3 * time.Hour)},
		{ID: "e3", Title: "Publication: p1", Type: "publication", Origin: domain.OriginAutomatic, StartsAt: base.Add(4 * time.Hour), EndsAt: base.Add(5 * time.Hour)},
	}
}

func newEventTestService(t *testing.T, ctrl *gomock.Controller) (*Service, *domain.MockEventRepository, *domain.MockPostRepository, *domain.MockQueueRepository) {
	t.Helper()
	eventRepo := domain.NewMockEventRepository(ctrl)
	postRepo := domain.NewMockPostRepository(ctrl)
	queueRepo := domain.NewMockQueueRepository(ctrl)
	svc := NewService(eventRepo, postRepo, queueRepo, nil, time.UTC, 3)
	return svc, eventRepo, postRepo, queueRepo
}

func TestFetchWindow_EmptyAssigneeReturnsFullSet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, eventRepo, _, _ := newEventTestService(t, ctrl)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)

	eventRepo.EXPECT().
		FetchWindow(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q domain.EventWindowQuery) ([]domain.CalendarEvent, error) {
			if q.AssigneeID != "" {
				t.Errorf("assignee filter: got %q, want empty (unfiltered)", q.AssigneeID)
			}
			return testEvents(), nil
		})

	got, err := svc.FetchWindow(context.Background(), WindowQuery{Start: start, End: end})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d events, want 3", len(got))
	}
}

func TestFetchWindow_InMemoryFilters(t *testing.T) {
	tests := []struct {
		name      string
		eventType string
		origin    string
		wantIDs   []string
	}{
		{name: "no filters", wantIDs: []string{"e1", "e2", "e3"}},
		{name: "all sentinel means no filter", eventType: domain.FilterAll, origin: domain.FilterAll, wantIDs: []string{"e1", "e2", "e3"}},
		{name: "by type", eventType: "edicao", wantIDs: []string{"e2"}},
		{name: "by origin", origin: "automatic", wantIDs: []string{"e3"}},
		{name: "type and origin combined", eventType: "gravacao", origin: "automatic", wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, eventRepo, _, _ := newEventTestService(t, ctrl)
			eventRepo.EXPECT().FetchWindow(gomock.Any(), gomock.Any()).Return(testEvents(), nil)

			got, err := svc.FetchWindow(context.Background(), WindowQuery{
				Start:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
				End:    time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
				Type:   tt.eventType,
				Origin: tt.origin,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d events, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("event[%d]: got %q, want %q", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestCreateEvent_Defaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, eventRepo, _, _ := newEventTestService(t, ctrl)

	eventRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *domain.CalendarEvent) error {
			if e.ID == "" {
				t.Error("expected a generated id")
			}
			if e.Origin != domain.OriginManual {
				t.Errorf("origin: got %q, want %q", e.Origin, domain.OriginManual)
			}
			if e.Status != domain.EventStatusScheduled {
				t.Errorf("status: got %q, want %q", e.Status, domain.EventStatusScheduled)
			}
			return nil
		})

	event := &domain.CalendarEvent{
		Title:    "Reunião",
		StartsAt: time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 3, 12, 11, 0, 0, 0, time.UTC),
		Type:     "reuniao",
	}
	if err := svc.CreateEvent(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSchedulePost_CreatesQueueItemAndEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, eventRepo, postRepo, queueRepo := newEventTestService(t, ctrl)

	post := &domain.PlannedPost{
		ID:        "post-1",
		ClientID:  "client-1",
		Status:    domain.PostStatusDraft,
		Platforms: []domain.Platform{domain.PlatformInstagram, domain.PlatformFacebook},
	}
	postRepo.EXPECT().GetByID(gomock.Any(), "post-1").Return(post, nil)
	postRepo.EXPECT().UpdateSchedule(gomock.Any(), "post-1", "2026-04-20", "10:30").Return(nil)
	postRepo.EXPECT().UpdateStatus(gomock.Any(), "post-1", domain.PostStatusScheduled).Return(nil)

	wantAt := time.Date(2026, 4, 20, 10, 30, 0, 0, time.UTC)
	queueRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, item *domain.QueueItem) error {
			if item.ID == "" {
				t.Error("expected a generated queue item id")
			}
			if item.Status != domain.QueueStatusPending {
				t.Errorf("status: got %q, want %q", item.Status, domain.QueueStatusPending)
			}
			if !item.ScheduledAt.Equal(wantAt) {
				t.Errorf("scheduled at: got %v, want %v", item.ScheduledAt, wantAt)
			}
			if item.MaxAttempts != 3 {
				t.Errorf("max attempts: got %d, want 3", item.MaxAttempts)
			}
			if len(item.Platforms) != 2 {
				t.Errorf("platforms: got %d, want 2", len(item.Platforms))
			}
			return nil
		})

	eventRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *domain.CalendarEvent) error {
			if e.Origin != domain.OriginAutomatic {
				t.Errorf("origin: got %q, want %q", e.Origin, domain.OriginAutomatic)
			}
			if e.Type != "publication" {
				t.Errorf("type: got %q, want %q", e.Type, "publication")
			}
			if !e.StartsAt.Equal(wantAt) {
				t.Errorf("starts at: got %v, want %v", e.StartsAt, wantAt)
			}
			return nil
		})

	if err := svc.SchedulePost(context.Background(), "post-1", "2026-04-20", "10:30"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSchedulePost_DefaultSlotTime(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, eventRepo, postRepo, queueRepo := newEventTestService(t, ctrl)

	post := &domain.PlannedPost{
		ID:        "post-1",
		ClientID:  "client-1",
		Status:    domain.PostStatusDraft,
		Platforms: []domain.Platform{domain.PlatformInstagram},
	}
	postRepo.EXPECT().GetByID(gomock.Any(), "post-1").Return(post, nil)
	postRepo.EXPECT().UpdateSchedule(gomock.Any(), "post-1", "2026-04-20", domain.DefaultSlotTime).Return(nil)
	postRepo.EXPECT().UpdateStatus(gomock.Any(), "post-1", domain.PostStatusScheduled).Return(nil)
	queueRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	eventRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	if err := svc.SchedulePost(context.Background(), "post-1", "2026-04-20", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSchedulePost_PublishedPostLocked(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, postRepo, _ := newEventTestService(t, ctrl)

	post := &domain.PlannedPost{ID: "post-1", Status: domain.PostStatusPublished}
	postRepo.EXPECT().GetByID(gomock.Any(), "post-1").Return(post, nil)

	err := svc.SchedulePost(context.Background(), "post-1", "2026-04-20", "10:30")
	if !errors.Is(err, domain.ErrPostPublished) {
		t.Errorf("got %v, want ErrPostPublished", err)
	}
}

func TestDeleteEvent_PropagatesNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, eventRepo, _, _ := newEventTestService(t, ctrl)
	eventRepo.EXPECT().Delete(gomock.Any(), "missing").Return(domain.ErrEventNotFound)

	if err := svc.DeleteEvent(context.Background(), "missing"); !errors.Is(err, domain.ErrEventNotFound) {
		t.Errorf("got %v, want ErrEventNotFound", err)
	}
}
