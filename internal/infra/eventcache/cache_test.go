package eventcache

import (
	"context"
	"testing"
	"time"

	"github.com/comercial-bex/criativo-flow-sub009/internal/domain"
	"github.com/comercial-bex/criativo-flow-sub009/internal/testutil"
)

func windowQuery(assignee string) domain.EventWindowQuery {
	return domain.EventWindowQuery{
		Start:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		End:        time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC),
		AssigneeID: assignee,
	}
}

func sampleEvents() []domain.CalendarEvent {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return []domain.CalendarEvent{
		{
			ID:         "e1",
			Title:      "Gravação",
			StartsAt:   start,
			EndsAt:     start.Add(time.Hour),
			Type:       "gravacao",
			AssigneeID: "maria",
			Origin:     domain.OriginManual,
			Status:     domain.EventStatusScheduled,
		},
	}
}

func TestCache_SetGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	cache := NewCache(client)
	q := windowQuery("")

	if _, hit, err := cache.Get(ctx, q); err != nil || hit {
		t.Fatalf("cold cache: got hit=%v err=%v, want miss", hit, err)
	}

	if err := cache.Set(ctx, q, sampleEvents()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, hit, err := cache.Get(ctx, q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hit {
		t.Fatal("expected a cache hit after set")
	}
	if len(got) != 1 || got[0].ID != "e1" {
		t.Errorf("got %v, want the cached event e1", got)
	}
	if got[0].Origin != domain.OriginManual {
		t.Errorf("origin: got %q, want %q", got[0].Origin, domain.OriginManual)
	}
}

func TestCache_KeysAreScopedByQuery(t *testing.T) {
	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	cache := NewCache(client)

	if err := cache.Set(ctx, windowQuery("maria"), sampleEvents()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The unfiltered window is a different key and must stay a miss.
	if _, hit, err := cache.Get(ctx, windowQuery("")); err != nil || hit {
		t.Errorf("unfiltered window: got hit=%v err=%v, want miss", hit, err)
	}
}

func TestCache_InvalidateDropsAllWindows(t *testing.T) {
	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	cache := NewCache(client)

	if err := cache.Set(ctx, windowQuery(""), sampleEvents()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cache.Set(ctx, windowQuery("maria"), sampleEvents()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := cache.Invalidate(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, hit, _ := cache.Get(ctx, windowQuery("")); hit {
		t.Error("unfiltered window survived invalidation")
	}
	if _, hit, _ := cache.Get(ctx, windowQuery("maria")); hit {
		t.Error("assignee window survived invalidation")
	}
}
