package queueproc

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/comercial-bex/criativo-flow-sub009/internal/domain"
	"github.com/comercial-bex/criativo-flow-sub009/internal/service/publisher"
)

func pendingItem(id, postID string, platforms ...domain.Platform) domain.QueueItem {
	return domain.QueueItem{
		ID:          id,
		PostID:      postID,
		ClientID:    "client-1",
		ScheduledAt: time.Now().Add(-time.Minute),
		Platforms:   platforms,
		Status:      domain.QueueStatusPending,
		MaxAttempts: 3,
	}
}

func claimedCopy(item domain.QueueItem) *domain.QueueItem {
	claimed := item
	claimed.Status = domain.QueueStatusProcessing
	claimed.Attempts = item.Attempts + 1
	return &claimed
}

func testPost(id string, platforms ...domain.Platform) *domain.PlannedPost {
	return &domain.PlannedPost{
		ID:            id,
		ClientID:      "client-1",
		Status:        domain.PostStatusScheduled,
		ScheduledDate: "2026-04-01",
		ScheduledTime: "09:00",
		Platforms:     platforms,
		Caption:       "launch post",
	}
}

func TestProcessDue_AllPlatformsSucceed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQueue := domain.NewMockQueueRepository(ctrl)
	mockPosts := domain.NewMockPostRepository(ctrl)
	mockPub := publisher.NewMockPublisher(ctrl)

	item := pendingItem("item-1", "post-1", domain.PlatformInstagram)
	now := time.Now()

	mockQueue.EXPECT().SelectDue(gomock.Any(), now, 10).Return([]domain.QueueItem{item}, nil)
	mockQueue.EXPECT().Claim(gomock.Any(), "item-1").Return(claimedCopy(item), nil)
	mockPosts.EXPECT().GetByID(gomock.Any(), "post-1").Return(testPost("post-1", domain.PlatformInstagram), nil)
	mockPub.EXPECT().
		Publish(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&publisher.PublishResult{PlatformPostID: "ig-123"}, nil)
	mockQueue.EXPECT().
		Finalize(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, finalized *domain.QueueItem) error {
			if finalized.Status != domain.QueueStatusPublished {
				t.Errorf("status: got %q, want %q", finalized.Status, domain.QueueStatusPublished)
			}
			if finalized.PublishedAt == nil {
				t.Error("expected PublishedAt to be set")
			}
			if finalized.ErrorMessage != "" {
				t.Errorf("error message: got %q, want empty", finalized.ErrorMessage)
			}
			r, ok := finalized.Results[domain.PlatformInstagram]
			if !ok || !r.Success || r.PlatformPostID != "ig-123" {
				t.Errorf("instagram result: got %+v", r)
			}
			return nil
		})
	mockPosts.EXPECT().UpdateStatus(gomock.Any(), "post-1", domain.PostStatusPublished).Return(nil)

	p := NewProcessor(mockQueue, mockPosts, publisher.Registry{domain.PlatformInstagram: mockPub}, 10, nil, nil)

	resp, err := p.ProcessDue(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Processed != 1 || resp.SuccessCount != 1 || resp.FailedCount != 0 || resp.SkippedCount != 0 {
		t.Errorf("counts: got processed=%d success=%d failed=%d skipped=%d",
			resp.Processed, resp.SuccessCount, resp.FailedCount, resp.SkippedCount)
	}
	if !resp.Results[0].Success {
		t.Error("item result: expected success")
	}
}

func TestProcessDue_PartialPlatformFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQueue := domain.NewMockQueueRepository(ctrl)
	mockPosts := domain.NewMockPostRepository(ctrl)
	igPub := publisher.NewMockPublisher(ctrl)
	fbPub := publisher.NewMockPublisher(ctrl)

	item := pendingItem("item-1", "post-1", domain.PlatformInstagram, domain.PlatformFacebook)
	now := time.Now()

	mockQueue.EXPECT().SelectDue(gomock.Any(), now, 10).Return([]domain.QueueItem{item}, nil)
	mockQueue.EXPECT().Claim(gomock.Any(), "item-1").Return(claimedCopy(item), nil)
	mockPosts.EXPECT().GetByID(gomock.Any(), "post-1").
		Return(testPost("post-1", domain.PlatformInstagram, domain.PlatformFacebook), nil)

	igPub.EXPECT().
		Publish(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrCredentialNotFound)
	fbPub.EXPECT().
		Publish(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&publisher.PublishResult{PlatformPostID: "fb-456"}, nil)

	mockQueue.EXPECT().
		Finalize(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, finalized *domain.QueueItem) error {
			if finalized.Status != domain.QueueStatusError {
				t.Errorf("status: got %q, want %q", finalized.Status, domain.QueueStatusError)
			}
			if finalized.PublishedAt != nil {
				t.Error("PublishedAt must stay unset on failure")
			}
			if finalized.ErrorMessage == "" {
				t.Error("expected an error summary")
			}
			if len(finalized.Results) != 2 {
				t.Errorf("results: got %d entries, want 2 (failures recorded alongside successes)", len(finalized.Results))
			}
			if r := finalized.Results[domain.PlatformFacebook]; !r.Success || r.PlatformPostID != "fb-456" {
				t.Errorf("facebook result: got %+v", r)
			}
			if r := finalized.Results[domain.PlatformInstagram]; r.Success || r.Error == "" {
				t.Errorf("instagram result: got %+v", r)
			}
			return nil
		})

	// The post must not be marked published when any platform failed.

	registry := publisher.Registry{
		domain.PlatformInstagram: igPub,
		domain.PlatformFacebook:  fbPub,
	}
	p := NewProcessor(mockQueue, mockPosts, registry, 10, nil, nil)

	resp, err := p.ProcessDue(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.FailedCount != 1 || resp.SuccessCount != 0 {
		t.Errorf("counts: got success=%d failed=%d, want 0/1", resp.SuccessCount, resp.FailedCount)
	}
	if resp.Results[0].Success {
		t.Error("item result: expected failure")
	}
	if len(resp.Results[0].Platforms) != 2 {
		t.Errorf("per-platform results: got %d, want 2", len(resp.Results[0].Platforms))
	}
}

func TestProcessDue_ClaimMissIsSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQueue := domain.NewMockQueueRepository(ctrl)
	mockPosts := domain.NewMockPostRepository(ctrl)

	item := pendingItem("item-1", "post-1", domain.PlatformInstagram)
	now := time.Now()

	mockQueue.EXPECT().SelectDue(gomock.Any(), now, 10).Return([]domain.QueueItem{item}, nil)
	mockQueue.EXPECT().Claim(gomock.Any(), "item-1").Return(nil, domain.ErrItemNotClaimable)

	p := NewProcessor(mockQueue, mockPosts, publisher.Registry{}, 10, nil, nil)

	resp, err := p.ProcessDue(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.SkippedCount != 1 {
		t.Errorf("skipped: got %d, want 1", resp.SkippedCount)
	}
	if !resp.Results[0].Skipped {
		t.Error("item result: expected skipped")
	}
}

func TestProcessDue_MissingPublisherFailsItem(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQueue := domain.NewMockQueueRepository(ctrl)
	mockPosts := domain.NewMockPostRepository(ctrl)

	item := pendingItem("item-1", "post-1", domain.PlatformLinkedIn)
	now := time.Now()

	mockQueue.EXPECT().SelectDue(gomock.Any(), now, 10).Return([]domain.QueueItem{item}, nil)
	mockQueue.EXPECT().Claim(gomock.Any(), "item-1").Return(claimedCopy(item), nil)
	mockPosts.EXPECT().GetByID(gomock.Any(), "post-1").Return(testPost("post-1", domain.PlatformLinkedIn), nil)
	mockQueue.EXPECT().
		Finalize(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, finalized *domain.QueueItem) error {
			if finalized.Status != domain.QueueStatusError {
				t.Errorf("status: got %q, want %q", finalized.Status, domain.QueueStatusError)
			}
			return nil
		})

	p := NewProcessor(mockQueue, mockPosts, publisher.Registry{}, 10, nil, nil)

	resp, err := p.ProcessDue(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.FailedCount != 1 {
		t.Errorf("failed: got %d, want 1", resp.FailedCount)
	}
}

func TestProcessDue_PostLoadFailureFailsItemOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQueue := domain.NewMockQueueRepository(ctrl)
	mockPosts := domain.NewMockPostRepository(ctrl)
	mockPub := publisher.NewMockPublisher(ctrl)

	broken := pendingItem("item-1", "post-gone", domain.PlatformInstagram)
	healthy := pendingItem("item-2", "post-2", domain.PlatformInstagram)
	now := time.Now()

	mockQueue.EXPECT().SelectDue(gomock.Any(), now, 10).Return([]domain.QueueItem{broken, healthy}, nil)

	mockQueue.EXPECT().Claim(gomock.Any(), "item-1").Return(claimedCopy(broken), nil)
	mockPosts.EXPECT().GetByID(gomock.Any(), "post-gone").Return(nil, domain.ErrPostNotFound)
	mockQueue.EXPECT().Finalize(gomock.Any(), gomock.Any()).Return(nil)

	mockQueue.EXPECT().Claim(gomock.Any(), "item-2").Return(claimedCopy(healthy), nil)
	mockPosts.EXPECT().GetByID(gomock.Any(), "post-2").Return(testPost("post-2", domain.PlatformInstagram), nil)
	mockPub.EXPECT().
		Publish(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&publisher.PublishResult{PlatformPostID: "ig-789"}, nil)
	mockQueue.EXPECT().Finalize(gomock.Any(), gomock.Any()).Return(nil)
	mockPosts.EXPECT().UpdateStatus(gomock.Any(), "post-2", domain.PostStatusPublished).Return(nil)

	p := NewProcessor(mockQueue, mockPosts, publisher.Registry{domain.PlatformInstagram: mockPub}, 10, nil, nil)

	resp, err := p.ProcessDue(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Processed != 2 {
		t.Errorf("processed: got %d, want 2", resp.Processed)
	}
	if resp.FailedCount != 1 || resp.SuccessCount != 1 {
		t.Errorf("counts: got failed=%d success=%d, want 1/1", resp.FailedCount, resp.SuccessCount)
	}
}

func TestProcessDue_PanicFinalizesClaimedItem(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQueue := domain.NewMockQueueRepository(ctrl)
	mockPosts := domain.NewMockPostRepository(ctrl)
	mockPub := publisher.NewMockPublisher(ctrl)

	item := pendingItem("item-1", "post-1", domain.PlatformInstagram)
	now := time.Now()

	mockQueue.EXPECT().SelectDue(gomock.Any(), now, 10).Return([]domain.QueueItem{item}, nil)
	mockQueue.EXPECT().Claim(gomock.Any(), "item-1").Return(claimedCopy(item), nil)
	mockPosts.EXPECT().GetByID(gomock.Any(), "post-1").Return(testPost("post-1", domain.PlatformInstagram), nil)
	mockPub.EXPECT().
		Publish(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *domain.QueueItem, *domain.PlannedPost) (*publisher.PublishResult, error) {
			panic("nil token deref")
		})

	// A panic after the claim must not strand the row in processing.
	mockQueue.EXPECT().
		Finalize(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, finalized *domain.QueueItem) error {
			if finalized.Status != domain.QueueStatusError {
				t.Errorf("status: got %q, want %q", finalized.Status, domain.QueueStatusError)
			}
			if finalized.ErrorMessage == "" {
				t.Error("expected the panic message on the item")
			}
			if finalized.PublishedAt != nil {
				t.Error("PublishedAt must stay unset on failure")
			}
			return nil
		})

	p := NewProcessor(mockQueue, mockPosts, publisher.Registry{domain.PlatformInstagram: mockPub}, 10, nil, nil)

	resp, err := p.ProcessDue(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.FailedCount != 1 || resp.SuccessCount != 0 || resp.SkippedCount != 0 {
		t.Errorf("counts: got success=%d failed=%d skipped=%d, want 0/1/0",
			resp.SuccessCount, resp.FailedCount, resp.SkippedCount)
	}
	if resp.Results[0].Error == "" {
		t.Error("item result: expected the panic message")
	}
}

func TestProcessDue_SelectDueError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQueue := domain.NewMockQueueRepository(ctrl)
	mockQueue.EXPECT().SelectDue(gomock.Any(), gomock.Any(), 10).Return(nil, errors.New("db down"))

	p := NewProcessor(mockQueue, domain.NewMockPostRepository(ctrl), publisher.Registry{}, 10, nil, nil)

	if _, err := p.ProcessDue(context.Background(), time.Now()); err == nil {
		t.Fatal("expected an error when the due query fails")
	}
}

func TestProcessDue_EmptyBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQueue := domain.NewMockQueueRepository(ctrl)
	mockQueue.EXPECT().SelectDue(gomock.Any(), gomock.Any(), 10).Return(nil, nil)

	p := NewProcessor(mockQueue, domain.NewMockPostRepository(ctrl), publisher.Registry{}, 10, nil, nil)

	resp, err := p.ProcessDue(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success || resp.Processed != 0 {
		t.Errorf("got success=%v processed=%d, want true/0", resp.Success, resp.Processed)
	}
}
