package queueproc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/comercial-bex/criativo-flow-sub009/internal/domain"
	"github.com/comercial-bex/criativo-flow-sub009/internal/observability/metrics"
	"github.com/comercial-bex/criativo-flow-sub009/internal/observability/tracing"
	"github.com/comercial-bex/criativo-flow-sub009/internal/service/publisher"
)

// Processor drains due publication queue items and fans each one out to
// its target platforms. Safe to invoke concurrently: claiming is
// conditional, so overlapping runs never double-publish an item.
type Processor struct {
	queueRepo  domain.QueueRepository
	postRepo   domain.PostRepository
	publishers publisher.Registry
	batchSize  int
	metrics    *metrics.SchedulerMetrics
	logger     *slog.Logger
}

func NewProcessor(
	queueRepo domain.QueueRepository,
	postRepo domain.PostRepository,
	publishers publisher.Registry,
	batchSize int,
	schedMetrics *metrics.SchedulerMetrics,
	logger *slog.Logger,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Processor{
		queueRepo:  queueRepo,
		postRepo:   postRepo,
		publishers: publishers,
		batchSize:  batchSize,
		metrics:    schedMetrics,
		logger:     logger,
	}
}

// ProcessDue selects the items due at now and processes them one by one.
// A failure on one item never aborts the rest of the batch.
func (p *Processor) ProcessDue(ctx context.Context, now time.Time) (*Response, error) {
	batchStart := time.Now()

	ctx, span := tracing.StartBatchSpan(ctx, now, p.batchSize)
	defer span.End()

	due, err := p.queueRepo.SelectDue(ctx, now, p.batchSize)
	if err != nil {
		tracing.RecordBatchResult(span, 0, 0, 0, 0, err)

		return nil, fmt.Errorf("failed to select due queue items: %w", err)
	}

	p.logger.InfoContext(ctx, "processing publication queue",
		slog.Int("due_items", len(due)),
		slog.Time("reference_time", now),
	)

	resp := &Response{
		Success: true,
		Results: make([]ItemResult, 0, len(due)),
	}

	for i := range due {
		item := &due[i]

		result := p.processItem(ctx, item)
		resp.Results = append(resp.Results, result)
		resp.Processed++

		switch {
		case result.Skipped:
			resp.SkippedCount++
			p.recordItem(ctx, "skipped")
		case result.Success:
			resp.SuccessCount++
			p.recordItem(ctx, "published")
		default:
			resp.FailedCount++
			p.recordItem(ctx, "failed")
		}
	}

	batchDuration := time.Since(batchStart)
	if p.metrics != nil {
		p.metrics.RecordBatchDuration(ctx, batchDuration)
	}
	tracing.RecordBatchResult(span, resp.Processed, resp.SuccessCount, resp.FailedCount, resp.SkippedCount, nil)

	p.logger.InfoContext(ctx, "publication queue batch completed",
		slog.Int("processed", resp.Processed),
		slog.Int("success", resp.SuccessCount),
		slog.Int("failed", resp.FailedCount),
		slog.Int("skipped", resp.SkippedCount),
		slog.Duration("duration", batchDuration),
	)

	return resp, nil
}

func (p *Processor) processItem(ctx context.Context, selected *domain.QueueItem) (result ItemResult) {
	result = ItemResult{
		ItemID: selected.ID,
		PostID: selected.PostID,
	}

	// The claimed item is finalized from the recover as well, otherwise a
	// panic would leave the row stuck in processing where no future
	// invocation can pick it up.
	var item *domain.QueueItem
	defer func() {
		if r := recover(); r != nil {
			p.logger.ErrorContext(ctx, "panic while processing queue item",
				slog.String("item_id", selected.ID),
				slog.Any("panic", r),
			)
			result.Success = false
			result.Skipped = false
			result.Error = fmt.Sprintf("internal error: %v", r)
			if item != nil {
				p.finalizeFailure(ctx, item, item.Results, result.Error)
			}
		}
	}()

	item, err := p.queueRepo.Claim(ctx, selected.ID)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotClaimable) {
			p.logger.InfoContext(ctx, "queue item already claimed, skipping",
				slog.String("item_id", selected.ID),
			)
			result.Skipped = true
			result.SkipReason = "already claimed by another invocation"

			return result
		}

		p.logger.ErrorContext(ctx, "failed to claim queue item",
			slog.String("item_id", selected.ID),
			slog.String("error", err.Error()),
		)
		result.Error = fmt.Sprintf("claim failed: %v", err)

		return result
	}

	ctx, span := tracing.StartItemSpan(ctx, item.ID, item.PostID, item.Attempts)
	defer span.End()

	post, err := p.postRepo.GetByID(ctx, item.PostID)
	if err != nil {
		p.finalizeFailure(ctx, item, nil, fmt.Sprintf("failed to load post: %v", err))
		result.Error = item.ErrorMessage

		return result
	}

	results := p.publishAll(ctx, item, post)
	result.Platforms = results

	item.Results = results
	if !item.OverallSuccess() {
		p.finalizeFailure(ctx, item, results, summarizeFailures(item.Platforms, results))
		result.Error = item.ErrorMessage

		return result
	}

	publishedAt := time.Now().UTC()
	item.Status = domain.QueueStatusPublished
	item.PublishedAt = &publishedAt
	item.ErrorMessage = ""

	if err := p.queueRepo.Finalize(ctx, item); err != nil {
		p.logger.ErrorContext(ctx, "failed to finalize published queue item",
			slog.String("item_id", item.ID),
			slog.String("error", err.Error()),
		)
		result.Error = fmt.Sprintf("finalize failed: %v", err)

		return result
	}

	if err := p.postRepo.UpdateStatus(ctx, item.PostID, domain.PostStatusPublished); err != nil {
		p.logger.WarnContext(ctx, "post published but status update failed",
			slog.String("post_id", item.PostID),
			slog.String("error", err.Error()),
		)
	}

	p.logger.InfoContext(ctx, "queue item published",
		slog.String("item_id", item.ID),
		slog.String("post_id", item.PostID),
		slog.Int("platforms", len(item.Platforms)),
	)
	result.Success = true

	return result
}

// publishAll calls every target platform sequentially and always returns
// one result per platform, success or not.
func (p *Processor) publishAll(ctx context.Context, item *domain.QueueItem, post *domain.PlannedPost) map[domain.Platform]domain.PlatformResult {
	results := make(map[domain.Platform]domain.PlatformResult, len(item.Platforms))

	for _, platform := range item.Platforms {
		pub, ok := p.publishers[platform]
		if !ok {
			results[platform] = domain.PlatformResult{
				Success: false,
				Error:   fmt.Sprintf("no publisher registered for platform %s", platform),
			}

			continue
		}

		publishStart := time.Now()
		pubCtx, pubSpan := tracing.StartPublishSpan(ctx, platform.String(), post.ID)

		pr, err := pub.Publish(pubCtx, item, post)

		duration := time.Since(publishStart)
		if err != nil {
			tracing.RecordPublishResult(pubSpan, "", err)
			pubSpan.End()

			p.logger.WarnContext(ctx, "platform publish failed",
				slog.String("item_id", item.ID),
				slog.String("platform", platform.String()),
				slog.String("error", err.Error()),
			)
			results[platform] = domain.PlatformResult{Success: false, Error: err.Error()}
			if p.metrics != nil {
				p.metrics.RecordPublishDuration(ctx, platform.String(), false, duration)
			}

			continue
		}

		tracing.RecordPublishResult(pubSpan, pr.PlatformPostID, nil)
		pubSpan.End()

		results[platform] = domain.PlatformResult{
			Success:        true,
			PlatformPostID: pr.PlatformPostID,
		}
		if p.metrics != nil {
			p.metrics.RecordPublishDuration(ctx, platform.String(), true, duration)
		}
	}

	return results
}

func (p *Processor) finalizeFailure(ctx context.Context, item *domain.QueueItem, results map[domain.Platform]domain.PlatformResult, summary string) {
	item.Status = domain.QueueStatusError
	item.Results = results
	item.ErrorMessage = summary
	item.PublishedAt = nil

	if err := p.queueRepo.Finalize(ctx, item); err != nil {
		p.logger.ErrorContext(ctx, "failed to finalize errored queue item",
			slog.String("item_id", item.ID),
			slog.String("error", err.Error()),
		)
	}

	p.logger.WarnContext(ctx, "queue item failed",
		slog.String("item_id", item.ID),
		slog.String("post_id", item.PostID),
		slog.Int("attempt", item.Attempts),
		slog.Int("max_attempts", item.MaxAttempts),
		slog.String("error", summary),
	)
}

func (p *Processor) recordItem(ctx context.Context, outcome string) {
	if p.metrics != nil {
		p.metrics.RecordItemProcessed(ctx, outcome)
	}
}

func summarizeFailures(platforms []domain.Platform, results map[domain.Platform]domain.PlatformResult) string {
	var parts []string
	for _, platform := range platforms {
		r, ok := results[platform]
		if !ok {
			parts = append(parts, fmt.Sprintf("%s: no result", platform))

			continue
		}
		if !r.Success {
			parts = append(parts, fmt.Sprintf("%s: %s", platform, r.Error))
		}
	}

	return strings.Join(parts, "; ")
}
