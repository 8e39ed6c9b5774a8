package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const schedulerMeterName = "scheduler.service"

type SchedulerMetrics struct {
	itemsProcessed  metric.Int64Counter
	publishDuration metric.Float64Histogram
	batchDuration   metric.Float64Histogram
	postsMoved      metric.Int64Counter
	conflictsFound  metric.Int64Counter
}

func NewSchedulerMetrics() (*SchedulerMetrics, error) {
	meter := otel.Meter(schedulerMeterName)

	itemsProcessed, err := meter.Int64Counter(
		"publication_queue_items_total",
		metric.WithDescription("Total number of queue items processed"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, err
	}

	publishDuration, err := meter.Float64Histogram(
		"publication_platform_publish_duration_seconds",
		metric.WithDescription("Per-platform publish call duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
		),
	)
	if err != nil {
		return nil, err
	}

	batchDuration, err := meter.Float64Histogram(
		"publication_batch_duration_seconds",
		metric.WithDescription("Queue processor invocation duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60,
		),
	)
	if err != nil {
		return nil, err
	}

	postsMoved, err := meter.Int64Counter(
		"reschedule_moves_total",
		metric.WithDescription("Total number of drag-reschedule outcomes"),
		metric.WithUnit("{move}"),
	)
	if err != nil {
		return nil, err
	}

	conflictsFound, err := meter.Int64Counter(
		"calendar_conflicts_total",
		metric.WithDescription("Total number of conflicts detected"),
		metric.WithUnit("{conflict}"),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerMetrics{
		itemsProcessed:  itemsProcessed,
		publishDuration: publishDuration,
		batchDuration:   batchDuration,
		postsMoved:      postsMoved,
		conflictsFound:  conflictsFound,
	}, nil
}

func (m *SchedulerMetrics) RecordItemProcessed(ctx context.Context, outcome string) {
	m.itemsProcessed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (m *SchedulerMetrics) RecordPublishDuration(ctx context.Context, platform string, success bool, duration time.Duration) {
	m.publishDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("platform", platform),
		attribute.Bool("success", success),
	))
}

func (m *SchedulerMetrics) RecordBatchDuration(ctx context.Context, duration time.Duration) {
	m.batchDuration.Record(ctx, duration.Seconds())
}

func (m *SchedulerMetrics) RecordPostMoved(ctx context.Context, outcome string) {
	m.postsMoved.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (m *SchedulerMetrics) RecordConflictDetected(ctx context.Context, kind, severity string) {
	m.conflictsFound.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("severity", severity),
	))
}
