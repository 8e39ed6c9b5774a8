package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const schedulerTracerName = "github.com/comercial-bex/criativo-flow-sub009/internal/service/queueproc"

func SchedulerTracer() trace.Tracer {
	return otel.Tracer(schedulerTracerName)
}

func StartBatchSpan(ctx context.Context, now time.Time, batchSize int) (context.Context, trace.Span) {
	return SchedulerTracer().Start(ctx, "queue.process_batch",
		trace.WithAttributes(
			attribute.String("batch.reference_time", now.Format(time.RFC3339)),
			attribute.Int("batch.size_limit", batchSize),
		),
	)
}

func StartItemSpan(ctx context.Context, itemID, postID string, attempt int) (context.Context, trace.Span) {
	return SchedulerTracer().Start(ctx, "queue.process_item",
		trace.WithAttributes(
			attribute.String("queue.item_id", itemID),
			attribute.String("queue.post_id", postID),
			attribute.Int("queue.attempt", attempt),
		),
	)
}

func StartPublishSpan(ctx context.Context, platform, postID string) (context.Context, trace.Span) {
	return SchedulerTracer().Start(ctx, "queue.publish."+platform,
		trace.WithAttributes(
			attribute.String("publish.platform", platform),
			attribute.String("publish.post_id", postID),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordBatchResult(span trace.Span, processed, successCount, failedCount, skippedCount int, err error) {
	span.SetAttributes(
		attribute.Int("batch.processed_count", processed),
		attribute.Int("batch.success_count", successCount),
		attribute.Int("batch.failed_count", failedCount),
		attribute.Int("batch.skipped_count", skippedCount),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

func RecordPublishResult(span trace.Span, platformPostID string, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return
	}

	span.SetAttributes(attribute.String("publish.platform_post_id", platformPostID))
	span.SetStatus(codes.Ok, "")
}
