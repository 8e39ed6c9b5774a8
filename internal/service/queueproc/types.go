package queueproc

import "github.com/comercial-bex/criativo-flow-sub009/internal/domain"

// ItemResult is the per-item outcome reported to the caller of a
// processing run.
type ItemResult struct {
	ItemID     string                                    `json:"item_id"`
	PostID     string                                    `json:"post_id"`
	Success    bool                                      `json:"success"`
	Skipped    bool                                      `json:"skipped,omitempty"`
	SkipReason string                                    `json:"skip_reason,omitempty"`
	Platforms  map[domain.Platform]domain.PlatformResult `json:"platforms,omitempty"`
	Error      string                                    `json:"error,omitempty"`
}

// Response summarizes one processing invocation. Success reflects the
// invocation itself, not the individual items: a run where every due
// item failed to publish still completed successfully.
type Response struct {
	Success      bool         `json:"success"`
	Processed    int          `json:"processed"`
	SuccessCount int          `json:"success_count"`
	FailedCount  int          `json:"failed_count"`
	SkippedCount int          `json:"skipped_count"`
	Results      []ItemResult `json:"results"`
}
