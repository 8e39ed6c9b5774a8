package scheduleapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/comercial-bex/criativo-flow-sub009/internal/domain"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) Reschedule(ctx context.Context, postID string, target time.Time) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("failed to parse base URL: %w", err)
	}
	u.Path = "/functions/v1/reschedule-post"

	body, err := json.Marshal(rescheduleRequest{
		PostID:      postID,
		ScheduledAt: target.Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal reschedule request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	slog.DebugContext(ctx, "invoking reschedule operation",
		slog.String("post_id", postID),
		slog.Time("target", target),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.ErrorContext(ctx, "failed to send reschedule request",
			slog.String("post_id", postID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to send reschedule request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	return c.decodeError(ctx, postID, resp)
}

func (c *Client) decodeError(ctx context.Context, postID string, resp *http.Response) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reschedule failed with status %d", resp.StatusCode)
	}

	var errResp errorResponse
	if err := json.Unmarshal(raw, &errResp); err != nil {
		return fmt.Errorf("reschedule failed with status %d: %s", resp.StatusCode, string(raw))
	}

	switch errResp.Error {
	case codeSlotConflict:
		suggested, err := time.Parse(time.RFC3339, errResp.NextAvailableSlot)
		if err != nil {
			return fmt.Errorf("slot conflict with unparseable suggestion %q", errResp.NextAvailableSlot)
		}
		slog.InfoContext(ctx, "reschedule hit a slot conflict",
			slog.String("post_id", postID),
			slog.Time("suggested", suggested),
		)
		return &SlotConflictError{SuggestedAt: suggested}
	case codePastDate:
		return fmt.Errorf("%w: %s", domain.ErrPastDate, errResp.Message)
	case codePublishedLocked:
		return fmt.Errorf("%w: %s", domain.ErrPostPublished, errResp.Message)
	default:
		return fmt.Errorf("reschedule failed (%s): %s", errResp.Error, errResp.Message)
	}
}
