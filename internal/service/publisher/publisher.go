package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/comercial-bex/criativo-flow-sub009/internal/domain"
)

//go:generate mockgen -source=publisher.go -destination=mock.go -package=publisher

// PublishResult is the uniform outcome contract every platform adapter
// returns, regardless of how many remote calls it makes internally.
type PublishResult struct {
	PlatformPostID string
}

// Publisher turns a queued item into a platform's required request shape.
// A nil error means the post is live on that platform.
type Publisher interface {
	Publish(ctx context.Context, item *domain.QueueItem, post *domain.PlannedPost) (*PublishResult, error)
}

// Registry maps destination platforms to their adapters.
type Registry map[domain.Platform]Publisher

func NewRegistry(credRepo domain.CredentialRepository, graphBaseURL, linkedinBaseURL string) Registry {
	return Registry{
		domain.PlatformInstagram: NewInstagramPublisher(credRepo, graphBaseURL),
		domain.PlatformFacebook:  NewFacebookPublisher(credRepo, graphBaseURL),
		domain.PlatformLinkedIn:  NewLinkedInPublisher(credRepo, linkedinBaseURL),
	}
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
	}
}

// postJSON issues one authenticated POST and decodes the JSON response
// into out. Any non-2xx status is surfaced as an error carrying the
// platform's raw payload for diagnostics.
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("platform api error (status %d): %s", resp.StatusCode, string(raw))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
