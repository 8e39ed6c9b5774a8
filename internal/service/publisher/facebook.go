package publisher

import (
	"context"
	"fmt"
	"net/http"

	"github.com/comercial-bex/criativo-flow-sub009/internal/domain"
)

// FacebookPublisher posts to a page feed in a single call.
type FacebookPublisher struct {
	credRepo   domain.CredentialRepository
	baseURL    string
	httpClient *http.Client
}

func NewFacebookPublisher(credRepo domain.CredentialRepository, baseURL string) *FacebookPublisher {
	return &FacebookPublisher{
		credRepo:   credRepo,
		baseURL:    baseURL,
		httpClient: newHTTPClient(),
	}
}

type fbFeedRequest struct {
	Message     string `json:"message"`
	Link        string `json:"link,omitempty"`
	AccessToken string `json:"access_token"`
}

type fbFeedResponse struct {
	ID string `json:"id"`
}

func (p *FacebookPublisher) Publish(ctx context.Context, item *domain.QueueItem, post *domain.PlannedPost) (*PublishResult, error) {
	cred, err := p.credRepo.GetActive(ctx, item.ClientID, domain.PlatformFacebook)
	if err != nil {
		return nil, fmt.Errorf("facebook credential lookup failed: %w", err)
	}

	var feed fbFeedResponse
	feedURL := fmt.Sprintf("%s/%s/feed", p.baseURL, cred.AccountID)
	err = postJSON(ctx, p.httpClient, feedURL, nil, fbFeedRequest{
		Message:     post.Caption,
		Link:        post.MediaURL,
		AccessToken: cred.AccessToken,
	}, &feed)
	if err != nil {
		return nil, fmt.Errorf("facebook publish failed: %w", err)
	}

	return &PublishResult{PlatformPostID: feed.ID}, nil
}
