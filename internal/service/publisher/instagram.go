package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/comercial-bex/criativo-flow-sub009/internal/domain"
)

// InstagramPublisher uses the two-phase Graph flow: create a media
// container, then publish it.
type InstagramPublisher struct {
	credRepo   domain.CredentialRepository
	baseURL    string
	httpClient *http.Client
}

func NewInstagramPublisher(credRepo domain.CredentialRepository, baseURL string) *InstagramPublisher {
	return &InstagramPublisher{
		credRepo:   credRepo,
		baseURL:    baseURL,
		httpClient: newHTTPClient(),
	}
}

type igContainerRequest struct {
	ImageURL    string `json:"image_url,omitempty"`
	Caption     string `json:"caption"`
	AccessToken string `json:"access_token"`
}

type igContainerResponse struct {
	ID string `json:"id"`
}

type igPublishRequest struct {
	CreationID  string `json:"creation_id"`
	AccessToken string `json:"access_token"`
}

type igPublishResponse struct {
	ID string `json:"id"`
}

func (p *InstagramPublisher) Publish(ctx context.Context, item *domain.QueueItem, post *domain.PlannedPost) (*PublishResult, error) {
	cred, err := p.credRepo.GetActive(ctx, item.ClientID, domain.PlatformInstagram)
	if err != nil {
		return nil, fmt.Errorf("instagram credential lookup failed: %w", err)
	}

	var container igContainerResponse
	containerURL := fmt.Sprintf("%s/%s/media", p.baseURL, cred.AccountID)
	err = postJSON(ctx, p.httpClient, containerURL, nil, igContainerRequest{
		ImageURL:    post.MediaURL,
		Caption:     post.Caption,
		AccessToken: cred.AccessToken,
	}, &container)
	if err != nil {
		return nil, fmt.Errorf("instagram container creation failed: %w", err)
	}

	slog.DebugContext(ctx, "instagram container created",
		slog.String("post_id", post.ID),
		slog.String("container_id", container.ID),
	)

	var published igPublishResponse
	publishURL := fmt.Sprintf("%s/%s/media_publish", p.baseURL, cred.AccountID)
	err = postJSON(ctx, p.httpClient, publishURL, nil, igPublishRequest{
		CreationID:  container.ID,
		AccessToken: cred.AccessToken,
	}, &published)
	if err != nil {
		return nil, fmt.Errorf("instagram publish failed: %w", err)
	}

	return &PublishResult{PlatformPostID: published.ID}, nil
}
