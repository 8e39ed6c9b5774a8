package publisher

import (
	"context"
	"fmt"
	"net/http"

	"github.com/comercial-bex/criativo-flow-sub009/internal/domain"
)

// LinkedInPublisher creates a UGC share in a single call, authenticated
// with a bearer token instead of a query credential.
type LinkedInPublisher struct {
	credRepo   domain.CredentialRepository
	baseURL    string
	httpClient *http.Client
}

func NewLinkedInPublisher(credRepo domain.CredentialRepository, baseURL string) *LinkedInPublisher {
	return &LinkedInPublisher{
		credRepo:   credRepo,
		baseURL:    baseURL,
		httpClient: newHTTPClient(),
	}
}

type liShareRequest struct {
	Author          string            `json:"author"`
	LifecycleState  string            `json:"lifecycleState"`
	SpecificContent liSpecificContent `json:"specificContent"`
	Visibility      map[string]string `json:"visibility"`
}

type liSpecificContent struct {
	ShareContent liShareContent `json:"com.linkedin.ugc.ShareContent"`
}

type liShareContent struct {
	ShareCommentary    liText `json:"shareCommentary"`
	ShareMediaCategory string `json:"shareMediaCategory"`
}

type liText struct {
	Text string `json:"text"`
}

type liShareResponse struct {
	ID string `json:"id"`
}

func (p *LinkedInPublisher) Publish(ctx context.Context, item *domain.QueueItem, post *domain.PlannedPost) (*PublishResult, error) {
	cred, err := p.credRepo.GetActive(ctx, item.ClientID, domain.PlatformLinkedIn)
	if err != nil {
		return nil, fmt.Errorf("linkedin credential lookup failed: %w", err)
	}

	var share liShareResponse
	err = postJSON(ctx, p.httpClient, p.baseURL+"/v2/ugcPosts",
		map[string]string{"Authorization": "Bearer " + cred.AccessToken},
		liShareRequest{
			Author:         "urn:li:organization:" + cred.AccountID,
			LifecycleState: "PUBLISHED",
			SpecificContent: liSpecificContent{
				ShareContent: liShareContent{
					ShareCommentary:    liText{Text: post.Caption},
					ShareMediaCategory: "NONE",
				},
			},
			Visibility: map[string]string{
				"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
			},
		}, &share)
	if err != nil {
		return nil, fmt.Errorf("linkedin publish failed: %w", err)
	}

	return &PublishResult{PlatformPostID: share.ID}, nil
}
