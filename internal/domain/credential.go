package domain

import "time"

// PlatformCredential is a stored access credential for a (client, platform)
// pair. An absent or inactive credential is a hard failure for that
// platform only.
type PlatformCredential struct {
	ID          string
	ClientID    string
	Platform    Platform
	AccessToken string
	AccountID   string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
