package domain

import "context"

//go:generate mockgen -source=credential_repository.go -destination=mock_credential_repository.go -package=domain

type CredentialRepository interface {
	// GetActive returns the active credential for the (client, platform)
	// pair, ErrCredentialNotFound when absent or ErrCredentialInactive when
	// present but revoked.
	GetActive(ctx context.Context, clientID string, platform Platform) (*PlatformCredential, error)
}
