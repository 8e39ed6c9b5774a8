package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/comercial-bex/criativo-flow-sub009/internal/domain"
)

type credentialRepository struct {
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) domain.CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) GetActive(ctx context.Context, clientID string, platform domain.Platform) (*domain.PlatformCredential, error) {
	var row credentialRow
	err := r.db.WithContext(ctx).
		First(&row, "client_id = ? AND platform = ?", clientID, string(platform)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCredentialNotFound
		}
		return nil, err
	}

	if !row.Active {
		return nil, domain.ErrCredentialInactive
	}

	return &domain.PlatformCredential{
		ID:          row.ID,
		ClientID:    row.ClientID,
		Platform:    domain.Platform(row.Platform),
		AccessToken: row.AccessToken,
		AccountID:   row.AccountID,
		Active:      row.Active,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}
