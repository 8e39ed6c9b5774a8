package repository

import (
	"encoding/json"
	"time"

	"github.com/comercial-bex/criativo-flow-sub009/internal/domain"
)

type eventRow struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)"`
	Title        string    `gorm:"type:varchar(255)"`
	StartsAt     time.Time `gorm:"index:idx_events_window"`
	EndsAt       time.Time `gorm:"index:idx_events_window"`
	Type         string    `gorm:"type:varchar(32)"`
	AssigneeID   string    `gorm:"type:varchar(36);index"`
	AssigneeName string    `gorm:"type:varchar(255)"`
	Origin       string    `gorm:"type:varchar(16)"`
	IsBlocking   bool
	IsExtra      bool
	ProjectID    string `gorm:"type:varchar(36)"`
	ClientID     string `gorm:"type:varchar(36)"`
	Status       string `gorm:"type:varchar(16)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (eventRow) TableName() string { return "calendar_events" }

type postRow struct {
	ID            string `gorm:"primaryKey;type:varchar(36)"`
	ClientID      string `gorm:"type:varchar(36);index"`
	ProjectID     string `gorm:"type:varchar(36)"`
	Status        string `gorm:"type:varchar(16);index"`
	ScheduledDate string `gorm:"type:varchar(10);index"`
	ScheduledTime string `gorm:"type:varchar(5)"`
	Platforms     string `gorm:"type:text"`
	Caption       string `gorm:"type:text"`
	MediaURL      string `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (postRow) TableName() string { return "planned_posts" }

type queueItemRow struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)"`
	PostID       string    `gorm:"type:varchar(36);index"`
	ClientID     string    `gorm:"type:varchar(36)"`
	ScheduledAt  time.Time `gorm:"index"`
	Platforms    string    `gorm:"type:text"`
	Status       string    `gorm:"type:varchar(16);index"`
	Attempts     int
	MaxAttempts  int
	Results      string `gorm:"type:text"`
	ErrorMessage string `gorm:"type:text"`
	PublishedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (queueItemRow) TableName() string { return "publication_queue" }

type credentialRow struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	ClientID    string `gorm:"type:varchar(36);index:idx_credentials_client_platform"`
	Platform    string `gorm:"type:varchar(16);index:idx_credentials_client_platform"`
	AccessToken string `gorm:"type:text"`
	AccountID   string `gorm:"type:varchar(64)"`
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (credentialRow) TableName() string { return "platform_credentials" }

func marshalPlatforms(platforms []domain.Platform) (string, error) {
	data, err := json.Marshal(platforms)
	if err != nil {
		return "", ErrInvalidRowData
	}
	return string(data), nil
}

func unmarshalPlatforms(raw string) ([]domain.Platform, error) {
	if raw == "" {
		return nil, nil
	}
	var platforms []domain.Platform
	if err := json.Unmarshal([]byte(raw), &platforms); err != nil {
		return nil, ErrInvalidRowData
	}
	return platforms, nil
}

func marshalResults(results map[domain.Platform]domain.PlatformResult) (string, error) {
	if results == nil {
		return "", nil
	}
	data, err := json.Marshal(results)
	if err != nil {
		return "", ErrInvalidRowData
	}
	return string(data), nil
}

func unmarshalResults(raw string) (map[domain.Platform]domain.PlatformResult, error) {
	if raw == "" {
		return nil, nil
	}
	var results map[domain.Platform]domain.PlatformResult
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		return nil, ErrInvalidRowData
	}
	return results, nil
}
