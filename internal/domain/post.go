package domain

import (
	"fmt"
	"time"
)

const (
	// DateLayout and TimeLayout are the wire formats for a post's scheduled
	// (date, time) pair.
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	// DefaultSlotTime is used when a post is dropped on a day without a
	// previously scheduled time.
	DefaultSlotTime = "09:00"
)

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusPublished PostStatus = "published"
	PostStatusError     PostStatus = "error"
)

// Platform identifies a destination social platform.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformLinkedIn  Platform = "linkedin"
)

func (p Platform) String() string {
	return string(p)
}

// PlannedPost is a content item with a target date and time for publication.
type PlannedPost struct {
	ID            string
	ClientID      string
	ProjectID     string
	Status        PostStatus
	ScheduledDate string
	ScheduledTime string
	Platforms     []Platform
	Caption       string
	MediaURL      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsLocked reports whether the post is immutable with respect to
// scheduling. Published posts cannot be dragged or moved.
func (p *PlannedPost) IsLocked() bool {
	return p.Status == PostStatusPublished
}

// SlotTime returns the post's scheduled time, falling back to the default
// slot time when none is set.
func (p *PlannedPost) SlotTime() string {
	if p.ScheduledTime == "" {
		return DefaultSlotTime
	}
	return p.ScheduledTime
}

// ResolveTimestamp combines a (date, time) pair into a concrete instant in
// the given business timezone.
func ResolveTimestamp(date, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid schedule slot %q %q: %w", date, clock, err)
	}
	return t, nil
}
