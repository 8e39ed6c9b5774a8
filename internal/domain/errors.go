package domain

import "errors"

var (
	ErrInvalidEventWindow = errors.New("event start must be before end")
	ErrEventNotFound      = errors.New("event not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrQueueItemNotFound  = errors.New("queue item not found")
	ErrItemNotClaimable   = errors.New("queue item no longer pending")

	ErrPastDate         = errors.New("target date is in the past")
	ErrDailyCapExceeded = errors.New("daily post cap reached for target day")
	ErrPostPublished    = errors.New("published posts cannot be moved")
	ErrMoveInProgress   = errors.New("a move is already in progress for this post")
	ErrNoPendingMove    = errors.New("no pending move for this post")
	ErrUndoExpired      = errors.New("undo window has expired")

	ErrCredentialNotFound = errors.New("platform credential not found")
	ErrCredentialInactive = errors.New("platform credential is inactive")
)
