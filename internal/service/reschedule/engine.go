package reschedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/comercial-bex/criativo-flow-sub009/internal/domain"
	"github.com/comercial-bex/criativo-flow-sub009/internal/infra/scheduleapi"
)

// Engine drives interactive rescheduling of planned posts. Each drag moves
// exactly one post through idle -> dragging -> dropped -> applied or
// rolled-back; drags on different posts are independent. All transient
// drag state (pending moves, open slot conflicts, armed undos) is owned by
// the engine instance, so independent sessions can run side by side.
type Engine struct {
	postRepo  domain.PostRepository
	scheduler scheduleapi.PostScheduler

	loc        *time.Location
	dailyCap   int
	undoWindow time.Duration

	mu        sync.Mutex
	posts     map[string]domain.PlannedPost
	pending   map[string]domain.PendingMove
	conflicts map[string]pendingConflict
	undos     map[string]undoEntry
}

func NewEngine(
	postRepo domain.PostRepository,
	scheduler scheduleapi.PostScheduler,
	loc *time.Location,
	dailyCap int,
	undoWindow time.Duration,
) *Engine {
	return &Engine{
		postRepo:   postRepo,
		scheduler:  scheduler,
		loc:        loc,
		dailyCap:   dailyCap,
		undoWindow: undoWindow,
		posts:      make(map[string]domain.PlannedPost),
		pending:    make(map[string]domain.PendingMove),
		conflicts:  make(map[string]pendingConflict),
		undos:      make(map[string]undoEntry),
	}
}

// CanDrag reports whether the post may be moved at all. Published posts
// are locked.
func (e *Engine) CanDrag(post *domain.PlannedPost) bool {
	return post != nil && !post.IsLocked()
}

// DragStart snapshots the post's current slot as a pending move. Starting
// a new drag while one is unresolved for the same post is rejected rather
// than overwriting the snapshot: a silent overwrite would corrupt the undo
// target.
func (e *Engine) DragStart(ctx context.Context, postID string) error {
	post, err := e.loadPost(ctx, postID)
	if err != nil {
		return err
	}
	if !e.CanDrag(post) {
		return domain.ErrPostPublished
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.pending[postID]; exists {
		return domain.ErrMoveInProgress
	}

	e.pending[postID] = domain.PendingMove{
		PostID:       postID,
		OriginalDate: post.ScheduledDate,
		OriginalTime: post.ScheduledTime,
		StartedAt:    time.Now(),
	}
	return nil
}

// IsDroppable derives purely from the past-date rule: a day is droppable
// iff its resolved date is not strictly before today in the business
// timezone.
func (e *Engine) IsDroppable(day int, refMonth time.Time) bool {
	target := e.resolveDay(day, refMonth)
	return !target.Before(e.today())
}

// Drop validates the target slot, applies the optimistic local update and
// invokes the remote reschedule operation. The engine's view reflects the
// move before the network confirms it; every failure path rolls it back so
// the caller's state is always consistent.
func (e *Engine) Drop(ctx context.Context, postID string, day int, refMonth time.Time) (*DropResult, error) {
	e.mu.Lock()
	move, exists := e.pending[postID]
	e.mu.Unlock()
	if !exists {
		return nil, domain.ErrNoPendingMove
	}

	post, err := e.loadPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !e.CanDrag(post) {
		e.clearPending(postID)
		return nil, domain.ErrPostPublished
	}

	targetDay := e.resolveDay(day, refMonth)
	targetDate := targetDay.Format(domain.DateLayout)
	targetTime := post.SlotTime()

	if targetDay.Before(e.today()) {
		e.clearPending(postID)
		return nil, domain.ErrPastDate
	}

	occupied, err := e.countPostsOnDay(ctx, targetDate, postID)
	if err != nil {
		e.clearPending(postID)
		return nil, fmt.Errorf("failed to count posts on target day: %w", err)
	}
	if occupied >= e.dailyCap {
		e.clearPending(postID)
		return nil, domain.ErrDailyCapExceeded
	}

	target, err := domain.ResolveTimestamp(targetDate, targetTime, e.loc)
	if err != nil {
		e.clearPending(postID)
		return nil, err
	}

	// Optimistic update: the local view moves before the network call.
	e.applyLocal(postID, targetDate, targetTime)
	e.mu.Lock()
	move.TargetDate = targetDate
	move.TargetTime = targetTime
	e.pending[postID] = move
	e.mu.Unlock()

	if err := e.scheduler.Reschedule(ctx, postID, target); err != nil {
		var conflict *scheduleapi.SlotConflictError
		if errors.As(err, &conflict) {
			// Keep the optimistic move visible while the user decides.
			e.mu.Lock()
			e.conflicts[postID] = pendingConflict{suggestedAt: conflict.SuggestedAt}
			e.mu.Unlock()

			suggested := conflict.SuggestedAt
			return &DropResult{
				Outcome:     OutcomeSlotConflict,
				PostID:      postID,
				Date:        targetDate,
				Time:        targetTime,
				SuggestedAt: &suggested,
			}, nil
		}

		e.rollback(ctx, postID, move)
		return nil, e.classifyRemoteError(ctx, postID, err)
	}

	deadline := e.armUndo(postID, move)
	e.clearPending(postID)

	slog.InfoContext(ctx, "post rescheduled",
		slog.String("post_id", postID),
		slog.String("from", move.OriginalDate+" "+move.OriginalTime),
		slog.String("to", targetDate+" "+targetTime),
	)

	return &DropResult{
		Outcome:      OutcomeApplied,
		PostID:       postID,
		Date:         targetDate,
		Time:         targetTime,
		UndoDeadline: &deadline,
	}, nil
}

// Resolve settles an open slot conflict. Accepting re-invokes the
// reschedule against the suggested slot and arms undo; declining rolls the
// optimistic move back to the original slot.
func (e *Engine) Resolve(ctx context.Context, postID string, accept bool) (*DropResult, error) {
	e.mu.Lock()
	conflict, hasConflict := e.conflicts[postID]
	move, hasMove := e.pending[postID]
	e.mu.Unlock()
	if !hasConflict || !hasMove {
		return nil, domain.ErrNoPendingMove
	}

	if !accept {
		e.clearConflict(postID)
		e.rollback(ctx, postID, move)
		return &DropResult{
			Outcome: OutcomeRolledBack,
			PostID:  postID,
			Date:    move.OriginalDate,
			Time:    move.OriginalTime,
		}, nil
	}

	suggestedLocal := conflict.suggestedAt.In(e.loc)
	suggestedDate := suggestedLocal.Format(domain.DateLayout)
	suggestedTime := suggestedLocal.Format(domain.TimeLayout)

	e.applyLocal(postID, suggestedDate, suggestedTime)

	if err := e.scheduler.Reschedule(ctx, postID, conflict.suggestedAt); err != nil {
		e.clearConflict(postID)
		e.rollback(ctx, postID, move)
		return nil, e.classifyRemoteError(ctx, postID, err)
	}

	deadline := e.armUndo(postID, move)
	e.clearConflict(postID)
	e.clearPending(postID)

	return &DropResult{
		Outcome:      OutcomeApplied,
		PostID:       postID,
		Date:         suggestedDate,
		Time:         suggestedTime,
		UndoDeadline: &deadline,
	}, nil
}

// Undo re-invokes the reschedule back to the original slot. It is a
// compensating call, not a cancellation: if the forward call is still in
// flight the store keeps whichever write lands last.
func (e *Engine) Undo(ctx context.Context, postID string) (*DropResult, error) {
	e.mu.Lock()
	entry, exists := e.undos[postID]
	e.mu.Unlock()
	if !exists {
		return nil, domain.ErrNoPendingMove
	}
	if time.Now().After(entry.deadline) {
		e.mu.Lock()
		delete(e.undos, postID)
		e.mu.Unlock()
		return nil, domain.ErrUndoExpired
	}

	clock := entry.originalTime
	if clock == "" {
		clock = domain.DefaultSlotTime
	}
	original, err := domain.ResolveTimestamp(entry.originalDate, clock, e.loc)
	if err != nil {
		return nil, err
	}

	if err := e.scheduler.Reschedule(ctx, postID, original); err != nil {
		return nil, e.classifyRemoteError(ctx, postID, err)
	}

	e.applyLocal(postID, entry.originalDate, entry.originalTime)
	e.mu.Lock()
	delete(e.undos, postID)
	e.mu.Unlock()

	slog.InfoContext(ctx, "reschedule undone",
		slog.String("post_id", postID),
		slog.String("restored", entry.originalDate+" "+entry.originalTime),
	)

	return &DropResult{
		Outcome: OutcomeRolledBack,
		PostID:  postID,
		Date:    entry.originalDate,
		Time:    entry.originalTime,
	}, nil
}

// Post returns the engine's current view of a post, including optimistic
// moves not yet confirmed by the store.
func (e *Engine) Post(ctx context.Context, postID string) (*domain.PlannedPost, error) {
	return e.loadPost(ctx, postID)
}

func (e *Engine) loadPost(ctx context.Context, postID string) (*domain.PlannedPost, error) {
	e.mu.Lock()
	if post, ok := e.posts[postID]; ok {
		e.mu.Unlock()
		copied := post
		return &copied, nil
	}
	e.mu.Unlock()

	post, err := e.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.posts[postID] = *post
	e.mu.Unlock()
	return post, nil
}

// countPostsOnDay counts posts on the target date, preferring the engine's
// optimistic view over the stored one and never counting the moved post
// itself.
func (e *Engine) countPostsOnDay(ctx context.Context, date, excludeID string) (int, error) {
	stored, err := e.postRepo.ListByDay(ctx, date)
	if err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	count := 0
	seen := make(map[string]bool, len(stored))
	for _, p := range stored {
		seen[p.ID] = true
		if p.ID == excludeID {
			continue
		}
		if local, ok := e.posts[p.ID]; ok {
			if local.ScheduledDate == date {
				count++
			}
			continue
		}
		count++
	}
	for id, local := range e.posts {
		if id == excludeID || seen[id] {
			continue
		}
		if local.ScheduledDate == date {
			count++
		}
	}
	return count, nil
}

func (e *Engine) applyLocal(postID, date, clock string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	post, ok := e.posts[postID]
	if !ok {
		return
	}
	post.ScheduledDate = date
	post.ScheduledTime = clock
	e.posts[postID] = post
}

func (e *Engine) rollback(ctx context.Context, postID string, move domain.PendingMove) {
	e.applyLocal(postID, move.OriginalDate, move.OriginalTime)
	e.clearPending(postID)

	slog.WarnContext(ctx, "optimistic move rolled back",
		slog.String("post_id", postID),
		slog.String("restored", move.OriginalDate+" "+move.OriginalTime),
	)
}

func (e *Engine) armUndo(postID string, move domain.PendingMove) time.Time {
	deadline := time.Now().Add(e.undoWindow)
	e.mu.Lock()
	e.undos[postID] = undoEntry{
		originalDate: move.OriginalDate,
		originalTime: move.OriginalTime,
		deadline:     deadline,
	}
	e.mu.Unlock()
	return deadline
}

func (e *Engine) clearPending(postID string) {
	e.mu.Lock()
	delete(e.pending, postID)
	e.mu.Unlock()
}

func (e *Engine) clearConflict(postID string) {
	e.mu.Lock()
	delete(e.conflicts, postID)
	e.mu.Unlock()
}

func (e *Engine) classifyRemoteError(ctx context.Context, postID string, err error) error {
	switch {
	case errors.Is(err, domain.ErrPastDate), errors.Is(err, domain.ErrPostPublished):
		return err
	default:
		slog.ErrorContext(ctx, "reschedule failed",
			slog.String("post_id", postID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to reschedule post %s: %w", postID, err)
	}
}

func (e *Engine) resolveDay(day int, refMonth time.Time) time.Time {
	ref := refMonth.In(e.loc)
	return time.Date(ref.Year(), ref.Month(), day, 0, 0, 0, 0, e.loc)
}

func (e *Engine) today() time.Time {
	now := time.Now().In(e.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, e.loc)
}
