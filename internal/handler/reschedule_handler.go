package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comercial-bex/criativo-flow-sub009/internal/observability/metrics"
	"github.com/comercial-bex/criativo-flow-sub009/internal/service/reschedule"
)

type RescheduleHandler struct {
	engine       *reschedule.Engine
	schedMetrics *metrics.SchedulerMetrics
}

func NewRescheduleHandler(engine *reschedule.Engine, schedMetrics *metrics.SchedulerMetrics) *RescheduleHandler {
	return &RescheduleHandler{
		engine:       engine,
		schedMetrics: schedMetrics,
	}
}

type moveRequest struct {
	Day      int    `json:"day" binding:"required"`
	RefMonth string `json:"ref_month" binding:"required"`
}

type moveResponse struct {
	Outcome      string     `json:"outcome"`
	PostID       string     `json:"post_id"`
	Date         string     `json:"date"`
	Time         string     `json:"time"`
	SuggestedAt  *time.Time `json:"suggested_at,omitempty"`
	UndoDeadline *time.Time `json:"undo_deadline,omitempty"`
}

func toMoveResponse(r *reschedule.DropResult) moveResponse {
	return moveResponse{
		Outcome:      string(r.Outcome),
		PostID:       r.PostID,
		Date:         r.Date,
		Time:         r.Time,
		SuggestedAt:  r.SuggestedAt,
		UndoDeadline: r.UndoDeadline,
	}
}

// HandleMove runs a full drag-and-drop cycle for one post: snapshot the
// current slot, then drop on the target day of the reference month.
func (h *RescheduleHandler) HandleMove(c *gin.Context) {
	ctx := c.Request.Context()
	postID := c.Param("id")

	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid move payload: "+err.Error())
		return
	}

	refMonth, err := time.Parse("2006-01", req.RefMonth)
	if err != nil {
		respondBadRequest(c, "invalid ref_month, expected YYYY-MM")
		return
	}
	if req.Day < 1 || req.Day > 31 {
		respondBadRequest(c, "day must be between 1 and 31")
		return
	}

	if err := h.engine.DragStart(ctx, postID); err != nil {
		respondError(c, err)
		return
	}

	result, err := h.engine.Drop(ctx, postID, req.Day, refMonth)
	if err != nil {
		h.recordMove(c, "rejected")
		respondError(c, err)
		return
	}

	h.recordMove(c, string(result.Outcome))
	slog.InfoContext(ctx, "move handled",
		slog.String("post_id", postID),
		slog.String("outcome", string(result.Outcome)),
	)

	c.JSON(http.StatusOK, toMoveResponse(result))
}

type resolveRequest struct {
	Accept bool `json:"accept"`
}

// HandleResolve settles an open slot-conflict decision.
func (h *RescheduleHandler) HandleResolve(c *gin.Context) {
	ctx := c.Request.Context()
	postID := c.Param("id")

	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid resolve payload: "+err.Error())
		return
	}

	result, err := h.engine.Resolve(ctx, postID, req.Accept)
	if err != nil {
		respondError(c, err)
		return
	}

	h.recordMove(c, string(result.Outcome))
	c.JSON(http.StatusOK, toMoveResponse(result))
}

// HandleUndo reverts an applied move while its undo window is open.
func (h *RescheduleHandler) HandleUndo(c *gin.Context) {
	ctx := c.Request.Context()
	postID := c.Param("id")

	result, err := h.engine.Undo(ctx, postID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.recordMove(c, "undone")
	c.JSON(http.StatusOK, toMoveResponse(result))
}

func (h *RescheduleHandler) recordMove(c *gin.Context, outcome string) {
	if h.schedMetrics != nil {
		h.schedMetrics.RecordPostMoved(c.Request.Context(), outcome)
	}
}
