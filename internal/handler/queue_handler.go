package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comercial-bex/criativo-flow-sub009/internal/service/queueproc"
)

type QueueHandler struct {
	processor *queueproc.Processor
}

func NewQueueHandler(processor *queueproc.Processor) *QueueHandler {
	return &QueueHandler{processor: processor}
}

// HandleProcess runs one publication queue batch. An optional `now` query
// parameter substitutes a virtual reference time for testing.
func (h *QueueHandler) HandleProcess(c *gin.Context) {
	ctx := c.Request.Context()

	now := time.Now().UTC()
	if nowStr := c.Query("now"); nowStr != "" {
		parsed, err := time.Parse(time.RFC3339, nowStr)
		if err != nil {
			respondBadRequest(c, "invalid now time format, expected RFC3339")
			return
		}
		now = parsed
		slog.InfoContext(ctx, "using virtual time",
			slog.Time("virtual_now", now),
		)
	}

	resp, err := h.processor.ProcessDue(ctx, now)
	if err != nil {
		slog.ErrorContext(ctx, "queue processing failed",
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, errorResponse{
			Error:   "processing_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}
