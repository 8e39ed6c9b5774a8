package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comercial-bex/criativo-flow-sub009/internal/domain"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// respondError maps domain sentinels to HTTP statuses; anything
// unrecognized is an internal error.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrEventNotFound),
		errors.Is(err, domain.ErrPostNotFound),
		errors.Is(err, domain.ErrQueueItemNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "not_found", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidEventWindow):
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid_event_window", Message: err.Error()})
	case errors.Is(err, domain.ErrPastDate):
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: "past_date", Message: err.Error()})
	case errors.Is(err, domain.ErrDailyCapExceeded):
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: "daily_cap_exceeded", Message: err.Error()})
	case errors.Is(err, domain.ErrPostPublished):
		c.JSON(http.StatusConflict, errorResponse{Error: "published_locked", Message: err.Error()})
	case errors.Is(err, domain.ErrMoveInProgress):
		c.JSON(http.StatusConflict, errorResponse{Error: "move_in_progress", Message: err.Error()})
	case errors.Is(err, domain.ErrNoPendingMove):
		c.JSON(http.StatusConflict, errorResponse{Error: "no_pending_move", Message: err.Error()})
	case errors.Is(err, domain.ErrUndoExpired):
		c.JSON(http.StatusGone, errorResponse{Error: "undo_expired", Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal_error", Message: err.Error()})
	}
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid_request", Message: message})
}
