package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comercial-bex/criativo-flow-sub009/internal/domain"
	"github.com/comercial-bex/criativo-flow-sub009/internal/observability/metrics"
	"github.com/comercial-bex/criativo-flow-sub009/internal/service/conflict"
	"github.com/comercial-bex/criativo-flow-sub009/internal/service/events"
)

type EventHandler struct {
	eventService *events.Service
	detector     *conflict.Detector
	schedMetrics *metrics.SchedulerMetrics
}

func NewEventHandler(
	eventService *events.Service,
	detector *conflict.Detector,
	schedMetrics *metrics.SchedulerMetrics,
) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		detector:     detector,
		schedMetrics: schedMetrics,
	}
}

type eventPayload struct {
	ID           string    `json:"id,omitempty"`
	Title        string    `json:"title"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
	Type         string    `json:"type"`
	AssigneeID   string    `json:"assignee_id,omitempty"`
	AssigneeName string    `json:"assignee_name,omitempty"`
	Origin       string    `json:"origin,omitempty"`
	IsBlocking   bool      `json:"is_blocking,omitempty"`
	IsExtra      bool      `json:"is_extra,omitempty"`
	ProjectID    string    `json:"project_id,omitempty"`
	ClientID     string    `json:"client_id,omitempty"`
	Status       string    `json:"status,omitempty"`
}

func toEventPayload(e *domain.CalendarEvent) eventPayload {
	return eventPayload{
		ID:           e.ID,
		Title:        e.Title,
		StartsAt:     e.StartsAt,
		EndsAt:       e.EndsAt,
		Type:         e.Type,
		AssigneeID:   e.AssigneeID,
		AssigneeName: e.AssigneeName,
		Origin:       string(e.Origin),
		IsBlocking:   e.IsBlocking,
		IsExtra:      e.IsExtra,
		ProjectID:    e.ProjectID,
		ClientID:     e.ClientID,
		Status:       string(e.Status),
	}
}

func (p *eventPayload) toDomain() *domain.CalendarEvent {
	return &domain.CalendarEvent{
		ID:           p.ID,
		Title:        p.Title,
		StartsAt:     p.StartsAt,
		EndsAt:       p.EndsAt,
		Type:         p.Type,
		AssigneeID:   p.AssigneeID,
		AssigneeName: p.AssigneeName,
		Origin:       domain.EventOrigin(p.Origin),
		IsBlocking:   p.IsBlocking,
		IsExtra:      p.IsExtra,
		ProjectID:    p.ProjectID,
		ClientID:     p.ClientID,
		Status:       domain.EventStatus(p.Status),
	}
}

// parseWindow reads the required start/end query pair. Both bounds are
// inclusive.
func parseWindow(c *gin.Context) (events.WindowQuery, bool) {
	startStr := c.Query("start")
	endStr := c.Query("end")
	if startStr == "" || endStr == "" {
		respondBadRequest(c, "start and end query parameters are required, RFC3339")
		return events.WindowQuery{}, false
	}

	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		respondBadRequest(c, "invalid start time format, expected RFC3339")
		return events.WindowQuery{}, false
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		respondBadRequest(c, "invalid end time format, expected RFC3339")
		return events.WindowQuery{}, false
	}

	return events.WindowQuery{
		Start:      start,
		End:        end,
		AssigneeID: c.Query("assignee_id"),
		Type:       c.Query("type"),
		Origin:     c.Query("origin"),
	}, true
}

func (h *EventHandler) HandleFetchWindow(c *gin.Context) {
	ctx := c.Request.Context()

	query, ok := parseWindow(c)
	if !ok {
		return
	}

	evts, err := h.eventService.FetchWindow(ctx, query)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch event window",
			slog.String("error", err.Error()),
		)
		respondError(c, err)
		return
	}

	payloads := make([]eventPayload, 0, len(evts))
	for i := range evts {
		payloads = append(payloads, toEventPayload(&evts[i]))
	}

	c.JSON(http.StatusOK, gin.H{"events": payloads, "count": len(payloads)})
}

func (h *EventHandler) HandleCreateEvent(c *gin.Context) {
	ctx := c.Request.Context()

	var payload eventPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "invalid event payload: "+err.Error())
		return
	}

	event := payload.toDomain()
	if err := event.Validate(); err != nil {
		respondError(c, err)
		return
	}

	if err := h.eventService.CreateEvent(ctx, event); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toEventPayload(event))
}

func (h *EventHandler) HandleUpdateEvent(c *gin.Context) {
	ctx := c.Request.Context()

	var payload eventPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "invalid event payload: "+err.Error())
		return
	}
	payload.ID = c.Param("id")

	event := payload.toDomain()
	if err := event.Validate(); err != nil {
		respondError(c, err)
		return
	}

	if err := h.eventService.UpdateEvent(ctx, event); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toEventPayload(event))
}

func (h *EventHandler) HandleDeleteEvent(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.eventService.DeleteEvent(ctx, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type conflictPayload struct {
	AssigneeID   string         `json:"assignee_id"`
	AssigneeName string         `json:"assignee_name,omitempty"`
	Kind         string         `json:"kind"`
	Severity     string         `json:"severity"`
	Events       []eventPayload `json:"events"`
	Day          string         `json:"day,omitempty"`
	EventCount   int            `json:"event_count,omitempty"`
	Message      string         `json:"message"`
}

// HandleConflicts fetches the window unfiltered and runs detection over
// it. Filters are deliberately not honored here: conflicts must be
// computed from the full set.
func (h *EventHandler) HandleConflicts(c *gin.Context) {
	ctx := c.Request.Context()

	query, ok := parseWindow(c)
	if !ok {
		return
	}
	query.Type = ""
	query.Origin = ""

	evts, err := h.eventService.FetchWindow(ctx, query)
	if err != nil {
		respondError(c, err)
		return
	}

	conflicts := h.detector.Detect(evts)

	payloads := make([]conflictPayload, 0, len(conflicts))
	for _, cf := range conflicts {
		cfEvents := make([]eventPayload, 0, len(cf.Events))
		for i := range cf.Events {
			cfEvents = append(cfEvents, toEventPayload(&cf.Events[i]))
		}
		payloads = append(payloads, conflictPayload{
			AssigneeID:   cf.AssigneeID,
			AssigneeName: cf.AssigneeName,
			Kind:         string(cf.Kind),
			Severity:     string(cf.Severity),
			Events:       cfEvents,
			Day:          cf.Day,
			EventCount:   cf.EventCount,
			Message:      cf.Message,
		})
		if h.schedMetrics != nil {
			h.schedMetrics.RecordConflictDetected(ctx, string(cf.Kind), string(cf.Severity))
		}
	}

	c.JSON(http.StatusOK, gin.H{"conflicts": payloads, "count": len(payloads)})
}

type schedulePostRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time"`
}

func (h *EventHandler) HandleSchedulePost(c *gin.Context) {
	ctx := c.Request.Context()
	postID := c.Param("id")

	var req schedulePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid schedule payload: "+err.Error())
		return
	}

	if _, err := time.Parse(domain.DateLayout, req.Date); err != nil {
		respondBadRequest(c, "invalid date, expected YYYY-MM-DD")
		return
	}
	if req.Time != "" {
		if _, err := time.Parse(domain.TimeLayout, req.Time); err != nil {
			respondBadRequest(c, "invalid time, expected HH:MM")
			return
		}
	}

	if err := h.eventService.SchedulePost(ctx, postID, req.Date, req.Time); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post_id": postID, "date": req.Date, "time": req.Time})
}
