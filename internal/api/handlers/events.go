package handlers

import (
	"context"
	"errors"

	"github.com/dhima/catalog-service/internal/api/response"
	"github.com/dhima/catalog-service/internal/catalog"
	"github.com/dhima/catalog-service/internal/logging"
	"github.com/dhima/catalog-service/internal/models"
	"github.com/dhima/catalog-service/internal/scheduler"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxCalendarDays bounds the range a single calendar request may scan.
const maxCalendarDays = 366

// EventStore is the event repository together with its scheduling queries.
type EventStore interface {
	repository[models.Event]
	OnDate(ctx context.Context, date scheduler.Date) ([]models.Event, error)
	MarkedDays(ctx context.Context, window scheduler.Span) ([]scheduler.Date, error)
	Agenda(ctx context.Context, id string) (models.EventDaysResponse, error)
}

var _ EventStore = (*catalog.Events)(nil)

// EventHandler handles event and scheduling requests.
type EventHandler struct {
	crud[models.Event, models.CreateEventRequest, models.UpdateEventRequest]
	events EventStore
}

// NewEventHandler creates a new event handler.
func NewEventHandler(logger logging.Logger, events EventStore) *EventHandler {
	logger = logger.With(zap.String("handler", "event"))
	return &EventHandler{
		crud:   newCRUD[models.Event, models.CreateEventRequest, models.UpdateEventRequest](logger, events, "Event"),
		events: events,
	}
}

// ListEvents godoc
// @Summary List events
// @Description Returns every event, or only those taking place on date when given. Order is insertion order.
// @Tags Events
// @Produce json
// @Param date query string false "Calendar day (YYYY-MM-DD)"
// @Success 200 {array} models.Event
// @Failure 400 {object} response.ErrorResponse "Invalid query parameters"
// @Router /api/events [get]
func (h *EventHandler) ListEvents(c *gin.Context) {
	var query models.ListEventsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		handleBindError(c, h.logger, err, "list events")
		return
	}
	if query.Date == "" {
		h.list(c)
		return
	}

	date, err := scheduler.ParseDate(query.Date)
	if err != nil {
		response.BadRequest(c, "validation failed", []catalog.Problem{{Field: "date", Message: "must be a YYYY-MM-DD date"}})
		return
	}
	events, err := h.events.OnDate(c.Request.Context(), date)
	if handleServiceError(c, h.logger, err, h.noun, "list events on date") {
		return
	}
	response.OK(c, events)
}

// GetEvent godoc
// @Summary Get an event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} models.Event
// @Failure 404 {object} response.ErrorResponse "Event not found"
// @Router /api/events/{id} [get]
func (h *EventHandler) GetEvent(c *gin.Context) { h.get(c) }

// CreateEvent godoc
// @Summary Schedule an event
// @Description endDate must not be before startDate. trainingId, when set, must reference an existing training.
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body models.CreateEventRequest true "Event"
// @Success 201 {object} models.Event
// @Failure 400 {object} response.ErrorResponse "Invalid request"
// @Failure 401 {object} response.ErrorResponse "Authentication required"
// @Failure 403 {object} response.ErrorResponse "Insufficient permissions"
// @Failure 500 {object} response.ErrorResponse "Changes could not be saved"
// @Router /api/events [post]
func (h *EventHandler) CreateEvent(c *gin.Context) { h.create(c) }

// UpdateEvent godoc
// @Summary Update an event
// @Description Overwrites only the fields present in the body. The merged event is validated as a whole.
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param event body models.UpdateEventRequest true "Fields to change"
// @Success 200 {object} models.Event
// @Failure 400 {object} response.ErrorResponse "Invalid request"
// @Failure 401 {object} response.ErrorResponse "Authentication required"
// @Failure 403 {object} response.ErrorResponse "Insufficient permissions"
// @Failure 404 {object} response.ErrorResponse "Event not found"
// @Router /api/events/{id} [put]
func (h *EventHandler) UpdateEvent(c *gin.Context) { h.update(c) }

// DeleteEvent godoc
// @Summary Delete an event
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} response.MessageResponse
// @Failure 401 {object} response.ErrorResponse "Authentication required"
// @Failure 403 {object} response.ErrorResponse "Insufficient permissions"
// @Failure 404 {object} response.ErrorResponse "Event not found"
// @Router /api/events/{id} [delete]
func (h *EventHandler) DeleteEvent(c *gin.Context) { h.delete(c) }

// Calendar godoc
// @Summary Days with events
// @Description Returns the dates in the inclusive range [from, to] on which at least one event takes place. The range may span at most 366 days.
// @Tags Events
// @Produce json
// @Param from query string true "First day (YYYY-MM-DD)"
// @Param to query string true "Last day (YYYY-MM-DD)"
// @Success 200 {object} models.CalendarResponse
// @Failure 400 {object} response.ErrorResponse "Invalid range"
// @Router /api/events/calendar [get]
func (h *EventHandler) Calendar(c *gin.Context) {
	var query models.CalendarQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		handleBindError(c, h.logger, err, "calendar")
		return
	}

	window, err := calendarWindow(query)
	if err != nil {
		handleServiceError(c, h.logger, err, h.noun, "calendar")
		return
	}

	days, err := h.events.MarkedDays(c.Request.Context(), window)
	if handleServiceError(c, h.logger, err, h.noun, "calendar") {
		return
	}

	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.String())
	}
	response.OK(c, models.CalendarResponse{From: window.Start.String(), To: window.End.String(), Days: out})
}

func calendarWindow(query models.CalendarQuery) (scheduler.Span, error) {
	from, err := scheduler.ParseDate(query.From)
	if err != nil {
		return scheduler.Span{}, catalog.NewValidationError("from", "must be a YYYY-MM-DD date")
	}
	to, err := scheduler.ParseDate(query.To)
	if err != nil {
		return scheduler.Span{}, catalog.NewValidationError("to", "must be a YYYY-MM-DD date")
	}
	window, err := scheduler.NewSpan(from, to)
	if errors.Is(err, scheduler.ErrInvalidSpan) {
		return scheduler.Span{}, catalog.NewValidationError("to", "must not be before from")
	}
	if err != nil {
		return scheduler.Span{}, err
	}
	if window.Len() > maxCalendarDays {
		return scheduler.Span{}, catalog.NewValidationError("to", "range must not exceed %d days", maxCalendarDays)
	}
	return window, nil
}

// EventDays godoc
// @Summary Days of an event
// @Description Enumerates every calendar day of the event with its session start and end in the event's time zone
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} models.EventDaysResponse
// @Failure 404 {object} response.ErrorResponse "Event not found"
// @Router /api/events/{id}/days [get]
func (h *EventHandler) EventDays(c *gin.Context) {
	agenda, err := h.events.Agenda(c.Request.Context(), c.Param("id"))
	if handleServiceError(c, h.logger, err, h.noun, "event days") {
		return
	}
	response.OK(c, agenda)
}
