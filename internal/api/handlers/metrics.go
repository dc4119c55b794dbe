package handlers

import (
	"context"
	"encoding/json"

	"github.com/dhima/catalog-service/internal/api/response"
	"github.com/dhima/catalog-service/internal/logging"
	"github.com/dhima/catalog-service/internal/models"
	"github.com/dhima/catalog-service/internal/scheduler"
	"github.com/dhima/catalog-service/pkg/clock"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CollectionReader exposes the committed records of a collection.
type CollectionReader interface {
	Collection(name string) []json.RawMessage
}

// DayLookup answers which events take place on a date.
type DayLookup interface {
	OnDate(ctx context.Context, date scheduler.Date) ([]models.Event, error)
}

// MetricsHandler handles metrics requests.
type MetricsHandler struct {
	logger      logging.Logger
	store       CollectionReader
	collections []string
	events      DayLookup
	clock       clock.Clock
}

// NewMetricsHandler creates a new metrics handler reporting on collections.
func NewMetricsHandler(logger logging.Logger, store CollectionReader, collections []string, events DayLookup, clk clock.Clock) *MetricsHandler {
	return &MetricsHandler{
		logger:      logger.With(zap.String("handler", "metrics")),
		store:       store,
		collections: collections,
		events:      events,
		clock:       clk,
	}
}

// MetricsResponse represents the metrics response.
type MetricsResponse struct {
	Service     string         `json:"service" example:"catalog-service"`
	Records     map[string]int `json:"records"`
	EventsToday int            `json:"events_today" example:"2"`
	Date        string         `json:"date" example:"2024-03-03"`
} // @name MetricsResponse

// Metrics godoc
// @Summary Get catalog metrics
// @Description Returns record counts per collection and the number of events taking place today (UTC)
// @Tags System
// @Produce json
// @Success 200 {object} MetricsResponse
// @Router /metrics [get]
func (h *MetricsHandler) Metrics(c *gin.Context) {
	records := make(map[string]int, len(h.collections))
	for _, name := range h.collections {
		records[name] = len(h.store.Collection(name))
	}

	today := scheduler.DateOf(h.clock.Now().UTC())
	events, err := h.events.OnDate(c.Request.Context(), today)
	if handleServiceError(c, h.logger, err, "Event", "metrics") {
		return
	}

	response.OK(c, MetricsResponse{
		Service:     ServiceName,
		Records:     records,
		EventsToday: len(events),
		Date:        today.String(),
	})
}
