package handlers

import (
	"net/http"

	"github.com/dhima/catalog-service/internal/api/response"
	"github.com/dhima/catalog-service/internal/logging"
	"github.com/gin-gonic/gin"
)

// ServiceName identifies this service in health and metrics output.
const ServiceName = "catalog-service"

// ReadinessProbe reports whether the backing store is ready to serve.
type ReadinessProbe interface {
	Loaded() bool
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	logger logging.Logger
	store  ReadinessProbe
}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler(logger logging.Logger, store ReadinessProbe) *HealthHandler {
	return &HealthHandler{logger: logger, store: store}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Service string `json:"service" example:"catalog-service"`
	Version string `json:"version" example:"1.0.0"`
} // @name HealthResponse

// Health godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API service
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse "Store not loaded"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:  "ok",
		Service: ServiceName,
		Version: "1.0.0",
	}
	if !h.store.Loaded() {
		resp.Status = "unavailable"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	response.OK(c, resp)
}
