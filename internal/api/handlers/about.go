package handlers

import (
	"context"

	"github.com/dhima/catalog-service/internal/api/response"
	"github.com/dhima/catalog-service/internal/catalog"
	"github.com/dhima/catalog-service/internal/logging"
	"github.com/dhima/catalog-service/internal/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SiteContentStore holds the single site content record.
type SiteContentStore interface {
	Get(ctx context.Context) (models.SiteContent, error)
	Put(ctx context.Context, patch catalog.Patch[models.SiteContent]) (models.SiteContent, error)
}

// AboutHandler serves the editable site content.
type AboutHandler struct {
	logger logging.Logger
	site   SiteContentStore
}

// NewAboutHandler creates a new site content handler.
func NewAboutHandler(logger logging.Logger, site SiteContentStore) *AboutHandler {
	return &AboutHandler{
		logger: logger.With(zap.String("handler", "about")),
		site:   site,
	}
}

// GetAbout godoc
// @Summary Get site content
// @Description Returns the about copy. Fields are empty until first saved.
// @Tags Site
// @Produce json
// @Success 200 {object} models.SiteContent
// @Router /api/about [get]
func (h *AboutHandler) GetAbout(c *gin.Context) {
	content, err := h.site.Get(c.Request.Context())
	if handleServiceError(c, h.logger, err, "Site content", "get site content") {
		return
	}
	response.OK(c, content)
}

// PutAbout godoc
// @Summary Replace site content
// @Tags Site
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param content body models.UpdateSiteContentRequest true "Site content"
// @Success 200 {object} models.SiteContent
// @Failure 400 {object} response.ErrorResponse "Invalid request"
// @Failure 401 {object} response.ErrorResponse "Authentication required"
// @Failure 403 {object} response.ErrorResponse "Insufficient permissions"
// @Router /api/about [put]
func (h *AboutHandler) PutAbout(c *gin.Context) {
	var req models.UpdateSiteContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, h.logger, err, "update site content")
		return
	}

	content, err := h.site.Put(c.Request.Context(), req)
	if handleServiceError(c, h.logger, err, "Site content", "update site content") {
		return
	}

	h.logger.Info("site content updated", zap.String("request_id", response.GetRequestID(c)))
	response.OK(c, content)
}
