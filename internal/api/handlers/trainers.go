package handlers

import (
	"github.com/dhima/catalog-service/internal/logging"
	"github.com/dhima/catalog-service/internal/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TrainerHandler handles trainer profile requests.
type TrainerHandler struct {
	crud[models.Trainer, models.CreateTrainerRequest, models.UpdateTrainerRequest]
}

// NewTrainerHandler creates a new trainer handler.
func NewTrainerHandler(logger logging.Logger, trainers repository[models.Trainer]) *TrainerHandler {
	return &TrainerHandler{
		crud: newCRUD[models.Trainer, models.CreateTrainerRequest, models.UpdateTrainerRequest](
			logger.With(zap.String("handler", "trainer")), trainers, "Trainer"),
	}
}

// ListTrainers godoc
// @Summary List trainers
// @Description Returns every trainer in insertion order
// @Tags Trainers
// @Produce json
// @Success 200 {array} models.Trainer
// @Failure 503 {object} response.ErrorResponse "Storage unavailable"
// @Router /api/trainers [get]
func (h *TrainerHandler) ListTrainers(c *gin.Context) { h.list(c) }

// GetTrainer godoc
// @Summary Get a trainer
// @Tags Trainers
// @Produce json
// @Param id path string true "Trainer ID"
// @Success 200 {object} models.Trainer
// @Failure 404 {object} response.ErrorResponse "Trainer not found"
// @Router /api/trainers/{id} [get]
func (h *TrainerHandler) GetTrainer(c *gin.Context) { h.get(c) }

// CreateTrainer godoc
// @Summary Add a trainer
// @Tags Trainers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trainer body models.CreateTrainerRequest true "Trainer"
// @Success 201 {object} models.Trainer
// @Failure 400 {object} response.ErrorResponse "Invalid request"
// @Failure 401 {object} response.ErrorResponse "Authentication required"
// @Failure 403 {object} response.ErrorResponse "Insufficient permissions"
// @Failure 500 {object} response.ErrorResponse "Changes could not be saved"
// @Router /api/trainers [post]
func (h *TrainerHandler) CreateTrainer(c *gin.Context) { h.create(c) }

// UpdateTrainer godoc
// @Summary Update a trainer
// @Description Overwrites only the fields present in the body
// @Tags Trainers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trainer ID"
// @Param trainer body models.UpdateTrainerRequest true "Fields to change"
// @Success 200 {object} models.Trainer
// @Failure 400 {object} response.ErrorResponse "Invalid request"
// @Failure 401 {object} response.ErrorResponse "Authentication required"
// @Failure 403 {object} response.ErrorResponse "Insufficient permissions"
// @Failure 404 {object} response.ErrorResponse "Trainer not found"
// @Router /api/trainers/{id} [put]
func (h *TrainerHandler) UpdateTrainer(c *gin.Context) { h.update(c) }

// DeleteTrainer godoc
// @Summary Delete a trainer
// @Tags Trainers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trainer ID"
// @Success 200 {object} response.MessageResponse
// @Failure 401 {object} response.ErrorResponse "Authentication required"
// @Failure 403 {object} response.ErrorResponse "Insufficient permissions"
// @Failure 404 {object} response.ErrorResponse "Trainer not found"
// @Router /api/trainers/{id} [delete]
func (h *TrainerHandler) DeleteTrainer(c *gin.Context) { h.delete(c) }
