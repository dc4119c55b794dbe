package handlers

import (
	"github.com/dhima/catalog-service/internal/logging"
	"github.com/dhima/catalog-service/internal/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TrainingHandler handles training catalog requests.
type TrainingHandler struct {
	crud[models.Training, models.CreateTrainingRequest, models.UpdateTrainingRequest]
}

// NewTrainingHandler creates a new training handler.
func NewTrainingHandler(logger logging.Logger, trainings repository[models.Training]) *TrainingHandler {
	return &TrainingHandler{
		crud: newCRUD[models.Training, models.CreateTrainingRequest, models.UpdateTrainingRequest](
			logger.With(zap.String("handler", "training")), trainings, "Training"),
	}
}

// ListTrainings godoc
// @Summary List trainings
// @Description Returns every training in insertion order
// @Tags Trainings
// @Produce json
// @Success 200 {array} models.Training
// @Failure 503 {object} response.ErrorResponse "Storage unavailable"
// @Router /api/trainings [get]
func (h *TrainingHandler) ListTrainings(c *gin.Context) { h.list(c) }

// GetTraining godoc
// @Summary Get a training
// @Tags Trainings
// @Produce json
// @Param id path string true "Training ID"
// @Success 200 {object} models.Training
// @Failure 404 {object} response.ErrorResponse "Training not found"
// @Router /api/trainings/{id} [get]
func (h *TrainingHandler) GetTraining(c *gin.Context) { h.get(c) }

// CreateTraining godoc
// @Summary Create a training
// @Tags Trainings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param training body models.CreateTrainingRequest true "Training"
// @Success 201 {object} models.Training
// @Failure 400 {object} response.ErrorResponse "Invalid request"
// @Failure 401 {object} response.ErrorResponse "Authentication required"
// @Failure 403 {object} response.ErrorResponse "Insufficient permissions"
// @Failure 500 {object} response.ErrorResponse "Changes could not be saved"
// @Router /api/trainings [post]
func (h *TrainingHandler) CreateTraining(c *gin.Context) { h.create(c) }

// UpdateTraining godoc
// @Summary Update a training
// @Description Overwrites only the fields present in the body
// @Tags Trainings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Training ID"
// @Param training body models.UpdateTrainingRequest true "Fields to change"
// @Success 200 {object} models.Training
// @Failure 400 {object} response.ErrorResponse "Invalid request"
// @Failure 401 {object} response.ErrorResponse "Authentication required"
// @Failure 403 {object} response.ErrorResponse "Insufficient permissions"
// @Failure 404 {object} response.ErrorResponse "Training not found"
// @Router /api/trainings/{id} [put]
func (h *TrainingHandler) UpdateTraining(c *gin.Context) { h.update(c) }

// DeleteTraining godoc
// @Summary Delete a training
// @Tags Trainings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Training ID"
// @Success 200 {object} response.MessageResponse
// @Failure 401 {object} response.ErrorResponse "Authentication required"
// @Failure 403 {object} response.ErrorResponse "Insufficient permissions"
// @Failure 404 {object} response.ErrorResponse "Training not found"
// @Failure 409 {object} response.ErrorResponse "Training is referenced by events"
// @Router /api/trainings/{id} [delete]
func (h *TrainingHandler) DeleteTraining(c *gin.Context) { h.delete(c) }
