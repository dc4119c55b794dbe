package handlers

import (
	"context"
	"net/http"

	"github.com/dhima/catalog-service/internal/api/response"
	"github.com/dhima/catalog-service/internal/catalog"
	"github.com/dhima/catalog-service/internal/logging"
	"github.com/dhima/catalog-service/internal/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContactStore is the contact repository.
type ContactStore interface {
	repository[models.Contact]
	Submit(ctx context.Context, sub models.ContactSubmission) (models.Contact, error)
}

var _ ContactStore = (*catalog.Contacts)(nil)

// ContactHandler handles contact form submissions and their triage.
type ContactHandler struct {
	crud[models.Contact, models.ContactSubmission, models.UpdateContactRequest]
	contacts ContactStore
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(logger logging.Logger, contacts ContactStore) *ContactHandler {
	logger = logger.With(zap.String("handler", "contact"))
	return &ContactHandler{
		crud:     newCRUD[models.Contact, models.ContactSubmission, models.UpdateContactRequest](logger, contacts, "Contact"),
		contacts: contacts,
	}
}

// SubmitContact godoc
// @Summary Send a contact message
// @Description Public contact form. The message is stored with status "new".
// @Tags Contacts
// @Accept json
// @Produce json
// @Param contact body models.ContactSubmission true "Message"
// @Success 201 {object} response.MessageResponse
// @Failure 400 {object} response.ErrorResponse "Invalid request"
// @Failure 500 {object} response.ErrorResponse "Changes could not be saved"
// @Router /api/contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var req models.ContactSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, h.logger, err, "submit contact")
		return
	}

	contact, err := h.contacts.Submit(c.Request.Context(), req)
	if handleServiceError(c, h.logger, err, h.noun, "submit contact") {
		return
	}

	h.logger.Info("contact submitted",
		zap.String("id", contact.ID),
		zap.String("request_id", response.GetRequestID(c)),
	)
	response.Message(c, http.StatusCreated, "Message sent successfully")
}

// ListContacts godoc
// @Summary List contact messages
// @Tags Contacts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Contact
// @Failure 401 {object} response.ErrorResponse "Authentication required"
// @Failure 403 {object} response.ErrorResponse "Insufficient permissions"
// @Router /api/contact [get]
func (h *ContactHandler) ListContacts(c *gin.Context) { h.list(c) }

// GetContact godoc
// @Summary Get a contact message
// @Tags Contacts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contact ID"
// @Success 200 {object} models.Contact
// @Failure 404 {object} response.ErrorResponse "Contact not found"
// @Router /api/contact/{id} [get]
func (h *ContactHandler) GetContact(c *gin.Context) { h.get(c) }

// UpdateContact godoc
// @Summary Change the status of a contact message
// @Tags Contacts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contact ID"
// @Param contact body models.UpdateContactRequest true "New status"
// @Success 200 {object} models.Contact
// @Failure 400 {object} response.ErrorResponse "Invalid request"
// @Failure 404 {object} response.ErrorResponse "Contact not found"
// @Router /api/contact/{id} [put]
func (h *ContactHandler) UpdateContact(c *gin.Context) { h.update(c) }

// DeleteContact godoc
// @Summary Delete a contact message
// @Tags Contacts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contact ID"
// @Success 200 {object} response.MessageResponse
// @Failure 404 {object} response.ErrorResponse "Contact not found"
// @Router /api/contact/{id} [delete]
func (h *ContactHandler) DeleteContact(c *gin.Context) { h.delete(c) }
