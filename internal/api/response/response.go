package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Kind is the stable, machine-checkable class of an error response.
type Kind string

const (
	KindNotFound           Kind = "not_found"
	KindValidationFailed   Kind = "validation_failed"
	KindUnauthorized       Kind = "unauthorized"
	KindForbidden          Kind = "forbidden"
	KindConflict           Kind = "conflict"
	KindRateLimited        Kind = "rate_limited"
	KindStorageUnavailable Kind = "storage_unavailable"
	KindPersistenceFailed  Kind = "persistence_failed"
	KindInternal           Kind = "internal"
)

// ErrorResponse represents an error API response.
type ErrorResponse struct {
	Kind    Kind        `json:"kind" example:"not_found"`
	Message string      `json:"message" example:"Event not found"`
	Details interface{} `json:"details,omitempty"`
	TraceID string      `json:"trace_id,omitempty" example:"7f1c7d4e-2b7c-4b55-9d43-6f1d8a2f4c11"`
} // @name ErrorResponse

// MessageResponse carries a human-readable outcome.
type MessageResponse struct {
	Message string `json:"message" example:"Event deleted"`
} // @name MessageResponse

// OK sends a 200 OK response with data as the body.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 Created response with data as the body.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message sends a {message} body with statusCode.
func Message(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, MessageResponse{Message: message})
}

// Error aborts the request with an error body.
func Error(c *gin.Context, statusCode int, kind Kind, message string, details interface{}) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Kind:    kind,
		Message: message,
		Details: details,
		TraceID: GetRequestID(c),
	})
}

// BadRequest sends a 400 Bad Request response.
func BadRequest(c *gin.Context, message string, details interface{}) {
	Error(c, http.StatusBadRequest, KindValidationFailed, message, details)
}

// NotFound sends a 404 Not Found response.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, KindNotFound, message, nil)
}

// Unauthorized sends a 401 Unauthorized response.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, KindUnauthorized, message, nil)
}

// Forbidden sends a 403 Forbidden response.
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, KindForbidden, message, nil)
}

// Conflict sends a 409 Conflict response.
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, KindConflict, message, nil)
}

// StorageUnavailable sends a 503 Service Unavailable response.
func StorageUnavailable(c *gin.Context) {
	Error(c, http.StatusServiceUnavailable, KindStorageUnavailable, "storage unavailable", nil)
}

// PersistenceFailed sends a 500 response for a write that was not persisted.
func PersistenceFailed(c *gin.Context) {
	Error(c, http.StatusInternalServerError, KindPersistenceFailed, "changes could not be saved", nil)
}

// InternalServerError sends a 500 Internal Server Error response.
func InternalServerError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, KindInternal, message, nil)
}

// GetRequestID retrieves the request ID from context.
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return uuid.New().String()
}
