package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/dhima/catalog-service/internal/api/response"
	"github.com/dhima/catalog-service/internal/auth"
	"github.com/dhima/catalog-service/internal/catalog"
	"github.com/dhima/catalog-service/internal/logging"
	"github.com/dhima/catalog-service/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(fieldName)
	}
}

// fieldName reports struct fields by their wire name so binding failures
// name the same fields the client sent.
func fieldName(field reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name, _, _ := strings.Cut(field.Tag.Get(key), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return field.Name
}

// handleServiceError writes the response for a failed repository or service
// call. It reports whether err was non-nil.
func handleServiceError(c *gin.Context, logger logging.Logger, err error, noun, operation string) bool {
	if err == nil {
		return false
	}

	var validationErr catalog.ValidationError
	var conflictErr catalog.ConflictError
	switch {
	case errors.As(err, &validationErr):
		response.BadRequest(c, "validation failed", validationErr.Problems)
	case errors.As(err, &conflictErr):
		response.Conflict(c, conflictErr.Error())
	case errors.Is(err, storage.ErrNotFound):
		response.NotFound(c, noun+" not found")
	case errors.Is(err, auth.ErrInvalidCredentials):
		response.Unauthorized(c, "Invalid credentials")
	case errors.Is(err, storage.ErrStorageUnavailable):
		logger.Error(operation+" failed",
			zap.Error(err),
			zap.String("request_id", response.GetRequestID(c)),
		)
		response.StorageUnavailable(c)
	case errors.Is(err, storage.ErrPersistenceFailed):
		logger.Error(operation+" failed",
			zap.Error(err),
			zap.String("request_id", response.GetRequestID(c)),
		)
		response.PersistenceFailed(c)
	default:
		logger.Error(operation+" failed",
			zap.Error(err),
			zap.String("request_id", response.GetRequestID(c)),
		)
		response.InternalServerError(c, "internal server error")
	}
	return true
}

// handleBindError writes a 400 for a request that failed to bind.
func handleBindError(c *gin.Context, logger logging.Logger, err error, operation string) {
	logger.Warn("invalid "+operation+" request",
		zap.Error(err),
		zap.String("request_id", response.GetRequestID(c)),
	)

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		problems := make([]catalog.Problem, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			problems = append(problems, catalog.Problem{Field: fe.Field(), Message: describe(fe)})
		}
		response.BadRequest(c, "validation failed", problems)
		return
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		response.BadRequest(c, "invalid request body", "malformed JSON")
	case errors.As(err, &typeErr):
		response.BadRequest(c, "invalid request body", []catalog.Problem{{
			Field:   typeErr.Field,
			Message: "must be a " + typeErr.Type.String(),
		}})
	default:
		response.BadRequest(c, "invalid request body", err.Error())
	}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "datetime":
		switch fe.Param() {
		case "2006-01-02":
			return "must be a YYYY-MM-DD date"
		case "15:04":
			return "must be an HH:MM time"
		}
		return "must match the layout " + fe.Param()
	case "timezone":
		return "must be an IANA time zone name"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return "must be at least " + fe.Param()
	}
	return "failed the " + fe.Tag() + " check"
}
