package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/dhima/catalog-service/internal/api/response"
	"github.com/dhima/catalog-service/internal/catalog"
	"github.com/dhima/catalog-service/internal/logging"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// repository is the read and write surface a catalog resource offers.
type repository[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, rec T) (T, error)
	Update(ctx context.Context, id string, patch catalog.Patch[T]) (T, error)
	Delete(ctx context.Context, id string) error
}

// creator is a create payload that converts to a new record.
type creator[T any] interface {
	Record() T
}

// crud serves list, get, create, update and delete for one resource. C is
// the create payload and U the partial update payload.
type crud[T any, C creator[T], U catalog.Patch[T]] struct {
	logger logging.Logger
	repo   repository[T]
	noun   string
}

func newCRUD[T any, C creator[T], U catalog.Patch[T]](logger logging.Logger, repo repository[T], noun string) crud[T, C, U] {
	return crud[T, C, U]{logger: logger, repo: repo, noun: noun}
}

func (h crud[T, C, U]) list(c *gin.Context) {
	records, err := h.repo.List(c.Request.Context())
	if handleServiceError(c, h.logger, err, h.noun, h.op("list")) {
		return
	}
	response.OK(c, records)
}

func (h crud[T, C, U]) get(c *gin.Context) {
	record, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	if handleServiceError(c, h.logger, err, h.noun, h.op("get")) {
		return
	}
	response.OK(c, record)
}

func (h crud[T, C, U]) create(c *gin.Context) {
	var req C
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, h.logger, err, h.op("create"))
		return
	}

	record, err := h.repo.Create(c.Request.Context(), req.Record())
	if handleServiceError(c, h.logger, err, h.noun, h.op("create")) {
		return
	}

	h.logger.Info(strings.ToLower(h.noun)+" created",
		zap.String("request_id", response.GetRequestID(c)),
	)
	response.Created(c, record)
}

func (h crud[T, C, U]) update(c *gin.Context) {
	var req U
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, h.logger, err, h.op("update"))
		return
	}

	id := c.Param("id")
	record, err := h.repo.Update(c.Request.Context(), id, req)
	if handleServiceError(c, h.logger, err, h.noun, h.op("update")) {
		return
	}

	h.logger.Info(strings.ToLower(h.noun)+" updated",
		zap.String("id", id),
		zap.String("request_id", response.GetRequestID(c)),
	)
	response.OK(c, record)
}

func (h crud[T, C, U]) delete(c *gin.Context) {
	id := c.Param("id")
	err := h.repo.Delete(c.Request.Context(), id)
	if handleServiceError(c, h.logger, err, h.noun, h.op("delete")) {
		return
	}

	h.logger.Info(strings.ToLower(h.noun)+" deleted",
		zap.String("id", id),
		zap.String("request_id", response.GetRequestID(c)),
	)
	response.Message(c, http.StatusOK, h.noun+" deleted")
}

func (h crud[T, C, U]) op(verb string) string {
	return verb + " " + strings.ToLower(h.noun)
}
