package handlers

import (
	"context"

	"github.com/dhima/catalog-service/internal/api/middleware"
	"github.com/dhima/catalog-service/internal/api/response"
	"github.com/dhima/catalog-service/internal/logging"
	"github.com/dhima/catalog-service/internal/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authenticator issues tokens and creates credentials.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (models.LoginResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (models.UserView, error)
}

// AuthHandler handles login and credential management.
type AuthHandler struct {
	logger logging.Logger
	auth   Authenticator
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(logger logging.Logger, auth Authenticator) *AuthHandler {
	return &AuthHandler{
		logger: logger.With(zap.String("handler", "auth")),
		auth:   auth,
	}
}

// Login godoc
// @Summary Log in
// @Description Exchanges a username and password for a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body models.LoginRequest true "Credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} response.ErrorResponse "Invalid request"
// @Failure 401 {object} response.ErrorResponse "Invalid credentials"
// @Failure 429 {object} response.ErrorResponse "Too many login attempts"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, h.logger, err, "login")
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if handleServiceError(c, h.logger, err, "User", "login") {
		return
	}
	response.OK(c, resp)
}

// Register godoc
// @Summary Create a user
// @Description Creates a credential. The role defaults to user.
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body models.RegisterRequest true "New user"
// @Success 201 {object} models.RegisterResponse
// @Failure 400 {object} response.ErrorResponse "Invalid request"
// @Failure 401 {object} response.ErrorResponse "Authentication required"
// @Failure 403 {object} response.ErrorResponse "Insufficient permissions"
// @Failure 409 {object} response.ErrorResponse "Username taken"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, h.logger, err, "register")
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req)
	if handleServiceError(c, h.logger, err, "User", "register") {
		return
	}

	h.logger.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("request_id", response.GetRequestID(c)),
	)
	response.Created(c, models.RegisterResponse{Message: "User created successfully", User: user})
}

// Me godoc
// @Summary Current identity
// @Description Returns the identity carried by the bearer token
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserView
// @Failure 401 {object} response.ErrorResponse "Authentication required"
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	response.OK(c, models.UserView{ID: identity.UserID, Username: identity.Username, Role: identity.Role})
}
