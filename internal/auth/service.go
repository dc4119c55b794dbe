package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dhima/catalog-service/internal/catalog"
	"github.com/dhima/catalog-service/internal/logging"
	"github.com/dhima/catalog-service/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned by Login for an unknown user or a wrong
// password alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserStore is the credential persistence the service needs.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (models.User, bool, error)
	Create(ctx context.Context, user models.User) (models.User, error)
}

// Service issues tokens for stored credentials and manages them.
type Service struct {
	users  UserStore
	tokens *TokenManager
	cost   int
	logger logging.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

func NewService(users UserStore, tokens *TokenManager, bcryptCost int, logger logging.Logger) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:  users,
		tokens: tokens,
		cost:   bcryptCost,
		logger: logger.With(zap.String("component", "auth")),
	}
}

// HashPassword derives a salted bcrypt hash.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", catalog.NewValidationError("password", "must be at most 72 bytes")
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares password against hash using bcrypt's own comparison.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Login verifies the credentials and issues a token.
func (s *Service) Login(ctx context.Context, username, password string) (models.LoginResponse, error) {
	user, found, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return models.LoginResponse{}, err
	}
	if !found {
		// Spend the same bcrypt work as a real comparison.
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		s.logger.Info("login rejected", zap.String("reason", "unknown user"))
		return models.LoginResponse{}, ErrInvalidCredentials
	}
	if !CheckPassword(user.PasswordHash, password) {
		s.logger.Info("login rejected", zap.String("reason", "password mismatch"), zap.String("user_id", user.ID))
		return models.LoginResponse{}, ErrInvalidCredentials
	}

	view := user.View()
	token, expiresAt, err := s.tokens.Generate(view)
	if err != nil {
		return models.LoginResponse{}, err
	}

	s.logger.Info("login succeeded", zap.String("user_id", user.ID))
	return models.LoginResponse{Token: token, ExpiresAt: expiresAt, User: view}, nil
}

// Register creates a credential. The role defaults to user.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (models.UserView, error) {
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	hash, err := HashPassword(req.Password, s.cost)
	if err != nil {
		return models.UserView{}, err
	}

	created, err := s.users.Create(ctx, models.User{Username: req.Username, PasswordHash: hash, Role: role})
	if err != nil {
		return models.UserView{}, err
	}
	s.logger.Info("user registered", zap.String("user_id", created.ID), zap.String("role", string(role)))
	return created.View(), nil
}

// EnsureAdmin creates an admin credential named username unless a user with
// that name already exists. It reports whether a credential was created.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}
	_, found, err := s.users.FindByUsername(ctx, username)
	if err != nil || found {
		return false, err
	}

	_, err = s.Register(ctx, models.RegisterRequest{Username: username, Password: password, Role: models.RoleAdmin})
	var conflict catalog.ConflictError
	if errors.As(err, &conflict) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.cost)
	})
	return s.dummyHash
}
