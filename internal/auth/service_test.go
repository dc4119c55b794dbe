package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dhima/catalog-service/internal/catalog"
	"github.com/dhima/catalog-service/internal/logging"
	"github.com/dhima/catalog-service/internal/models"
	"github.com/dhima/catalog-service/internal/testutil/fakes"
	"github.com/dhima/catalog-service/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newService(t *testing.T, users UserStore) (*Service, *TokenManager) {
	t.Helper()
	tokens := NewTokenManager("secret", 24*time.Hour, "catalog-service", clock.NewFixed(issuedAt))
	return NewService(users, tokens, bcrypt.MinCost, logging.NewNoOpLogger()), tokens
}

func storedUser(t *testing.T, username, password string, role models.Role) models.User {
	t.Helper()
	hash, err := HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	return models.User{Meta: models.Meta{ID: username + "-id"}, Username: username, PasswordHash: hash, Role: role}
}

func TestHashPassword_WhenChecked_ThenOnlyOriginalMatches(t *testing.T) {
	hash, err := HashPassword("correct horse", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "correct hors"))
	assert.False(t, CheckPassword("not-a-hash", "correct horse"))
}

func TestHashPassword_WhenTooLong_ThenValidationError(t *testing.T) {
	_, err := HashPassword(strings.Repeat("x", 73), bcrypt.MinCost)

	var verr catalog.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestLogin_WhenCredentialsValid_ThenIssuesVerifiableToken(t *testing.T) {
	// Arrange
	users := fakes.NewFakeUserStore(storedUser(t, "admin", "s3cret-pass", models.RoleAdmin))
	service, tokens := newService(t, users)

	// Act
	resp, err := service.Login(context.Background(), "admin", "s3cret-pass")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.UserView{ID: "admin-id", Username: "admin", Role: models.RoleAdmin}, resp.User)
	assert.Equal(t, issuedAt.Add(24*time.Hour), resp.ExpiresAt)
	identity, err := tokens.Validate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin-id", identity.UserID)
}

func TestLogin_WhenUnknownUserOrWrongPassword_ThenSameError(t *testing.T) {
	// Arrange
	users := fakes.NewFakeUserStore(storedUser(t, "admin", "s3cret-pass", models.RoleAdmin))
	service, _ := newService(t, users)

	// Act
	_, unknownErr := service.Login(context.Background(), "ghost", "s3cret-pass")
	_, wrongErr := service.Login(context.Background(), "admin", "guess")

	// Assert
	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, ErrInvalidCredentials)
}

func TestLogin_WhenStoreFails_ThenPropagates(t *testing.T) {
	users := fakes.NewFakeUserStore()
	users.FailErr = errors.New("disk gone")
	service, _ := newService(t, users)

	_, err := service.Login(context.Background(), "admin", "pw")

	assert.EqualError(t, err, "disk gone")
}

func TestRegister_WhenRoleOmitted_ThenDefaultsToUserAndHashes(t *testing.T) {
	// Arrange
	users := fakes.NewFakeUserStore()
	service, _ := newService(t, users)

	// Act
	view, err := service.Register(context.Background(), models.RegisterRequest{Username: "editor", Password: "long-enough"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, view.Role)
	require.Len(t, users.Users, 1)
	assert.NotEqual(t, "long-enough", users.Users[0].PasswordHash)
	assert.True(t, CheckPassword(users.Users[0].PasswordHash, "long-enough"))
}

func TestEnsureAdmin_WhenAbsent_ThenCreatesOnce(t *testing.T) {
	// Arrange
	users := fakes.NewFakeUserStore()
	service, _ := newService(t, users)

	// Act
	first, err := service.EnsureAdmin(context.Background(), "admin", "bootstrap-pass")
	require.NoError(t, err)
	second, err := service.EnsureAdmin(context.Background(), "admin", "other-pass")
	require.NoError(t, err)

	// Assert
	assert.True(t, first)
	assert.False(t, second)
	require.Len(t, users.Users, 1)
	assert.Equal(t, models.RoleAdmin, users.Users[0].Role)
	assert.True(t, CheckPassword(users.Users[0].PasswordHash, "bootstrap-pass"))
}

func TestEnsureAdmin_WhenPasswordUnset_ThenSkips(t *testing.T) {
	users := fakes.NewFakeUserStore()
	service, _ := newService(t, users)

	created, err := service.EnsureAdmin(context.Background(), "admin", "")

	require.NoError(t, err)
	assert.False(t, created)
	assert.Empty(t, users.Users)
}
