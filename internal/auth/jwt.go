package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dhima/catalog-service/internal/models"
	"github.com/dhima/catalog-service/pkg/clock"
	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrUnauthorized covers a missing, malformed, forged or expired token.
	// The causes are deliberately indistinguishable to callers.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when a valid identity lacks the required role.
	ErrForbidden = errors.New("forbidden")
)

// Claims is the token payload.
type Claims struct {
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the decoded caller carried by an authenticated request.
type Identity struct {
	UserID   string      `json:"id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

// HasRole reports whether the identity holds one of allowed.
func (i Identity) HasRole(allowed ...models.Role) bool {
	for _, role := range allowed {
		if i.Role == role {
			return true
		}
	}
	return false
}

// TokenManager issues and verifies HS256 bearer tokens.
type TokenManager struct {
	secret []byte
	expiry time.Duration
	issuer string
	clock  clock.Clock
}

func NewTokenManager(secret string, expiry time.Duration, issuer string, clk clock.Clock) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		expiry: expiry,
		issuer: issuer,
		clock:  clk,
	}
}

// Generate signs a token for user and returns it with its expiry.
func (m *TokenManager) Generate(user models.UserView) (string, time.Time, error) {
	if user.ID == "" || user.Role == "" {
		return "", time.Time{}, fmt.Errorf("generate token: incomplete identity")
	}

	now := m.clock.Now()
	expiresAt := now.Add(m.expiry)
	claims := &Claims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate verifies signature, issuer and expiry against the manager clock.
func (m *TokenManager) Validate(tokenString string) (Identity, error) {
	if strings.TrimSpace(tokenString) == "" {
		return Identity{}, ErrUnauthorized
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.clock.Now),
	)
	if err != nil {
		return Identity{}, ErrUnauthorized
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return Identity{}, ErrUnauthorized
	}
	return Identity{UserID: claims.Subject, Username: claims.Username, Role: claims.Role}, nil
}

// TokenFromHeader extracts the token of an "Authorization: Bearer <token>" header.
func TokenFromHeader(authHeader string) (string, error) {
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrUnauthorized
	}
	return parts[1], nil
}
