package catalog

import (
	"context"
	"strings"

	"github.com/dhima/catalog-service/internal/models"
	"github.com/dhima/catalog-service/internal/storage"
	"github.com/dhima/catalog-service/pkg/clock"
)

// Users is the credential repository. Usernames are unique, compared
// case-insensitively.
type Users struct {
	repo  *storage.Repository[models.User, *models.User]
	clock clock.Clock
}

// NewUsers returns the credential repository.
func NewUsers(store *storage.Store, clk clock.Clock) *Users {
	return &Users{
		repo:  storage.NewRepository[models.User](store, CollectionUsers),
		clock: clk,
	}
}

// Get returns the user with id or storage.ErrNotFound.
func (u *Users) Get(ctx context.Context, id string) (models.User, error) {
	return u.repo.Get(ctx, id)
}

// List returns every stored credential.
func (u *Users) List(ctx context.Context) ([]models.User, error) {
	return u.repo.List(ctx)
}

// FindByUsername looks a user up by name.
func (u *Users) FindByUsername(ctx context.Context, username string) (models.User, bool, error) {
	return u.repo.Find(ctx, func(user models.User) bool {
		return strings.EqualFold(user.Username, username)
	})
}

// Create stores a new credential. The uniqueness check runs inside the commit
// so two concurrent registrations of one name cannot both succeed.
func (u *Users) Create(ctx context.Context, user models.User) (models.User, error) {
	user.Username = strings.TrimSpace(user.Username)

	var p problems
	p.require("username", user.Username)
	p.require("password", user.PasswordHash)
	if user.Role != models.RoleAdmin && user.Role != models.RoleUser {
		p.add("role", "must be admin or user")
	}
	if err := p.err(); err != nil {
		return models.User{}, err
	}

	user.Touch(u.clock.Now())
	return u.repo.Create(ctx, user, func(existing models.User) error {
		if strings.EqualFold(existing.Username, user.Username) {
			return NewConflictError("user %q already exists", user.Username)
		}
		return nil
	})
}
