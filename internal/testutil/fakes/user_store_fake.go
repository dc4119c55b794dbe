package fakes

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dhima/catalog-service/internal/models"
	"github.com/google/uuid"
)

var ErrDuplicate = errors.New("duplicate username")

// FakeUserStore is an in-memory credential store.
type FakeUserStore struct {
	mu      sync.Mutex
	Users   []models.User
	FailErr error
}

func NewFakeUserStore(users ...models.User) *FakeUserStore {
	return &FakeUserStore{Users: users}
}

func (f *FakeUserStore) FindByUsername(_ context.Context, username string) (models.User, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailErr != nil {
		return models.User{}, false, f.FailErr
	}
	for _, u := range f.Users {
		if strings.EqualFold(u.Username, username) {
			return u, true, nil
		}
	}
	return models.User{}, false, nil
}

func (f *FakeUserStore) Create(_ context.Context, user models.User) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailErr != nil {
		return models.User{}, f.FailErr
	}
	for _, u := range f.Users {
		if strings.EqualFold(u.Username, user.Username) {
			return models.User{}, ErrDuplicate
		}
	}
	user.ID = uuid.NewString()
	f.Users = append(f.Users, user)
	return user, nil
}
