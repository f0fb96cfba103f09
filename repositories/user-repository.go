// Package repositories implements one collection-backed repository per entity
// kind. Every mutation is load, mutate, save-whole-collection; a per-repository
// mutex serializes mutations inside the process, and the revision check in the
// store layer catches writers outside it.
package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"workboard-service/models"
	"workboard-service/store"
)

const usersKey = "users"

// UserRepository persists the users collection. Users are keyed by username,
// which is immutable once created.
type UserRepository struct {
	store store.Store
	mu    sync.Mutex
}

func NewUserRepository(s store.Store) *UserRepository {
	return &UserRepository{store: s}
}

func (r *UserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	users, _, err := store.LoadCollection[models.User](ctx, r.store, usersKey)
	return users, err
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	users, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, models.ErrNotFound)
}

func (r *UserRepository) FindBy(ctx context.Context, match func(models.User) bool) ([]models.User, error) {
	users, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	result := []models.User{}
	for _, u := range users {
		if match(u) {
			result = append(result, u)
		}
	}
	return result, nil
}

// Create appends the user and saves the collection. A duplicate username is a
// validation failure, not a store failure.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, rev, err := store.LoadCollection[models.User](ctx, r.store, usersKey)
	if err != nil {
		return err
	}
	for _, existing := range users {
		if existing.Username == user.Username {
			return fmt.Errorf("username %q already taken: %w", user.Username, models.ErrValidation)
		}
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	users = append(users, *user)
	return store.SaveCollection(ctx, r.store, usersKey, users, rev)
}

// Update replaces the stored user with the same username.
func (r *UserRepository) Update(ctx context.Context, user models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, rev, err := store.LoadCollection[models.User](ctx, r.store, usersKey)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].Username == user.Username {
			users[i] = user
			return store.SaveCollection(ctx, r.store, usersKey, users, rev)
		}
	}
	return fmt.Errorf("user %q: %w", user.Username, models.ErrNotFound)
}

func (r *UserRepository) Delete(ctx context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, rev, err := store.LoadCollection[models.User](ctx, r.store, usersKey)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].Username == username {
			users = append(users[:i], users[i+1:]...)
			return store.SaveCollection(ctx, r.store, usersKey, users, rev)
		}
	}
	return fmt.Errorf("user %q: %w", username, models.ErrNotFound)
}
