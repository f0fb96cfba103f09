package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"workboard-service/models"
	"workboard-service/store"
)

const groupsKey = "groups"

type GroupRepository struct {
	store store.Store
	mu    sync.Mutex
}

func NewGroupRepository(s store.Store) *GroupRepository {
	return &GroupRepository{store: s}
}

func (r *GroupRepository) GetAll(ctx context.Context) ([]models.Group, error) {
	groups, _, err := store.LoadCollection[models.Group](ctx, r.store, groupsKey)
	return groups, err
}

func (r *GroupRepository) GetByID(ctx context.Context, id string) (*models.Group, error) {
	groups, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		if groups[i].ID == id {
			return &groups[i], nil
		}
	}
	return nil, fmt.Errorf("group %q: %w", id, models.ErrNotFound)
}

func (r *GroupRepository) GetByCode(ctx context.Context, code string) (*models.Group, error) {
	groups, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		if groups[i].Code == code {
			return &groups[i], nil
		}
	}
	return nil, fmt.Errorf("group code %q: %w", code, models.ErrNotFound)
}

func (r *GroupRepository) FindBy(ctx context.Context, match func(models.Group) bool) ([]models.Group, error) {
	groups, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	result := []models.Group{}
	for _, g := range groups {
		if match(g) {
			result = append(result, g)
		}
	}
	return result, nil
}

func (r *GroupRepository) Create(ctx context.Context, group *models.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	groups, rev, err := store.LoadCollection[models.Group](ctx, r.store, groupsKey)
	if err != nil {
		return err
	}
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	now := time.Now()
	group.CreatedAt = now
	group.UpdatedAt = now
	groups = append(groups, *group)
	return store.SaveCollection(ctx, r.store, groupsKey, groups, rev)
}

func (r *GroupRepository) Update(ctx context.Context, group models.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	groups, rev, err := store.LoadCollection[models.Group](ctx, r.store, groupsKey)
	if err != nil {
		return err
	}
	for i := range groups {
		if groups[i].ID == group.ID {
			group.UpdatedAt = time.Now()
			groups[i] = group
			return store.SaveCollection(ctx, r.store, groupsKey, groups, rev)
		}
	}
	return fmt.Errorf("group %q: %w", group.ID, models.ErrNotFound)
}

// Mutate applies fn to the stored group under the repository lock, then saves.
// fn runs on the stored copy, so partial field edits cannot resurrect stale
// state the way a blind Update with a caller-side copy can.
func (r *GroupRepository) Mutate(ctx context.Context, id string, fn func(*models.Group) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	groups, rev, err := store.LoadCollection[models.Group](ctx, r.store, groupsKey)
	if err != nil {
		return err
	}
	for i := range groups {
		if groups[i].ID == id {
			if err := fn(&groups[i]); err != nil {
				return err
			}
			groups[i].UpdatedAt = time.Now()
			return store.SaveCollection(ctx, r.store, groupsKey, groups, rev)
		}
	}
	return fmt.Errorf("group %q: %w", id, models.ErrNotFound)
}

func (r *GroupRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	groups, rev, err := store.LoadCollection[models.Group](ctx, r.store, groupsKey)
	if err != nil {
		return err
	}
	for i := range groups {
		if groups[i].ID == id {
			groups = append(groups[:i], groups[i+1:]...)
			return store.SaveCollection(ctx, r.store, groupsKey, groups, rev)
		}
	}
	return fmt.Errorf("group %q: %w", id, models.ErrNotFound)
}
