package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"workboard-service/models"
	"workboard-service/store"
)

const tasksKey = "tasks"

type TaskRepository struct {
	store store.Store
	mu    sync.Mutex
}

func NewTaskRepository(s store.Store) *TaskRepository {
	return &TaskRepository{store: s}
}

// GetAll returns every task, most recently assigned first.
func (r *TaskRepository) GetAll(ctx context.Context) ([]models.WorkTask, error) {
	tasks, _, err := store.LoadCollection[models.WorkTask](ctx, r.store, tasksKey)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].AssignDate.After(tasks[j].AssignDate)
	})
	return tasks, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*models.WorkTask, error) {
	tasks, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i], nil
		}
	}
	return nil, fmt.Errorf("task %q: %w", id, models.ErrNotFound)
}

func (r *TaskRepository) FindBy(ctx context.Context, match func(models.WorkTask) bool) ([]models.WorkTask, error) {
	tasks, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	result := []models.WorkTask{}
	for _, t := range tasks {
		if match(t) {
			result = append(result, t)
		}
	}
	return result, nil
}

func (r *TaskRepository) Create(ctx context.Context, task *models.WorkTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, rev, err := store.LoadCollection[models.WorkTask](ctx, r.store, tasksKey)
	if err != nil {
		return err
	}
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	tasks = append(tasks, *task)
	return store.SaveCollection(ctx, r.store, tasksKey, tasks, rev)
}

func (r *TaskRepository) Update(ctx context.Context, task models.WorkTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, rev, err := store.LoadCollection[models.WorkTask](ctx, r.store, tasksKey)
	if err != nil {
		return err
	}
	for i := range tasks {
		if tasks[i].ID == task.ID {
			task.UpdatedAt = time.Now()
			tasks[i] = task
			return store.SaveCollection(ctx, r.store, tasksKey, tasks, rev)
		}
	}
	return fmt.Errorf("task %q: %w", task.ID, models.ErrNotFound)
}

// Mutate edits the stored task in place under the repository lock.
func (r *TaskRepository) Mutate(ctx context.Context, id string, fn func(*models.WorkTask) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, rev, err := store.LoadCollection[models.WorkTask](ctx, r.store, tasksKey)
	if err != nil {
		return err
	}
	for i := range tasks {
		if tasks[i].ID == id {
			if err := fn(&tasks[i]); err != nil {
				return err
			}
			tasks[i].UpdatedAt = time.Now()
			return store.SaveCollection(ctx, r.store, tasksKey, tasks, rev)
		}
	}
	return fmt.Errorf("task %q: %w", id, models.ErrNotFound)
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, rev, err := store.LoadCollection[models.WorkTask](ctx, r.store, tasksKey)
	if err != nil {
		return err
	}
	for i := range tasks {
		if tasks[i].ID == id {
			tasks = append(tasks[:i], tasks[i+1:]...)
			return store.SaveCollection(ctx, r.store, tasksKey, tasks, rev)
		}
	}
	return fmt.Errorf("task %q: %w", id, models.ErrNotFound)
}
