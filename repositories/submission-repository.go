package repositories

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"workboard-service/models"
	"workboard-service/store"
)

const submissionsKey = "taskSubmissions"

// SubmissionRepository keeps submissions in append order; callers that care
// about recency sort by SubmittedAt themselves.
type SubmissionRepository struct {
	store store.Store
	mu    sync.Mutex
}

func NewSubmissionRepository(s store.Store) *SubmissionRepository {
	return &SubmissionRepository{store: s}
}

func (r *SubmissionRepository) GetAll(ctx context.Context) ([]models.TaskSubmission, error) {
	submissions, _, err := store.LoadCollection[models.TaskSubmission](ctx, r.store, submissionsKey)
	return submissions, err
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*models.TaskSubmission, error) {
	submissions, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range submissions {
		if submissions[i].ID == id {
			return &submissions[i], nil
		}
	}
	return nil, fmt.Errorf("submission %q: %w", id, models.ErrNotFound)
}

func (r *SubmissionRepository) FindBy(ctx context.Context, match func(models.TaskSubmission) bool) ([]models.TaskSubmission, error) {
	submissions, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	result := []models.TaskSubmission{}
	for _, s := range submissions {
		if match(s) {
			result = append(result, s)
		}
	}
	return result, nil
}

func (r *SubmissionRepository) Create(ctx context.Context, submission *models.TaskSubmission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	submissions, rev, err := store.LoadCollection[models.TaskSubmission](ctx, r.store, submissionsKey)
	if err != nil {
		return err
	}
	if submission.ID == "" {
		submission.ID = uuid.New().String()
	}
	submissions = append(submissions, *submission)
	return store.SaveCollection(ctx, r.store, submissionsKey, submissions, rev)
}

func (r *SubmissionRepository) Update(ctx context.Context, submission models.TaskSubmission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	submissions, rev, err := store.LoadCollection[models.TaskSubmission](ctx, r.store, submissionsKey)
	if err != nil {
		return err
	}
	for i := range submissions {
		if submissions[i].ID == submission.ID {
			submissions[i] = submission
			return store.SaveCollection(ctx, r.store, submissionsKey, submissions, rev)
		}
	}
	return fmt.Errorf("submission %q: %w", submission.ID, models.ErrNotFound)
}

func (r *SubmissionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	submissions, rev, err := store.LoadCollection[models.TaskSubmission](ctx, r.store, submissionsKey)
	if err != nil {
		return err
	}
	for i := range submissions {
		if submissions[i].ID == id {
			submissions = append(submissions[:i], submissions[i+1:]...)
			return store.SaveCollection(ctx, r.store, submissionsKey, submissions, rev)
		}
	}
	return fmt.Errorf("submission %q: %w", id, models.ErrNotFound)
}
