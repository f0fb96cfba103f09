package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"workboard-service/logging"
	"workboard-service/models"
	"workboard-service/repositories"
)

// DefaultRecentLimit caps the recent-activity view for creators.
const DefaultRecentLimit = 10

// SubmissionService correlates submissions with the tasks they answer.
type SubmissionService struct {
	submissions *repositories.SubmissionRepository
	tasks       *repositories.TaskRepository
	now         func() time.Time
}

func NewSubmissionService(submissions *repositories.SubmissionRepository, tasks *repositories.TaskRepository) *SubmissionService {
	return &SubmissionService{submissions: submissions, tasks: tasks, now: time.Now}
}

// Submit stores a new submission, defaulting SubmittedAt to now.
func (s *SubmissionService) Submit(ctx context.Context, submission models.TaskSubmission) (*models.TaskSubmission, error) {
	if submission.TaskID == "" || submission.FileName == "" || submission.SubmittedBy == "" {
		return nil, fmt.Errorf("task id, file name and submitter are required: %w", models.ErrValidation)
	}
	if submission.SubmittedAt.IsZero() {
		submission.SubmittedAt = s.now()
	}
	if err := s.submissions.Create(ctx, &submission); err != nil {
		return nil, err
	}
	logging.Logger.Infof("Event ID: SUBMISSION_CREATED, Description: '%s' submitted '%s' for task %s", submission.SubmittedBy, submission.FileName, submission.TaskID)
	return &submission, nil
}

func (s *SubmissionService) GetSubmission(ctx context.Context, id string) (*models.TaskSubmission, error) {
	return s.submissions.GetByID(ctx, id)
}

func (s *SubmissionService) ByTask(ctx context.Context, taskID string) ([]models.TaskSubmission, error) {
	return s.submissions.FindBy(ctx, func(sub models.TaskSubmission) bool {
		return sub.TaskID == taskID
	})
}

func (s *SubmissionService) ByUser(ctx context.Context, username string) ([]models.TaskSubmission, error) {
	return s.submissions.FindBy(ctx, func(sub models.TaskSubmission) bool {
		return sub.SubmittedBy == username
	})
}

func (s *SubmissionService) UpdateSubmission(ctx context.Context, submission models.TaskSubmission) error {
	return s.submissions.Update(ctx, submission)
}

func (s *SubmissionService) DeleteSubmission(ctx context.Context, id string) error {
	return s.submissions.Delete(ctx, id)
}

// RecentForCreator joins submissions against the tasks created by the given
// user and returns up to limit of them, newest first. limit <= 0 means the
// default of 10.
func (s *SubmissionService) RecentForCreator(ctx context.Context, creatorUsername string, limit int) ([]models.TaskSubmission, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	creatorTasks, err := s.tasks.FindBy(ctx, func(t models.WorkTask) bool {
		return t.CreatedBy == creatorUsername
	})
	if err != nil {
		return nil, err
	}
	taskIDs := make(map[string]bool, len(creatorTasks))
	for _, t := range creatorTasks {
		taskIDs[t.ID] = true
	}

	recent, err := s.submissions.FindBy(ctx, func(sub models.TaskSubmission) bool {
		return taskIDs[sub.TaskID]
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].SubmittedAt.After(recent[j].SubmittedAt)
	})
	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent, nil
}

// MarkCompleted flags one submission as completed.
func (s *SubmissionService) MarkCompleted(ctx context.Context, submissionID string) error {
	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return err
	}
	submission.IsCompleted = true
	return s.submissions.Update(ctx, *submission)
}

// MarkLatestCompletedForTask marks the task's most recent submission as
// completed. "Most recent" is decided by SubmittedAt, not append order; on a
// timestamp tie the later list entry wins.
func (s *SubmissionService) MarkLatestCompletedForTask(ctx context.Context, taskID string) error {
	submissions, err := s.ByTask(ctx, taskID)
	if err != nil {
		return err
	}
	if len(submissions) == 0 {
		return fmt.Errorf("no submissions for task %q: %w", taskID, models.ErrNotFound)
	}
	latest := submissions[0]
	for _, sub := range submissions[1:] {
		if !sub.SubmittedAt.Before(latest.SubmittedAt) {
			latest = sub
		}
	}
	return s.MarkCompleted(ctx, latest.ID)
}
