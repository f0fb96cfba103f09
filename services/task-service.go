package services

import (
	"context"
	"fmt"
	"time"

	"workboard-service/logging"
	"workboard-service/models"
	"workboard-service/repositories"
)

// TaskService owns the task lifecycle and the derived overdue/due-soon views.
// The clock is injectable so the calendar-date boundary is testable.
type TaskService struct {
	tasks *repositories.TaskRepository
	now   func() time.Time
}

func NewTaskService(tasks *repositories.TaskRepository) *TaskService {
	return &TaskService{tasks: tasks, now: time.Now}
}

// CreateTask validates the required fields and stores the task.
func (s *TaskService) CreateTask(ctx context.Context, task models.WorkTask) (*models.WorkTask, error) {
	if task.Title == "" || task.AssigneeUsername == "" || task.CreatedBy == "" || task.GroupID == "" {
		return nil, fmt.Errorf("title, assignee, creator and group are required: %w", models.ErrValidation)
	}
	if task.AssignDate.IsZero() {
		task.AssignDate = s.now()
	}
	if task.IsCompleted && task.CompletedDate == nil {
		completed := s.now()
		task.CompletedDate = &completed
	}
	if !task.IsCompleted {
		task.CompletedDate = nil
	}
	if err := s.tasks.Create(ctx, &task); err != nil {
		return nil, err
	}
	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task '%s' assigned to '%s' by '%s'", task.Title, task.AssigneeUsername, task.CreatedBy)
	return &task, nil
}

// UpdateTask replaces the editable fields of the stored task while keeping the
// completion fields consistent.
func (s *TaskService) UpdateTask(ctx context.Context, task models.WorkTask) error {
	return s.tasks.Mutate(ctx, task.ID, func(stored *models.WorkTask) error {
		stored.Title = task.Title
		stored.Description = task.Description
		if !task.AssignDate.IsZero() {
			stored.AssignDate = task.AssignDate
		}
		if !task.DueDate.IsZero() {
			stored.DueDate = task.DueDate
		}
		stored.Department = task.Department
		if task.AssigneeUsername != "" {
			stored.AssigneeUsername = task.AssigneeUsername
		}
		stored.IsCompleted = task.IsCompleted
		if task.IsCompleted {
			if task.CompletedDate != nil {
				stored.CompletedDate = task.CompletedDate
			} else if stored.CompletedDate == nil {
				completed := s.now()
				stored.CompletedDate = &completed
			}
		} else {
			stored.CompletedDate = nil
		}
		return nil
	})
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	return s.tasks.Delete(ctx, id)
}

func (s *TaskService) GetTask(ctx context.Context, id string) (*models.WorkTask, error) {
	return s.tasks.GetByID(ctx, id)
}

// GetAllTasks lists every task, most recently assigned first.
func (s *TaskService) GetAllTasks(ctx context.Context) ([]models.WorkTask, error) {
	return s.tasks.GetAll(ctx)
}

// ToggleCompletion flips the completion flag. CompletedDate is set on the
// transition to completed and cleared on the way back, so the two fields
// always stay consistent.
func (s *TaskService) ToggleCompletion(ctx context.Context, id string) (*models.WorkTask, error) {
	err := s.tasks.Mutate(ctx, id, func(task *models.WorkTask) error {
		task.IsCompleted = !task.IsCompleted
		if task.IsCompleted {
			completed := s.now()
			task.CompletedDate = &completed
		} else {
			task.CompletedDate = nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.tasks.GetByID(ctx, id)
}

func (s *TaskService) ByAssignee(ctx context.Context, username string) ([]models.WorkTask, error) {
	return s.tasks.FindBy(ctx, func(t models.WorkTask) bool {
		return t.AssigneeUsername == username
	})
}

func (s *TaskService) ByCreator(ctx context.Context, username string) ([]models.WorkTask, error) {
	return s.tasks.FindBy(ctx, func(t models.WorkTask) bool {
		return t.CreatedBy == username
	})
}

func (s *TaskService) ByGroup(ctx context.Context, groupID string) ([]models.WorkTask, error) {
	return s.tasks.FindBy(ctx, func(t models.WorkTask) bool {
		return t.GroupID == groupID
	})
}

// OverdueFor returns incomplete tasks past their due date where the user is
// either the assignee or the creator. Disjoint from DueSoonFor for a fixed
// today.
func (s *TaskService) OverdueFor(ctx context.Context, username string) ([]models.WorkTask, error) {
	today := s.now()
	return s.tasks.FindBy(ctx, func(t models.WorkTask) bool {
		return t.IsOverdue(today) && (t.AssigneeUsername == username || t.CreatedBy == username)
	})
}

// DueSoonFor returns incomplete tasks due today or tomorrow where the user is
// either the assignee or the creator.
func (s *TaskService) DueSoonFor(ctx context.Context, username string) ([]models.WorkTask, error) {
	today := s.now()
	return s.tasks.FindBy(ctx, func(t models.WorkTask) bool {
		return t.IsDueSoon(today) && (t.AssigneeUsername == username || t.CreatedBy == username)
	})
}

// RemindersFor is the on-demand deadline scan: incomplete tasks created by the
// user that are due within a day. No scheduler runs behind this.
func (s *TaskService) RemindersFor(ctx context.Context, username string) ([]models.WorkTask, error) {
	today := s.now()
	return s.tasks.FindBy(ctx, func(t models.WorkTask) bool {
		return t.CreatedBy == username && t.IsDueSoon(today)
	})
}

// Departments returns the static department catalog offered in task forms.
func (s *TaskService) Departments() []string {
	return []string{
		"Accounting",
		"Marketing",
		"IT",
		"Human Resources",
		"Sales",
		"Production",
		"Management",
		"Engineering",
		"Design",
		"Development",
	}
}
