package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"workboard-service/models"
	"workboard-service/store"
)

func TestUserRepository_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(store.NewMemoryStore())

	if err := repo.Create(ctx, &models.User{Username: "alice", Email: "a@example.com"}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	err := repo.Create(ctx, &models.User{Username: "alice", Email: "other@example.com"})
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("expected ErrValidation for duplicate username, got: %v", err)
	}

	users, _ := repo.GetAll(ctx)
	if len(users) != 1 {
		t.Errorf("duplicate create must not be applied, have %d users", len(users))
	}
}

func TestUserRepository_UpdateMissingUser(t *testing.T) {
	repo := NewUserRepository(store.NewMemoryStore())

	err := repo.Update(context.Background(), models.User{Username: "ghost"})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestGroupRepository_CreateAssignsIDAndTimestamps(t *testing.T) {
	ctx := context.Background()
	repo := NewGroupRepository(store.NewMemoryStore())

	group := &models.Group{Name: "Eng", CreatorUsername: "alice", Members: []string{"alice"}}
	if err := repo.Create(ctx, group); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if group.ID == "" {
		t.Error("create should assign an id")
	}
	if group.CreatedAt.IsZero() || group.UpdatedAt.IsZero() {
		t.Error("create should stamp timestamps")
	}

	stored, err := repo.GetByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("lookup after create failed: %v", err)
	}
	if stored.Name != "Eng" {
		t.Errorf("stored name = %q", stored.Name)
	}
}

func TestGroupRepository_DeleteThenLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewGroupRepository(store.NewMemoryStore())

	group := &models.Group{Name: "Eng", CreatorUsername: "alice"}
	repo.Create(ctx, group)

	if err := repo.Delete(ctx, group.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := repo.GetByID(ctx, group.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got: %v", err)
	}
	if err := repo.Delete(ctx, group.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("deleting twice should report not found, got: %v", err)
	}
}

func TestTaskRepository_GetAllOrdersByAssignDateDescending(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(store.NewMemoryStore())

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, title := range []string{"oldest", "middle", "newest"} {
		task := &models.WorkTask{
			Title:            title,
			AssigneeUsername: "bob",
			CreatedBy:        "alice",
			GroupID:          "g1",
			AssignDate:       base.AddDate(0, 0, i),
			DueDate:          base.AddDate(0, 0, i+7),
		}
		if err := repo.Create(ctx, task); err != nil {
			t.Fatalf("create %q failed: %v", title, err)
		}
	}

	tasks, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	if tasks[0].Title != "newest" || tasks[2].Title != "oldest" {
		t.Errorf("wrong order: %s, %s, %s", tasks[0].Title, tasks[1].Title, tasks[2].Title)
	}
}

func TestSubmissionRepository_FindBy(t *testing.T) {
	ctx := context.Background()
	repo := NewSubmissionRepository(store.NewMemoryStore())

	for _, taskID := range []string{"t1", "t1", "t2"} {
		sub := &models.TaskSubmission{TaskID: taskID, FileName: "work.pdf", SubmittedBy: "bob", SubmittedAt: time.Now()}
		if err := repo.Create(ctx, sub); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	forTask, err := repo.FindBy(ctx, func(s models.TaskSubmission) bool { return s.TaskID == "t1" })
	if err != nil {
		t.Fatalf("FindBy failed: %v", err)
	}
	if len(forTask) != 2 {
		t.Errorf("expected 2 submissions for t1, got %d", len(forTask))
	}
}
