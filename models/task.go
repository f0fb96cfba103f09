package models

import "time"

// WorkTask carries stored task state. CompletedDate is set if and only if
// IsCompleted is true; the overdue/due-soon flags are derived, never stored.
type WorkTask struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	AssigneeUsername string     `json:"assigneeUsername"`
	Department       string     `json:"department,omitempty"`
	GroupID          string     `json:"groupId"`
	AssignDate       time.Time  `json:"assignDate"`
	DueDate          time.Time  `json:"dueDate"`
	IsCompleted      bool       `json:"isCompleted"`
	CompletedDate    *time.Time `json:"completedDate,omitempty"`
	CreatedBy        string     `json:"createdBy"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysUntilDue compares calendar dates, not instants. The due date is viewed
// in today's location first, so a UTC-stored date and a local clock agree on
// which day it is.
func (t *WorkTask) DaysUntilDue(today time.Time) int {
	due := truncateToDay(t.DueDate.In(today.Location()))
	diff := due.Sub(truncateToDay(today))
	return int(diff.Hours() / 24)
}

// IsOverdue reports whether the task is incomplete and its due date has passed.
func (t *WorkTask) IsOverdue(today time.Time) bool {
	return !t.IsCompleted && t.DaysUntilDue(today) < 0
}

// IsDueSoon reports whether the task is incomplete and due today or tomorrow.
// Mutually exclusive with IsOverdue for any fixed today.
func (t *WorkTask) IsDueSoon(today time.Time) bool {
	days := t.DaysUntilDue(today)
	return !t.IsCompleted && days >= 0 && days <= 1
}
