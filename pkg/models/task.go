package models

import "time"

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusInTest     TaskStatus = "in_test"
	TaskStatusDone       TaskStatus = "done"
)

type Task struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Project         string     `json:"project"`
	DueDate         *time.Time `json:"due_date"`
	Status          TaskStatus `json:"status"`
	DurationMinutes int        `json:"duration_minutes"`
	// AssigneeID is the legacy single-assignee field. AssigneeIDs is the
	// multi-assignee set. At most one of the two is populated per task.
	AssigneeID  *string   `json:"assignee_id,omitempty"`
	AssigneeIDs []string  `json:"assignee_ids,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
