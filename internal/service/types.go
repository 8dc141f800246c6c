// Package service defines the backend-agnostic interface for tracker operations.
package service

import "time"

// Task statuses accepted by the backend. Status is the only task field the
// client ever mutates after creation.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// ValidStatus reports whether s is a known task status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Project represents a project as owned by the backend.
type Project struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TaskCount   int       `json:"tasks_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProjectDetail is a project with its embedded tasks, as returned by the
// project detail endpoint.
type ProjectDetail struct {
	Project
	Tasks []Task `json:"tasks"`
}

// Task represents a single task item.
type Task struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	DueDate   string `json:"due_date,omitempty"` // YYYY-MM-DD, empty when unset
	Status    string `json:"status"`
	ProjectID int    `json:"project"`
}

// NewTask holds the fields for a task create call.
type NewTask struct {
	Title     string `json:"title"`
	DueDate   string `json:"due_date,omitempty"`
	Status    string `json:"status,omitempty"`
	ProjectID int    `json:"project"`
}

// TaskPatch holds a partial update; nil fields are omitted from the call.
type TaskPatch struct {
	Title   *string `json:"title,omitempty"`
	DueDate *string `json:"due_date,omitempty"`
	Status  *string `json:"status,omitempty"`
}
