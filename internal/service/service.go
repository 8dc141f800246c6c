// Package service defines the backend-agnostic interface for tracker operations.
package service

import "context"

// Service defines the interface for tracker backend operations.
// All REST calls go through this interface; commands never build HTTP
// requests directly.
type Service interface {
	// Register creates an account and, on success, logs in with the same
	// credentials so a successful registration always yields an established
	// session. A failed registration surfaces its own error and never
	// attempts the login.
	Register(ctx context.Context, username, email, password string) error

	// Login obtains an access/refresh token pair and establishes the session.
	Login(ctx context.Context, username, password string) error

	// Projects returns all projects in backend order.
	Projects(ctx context.Context) ([]Project, error)

	// Project returns one project with its embedded tasks.
	Project(ctx context.Context, id int) (ProjectDetail, error)

	// CreateProject creates a project and returns it with the
	// server-assigned ID.
	CreateProject(ctx context.Context, title, description string) (Project, error)

	// DeleteProject deletes a project by ID.
	DeleteProject(ctx context.Context, id int) error

	// Tasks returns a project's tasks. When status is non-empty it is sent
	// as a query filter; otherwise the server applies no filter.
	Tasks(ctx context.Context, projectID int, status string) ([]Task, error)

	// CreateTask creates a task and returns it with the server-assigned ID.
	CreateTask(ctx context.Context, t NewTask) (Task, error)

	// UpdateTask applies a partial update and returns the updated task.
	UpdateTask(ctx context.Context, id int, patch TaskPatch) (Task, error)

	// DeleteTask deletes a task by ID.
	DeleteTask(ctx context.Context, id int) error
}
