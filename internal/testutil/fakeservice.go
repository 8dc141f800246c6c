// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"sync"

	"trackctl/internal/service"
)

// ErrNotFound is returned when a resource is not found.
var ErrNotFound = errors.New("not found")

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu       sync.RWMutex
	projects []service.Project
	tasks    map[int][]service.Task // projectID -> tasks
	nextID   int

	// LoggedIn reflects whether a Login call succeeded.
	LoggedIn bool

	// Error injection for testing
	RegisterErr      error
	LoginErr         error
	ProjectsErr      error
	ProjectErr       error
	CreateProjectErr error
	DeleteProjectErr error
	TasksErr         error
	CreateTaskErr    error
	UpdateTaskErr    error
	DeleteTaskErr    error

	// Call counters, used to assert local reconciliation vs refetch.
	ProjectsCalls   int
	TasksCalls      int
	LastTasksStatus string
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		tasks:  make(map[int][]service.Task),
		nextID: 1,
	}
}

// AddProject adds a project to the fake service.
func (f *FakeService) AddProject(id int, title, description string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projects = append(f.projects, service.Project{
		ID:          id,
		Title:       title,
		Description: description,
	})
	if f.tasks[id] == nil {
		f.tasks[id] = nil
	}
	if id >= f.nextID {
		f.nextID = id + 1
	}
}

// AddTask adds a task to a project.
func (f *FakeService) AddTask(projectID, id int, title, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[projectID] = append(f.tasks[projectID], service.Task{
		ID:        id,
		Title:     title,
		Status:    status,
		ProjectID: projectID,
	})
	for i, p := range f.projects {
		if p.ID == projectID {
			f.projects[i].TaskCount++
		}
	}
	if id >= f.nextID {
		f.nextID = id + 1
	}
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, username, email, password string) error {
	if f.RegisterErr != nil {
		return f.RegisterErr
	}
	// Mirror the real contract: a successful registration logs in.
	return f.Login(ctx, username, password)
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, username, password string) error {
	if f.LoginErr != nil {
		return f.LoginErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LoggedIn = true
	return nil
}

// Projects implements service.Service.
func (f *FakeService) Projects(ctx context.Context) ([]service.Project, error) {
	f.mu.Lock()
	f.ProjectsCalls++
	f.mu.Unlock()
	if f.ProjectsErr != nil {
		return nil, f.ProjectsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.Project, len(f.projects))
	copy(result, f.projects)
	return result, nil
}

// Project implements service.Service.
func (f *FakeService) Project(ctx context.Context, id int) (service.ProjectDetail, error) {
	if f.ProjectErr != nil {
		return service.ProjectDetail{}, f.ProjectErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, p := range f.projects {
		if p.ID == id {
			detail := service.ProjectDetail{Project: p}
			detail.Tasks = append(detail.Tasks, f.tasks[id]...)
			return detail, nil
		}
	}
	return service.ProjectDetail{}, ErrNotFound
}

// CreateProject implements service.Service.
func (f *FakeService) CreateProject(ctx context.Context, title, description string) (service.Project, error) {
	if f.CreateProjectErr != nil {
		return service.Project{}, f.CreateProjectErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p := service.Project{
		ID:          f.nextID,
		Title:       title,
		Description: description,
	}
	f.nextID++
	f.projects = append(f.projects, p)
	f.tasks[p.ID] = nil
	return p, nil
}

// DeleteProject implements service.Service.
func (f *FakeService) DeleteProject(ctx context.Context, id int) error {
	if f.DeleteProjectErr != nil {
		return f.DeleteProjectErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.projects {
		if p.ID == id {
			f.projects = append(f.projects[:i], f.projects[i+1:]...)
			delete(f.tasks, id)
			return nil
		}
	}
	return ErrNotFound
}

// Tasks implements service.Service.
func (f *FakeService) Tasks(ctx context.Context, projectID int, status string) ([]service.Task, error) {
	f.mu.Lock()
	f.TasksCalls++
	f.LastTasksStatus = status
	f.mu.Unlock()
	if f.TasksErr != nil {
		return nil, f.TasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	tasks, ok := f.tasks[projectID]
	if !ok {
		return nil, ErrNotFound
	}
	var result []service.Task
	for _, t := range tasks {
		if status == "" || t.Status == status {
			result = append(result, t)
		}
	}
	return result, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, nt service.NewTask) (service.Task, error) {
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[nt.ProjectID]; !ok {
		return service.Task{}, ErrNotFound
	}
	status := nt.Status
	if status == "" {
		status = service.StatusPending
	}
	t := service.Task{
		ID:        f.nextID,
		Title:     nt.Title,
		DueDate:   nt.DueDate,
		Status:    status,
		ProjectID: nt.ProjectID,
	}
	f.nextID++
	f.tasks[nt.ProjectID] = append(f.tasks[nt.ProjectID], t)
	return t, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id int, patch service.TaskPatch) (service.Task, error) {
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for projectID, tasks := range f.tasks {
		for i, t := range tasks {
			if t.ID == id {
				if patch.Title != nil {
					t.Title = *patch.Title
				}
				if patch.DueDate != nil {
					t.DueDate = *patch.DueDate
				}
				if patch.Status != nil {
					t.Status = *patch.Status
				}
				f.tasks[projectID][i] = t
				return t, nil
			}
		}
	}
	return service.Task{}, ErrNotFound
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id int) error {
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for projectID, tasks := range f.tasks {
		for i, t := range tasks {
			if t.ID == id {
				f.tasks[projectID] = append(tasks[:i], tasks[i+1:]...)
				return nil
			}
		}
	}
	return ErrNotFound
}
