// Package tracker implements the service.Service interface against the
// tracker REST backend.
package tracker

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"trackctl/internal/api"
	"trackctl/internal/config"
	"trackctl/internal/service"
	"trackctl/internal/session"
)

// APITimeout is the timeout for API calls.
const APITimeout = 5 * time.Second

// Client implements service.Service over the request pipeline.
type Client struct {
	api   *api.Client
	store *session.Store
}

// New creates a tracker client. Stored credentials are restored from the
// session file; a storage failure here is fatal.
func New(cfg *config.Config) (*Client, error) {
	store, err := session.Open(cfg.SessionPath())
	if err != nil {
		return nil, err
	}
	return &Client{
		api:   api.New(cfg.BaseURL, store, cfg.Logger),
		store: store,
	}, nil
}

// NewWithStore creates a client over an already-open session store
// (for testing).
func NewWithStore(baseURL string, store *session.Store) *Client {
	return &Client{
		api:   api.New(baseURL, store, nil),
		store: store,
	}
}

// Store returns the session store backing this client.
func (c *Client) Store() *session.Store {
	return c.store
}

// Register implements service.Service.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := c.api.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/register/",
		Body: map[string]string{
			"username": username,
			"email":    email,
			"password": password,
		},
	})
	if err != nil {
		return err
	}

	return c.Login(ctx, username, password)
}

// Login implements service.Service.
func (c *Client) Login(ctx context.Context, username, password string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	resp, err := c.api.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/token/",
		Body: map[string]string{
			"username": username,
			"password": password,
		},
	})
	if err != nil {
		return err
	}

	var tokens struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	if err := resp.Decode(&tokens); err != nil {
		return err
	}
	if tokens.Access == "" || tokens.Refresh == "" {
		return fmt.Errorf("login response missing tokens")
	}

	return c.store.Establish(tokens.Access, tokens.Refresh)
}

// Projects implements service.Service.
func (c *Client) Projects(ctx context.Context) ([]service.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	resp, err := c.api.Do(ctx, api.Request{
		Method: http.MethodGet,
		Path:   "/projects/",
	})
	if err != nil {
		return nil, err
	}

	var projects []service.Project
	if err := resp.Decode(&projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Project implements service.Service.
func (c *Client) Project(ctx context.Context, id int) (service.ProjectDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	resp, err := c.api.Do(ctx, api.Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/projects/%d/", id),
	})
	if err != nil {
		return service.ProjectDetail{}, err
	}

	var detail service.ProjectDetail
	if err := resp.Decode(&detail); err != nil {
		return service.ProjectDetail{}, err
	}
	return detail, nil
}

// CreateProject implements service.Service.
func (c *Client) CreateProject(ctx context.Context, title, description string) (service.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	resp, err := c.api.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/projects/",
		Body: map[string]string{
			"title":       title,
			"description": description,
		},
	})
	if err != nil {
		return service.Project{}, err
	}

	var project service.Project
	if err := resp.Decode(&project); err != nil {
		return service.Project{}, err
	}
	return project, nil
}

// DeleteProject implements service.Service.
func (c *Client) DeleteProject(ctx context.Context, id int) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := c.api.Do(ctx, api.Request{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/projects/%d/", id),
	})
	return err
}

// Tasks implements service.Service.
func (c *Client) Tasks(ctx context.Context, projectID int, status string) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	query := url.Values{}
	query.Set("project", strconv.Itoa(projectID))
	if status != "" {
		query.Set("status", status)
	}

	resp, err := c.api.Do(ctx, api.Request{
		Method: http.MethodGet,
		Path:   "/tasks/",
		Query:  query,
	})
	if err != nil {
		return nil, err
	}

	var tasks []service.Task
	if err := resp.Decode(&tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, t service.NewTask) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	resp, err := c.api.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/tasks/",
		Body:   t,
	})
	if err != nil {
		return service.Task{}, err
	}

	var task service.Task
	if err := resp.Decode(&task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// UpdateTask implements service.Service.
func (c *Client) UpdateTask(ctx context.Context, id int, patch service.TaskPatch) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	resp, err := c.api.Do(ctx, api.Request{
		Method: http.MethodPatch,
		Path:   fmt.Sprintf("/tasks/%d/", id),
		Body:   patch,
	})
	if err != nil {
		return service.Task{}, err
	}

	var task service.Task
	if err := resp.Decode(&task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id int) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := c.api.Do(ctx, api.Request{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/tasks/%d/", id),
	})
	return err
}
