package tracker_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"trackctl/internal/backend/tracker"
	"trackctl/internal/service"
	"trackctl/internal/session"
)

func newClient(t *testing.T, baseURL string) (*tracker.Client, *session.Store) {
	t.Helper()
	store, err := session.Open(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	return tracker.NewWithStore(baseURL, store), store
}

func TestLoginEstablishesSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/token/" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		fmt.Fprint(w, `{"access":"acc-1","refresh":"ref-1"}`)
	}))
	defer server.Close()

	client, store := newClient(t, server.URL)
	if err := client.Login(context.Background(), "alice", "pw"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if store.AccessToken() != "acc-1" || store.RefreshToken() != "ref-1" {
		t.Errorf("expected tokens established, got access=%q refresh=%q",
			store.AccessToken(), store.RefreshToken())
	}
}

func TestLoginRejectedLeavesUnauthenticated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client, store := newClient(t, server.URL)
	if err := client.Login(context.Background(), "alice", "wrong"); err == nil {
		t.Fatal("expected login error")
	}
	if store.Authenticated() {
		t.Error("expected unauthenticated session after rejected login")
	}
}

func TestRegisterLogsInAfterSuccess(t *testing.T) {
	var order []string
	mux := http.NewServeMux()
	mux.HandleFunc("/register/", func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "register")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":1,"username":"alice"}`)
	})
	mux.HandleFunc("/token/", func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "login")
		fmt.Fprint(w, `{"access":"acc-1","refresh":"ref-1"}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, store := newClient(t, server.URL)
	if err := client.Register(context.Background(), "alice", "a@x.com", "pw"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if len(order) != 2 || order[0] != "register" || order[1] != "login" {
		t.Errorf("expected register then login, got %v", order)
	}
	if !store.Authenticated() {
		t.Error("expected established session after register")
	}
}

func TestRegisterFailureSkipsLogin(t *testing.T) {
	var loginCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/register/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"username":["A user with that username already exists."]}`)
	})
	mux.HandleFunc("/token/", func(w http.ResponseWriter, r *http.Request) {
		loginCalls++
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, store := newClient(t, server.URL)
	if err := client.Register(context.Background(), "alice", "a@x.com", "pw"); err == nil {
		t.Fatal("expected register error")
	}

	if loginCalls != 0 {
		t.Errorf("expected no login attempt after failed register, got %d", loginCalls)
	}
	if store.Authenticated() {
		t.Error("register success alone must never establish a session")
	}
}

func TestRegisterWithFailingLoginLeavesUnauthenticated(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/register/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":1}`)
	})
	mux.HandleFunc("/token/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, store := newClient(t, server.URL)
	if err := client.Register(context.Background(), "alice", "a@x.com", "pw"); err == nil {
		t.Fatal("expected error from the login step")
	}
	if store.Authenticated() {
		t.Error("expected unauthenticated session when the follow-up login fails")
	}
}

func TestTasksQueryEncoding(t *testing.T) {
	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tasks/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		queries = append(queries, r.URL.RawQuery)
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	client, store := newClient(t, server.URL)
	if err := store.Establish("tok", "ref"); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if _, err := client.Tasks(ctx, 7, "completed"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := client.Tasks(ctx, 7, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"project=7&status=completed", "project=7"}
	if len(queries) != 2 || queries[0] != want[0] || queries[1] != want[1] {
		t.Errorf("expected queries %v, got %v", want, queries)
	}
}

func TestCreateProjectReturnsServerEntity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/projects/" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":42,"title":"Website","description":"","tasks_count":0,"created_at":"2026-08-30T12:00:00Z"}`)
	}))
	defer server.Close()

	client, store := newClient(t, server.URL)
	if err := store.Establish("tok", "ref"); err != nil {
		t.Fatal(err)
	}

	project, err := client.CreateProject(context.Background(), "Website", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if project.ID != 42 || project.Title != "Website" {
		t.Errorf("expected server-assigned entity, got %+v", project)
	}
}

func TestTaskMutationPathsAndMethods(t *testing.T) {
	type call struct{ method, path string }
	var calls []call
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{r.Method, r.URL.Path})
		switch r.Method {
		case http.MethodPatch:
			fmt.Fprint(w, `{"id":5,"title":"t","status":"completed","project":7}`)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"id":5,"title":"t","status":"pending","project":7}`)
		}
	}))
	defer server.Close()

	client, store := newClient(t, server.URL)
	if err := store.Establish("tok", "ref"); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if _, err := client.CreateTask(ctx, service.NewTask{Title: "t", ProjectID: 7}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	status := service.StatusCompleted
	if _, err := client.UpdateTask(ctx, 5, service.TaskPatch{Status: &status}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := client.DeleteTask(ctx, 5); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	want := []call{
		{http.MethodPost, "/tasks/"},
		{http.MethodPatch, "/tasks/5/"},
		{http.MethodDelete, "/tasks/5/"},
	}
	if len(calls) != len(want) {
		t.Fatalf("expected %d calls, got %d", len(want), len(calls))
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d: expected %v, got %v", i, want[i], calls[i])
		}
	}
}
