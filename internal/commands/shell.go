package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"trackctl/internal/api"
	"trackctl/internal/config"
	"trackctl/internal/exitcode"
	"trackctl/internal/output"
	"trackctl/internal/service"
	"trackctl/internal/view"
)

func init() {
	Register(&ShellCmd{})
}

// ShellCmd implements the interactive shell. Each screen (the project list,
// or one project's task list) seeds a local collection from a fetch and then
// keeps it consistent through local reconciliation: creates append the
// server-returned entity, deletes remove by id, and status changes refetch
// the filtered list because the update may leave the current view.
// Navigating between screens always reseeds from a fresh fetch.
type ShellCmd struct {
	in io.Reader
}

// SetInput sets the input stream (for testing). Defaults to stdin.
func (c *ShellCmd) SetInput(r io.Reader) {
	c.in = r
}

func (c *ShellCmd) Name() string      { return "shell" }
func (c *ShellCmd) Aliases() []string { return nil }
func (c *ShellCmd) Synopsis() string  { return "Interactive project browser" }
func (c *ShellCmd) Usage() string     { return "trackctl shell [common flags] [<project-id>]" }
func (c *ShellCmd) NeedsAuth() bool   { return true }

func (c *ShellCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShellCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	in := c.in
	if in == nil {
		in = os.Stdin
	}

	sh := &shell{
		svc:      svc,
		cfg:      cfg,
		out:      out,
		errOut:   errOut,
		projects: view.NewCollection(func(p service.Project) int { return p.ID }),
		tasks:    view.NewCollection(func(t service.Task) int { return t.ID }),
	}

	if len(args) > 0 {
		id, err := parseID(args[0])
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		if err := sh.enterProject(ctx, id); err != nil {
			return failureExit(err, errOut)
		}
	} else {
		if err := sh.enterProjectList(ctx); err != nil {
			return failureExit(err, errOut)
		}
	}
	sh.printScreen()

	return sh.loop(ctx, in)
}

// shell holds the per-screen view state. current is nil on the project list
// screen and set while a project's task list is open.
type shell struct {
	svc    service.Service
	cfg    *config.Config
	out    io.Writer
	errOut io.Writer

	projects *view.Collection[service.Project]
	tasks    *view.Collection[service.Task]
	current  *service.Project
	filter   string
}

func (s *shell) loop(ctx context.Context, in io.Reader) int {
	scanner := bufio.NewScanner(in)
	for {
		s.prompt()
		if !scanner.Scan() {
			return exitcode.Success
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		done, err := s.eval(ctx, fields[0], fields[1:])
		if err != nil {
			if errors.Is(err, api.ErrSessionExpired) {
				fmt.Fprintln(s.errOut, "error: session expired (run: trackctl login)")
				return exitcode.AuthError
			}
			fmt.Fprintf(s.errOut, "error: %v\n", err)
			continue
		}
		if done {
			return exitcode.Success
		}
	}
}

func (s *shell) prompt() {
	if s.current != nil {
		fmt.Fprintf(s.errOut, "project %d> ", s.current.ID)
		return
	}
	fmt.Fprint(s.errOut, "> ")
}

// eval runs one shell command. It returns done=true on quit.
func (s *shell) eval(ctx context.Context, cmd string, args []string) (bool, error) {
	switch cmd {
	case "quit", "exit", "q":
		return true, nil
	case "help":
		s.printHelp()
		return false, nil
	case "list", "l":
		s.printScreen()
		return false, nil
	case "open":
		if len(args) == 0 {
			return false, fmt.Errorf("project id required")
		}
		id, err := parseID(args[0])
		if err != nil {
			return false, err
		}
		if err := s.enterProject(ctx, id); err != nil {
			return false, err
		}
		s.printScreen()
		return false, nil
	case "back":
		if s.current == nil {
			return false, fmt.Errorf("already at the project list")
		}
		if err := s.enterProjectList(ctx); err != nil {
			return false, err
		}
		s.printScreen()
		return false, nil
	}

	if s.current == nil {
		return false, s.evalProjectList(ctx, cmd, args)
	}
	return false, s.evalProject(ctx, cmd, args)
}

func (s *shell) evalProjectList(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "mk":
		title := strings.TrimSpace(strings.Join(args, " "))
		if title == "" {
			return fmt.Errorf("title required")
		}
		project, err := s.svc.CreateProject(ctx, title, "")
		if err != nil {
			return err
		}
		// Reconcile locally: append the created entity, no refetch.
		s.projects.Append(project)
		output.FormatProject(s.out, project)
		return nil
	case "rm":
		if len(args) == 0 {
			return fmt.Errorf("project id required")
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := s.svc.DeleteProject(ctx, id); err != nil {
			return err
		}
		s.projects.Remove(id)
		return nil
	}
	return fmt.Errorf("unknown command: %s (try: help)", cmd)
}

func (s *shell) evalProject(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "add":
		title := strings.TrimSpace(strings.Join(args, " "))
		if title == "" {
			return fmt.Errorf("title required")
		}
		task, err := s.svc.CreateTask(ctx, service.NewTask{
			Title:     title,
			ProjectID: s.current.ID,
		})
		if err != nil {
			return err
		}
		// Reconcile locally: append the created entity, no refetch.
		s.tasks.Append(task)
		output.FormatTask(s.out, task)
		return nil
	case "rm":
		if len(args) == 0 {
			return fmt.Errorf("task id required")
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := s.svc.DeleteTask(ctx, id); err != nil {
			return err
		}
		s.tasks.Remove(id)
		return nil
	case "mv":
		if len(args) < 2 {
			return fmt.Errorf("task id and status required")
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		status := args[1]
		if !service.ValidStatus(status) {
			return fmt.Errorf("invalid status: %s", status)
		}
		if _, err := s.svc.UpdateTask(ctx, id, service.TaskPatch{Status: &status}); err != nil {
			return err
		}
		// A status change may move the task out of the filtered view, so the
		// whole list is refetched instead of patched in place.
		if err := s.reloadTasks(ctx); err != nil {
			return err
		}
		s.printScreen()
		return nil
	case "filter":
		status := ""
		if len(args) > 0 {
			status = args[0]
		}
		if status != "" && !service.ValidStatus(status) {
			return fmt.Errorf("invalid status: %s", status)
		}
		s.filter = status
		if err := s.reloadTasks(ctx); err != nil {
			return err
		}
		s.printScreen()
		return nil
	}
	return fmt.Errorf("unknown command: %s (try: help)", cmd)
}

// enterProjectList navigates to the project list screen, reseeding it.
func (s *shell) enterProjectList(ctx context.Context) error {
	projects, err := s.svc.Projects(ctx)
	if err != nil {
		return err
	}
	s.projects.Seed(projects)
	s.current = nil
	s.filter = ""
	return nil
}

// enterProject navigates to a project screen, reseeding its task list.
func (s *shell) enterProject(ctx context.Context, id int) error {
	detail, err := s.svc.Project(ctx, id)
	if err != nil {
		return err
	}
	s.tasks.Seed(detail.Tasks)
	s.current = &detail.Project
	s.filter = ""
	return nil
}

func (s *shell) reloadTasks(ctx context.Context) error {
	tasks, err := s.svc.Tasks(ctx, s.current.ID, s.filter)
	if err != nil {
		return err
	}
	s.tasks.Seed(tasks)
	return nil
}

func (s *shell) printScreen() {
	if s.current != nil {
		output.FormatProjectHeader(s.out, *s.current)
		if s.tasks.Len() == 0 {
			if !s.cfg.Quiet {
				fmt.Fprintln(s.out, "no tasks")
			}
			return
		}
		for _, t := range s.tasks.Items() {
			output.FormatTask(s.out, t)
		}
		return
	}

	if s.projects.Len() == 0 {
		if !s.cfg.Quiet {
			fmt.Fprintln(s.out, "no projects found")
		}
		return
	}
	for _, p := range s.projects.Items() {
		output.FormatProject(s.out, p)
	}
}

func (s *shell) printHelp() {
	if s.current != nil {
		fmt.Fprint(s.out, projectShellHelp)
		return
	}
	fmt.Fprint(s.out, listShellHelp)
}

const listShellHelp = `commands:
  list              Print projects
  mk <title...>     Create a project
  rm <id>           Delete a project
  open <id>         Open a project
  quit
`

const projectShellHelp = `commands:
  list              Print tasks
  add <title...>    Create a task
  rm <id>           Delete a task
  mv <id> <status>  Change a task's status (refetches the list)
  filter [<status>] Filter by status (refetches the list)
  open <id>         Switch to another project
  back              Return to the project list
  quit
`
