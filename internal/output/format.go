// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"trackctl/internal/service"
)

const (
	// HeaderSeparator is the separator line for detail sections.
	HeaderSeparator = "------------"
)

// FormatProject formats a project line for the projects command.
// Format: "{ID:>4}  {TITLE}  ({N} tasks)\n"
func FormatProject(w io.Writer, p service.Project) {
	title := normalizeTitle(p.Title)
	noun := "tasks"
	if p.TaskCount == 1 {
		noun = "task"
	}
	fmt.Fprintf(w, "%4d  %s  (%d %s)\n", p.ID, title, p.TaskCount, noun)
}

// FormatProjectHeader formats a project detail header.
func FormatProjectHeader(w io.Writer, p service.Project) {
	fmt.Fprintln(w, HeaderSeparator)
	fmt.Fprintln(w, normalizeTitle(p.Title))
	if strings.TrimSpace(p.Description) != "" {
		fmt.Fprintln(w, p.Description)
	}
	fmt.Fprintln(w, HeaderSeparator)
}

// FormatTask formats a task line.
// Format: "{ID:>4}  [{STATUS:<11}] {TITLE}\n" with an optional due date.
func FormatTask(w io.Writer, t service.Task) {
	title := normalizeTitle(t.Title)
	if t.DueDate != "" {
		fmt.Fprintf(w, "%4d  [%-11s] %s (due %s)\n", t.ID, t.Status, title, t.DueDate)
		return
	}
	fmt.Fprintf(w, "%4d  [%-11s] %s\n", t.ID, t.Status, title)
}

// normalizeTitle normalizes a title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
