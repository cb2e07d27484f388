package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"plando/internal/models"
)

// projectFormValues holds the editable fields bound to the project form.
type projectFormValues struct {
	Title       string
	Description string
	DueDate     string
	Confirm     bool
}

// newProjectForm creates a huh form for adding or editing a project.
func newProjectForm(values *projectFormValues, editing bool) *huh.Form {
	verb := "Create"
	if editing {
		verb = "Save"
	}

	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Key("title").
			Title("Project Title").
			Placeholder("Enter project title...").
			CharLimit(models.MaxProjectTitleLength).
			Validate(requireNonEmpty("title")).
			Value(&values.Title),

		huh.NewText().
			Key("description").
			Title("Description (optional, markdown)").
			Placeholder("Enter project description...").
			CharLimit(500).
			Lines(3).
			Value(&values.Description),

		huh.NewInput().
			Key("due_date").
			Title("Due Date (YYYY-MM-DD, optional)").
			Placeholder("2026-12-31").
			Validate(validDueDate).
			Value(&values.DueDate),

		huh.NewConfirm().
			Key("confirm").
			Title(verb+" this project?").
			Affirmative("Yes").
			Negative("No").
			Value(&values.Confirm),
	))
}

// taskFormValues holds the fields bound to the task form.
type taskFormValues struct {
	Title   string
	Confirm bool
}

// newTaskForm creates a huh form for adding a task.
func newTaskForm(values *taskFormValues) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Key("title").
			Title("Task").
			Placeholder("What needs doing?").
			CharLimit(models.MaxTaskTitleLength).
			Validate(requireNonEmpty("task title")).
			Value(&values.Title),

		huh.NewConfirm().
			Key("confirm").
			Title("Add this task?").
			Affirmative("Yes").
			Negative("No").
			Value(&values.Confirm),
	))
}

// newConfirmForm creates a yes/no confirmation dialog.
func newConfirmForm(prompt string, confirm *bool) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Key("confirm").
			Title(prompt).
			Affirmative("Yes").
			Negative("No").
			Value(confirm),
	))
}

func requireNonEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

func validDueDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := time.Parse(models.DueDateLayout, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use the format YYYY-MM-DD")
	}
	return nil
}

// parseDueDate converts the form's date field, returning the zero time for
// an empty value.
func parseDueDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	due, err := time.Parse(models.DueDateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return due
}
