package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"plando/internal/models"
	"plando/internal/services/task"
)

// Update handles all messages and updates the model accordingly.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tasksRefreshedMsg:
		if count := len(m.tasks.Tasks()); m.taskCursor >= count && count > 0 {
			m.taskCursor = count - 1
		}
		return m, waitForTaskUpdate(m.tasks.Updates())

	case tea.KeyMsg:
		switch m.mode {
		case modeProjects:
			return m.updateProjects(msg)
		case modeDetail:
			return m.updateDetail(msg)
		case modeProjectForm, modeTaskForm, modeConfirmDelete:
			return m.updateForm(msg)
		}
	}

	if m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) updateProjects(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	projects := m.pager.Projects()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(projects)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.PrevPage):
		m.fail(m.pager.ChangePage(ctx, m.pager.CurrentPage()-1))
		m.cursor = 0

	case key.Matches(msg, m.keys.NextPage):
		m.fail(m.pager.ChangePage(ctx, m.pager.CurrentPage()+1))
		m.cursor = 0

	case key.Matches(msg, m.keys.Select):
		if m.cursor < len(projects) {
			if err := m.tasks.SetActiveProject(ctx, projects[m.cursor].ID); err != nil {
				m.err = err
				return m, nil
			}
			m.mode = modeDetail
			m.taskCursor = 0
			m.err = nil
		}

	case key.Matches(msg, m.keys.NewProject):
		m.projectValues = projectFormValues{}
		m.editingID = ""
		m.form = newProjectForm(&m.projectValues, false)
		m.mode = modeProjectForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.EditProject):
		if m.cursor < len(projects) {
			selected := projects[m.cursor]
			m.projectValues = projectFormValues{
				Title:       selected.Title,
				Description: selected.Description,
			}
			if !selected.DueDate.IsZero() {
				m.projectValues.DueDate = selected.DueDate.Format(models.DueDateLayout)
			}
			m.editingID = selected.ID
			m.form = newProjectForm(&m.projectValues, true)
			m.mode = modeProjectForm
			return m, m.form.Init()
		}

	case key.Matches(msg, m.keys.DeleteProject):
		if m.cursor < len(projects) {
			m.editingID = projects[m.cursor].ID
			m.confirmDelete = false
			prompt := fmt.Sprintf("Delete project %q and all its tasks?", projects[m.cursor].Title)
			m.form = newConfirmForm(prompt, &m.confirmDelete)
			m.mode = modeConfirmDelete
			return m, m.form.Init()
		}
	}

	return m, nil
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	tasks := m.tasks.Tasks()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		// Unbind tears down the live subscription before we leave
		if err := m.tasks.SetActiveProject(ctx, ""); err != nil {
			m.err = err
		}
		m.mode = modeProjects

	case key.Matches(msg, m.keys.Up):
		if m.taskCursor > 0 {
			m.taskCursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.taskCursor < len(tasks)-1 {
			m.taskCursor++
		}

	case key.Matches(msg, m.keys.ToggleTask):
		if m.taskCursor < len(tasks) {
			selected := tasks[m.taskCursor]
			completed := !selected.Completed
			m.fail(m.tasks.UpdateTask(ctx, selected.ProjectID, selected.ID,
				models.TaskUpdate{Completed: &completed}))
		}

	case key.Matches(msg, m.keys.DeleteTask):
		if m.taskCursor < len(tasks) {
			selected := tasks[m.taskCursor]
			m.fail(m.tasks.DeleteTask(ctx, selected.ProjectID, selected.ID))
		}

	case key.Matches(msg, m.keys.MoveTaskUp):
		m.reorder(ctx, tasks, -1)

	case key.Matches(msg, m.keys.MoveTaskDown):
		m.reorder(ctx, tasks, 1)

	case key.Matches(msg, m.keys.NewTask):
		if len(tasks) >= models.MaxTasksPerProject {
			m.err = task.ErrTaskLimit
			return m, nil
		}
		m.taskValues = taskFormValues{}
		m.form = newTaskForm(&m.taskValues)
		m.mode = modeTaskForm
		return m, m.form.Init()
	}

	return m, nil
}

// reorder swaps the selected task with its neighbor and persists the whole
// permutation in one atomic batch.
func (m *Model) reorder(ctx context.Context, tasks []*models.Task, delta int) {
	target := m.taskCursor + delta
	if m.taskCursor >= len(tasks) || target < 0 || target >= len(tasks) {
		return
	}

	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	ids[m.taskCursor], ids[target] = ids[target], ids[m.taskCursor]

	if err := m.tasks.ReorderTasks(ctx, m.tasks.ActiveProjectID(), ids); err != nil {
		m.err = err
		return
	}
	m.taskCursor = target
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		m.mode = modeProjects
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.submitForm()
		m.form = nil
	case huh.StateAborted:
		m.form = nil
		if m.mode == modeTaskForm {
			m.mode = modeDetail
		} else {
			m.mode = modeProjects
		}
	}

	return m, cmd
}

// submitForm applies whichever dialog just completed.
func (m *Model) submitForm() {
	ctx := context.Background()

	switch m.mode {
	case modeProjectForm:
		m.mode = modeProjects
		if !m.projectValues.Confirm {
			return
		}
		due := parseDueDate(m.projectValues.DueDate)
		if m.editingID == "" {
			_, err := m.pager.AddProject(ctx, m.projectValues.Title, m.projectValues.Description, due)
			if m.fail(err) {
				return
			}
			m.cursor = 0
			m.status = "Project created"
		} else {
			upd := models.ProjectUpdate{
				Title:       &m.projectValues.Title,
				Description: &m.projectValues.Description,
				DueDate:     &due,
			}
			if m.fail(m.pager.EditProject(ctx, m.editingID, upd)) {
				return
			}
			m.status = "Project updated"
		}

	case modeTaskForm:
		m.mode = modeDetail
		if !m.taskValues.Confirm {
			return
		}
		_, err := m.tasks.AddTask(ctx, task.CreateTaskRequest{
			ProjectID: m.tasks.ActiveProjectID(),
			Title:     m.taskValues.Title,
			Order:     -1, // append at the end
		})
		if m.fail(err) {
			return
		}
		m.status = "Task added"

	case modeConfirmDelete:
		m.mode = modeProjects
		if !m.confirmDelete {
			return
		}
		if m.fail(m.pager.DeleteProject(ctx, m.editingID)) {
			return
		}
		if m.cursor >= len(m.pager.Projects()) && m.cursor > 0 {
			m.cursor--
		}
		m.status = "Project deleted"
	}
}

// fail records an error for display. Returns true when err is non-nil.
func (m *Model) fail(err error) bool {
	if err != nil {
		m.err = err
		m.status = ""
		return true
	}
	m.err = nil
	return false
}
