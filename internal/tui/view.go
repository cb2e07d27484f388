package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"plando/internal/models"
	"plando/internal/services/task"
)

// View renders the current state of the application.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	if m.form != nil {
		formBox := m.styles.ProjectCard.
			Width(min(m.width-4, 72)).
			Render(m.form.View())
		return lipgloss.Place(
			m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			formBox,
		)
	}

	switch m.mode {
	case modeDetail:
		return m.viewDetail()
	default:
		return m.viewProjects()
	}
}

func (m Model) viewProjects() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Projects"))
	b.WriteString("\n\n")

	projects := m.pager.Projects()
	if len(projects) == 0 {
		b.WriteString(m.styles.Muted.Render("  No projects yet. Press 'n' to create one."))
		b.WriteString("\n")
	}

	for i, proj := range projects {
		line := proj.Title
		if !proj.DueDate.IsZero() {
			line += m.styles.Muted.Render("  due " + proj.DueDate.Format(models.DueDateLayout))
		}

		if i == m.cursor {
			b.WriteString(m.styles.SelectedCard.Width(m.width - 4).Render(line))
		} else {
			b.WriteString(m.styles.ProjectCard.Width(m.width - 4).Render(line))
		}
		b.WriteString("\n")
	}

	totalPages := m.pager.TotalPages()
	if totalPages < 1 {
		totalPages = 1
	}
	b.WriteString(m.styles.Pagination.Render(
		fmt.Sprintf("Page %d/%d · %d projects", m.pager.CurrentPage(), totalPages, m.pager.TotalCount()),
	))

	b.WriteString(m.statusLine())
	b.WriteString(m.styles.Help.Render(
		"j/k move · h/l page · enter open · n new · e edit · d delete · q quit",
	))

	return b.String()
}

func (m Model) viewDetail() string {
	var b strings.Builder

	var title string
	for _, proj := range m.pager.Projects() {
		if proj.ID == m.tasks.ActiveProjectID() {
			title = proj.Title
			if proj.Description != "" && m.markdown != nil {
				if rendered, err := m.markdown.Render(proj.Description); err == nil {
					title += "\n" + strings.TrimRight(rendered, "\n")
				}
			}
			break
		}
	}

	b.WriteString(m.styles.Title.Render(title))
	b.WriteString("\n\n")

	tasks := m.tasks.Tasks()
	switch m.tasks.State() {
	case task.StateLoading:
		b.WriteString(m.styles.Muted.Render("  Loading tasks..."))
		b.WriteString("\n")
	case task.StateLive:
		if len(tasks) == 0 {
			b.WriteString(m.styles.Muted.Render("  No tasks yet. Press 'a' to add one."))
			b.WriteString("\n")
		}
		for i, t := range tasks {
			checkbox := "[ ]"
			style := m.styles.Normal
			if t.Completed {
				checkbox = "[x]"
				style = m.styles.Completed
			}
			line := fmt.Sprintf("  %s %s", checkbox, style.Render(t.Title))
			if i == m.taskCursor {
				line = m.styles.Selected.Render("▸") + line[1:]
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString(m.styles.Pagination.Render(
			fmt.Sprintf("%d/%d tasks", len(tasks), models.MaxTasksPerProject),
		))
	}

	b.WriteString(m.statusLine())
	b.WriteString(m.styles.Help.Render(
		"j/k move · space toggle · J/K reorder · a add · x delete · esc back · q quit",
	))

	return b.String()
}

func (m Model) statusLine() string {
	if m.err != nil {
		return "\n" + m.styles.Error.Render("  "+m.err.Error())
	}
	if m.status != "" {
		return "\n" + m.styles.Muted.Render("  "+m.status)
	}
	return ""
}
