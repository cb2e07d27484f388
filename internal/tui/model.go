// Package tui is the terminal front end. It is plumbing over the pager and
// the synchronizer: every mutation goes through a service call, and the task
// view re-renders only when the synchronizer's live list changes.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"

	"plando/internal/config"
	"plando/internal/services/project"
	"plando/internal/services/task"
	"plando/internal/session"
)

// mode identifies which view has input focus.
type mode int

const (
	modeProjects mode = iota
	modeDetail
	modeProjectForm
	modeTaskForm
	modeConfirmDelete
)

// tasksRefreshedMsg is emitted whenever the synchronizer replaces its list.
type tasksRefreshedMsg struct{}

// Model represents the application state for the TUI.
type Model struct {
	cfg    *config.Config
	keys   keyMap
	styles Styles

	session *session.Session
	pager   *project.Pager
	tasks   *task.Synchronizer

	mode       mode
	cursor     int // selection within the current project page
	taskCursor int

	width  int
	height int

	err    error
	status string

	form          *huh.Form
	projectValues projectFormValues
	taskValues    taskFormValues
	confirmDelete bool
	editingID     string // project being edited, "" when creating

	markdown *glamour.TermRenderer
}

// InitialModel creates the TUI model. The pager must already hold page 1.
func InitialModel(cfg *config.Config, sess *session.Session, pager *project.Pager, sync *task.Synchronizer) Model {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(76),
	)
	if err != nil {
		renderer = nil
	}

	return Model{
		cfg:      cfg,
		keys:     newKeyMap(cfg.KeyMappings),
		styles:   NewStyles(cfg.Theme),
		session:  sess,
		pager:    pager,
		tasks:    sync,
		mode:     modeProjects,
		markdown: renderer,
	}
}

// Init starts listening for live task-list updates.
func (m Model) Init() tea.Cmd {
	return waitForTaskUpdate(m.tasks.Updates())
}

// waitForTaskUpdate blocks on the synchronizer's coalesced change signal and
// converts it into a bubbletea message. The command is re-issued after every
// delivery.
func waitForTaskUpdate(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return tasksRefreshedMsg{}
	}
}
