package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"plando/internal/config"
)

// keyMap holds the active key bindings, built from the configured mappings.
type keyMap struct {
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	Back     key.Binding
	PrevPage key.Binding
	NextPage key.Binding

	NewProject    key.Binding
	EditProject   key.Binding
	DeleteProject key.Binding

	NewTask      key.Binding
	ToggleTask   key.Binding
	DeleteTask   key.Binding
	MoveTaskUp   key.Binding
	MoveTaskDown key.Binding
}

func newKeyMap(m config.KeyMappings) keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys(m.Quit, "ctrl+c"), key.WithHelp(m.Quit, "quit")),
		Up:       key.NewBinding(key.WithKeys(m.Up, "up"), key.WithHelp(m.Up, "up")),
		Down:     key.NewBinding(key.WithKeys(m.Down, "down"), key.WithHelp(m.Down, "down")),
		Select:   key.NewBinding(key.WithKeys(m.Select), key.WithHelp(m.Select, "open")),
		Back:     key.NewBinding(key.WithKeys(m.Back), key.WithHelp(m.Back, "back")),
		PrevPage: key.NewBinding(key.WithKeys(m.PrevPage, "left"), key.WithHelp(m.PrevPage, "prev page")),
		NextPage: key.NewBinding(key.WithKeys(m.NextPage, "right"), key.WithHelp(m.NextPage, "next page")),

		NewProject:    key.NewBinding(key.WithKeys(m.NewProject), key.WithHelp(m.NewProject, "new project")),
		EditProject:   key.NewBinding(key.WithKeys(m.EditProject), key.WithHelp(m.EditProject, "edit")),
		DeleteProject: key.NewBinding(key.WithKeys(m.DeleteProject), key.WithHelp(m.DeleteProject, "delete")),

		NewTask:      key.NewBinding(key.WithKeys(m.NewTask), key.WithHelp(m.NewTask, "add task")),
		ToggleTask:   key.NewBinding(key.WithKeys(m.ToggleTask), key.WithHelp("space", "toggle done")),
		DeleteTask:   key.NewBinding(key.WithKeys(m.DeleteTask), key.WithHelp(m.DeleteTask, "delete task")),
		MoveTaskUp:   key.NewBinding(key.WithKeys(m.MoveTaskUp), key.WithHelp(m.MoveTaskUp, "move up")),
		MoveTaskDown: key.NewBinding(key.WithKeys(m.MoveTaskDown), key.WithHelp(m.MoveTaskDown, "move down")),
	}
}
