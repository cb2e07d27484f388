package config

// KeyMappings defines the keyboard bindings for the TUI.
type KeyMappings struct {
	Quit     string `yaml:"quit"`
	Up       string `yaml:"up"`
	Down     string `yaml:"down"`
	Select   string `yaml:"select"`
	Back     string `yaml:"back"`
	PrevPage string `yaml:"prev_page"`
	NextPage string `yaml:"next_page"`

	NewProject    string `yaml:"new_project"`
	EditProject   string `yaml:"edit_project"`
	DeleteProject string `yaml:"delete_project"`

	NewTask      string `yaml:"new_task"`
	ToggleTask   string `yaml:"toggle_task"`
	DeleteTask   string `yaml:"delete_task"`
	MoveTaskUp   string `yaml:"move_task_up"`
	MoveTaskDown string `yaml:"move_task_down"`
}

// DefaultKeyMappings returns vim-flavored default bindings.
func DefaultKeyMappings() KeyMappings {
	return KeyMappings{
		Quit:          "q",
		Up:            "k",
		Down:          "j",
		Select:        "enter",
		Back:          "esc",
		PrevPage:      "h",
		NextPage:      "l",
		NewProject:    "n",
		EditProject:   "e",
		DeleteProject: "d",
		NewTask:       "a",
		ToggleTask:    " ",
		DeleteTask:    "x",
		MoveTaskUp:    "K",
		MoveTaskDown:  "J",
	}
}

func (k *KeyMappings) applyDefaults() {
	defaults := DefaultKeyMappings()
	if k.Quit == "" {
		k.Quit = defaults.Quit
	}
	if k.Up == "" {
		k.Up = defaults.Up
	}
	if k.Down == "" {
		k.Down = defaults.Down
	}
	if k.Select == "" {
		k.Select = defaults.Select
	}
	if k.Back == "" {
		k.Back = defaults.Back
	}
	if k.PrevPage == "" {
		k.PrevPage = defaults.PrevPage
	}
	if k.NextPage == "" {
		k.NextPage = defaults.NextPage
	}
	if k.NewProject == "" {
		k.NewProject = defaults.NewProject
	}
	if k.EditProject == "" {
		k.EditProject = defaults.EditProject
	}
	if k.DeleteProject == "" {
		k.DeleteProject = defaults.DeleteProject
	}
	if k.NewTask == "" {
		k.NewTask = defaults.NewTask
	}
	if k.ToggleTask == "" {
		k.ToggleTask = defaults.ToggleTask
	}
	if k.DeleteTask == "" {
		k.DeleteTask = defaults.DeleteTask
	}
	if k.MoveTaskUp == "" {
		k.MoveTaskUp = defaults.MoveTaskUp
	}
	if k.MoveTaskDown == "" {
		k.MoveTaskDown = defaults.MoveTaskDown
	}
}
