package models

// PageSize is the fixed number of projects shown per page.
const PageSize = 6

// MaxTaskTitleLength is the maximum length of a task title after trimming.
const MaxTaskTitleLength = 100

// MaxProjectTitleLength is the maximum length of a project title.
const MaxProjectTitleLength = 100

// MaxTasksPerProject caps the number of tasks a single project may hold.
const MaxTasksPerProject = 15

// DueDateLayout is the calendar-date format used for project due dates.
const DueDateLayout = "2006-01-02"
