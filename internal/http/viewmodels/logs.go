package viewmodels

import "html/template"

// LogFileRow is one listed log artifact.
type LogFileRow struct {
	Name         string
	Date         string
	LogType      string
	SizeLabel    string
	LastModified string
}

// LogMatchRow is one search hit with its highlighted snippet.
type LogMatchRow struct {
	FileName string
	Server   string
	Env      string
	Snippet  template.HTML
}

// SelectOption is a value/label pair for filter dropdowns.
type SelectOption struct {
	Value string
	Label string
}

// LogsViewData feeds the UI/API log browser page. Exactly one of
// ValidationError, ErrorMessage, the empty state, or the populated table
// renders, checked in that order.
type LogsViewData struct {
	Layout LayoutData

	Server         string // "ui" or "api"
	Date           string
	LogType        string
	LogTypeOptions []SelectOption
	Keyword        string

	Files   []LogFileRow
	Matches []LogMatchRow

	Page        int
	PerPage     int
	TotalPages  int
	TotalCount  int
	ShowingFrom int
	ShowingTo   int
	PrevURL     string
	NextURL     string

	ValidationError string
	ErrorMessage    string
	EmptyStateMsg   string

	DownloadAction string
}

// LogContentViewData feeds the single-file content view.
type LogContentViewData struct {
	Layout LayoutData

	Server  string
	Date    string
	File    string
	Keyword string
	BackURL string

	Content      template.HTML
	ErrorMessage string
}
