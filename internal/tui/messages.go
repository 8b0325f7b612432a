package tui

import "ulbuild/internal/materialize"

// CategoryMsg updates the status of a single category row.
type CategoryMsg struct {
	Category string
	Status   materialize.Status
	Dir      string
}

// DownloadMsg reports archive download progress. Total is -1 when unknown.
type DownloadMsg struct {
	Received int64
	Total    int64
}

// WorkDoneMsg signals that all background work has completed.
type WorkDoneMsg struct{}

// ErrorMsg signals a fatal error; the TUI should quit.
type ErrorMsg struct {
	Err error
}
