package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"ulbuild/internal/materialize"
	"ulbuild/internal/sdk"
)

// Reporter forwards materializer and download events to a bubbletea program.
type Reporter struct {
	send func(tea.Msg)
}

// NewReporter wraps a tea.Program send function.
func NewReporter(send func(tea.Msg)) *Reporter {
	return &Reporter{send: send}
}

// CategoryStatus implements materialize.Reporter.
func (r *Reporter) CategoryStatus(c sdk.Category, status materialize.Status, dir string) {
	r.send(CategoryMsg{Category: c.String(), Status: status, Dir: dir})
}

// Download matches fetch.ProgressFunc.
func (r *Reporter) Download(received, total int64) {
	r.send(DownloadMsg{Received: received, Total: total})
}

var _ materialize.Reporter = (*Reporter)(nil)
