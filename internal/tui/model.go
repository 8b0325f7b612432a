package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"ulbuild/internal/materialize"
	"ulbuild/internal/sdk"
)

const tickInterval = 120 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type tickMsg time.Time

type row struct {
	category string
	status   materialize.Status
	dir      string
}

// Model renders one row per SDK category plus a download counter.
type Model struct {
	title    string
	rows     []row
	received int64
	total    int64
	done     bool
	err      error
	tick     int
}

// NewModel creates a model with a pending row for every category.
func NewModel(title string) Model {
	m := Model{title: title, total: -1}
	for _, c := range sdk.Categories() {
		m.rows = append(m.rows, row{category: c.String(), status: materialize.StatusPending})
	}
	return m
}

func scheduleTick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init satisfies the tea.Model interface.
func (m Model) Init() tea.Cmd {
	return scheduleTick()
}

// Update satisfies the tea.Model interface.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.tick++
		if m.done {
			return m, nil
		}
		return m, scheduleTick()

	case CategoryMsg:
		for i := range m.rows {
			if m.rows[i].category == msg.Category {
				m.rows[i].status = msg.Status
				if msg.Dir != "" {
					m.rows[i].dir = msg.Dir
				}
			}
		}
		return m, nil

	case DownloadMsg:
		m.received = msg.Received
		m.total = msg.Total
		return m, nil

	case WorkDoneMsg:
		m.done = true
		return m, tea.Quit

	case ErrorMsg:
		m.err = msg.Err
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View satisfies the tea.Model interface.
func (m Model) View() string {
	if m.done && m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	var b strings.Builder
	if m.title != "" {
		b.WriteString(TitleStyle.Render(m.title))
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%s  %s  %s\n",
		HeaderStyle.Render(pad("CATEGORY", 10)),
		HeaderStyle.Render(pad("STATUS", 14)),
		HeaderStyle.Render("DIR"))
	for _, r := range m.rows {
		fmt.Fprintf(&b, "%s  %s  %s\n",
			pad(r.category, 10),
			StatusStyle(r.status).Render(pad(string(r.status), 14)),
			NonEmptyOrDash(r.dir))
	}

	if !m.done && m.received > 0 {
		spinner := spinnerFrames[m.tick%len(spinnerFrames)]
		fmt.Fprintf(&b, "\n%s Downloading %s\n", spinner, FormatProgress(m.received, m.total))
	}
	return b.String()
}

// Done returns whether the model has finished (work done or error).
func (m Model) Done() bool {
	return m.done
}

// Err returns any fatal error that occurred.
func (m Model) Err() error {
	return m.err
}

// FormatProgress renders a byte counter such as "12.0 MiB / 80.5 MiB (14%)".
func FormatProgress(received, total int64) string {
	if total <= 0 {
		return FormatBytes(received)
	}
	return fmt.Sprintf("%s / %s (%d%%)", FormatBytes(received), FormatBytes(total), received*100/total)
}

// FormatBytes renders n in binary units.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// NonEmptyOrDash returns "-" for empty/whitespace strings.
func NonEmptyOrDash(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "-"
	}
	return value
}
