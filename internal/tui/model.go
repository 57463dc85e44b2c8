// Package tui provides the Bubble Tea progress view shown while cracking.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/vigenere/internal/cracker"
)

const (
	maxBarWidth = 60
	barPadding  = 4
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// ProgressMsg reports scored candidates.
type ProgressMsg struct {
	Done  int
	Total int
}

// DoneMsg carries the finished crack.
type DoneMsg struct {
	Result cracker.Result
	Err    error
}

// Model implements the Bubble Tea progress UI.
type Model struct {
	title    string
	bar      progress.Model
	cancel   context.CancelFunc
	done     int
	total    int
	finished bool
	canceled bool
}

// NewModel constructs a progress model. cancel is called when the user quits early.
func NewModel(title string, cancel context.CancelFunc) *Model {
	return &Model{
		title:  title,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(maxBarWidth)),
		cancel: cancel,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = min(msg.Width-barPadding, maxBarWidth)
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.canceled = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		default:
			return m, nil
		}
	case ProgressMsg:
		m.done = msg.Done
		m.total = msg.Total
		return m, nil
	case DoneMsg:
		m.finished = true
		return m, tea.Quit
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.finished || m.canceled {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(m.bar.ViewAs(m.percent()))
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render(m.renderFooter()))
	b.WriteString("\n")
	return b.String()
}

// Canceled reports whether the user quit before the crack finished.
func (m *Model) Canceled() bool {
	return m.canceled
}

func (m *Model) percent() float64 {
	if m.total <= 0 {
		return 0
	}
	return float64(m.done) / float64(m.total)
}

func (m *Model) renderFooter() string {
	if m.total == 0 {
		return "Analyzing key positions · esc to cancel"
	}
	return fmt.Sprintf("%d/%d candidate keys scored · esc to cancel", m.done, m.total)
}
