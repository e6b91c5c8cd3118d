package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

const (
	historyCapacity = 600
	recentCapacity  = 8
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	bestStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	failedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	frameStyle  = lipgloss.NewStyle().Padding(1, 2)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// FitUpdate is one optimizer trial as shown by the live view. The fit
// command translates driver trials into these and pushes them down a
// channel.
type FitUpdate struct {
	Trial  int
	Score  float64
	Failed bool
}

type fitUpdateMsg FitUpdate

// fitDoneMsg signals that the update channel closed, meaning the
// calibration finished.
type fitDoneMsg struct{}

// FitModel is the bubbletea model of the live calibration view.
type FitModel struct {
	updates   <-chan FitUpdate
	modelName string
	total     int

	trials    int
	failed    int
	best      float64
	bestKnown bool
	history   []float64
	recent    []FitUpdate
	done      bool
}

// NewFitModel builds the live view for a calibration of the named model
// variant with the given trial budget.
func NewFitModel(updates <-chan FitUpdate, modelName string, total int) FitModel {
	return FitModel{
		updates:   updates,
		modelName: modelName,
		total:     total,
		history:   make([]float64, 0, historyCapacity),
		recent:    make([]FitUpdate, 0, recentCapacity),
	}
}

func waitForUpdate(updates <-chan FitUpdate) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-updates
		if !ok {
			return fitDoneMsg{}
		}
		return fitUpdateMsg(u)
	}
}

func (m FitModel) Init() tea.Cmd {
	return waitForUpdate(m.updates)
}

func (m FitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case fitUpdateMsg:
		m.apply(FitUpdate(msg))
		return m, waitForUpdate(m.updates)
	case fitDoneMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *FitModel) apply(u FitUpdate) {
	m.trials++
	if u.Failed {
		m.failed++
	} else if !m.bestKnown || u.Score < m.best {
		m.best = u.Score
		m.bestKnown = true
	}

	if m.bestKnown {
		m.history = append(m.history, m.best)
		if len(m.history) > historyCapacity {
			m.history = m.history[1:]
		}
	}

	m.recent = append(m.recent, u)
	if len(m.recent) > recentCapacity {
		m.recent = m.recent[1:]
	}
}

// View renders the live calibration screen.
func (m FitModel) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.modelName)) + "\n")

	status := "FITTING"
	if m.done {
		status = "DONE"
	}
	s.WriteString(status + "\n\n")

	s.WriteString(labelStyle.Render("Trials") + valueStyle.Render(fmt.Sprintf("%d/%d", m.trials, m.total)) + "\n")
	best := "-"
	if m.bestKnown {
		best = fmt.Sprintf("%.6f", m.best)
	}
	s.WriteString(labelStyle.Render("Best") + bestStyle.Render(best) + "\n")
	if m.failed > 0 {
		s.WriteString(labelStyle.Render("Failed") + failedStyle.Render(fmt.Sprintf("%d", m.failed)) + "\n")
	}

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(10), asciigraph.Width(60), asciigraph.Caption("best score"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	if len(m.recent) > 0 {
		s.WriteString("\nRECENT\n")
		for _, u := range m.recent {
			line := fmt.Sprintf("#%-6d %.6f", u.Trial, u.Score)
			if u.Failed {
				s.WriteString(failedStyle.Render(fmt.Sprintf("#%-6d failed", u.Trial)) + "\n")
				continue
			}
			s.WriteString(valueStyle.Render(line) + "\n")
		}
	}

	s.WriteString(helpStyle.Render("Q:Quit"))
	return frameStyle.Render(s.String())
}
