package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vito/progrock"
)

const (
	statusRunning   = "running"
	statusCompleted = "completed"
	statusFailed    = "failed"
	statusCached    = "cached"
)

// VertexState represents the current state of a step in the view.
type VertexState struct {
	ID     string
	Name   string
	Status string
}

type styles struct {
	completed lipgloss.Style
	failed    lipgloss.Style
	cached    lipgloss.Style
	summary   lipgloss.Style
}

// Model is the Bubble Tea model for the progress view.
type Model struct {
	source   UpdateSource
	vertices []VertexState
	height   int
	done     bool
	spinner  spinner.Model
	styles   styles
}

// NewModel creates a model reading updates from source.
func NewModel(source UpdateSource) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	return &Model{
		source:  source,
		spinner: s,
		styles: styles{
			completed: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			failed:    lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
			cached:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
			summary:   lipgloss.NewStyle().Faint(true),
		},
	}
}

// Init starts reading updates.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		ReadUpdate(m.source),
		m.spinner.Tick,
	)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case StatusMsg:
		m.processVertexUpdates(msg.Update)
		return m, ReadUpdate(m.source)
	case FeedClosedMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) processVertexUpdates(update *progrock.StatusUpdate) {
	if update == nil {
		return
	}
	for _, v := range update.Vertexes {
		m.updateOrAddVertex(v)
	}
}

func (m *Model) updateOrAddVertex(v *progrock.Vertex) {
	status := statusRunning
	switch {
	case v.Completed == nil:
	case v.Error != nil:
		status = statusFailed
	case v.Cached:
		status = statusCached
	default:
		status = statusCompleted
	}

	for i, existing := range m.vertices {
		if existing.ID == v.Id {
			m.vertices[i].Status = status
			return
		}
	}
	m.vertices = append(m.vertices, VertexState{ID: v.Id, Name: v.Name, Status: status})
}

// View renders the step list followed by a summary line.
func (m *Model) View() string {
	var s strings.Builder

	// Keep the summary line visible when the list overflows.
	start := 0
	if m.height > 1 && len(m.vertices) > m.height-1 {
		start = len(m.vertices) - (m.height - 1)
	}

	counts := make(map[string]int)
	for _, v := range m.vertices {
		counts[v.Status]++
	}

	for _, v := range m.vertices[start:] {
		var icon string
		switch v.Status {
		case statusCompleted:
			icon = m.styles.completed.Render("✓")
		case statusFailed:
			icon = m.styles.failed.Render("✗")
		case statusCached:
			icon = m.styles.cached.Render("•")
		default:
			icon = m.spinner.View()
		}
		fmt.Fprintf(&s, "%s %s\n", icon, v.Name)
	}

	summary := fmt.Sprintf("%d/%d steps done, %d up to date, %d failed",
		counts[statusCompleted]+counts[statusCached]+counts[statusFailed], len(m.vertices),
		counts[statusCached], counts[statusFailed])
	s.WriteString(m.styles.summary.Render(summary))
	s.WriteString("\n")

	return s.String()
}
