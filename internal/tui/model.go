package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"evewatch/internal/events"
	"evewatch/internal/sink"
)

const refreshRate = time.Second

type tickMsg time.Time

// MonitorProvider exposes the orchestrator controls the dashboard needs.
type MonitorProvider interface {
	Start()
	Stop()
	IsRunning() bool
	TrackedProcessCount() int
	GenerateReport() (sink.Report, error)
}

// EventProvider supplies recent crash records for the event panel.
type EventProvider interface {
	Recent(limit int) []events.FormattedRecord
	Len() int
}

type KeyMap struct {
	Start  key.Binding
	Stop   key.Binding
	Report key.Binding
	Close  key.Binding
	Quit   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start"),
		),
		Stop: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "stop"),
		),
		Report: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "report"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

type Model struct {
	width    int
	height   int
	keys     KeyMap
	quitting bool

	monitor MonitorProvider
	events  EventProvider

	reportOverlay bool
	report        sink.Report
	reportErr     error

	onShutdown func()
}

type ModelOption func(*Model)

func WithEventProvider(e EventProvider) ModelOption {
	return func(m *Model) { m.events = e }
}

func WithOnShutdown(fn func()) ModelOption {
	return func(m *Model) { m.onShutdown = fn }
}

func NewModel(monitor MonitorProvider, opts ...ModelOption) Model {
	m := Model{
		keys:    DefaultKeyMap(),
		monitor: monitor,
	}

	for _, opt := range opts {
		opt(&m)
	}

	return m
}

func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(refreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		return m, m.tickCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.reportOverlay {
		switch {
		case key.Matches(msg, m.keys.Close), key.Matches(msg, m.keys.Report):
			m.reportOverlay = false
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Start):
		if !m.monitor.IsRunning() {
			m.monitor.Start()
		}
		return m, nil

	case key.Matches(msg, m.keys.Stop):
		if m.monitor.IsRunning() {
			m.monitor.Stop()
		}
		return m, nil

	case key.Matches(msg, m.keys.Report):
		m.report, m.reportErr = m.monitor.GenerateReport()
		m.reportOverlay = true
		return m, nil
	}

	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if m.onShutdown != nil {
		m.onShutdown()
	}
	return m, tea.Quit
}
