package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/refundcast/internal/domain"
)

// chrome is the number of lines taken by the title and status bars
const chrome = 5

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-chrome)
		m.refreshContent()
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		m.loading = false
		return m, nil

	case ConfigLoadedMsg:
		m.config = msg.Config
		m.portfolio = msg.Portfolio
		m.granularity = msg.Config.Granularity()
		cmd := m.runForecast()
		return m, cmd

	case ForecastCompleteMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.result = msg.Result
		m.refreshContent()
		m.viewport.GotoTop()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.loading || m.result == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.ToggleMode):
		if m.mode == domain.Cumulative {
			m.mode = domain.PerPeriod
		} else {
			m.mode = domain.Cumulative
		}
		m.refreshContent()
		return m, nil

	case key.Matches(msg, m.keys.ToggleGranularity):
		if m.granularity == domain.Monthly {
			m.granularity = domain.Daily
		} else {
			m.granularity = domain.Monthly
		}
		cmd := m.runForecast()
		return m, cmd

	case key.Matches(msg, m.keys.Chart):
		return m.switchScene(SceneChart), nil

	case key.Matches(msg, m.keys.Table):
		return m.switchScene(SceneTable), nil

	case key.Matches(msg, m.keys.Clients):
		return m.switchScene(SceneClients), nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) switchScene(s Scene) Model {
	if m.currentScene != s {
		m.currentScene = s
		m.refreshContent()
		m.viewport.GotoTop()
	}
	return m
}

func (m *Model) runForecast() tea.Cmd {
	m.loading = true
	m.loadingMessage = "Running " + m.granularity.String() + " forecast..."
	return forecastCmd(m.engine, m.portfolio, m.granularity, m.mode)
}

func (m *Model) refreshContent() {
	if m.result == nil {
		return
	}
	m.viewport.SetContent(m.renderScene())
}
