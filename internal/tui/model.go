package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/refundcast/internal/calculation"
	"github.com/rgehrsitz/refundcast/internal/config"
	"github.com/rgehrsitz/refundcast/internal/domain"
)

// KeyMap holds the global key bindings
type KeyMap struct {
	ToggleMode        key.Binding
	ToggleGranularity key.Binding
	Chart             key.Binding
	Table             key.Binding
	Clients           key.Binding
	Quit              key.Binding
}

// DefaultKeyMap returns the standard bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		ToggleMode: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "mode"),
		),
		ToggleGranularity: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "monthly/daily"),
		),
		Chart: key.NewBinding(
			key.WithKeys("1", "c"),
			key.WithHelp("c", "chart"),
		),
		Table: key.NewBinding(
			key.WithKeys("2", "t"),
			key.WithHelp("t", "table"),
		),
		Clients: key.NewBinding(
			key.WithKeys("3", "l"),
			key.WithHelp("l", "clients"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Model represents the entire application state
type Model struct {
	currentScene Scene
	keys         KeyMap

	// Terminal dimensions
	width  int
	height int

	configPath  string
	config      *domain.Configuration
	portfolio   domain.Portfolio
	granularity domain.Granularity
	mode        domain.Mode
	result      *domain.ForecastResult

	engine   *calculation.ForecastEngine
	viewport viewport.Model

	err            error
	loading        bool
	loadingMessage string
}

// NewModel creates a new application model
func NewModel(configPath string) Model {
	return Model{
		currentScene:   SceneChart,
		keys:           DefaultKeyMap(),
		configPath:     configPath,
		mode:           domain.Cumulative,
		engine:         calculation.NewForecastEngine(),
		viewport:       viewport.New(80, 20),
		width:          80,
		height:         24,
		loading:        true,
		loadingMessage: "Loading configuration...",
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return loadConfigCmd(m.configPath)
}

// Result returns the most recent forecast, nil before the first run completes
func (m Model) Result() *domain.ForecastResult {
	return m.result
}

// loadConfigCmd returns a command that loads the configuration and its dataset
func loadConfigCmd(path string) tea.Cmd {
	return func() tea.Msg {
		parser := config.NewInputParser()
		cfg, portfolio, err := parser.LoadPortfolio(path)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return ConfigLoadedMsg{Config: cfg, Portfolio: portfolio}
	}
}

// forecastCmd returns a command that runs the forecast engine
func forecastCmd(engine *calculation.ForecastEngine, portfolio domain.Portfolio, g domain.Granularity, mode domain.Mode) tea.Cmd {
	return func() tea.Msg {
		result, err := engine.Run(context.Background(), portfolio, g, mode)
		return ForecastCompleteMsg{Result: result, Err: err}
	}
}
