package tui

import (
	"github.com/rgehrsitz/refundcast/internal/domain"
)

// Scene represents different screens in the TUI
type Scene int

const (
	SceneChart Scene = iota
	SceneTable
	SceneClients
)

func (s Scene) String() string {
	switch s {
	case SceneChart:
		return "Chart"
	case SceneTable:
		return "Table"
	case SceneClients:
		return "Clients"
	default:
		return "Unknown"
	}
}

// ConfigLoadedMsg signals the model input and its dataset have been loaded
type ConfigLoadedMsg struct {
	Config    *domain.Configuration
	Portfolio domain.Portfolio
}

// ForecastCompleteMsg carries the result of a forecast run
type ForecastCompleteMsg struct {
	Result *domain.ForecastResult
	Err    error
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}
