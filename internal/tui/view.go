package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/refundcast/internal/domain"
	"github.com/rgehrsitz/refundcast/internal/output"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.loading {
		return m.renderApp(BorderStyle.Render("⠋ " + m.loadingMessage))
	}
	if m.err != nil {
		return m.renderApp(ErrorStyle.Render(fmt.Sprintf("Error: %s\n\nPress q to quit", m.err)))
	}
	return m.renderApp(m.viewport.View())
}

// renderApp wraps content with title bar and status bar
func (m Model) renderApp(content string) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		content,
		m.renderStatusBar(),
	)
}

func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("Refund Reserve Forecast")
	crumb := m.currentScene.String()
	if m.result != nil {
		crumb = fmt.Sprintf("%s / %s / %s", crumb, m.granularity, m.mode)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, SubtitleStyle.Render(crumb))
}

func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut(m.keys.ToggleMode),
		formatShortcut(m.keys.ToggleGranularity),
		formatShortcut(m.keys.Chart),
		formatShortcut(m.keys.Table),
		formatShortcut(m.keys.Clients),
		formatShortcut(m.keys.Quit),
	}
	return StatusBarStyle.Width(m.width).Render(strings.Join(shortcuts, " • "))
}

func formatShortcut(b key.Binding) string {
	h := b.Help()
	return StatusKeyStyle.Render(h.Key) + " " + h.Desc
}

func (m Model) renderScene() string {
	switch m.currentScene {
	case SceneTable:
		data, err := output.ConsoleFormatter{}.Format(m.result)
		if err != nil {
			return ErrorStyle.Render(err.Error())
		}
		return string(data)
	case SceneClients:
		return string(output.ClientsTable(m.result))
	default:
		return m.renderSummary() + "\n\n" + m.renderChart()
	}
}

func (m Model) renderSummary() string {
	metric := func(label, value string) string {
		return MetricLabelStyle.Render(label+": ") + MetricValueStyle.Render(value)
	}
	return strings.Join([]string{
		metric("Clients", fmt.Sprintf("%d", m.result.Clients)),
		metric("Total", output.FormatCurrency(m.result.TotalValue)),
		metric("Avg lifetime", fmt.Sprintf("%.1f days", m.result.AverageLifetimeDays)),
	}, "   ")
}

func (m Model) renderChart() string {
	unit := m.result.Granularity.Unit()
	width := max(10, m.width-len(unit)-20)

	if m.mode == domain.PerPeriod {
		return output.NewBarChart("Percentage Total Reserve to Keep").
			WithSeries(m.result.PerPeriodPercent, unit, 0).
			WithWidth(width).
			WithAxisLabel("Reserve percentage per " + unit).
			Render()
	}
	return output.NewBarChart("Cumulative Percentage Total Reserve to Keep").
		WithSeries(m.result.CumulativePercent, unit, 0).
		WithWidth(width).
		WithMax(100).
		WithAxisLabel("Cumulative reserve percentage").
		Render()
}
