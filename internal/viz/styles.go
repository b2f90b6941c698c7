package viz

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ffff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)

	graphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("49"))

	portStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff00ff")).
			Background(lipgloss.Color("#1a001a"))

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899")).Width(10)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ccff")).Bold(true)

	connectedStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	disconnectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
	errorStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688")).Italic(true).MarginTop(1)
)
