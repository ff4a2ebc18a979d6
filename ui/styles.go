package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorRed    = lipgloss.Color("#FF5555")
	colorYellow = lipgloss.Color("#F1FA8C")
	colorGreen  = lipgloss.Color("#50FA7B")
	colorCyan   = lipgloss.Color("#8BE9FD")
	colorWhite  = lipgloss.Color("#F8F8F2")
	colorGray   = lipgloss.Color("#6272A4")
	colorPanel  = lipgloss.Color("#44475A")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	labelStyle    = lipgloss.NewStyle().Foreground(colorGray)
	valueStyle    = lipgloss.NewStyle().Foreground(colorWhite)
	selectedStyle = lipgloss.NewStyle().Background(colorPanel).Foreground(colorWhite)
	helpStyle     = lipgloss.NewStyle().Foreground(colorGray)

	healthyStyle = lipgloss.NewStyle().Foreground(colorGreen)
	failingStyle = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	unknownStyle = lipgloss.NewStyle().Foreground(colorYellow)

	diskStyle      = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	partitionStyle = lipgloss.NewStyle().Foreground(colorWhite)
	lvStyle        = lipgloss.NewStyle().Foreground(colorYellow)
)

func healthStyle(health string) lipgloss.Style {
	switch health {
	case "healthy":
		return healthyStyle
	case "failing":
		return failingStyle
	default:
		return unknownStyle
	}
}

func typeStyle(devType string) lipgloss.Style {
	switch devType {
	case "disk":
		return diskStyle
	case "logical-volume":
		return lvStyle
	default:
		return partitionStyle
	}
}
