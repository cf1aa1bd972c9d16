package styles

import "github.com/charmbracelet/lipgloss"

var (
	userColor      = lipgloss.Color("39")
	assistantColor = lipgloss.Color("214")
	errorColor     = lipgloss.Color("196")
	mutedColor     = lipgloss.Color("241")
	accentColor    = lipgloss.Color("62")
)

func HeaderStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("230")).
		Background(accentColor).
		Bold(true).
		Padding(0, 1).
		Width(width)
}

func InputStyle(width int, disabled bool) lipgloss.Style {
	border := accentColor
	if disabled {
		border = mutedColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(max(width-4, 10))
}

func StatusStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(mutedColor).
		Background(lipgloss.Color("235")).
		Padding(0, 1).
		Width(width)
}

func UserStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(userColor).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(userColor).
		Padding(0, 1).
		MarginLeft(2)
}

func AssistantStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(assistantColor).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(assistantColor).
		Padding(0, 1).
		MarginLeft(2)
}

func ErrorStyle() lipgloss.Style {
	return AssistantStyle().
		Foreground(errorColor).
		BorderForeground(errorColor)
}

// BadgeStyle renders a small pill next to an assistant turn.
func BadgeStyle(color lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("0")).
		Background(color).
		Padding(0, 1).
		MarginLeft(1)
}

func ToolBadge() lipgloss.Style          { return BadgeStyle(lipgloss.Color("141")) }
func ClarificationBadge() lipgloss.Style { return BadgeStyle(lipgloss.Color("220")) }
func ErrorBadge() lipgloss.Style         { return BadgeStyle(errorColor) }

func HealthStyle(online bool) lipgloss.Style {
	color := lipgloss.Color("42")
	if !online {
		color = errorColor
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true)
}

func MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(mutedColor)
}
