package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/BooklyDesk/internal/models"
	"github.com/Rorical/BooklyDesk/ui/styles"
)

// RenderTranscript renders every turn in order, assistant turns followed by their
// annotation badges.
func RenderTranscript(turns []models.Turn, width int) string {
	var b strings.Builder

	for _, turn := range turns {
		var style lipgloss.Style
		var label string
		switch {
		case turn.Speaker == models.User:
			style, label = styles.UserStyle(), "You: "
		case turn.IsError():
			style, label = styles.ErrorStyle(), "Assistant: "
		default:
			style, label = styles.AssistantStyle(), "Assistant: "
		}
		if width > 6 {
			style = style.Width(width - 6)
		}

		b.WriteString(style.Render(label + turn.Text))
		if badges := RenderBadges(turn); badges != "" {
			b.WriteString("\n" + badges)
		}
		b.WriteString("\n\n")
	}

	return b.String()
}

// RenderBadges returns the annotation pills for an assistant turn, or "".
func RenderBadges(turn models.Turn) string {
	if turn.Speaker != models.Assistant {
		return ""
	}

	var badges []string
	if turn.IsError() {
		badges = append(badges, styles.ErrorBadge().Render("Error"))
	}
	if turn.HasTool() {
		badges = append(badges, styles.ToolBadge().Render("Tool: "+turn.ToolName))
	}
	if turn.IsClarifying {
		badges = append(badges, styles.ClarificationBadge().Render("Clarification"))
	}
	if len(badges) == 0 {
		return ""
	}
	return "  " + lipgloss.JoinHorizontal(lipgloss.Top, badges...)
}
