package components

import (
	"github.com/Rorical/BooklyDesk/ui/styles"
)

const KeyHelp = "enter send • alt+enter newline • ctrl+r sample refund • ctrl+s export • esc quit"

func RenderStatus(status, spinner string, inFlight bool, width int) string {
	statusContent := status
	if inFlight {
		statusContent = spinner + " " + status
	}
	statusContent += "   " + KeyHelp

	return styles.StatusStyle(width).Render(statusContent)
}
