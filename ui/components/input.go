package components

import (
	"github.com/Rorical/BooklyDesk/ui/styles"
)

func RenderInput(editor string, inFlight bool, width int) string {
	return styles.InputStyle(width, inFlight).Render(editor)
}
