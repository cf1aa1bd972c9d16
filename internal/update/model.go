package update

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/Rorical/BooklyDesk/internal/models"
	"github.com/Rorical/BooklyDesk/ui/styles"
)

const inputHeight = 3

// NewAppModel builds the initial UI state. The transcript stays empty until the core
// pushes its first snapshot.
func NewAppModel(sessionID, exportFormat, exportDir string) models.AppModel {
	input := textarea.New()
	input.Placeholder = "Ask about an order, a return, or our policies..."
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.SetHeight(inputHeight)
	input.KeyMap.InsertNewline = NewlineKeys
	input.Focus()

	spin := spinner.New(spinner.WithSpinner(spinner.Dot))
	spin.Style = styles.MutedStyle()

	return models.AppModel{
		Turns:        make([]models.Turn, 0),
		Input:        input,
		Transcript:   viewport.New(80, 20),
		Spinner:      spin,
		Status:       StatusReady,
		SessionID:    sessionID,
		Health:       models.HealthUnknown,
		ExportFormat: exportFormat,
		ExportDir:    exportDir,
	}
}
