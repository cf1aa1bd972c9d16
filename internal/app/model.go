package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/BooklyDesk/internal/dispatcher"
	"github.com/Rorical/BooklyDesk/internal/models"
	"github.com/Rorical/BooklyDesk/internal/update"
	"github.com/Rorical/BooklyDesk/ui/components"
)

type AppModel struct {
	appModel   models.AppModel
	dispatcher *dispatcher.EventDispatcher
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		update.CheckHealthNow,
		m.dispatcher.ListenForCoreEvents(),
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle core events and continue listening
	if coreEvent, ok := msg.(update.CoreEventMsg); ok {
		cmd := update.HandleCoreEvent(&m.appModel, coreEvent)
		return m, tea.Batch(cmd, m.dispatcher.ListenForCoreEvents())
	}

	cmd := update.HandleUpdateWithEventBus(&m.appModel, msg, m.dispatcher.GetEventBus())
	return m, cmd
}

func (m *AppModel) View() string {
	var b strings.Builder

	b.WriteString(components.RenderHeader(m.appModel.SessionID, len(m.appModel.Turns), m.appModel.Health, m.appModel.Width))
	b.WriteString("\n")
	b.WriteString(m.appModel.Transcript.View())
	b.WriteString("\n")
	b.WriteString(components.RenderInput(m.appModel.Input.View(), m.appModel.InFlight, m.appModel.Width))
	b.WriteString("\n")
	b.WriteString(components.RenderStatus(m.appModel.Status, m.appModel.Spinner.View(), m.appModel.InFlight, m.appModel.Width))

	return b.String()
}
