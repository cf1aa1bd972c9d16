package update

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/BooklyDesk/internal/eventbus"
	"github.com/Rorical/BooklyDesk/internal/models"
)

func HandleUpdateWithEventBus(appModel *models.AppModel, msg tea.Msg, eb *eventbus.EventBus) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return HandleKeyMsgWithEventBus(appModel, msg, eb)
	case tea.WindowSizeMsg:
		HandleWindowSizeMsg(appModel, msg)
		return nil
	case spinner.TickMsg:
		return HandleSpinnerTick(appModel, msg)
	case HealthTickMsg:
		return HandleHealthTick(eb)
	case ExportDoneMsg:
		HandleExportDone(appModel, msg)
		return nil
	case CoreEventMsg:
		return HandleCoreEvent(appModel, msg)
	case tea.MouseMsg:
		var cmd tea.Cmd
		appModel.Transcript, cmd = appModel.Transcript.Update(msg)
		return cmd
	}
	return nil
}
