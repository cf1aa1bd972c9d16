package update

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/BooklyDesk/internal/eventbus"
	"github.com/Rorical/BooklyDesk/internal/export"
	"github.com/Rorical/BooklyDesk/internal/logging"
	"github.com/Rorical/BooklyDesk/internal/models"
	"github.com/Rorical/BooklyDesk/ui/components"
)

const (
	SampleRefund   = "I would like to return the book from order B-1001. It arrived damaged."
	HealthInterval = 30 * time.Second

	StatusReady   = "Ready"
	StatusSending = "Sending..."
)

type KeyMap struct {
	Quit       key.Binding
	Submit     key.Binding
	SampleFill key.Binding
	Export     key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
}

var Keys = KeyMap{
	Quit:       key.NewBinding(key.WithKeys("ctrl+c", "esc")),
	Submit:     key.NewBinding(key.WithKeys("enter")),
	SampleFill: key.NewBinding(key.WithKeys("ctrl+r")),
	Export:     key.NewBinding(key.WithKeys("ctrl+s")),
	PageUp:     key.NewBinding(key.WithKeys("pgup")),
	PageDown:   key.NewBinding(key.WithKeys("pgdown")),
}

// NewlineKeys insert a line break in the editor instead of submitting.
var NewlineKeys = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))

// HandleKeyMsgWithEventBus handles keyboard input using event bus
func HandleKeyMsgWithEventBus(appModel *models.AppModel, keyMsg tea.KeyMsg, eb *eventbus.EventBus) tea.Cmd {
	switch {
	case key.Matches(keyMsg, Keys.Quit):
		return tea.Quit

	case key.Matches(keyMsg, Keys.Submit):
		input := appModel.Input.Value()
		if appModel.InFlight || strings.TrimSpace(input) == "" {
			return nil
		}
		if err := eb.SendToCore(eventbus.SubmitEvent{Input: input}); err != nil {
			logging.Warn("failed to send submission to core", "err", err)
			appModel.Status = "Error sending message: " + err.Error()
			return nil
		}
		// Optimistic; the core's next state update is authoritative.
		appModel.Submitted = input
		appModel.InFlight = true
		appModel.Status = StatusSending
		return appModel.Spinner.Tick

	case key.Matches(keyMsg, Keys.SampleFill):
		if appModel.InFlight {
			return nil
		}
		appModel.Input.SetValue(SampleRefund)
		appModel.Input.CursorEnd()
		return nil

	case key.Matches(keyMsg, Keys.Export):
		return ExportCmd(appModel.SessionID, appModel.Turns, appModel.ExportFormat, appModel.ExportDir)

	case key.Matches(keyMsg, Keys.PageUp, Keys.PageDown):
		var cmd tea.Cmd
		appModel.Transcript, cmd = appModel.Transcript.Update(keyMsg)
		return cmd
	}

	var cmd tea.Cmd
	appModel.Input, cmd = appModel.Input.Update(keyMsg)
	return cmd
}

// CoreEventMsg wraps core events for Bubble Tea
type CoreEventMsg struct {
	Event eventbus.CoreEvent
}

// HandleCoreEvent processes events from the core
func HandleCoreEvent(appModel *models.AppModel, coreEventMsg CoreEventMsg) tea.Cmd {
	switch event := coreEventMsg.Event.(type) {
	case eventbus.StateUpdateEvent:
		wasInFlight := appModel.InFlight
		appModel.Turns = event.Turns
		appModel.InFlight = event.InFlight
		if event.InputConsumed {
			consumeSubmitted(appModel)
		}
		appModel.Submitted = ""

		if event.InFlight {
			appModel.Status = StatusSending
		} else {
			appModel.Status = StatusReady
		}
		RefreshTranscript(appModel)

		if event.InFlight && !wasInFlight {
			return appModel.Spinner.Tick
		}

	case eventbus.HealthUpdateEvent:
		appModel.Health = event.Health
	}

	return nil
}

// consumeSubmitted drops the accepted text from the editor and keeps anything
// typed after it was sent.
func consumeSubmitted(appModel *models.AppModel) {
	value := appModel.Input.Value()
	rest, ok := strings.CutPrefix(value, appModel.Submitted)
	if !ok || appModel.Submitted == "" {
		return
	}
	appModel.Input.Reset()
	if rest != "" {
		appModel.Input.SetValue(rest)
		appModel.Input.CursorEnd()
	}
}

// RefreshTranscript re-renders the transcript pane and scrolls to the newest turn.
func RefreshTranscript(appModel *models.AppModel) {
	appModel.Transcript.SetContent(components.RenderTranscript(appModel.Turns, appModel.Transcript.Width))
	appModel.Transcript.GotoBottom()
}

func HandleSpinnerTick(appModel *models.AppModel, tick spinner.TickMsg) tea.Cmd {
	if !appModel.InFlight {
		return nil
	}
	var cmd tea.Cmd
	appModel.Spinner, cmd = appModel.Spinner.Update(tick)
	return cmd
}

const (
	headerHeight = 1
	statusHeight = 1
	inputChrome  = 2 // input border
)

func HandleWindowSizeMsg(appModel *models.AppModel, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height

	appModel.Input.SetWidth(max(sizeMsg.Width-6, 10))
	appModel.Transcript.Width = sizeMsg.Width
	appModel.Transcript.Height = max(sizeMsg.Height-headerHeight-statusHeight-inputChrome-appModel.Input.Height(), 1)
	RefreshTranscript(appModel)
}

type HealthTickMsg time.Time

// HealthTickCmd schedules the next service probe.
func HealthTickCmd() tea.Cmd {
	return tea.Tick(HealthInterval, func(t time.Time) tea.Msg {
		return HealthTickMsg(t)
	})
}

// CheckHealthNow triggers an immediate probe.
func CheckHealthNow() tea.Msg {
	return HealthTickMsg(time.Now())
}

func HandleHealthTick(eb *eventbus.EventBus) tea.Cmd {
	if err := eb.SendToCore(eventbus.CheckHealthEvent{}); err != nil {
		logging.Debug("failed to request health check", "err", err)
	}
	return HealthTickCmd()
}

// ExportDoneMsg reports the outcome of a transcript export.
type ExportDoneMsg struct {
	Path string
	Err  error
}

func ExportCmd(sessionID string, turns []models.Turn, format, dir string) tea.Cmd {
	snapshot := &export.Snapshot{
		SessionID:  sessionID,
		ExportedAt: time.Now(),
		Turns:      append([]models.Turn(nil), turns...),
	}
	return func() tea.Msg {
		path, err := export.WriteFile(dir, snapshot, format)
		return ExportDoneMsg{Path: path, Err: err}
	}
}

func HandleExportDone(appModel *models.AppModel, msg ExportDoneMsg) {
	if msg.Err != nil {
		logging.Error("transcript export failed", "err", msg.Err)
		appModel.Status = "Export failed: " + msg.Err.Error()
		return
	}
	logging.Info("transcript exported", "path", msg.Path, "turns", len(appModel.Turns))
	appModel.Status = fmt.Sprintf("Exported to %s", msg.Path)
}
