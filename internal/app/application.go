package app

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/BooklyDesk/internal/config"
	"github.com/Rorical/BooklyDesk/internal/core"
	"github.com/Rorical/BooklyDesk/internal/dispatcher"
	"github.com/Rorical/BooklyDesk/internal/eventbus"
	"github.com/Rorical/BooklyDesk/internal/exchange"
	"github.com/Rorical/BooklyDesk/internal/logging"
	"github.com/Rorical/BooklyDesk/internal/update"
)

// Options carries command-line choices that sit on top of the profile.
type Options struct {
	Endpoint     string
	SessionID    string
	LogFile      string
	ExportFormat string
	ExportDir    string
}

// Application manages the complete application lifecycle
type Application struct {
	config     *config.Config
	eventBus   *eventbus.EventBus
	dispatcher *dispatcher.EventDispatcher
	service    *core.ChatService
	model      *AppModel
	logFile    io.Closer
}

func NewApplication(cfg *config.Config, opts Options) (*Application, error) {
	cfg.Override(opts.Endpoint, opts.SessionID)
	if !cfg.IsValid() {
		return nil, fmt.Errorf("profile '%s' is not configured for backend %s", cfg.ActiveProfile, cfg.GetBackend())
	}

	// The TUI owns the terminal, so logs go to a file.
	logPath := opts.LogFile
	if logPath == "" {
		var err error
		if logPath, err = config.LogPath(); err != nil {
			return nil, fmt.Errorf("failed to resolve log path: %w", err)
		}
	}
	logFile, err := logging.OpenFile(logPath)
	if err != nil {
		return nil, err
	}

	exchanger := NewExchanger(cfg)
	logging.Info("starting chat console",
		"profile", cfg.ActiveProfile,
		"backend", cfg.GetBackend(),
		"endpoint", cfg.GetEndpoint(),
		"session", cfg.GetSessionID())

	eb := eventbus.NewEventBus()
	disp := dispatcher.NewEventDispatcher(eb)
	chatService := core.NewChatService(exchanger, eb)

	exportFormat := opts.ExportFormat
	if exportFormat == "" {
		exportFormat = "md"
	}
	exportDir := opts.ExportDir
	if exportDir == "" {
		exportDir = "."
	}

	model := &AppModel{
		appModel:   update.NewAppModel(cfg.GetSessionID(), exportFormat, exportDir),
		dispatcher: disp,
	}

	return &Application{
		config:     cfg,
		eventBus:   eb,
		dispatcher: disp,
		service:    chatService,
		model:      model,
		logFile:    logFile,
	}, nil
}

// NewExchanger picks the transport for the active profile's backend.
func NewExchanger(cfg *config.Config) exchange.Exchanger {
	if cfg.GetBackend() == config.BackendOpenAI {
		return exchange.NewOpenAIExchanger(cfg.GetAPIKey(), cfg.GetBaseURL(), cfg.GetModel())
	}
	return exchange.NewClient(cfg.GetEndpoint(), cfg.GetSessionID())
}

func (app *Application) Start() error {
	app.dispatcher.Start()
	app.service.Start()

	p := tea.NewProgram(app.model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()

	return err
}

func (app *Application) Stop() {
	app.service.Stop()
	app.dispatcher.Stop()
	app.eventBus.Close()
	logging.Info("chat console stopped", "turns", app.service.Store().Len())
	if app.logFile != nil {
		logging.SetOutput(os.Stderr)
		_ = app.logFile.Close()
	}
}
