package dispatcher

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/BooklyDesk/internal/eventbus"
	"github.com/Rorical/BooklyDesk/internal/logging"
	"github.com/Rorical/BooklyDesk/internal/update"
)

// EventDispatcher routes core events into the Bubble Tea loop
type EventDispatcher struct {
	eventBus *eventbus.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewEventDispatcher(eventBus *eventbus.EventBus) *EventDispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventDispatcher{
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start wires bus failures into the log.
func (ed *EventDispatcher) Start() {
	ed.eventBus.SetErrorCallback(func(err eventbus.EventBusError) {
		logging.Warn("event bus error", "op", err.Operation, "err", err.Err,
			"circuit", ed.eventBus.GetCircuitBreakerState())
	})
}

func (ed *EventDispatcher) Stop() {
	ed.cancel()
}

func (ed *EventDispatcher) GetEventBus() *eventbus.EventBus {
	return ed.eventBus
}

// ListenForCoreEvents waits for the next core event. The model re-issues it after
// every delivery. It returns nil once the bus is closed or the dispatcher stopped.
func (ed *EventDispatcher) ListenForCoreEvents() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ed.ctx.Done():
			return nil
		case event, ok := <-ed.eventBus.CoreToUI():
			if !ok {
				return nil
			}
			return update.CoreEventMsg{Event: event}
		}
	}
}
