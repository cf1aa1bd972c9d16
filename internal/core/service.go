package core

import (
	"context"
	"fmt"
	"time"

	"github.com/Rorical/BooklyDesk/internal/eventbus"
	"github.com/Rorical/BooklyDesk/internal/exchange"
	"github.com/Rorical/BooklyDesk/internal/logging"
	"github.com/Rorical/BooklyDesk/internal/models"
)

const healthTimeout = 5 * time.Second

// Pinger is implemented by exchangers that front a service with a health probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// completion carries the outcome of one exchange back onto the event loop.
type completion struct {
	turn models.Turn
	err  error
}

type ChatService struct {
	exchanger   exchange.Exchanger
	store       *Store
	eventBus    *eventbus.EventBus
	completions chan completion
	ctx         context.Context
	cancel      context.CancelFunc
}

func NewChatService(exchanger exchange.Exchanger, eb *eventbus.EventBus) *ChatService {
	ctx, cancel := context.WithCancel(context.Background())
	return &ChatService{
		exchanger:   exchanger,
		store:       NewStore(),
		eventBus:    eb,
		completions: make(chan completion, 1),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start runs the core logic in a goroutine
func (cs *ChatService) Start() {
	// Send initial state to UI immediately
	cs.pushStateToUI(false)
	go cs.eventLoop()
}

// Stop ends the event loop. An exchange already on the wire is abandoned.
func (cs *ChatService) Stop() {
	cs.cancel()
}

func (cs *ChatService) Store() *Store {
	return cs.store
}

// Submit starts an exchange for raw if the store accepts it. It never blocks on the
// network; the reply arrives later through the event loop.
func (cs *ChatService) Submit(raw string) bool {
	snapshot, ok := cs.store.BeginSubmission(raw)
	if !ok {
		logging.Debug("submission ignored", "in_flight", cs.store.IsInFlight())
		cs.pushStateToUI(false)
		return false
	}

	logging.Debug("submission accepted", "turns", len(snapshot))
	cs.pushStateToUI(true)
	go cs.runExchange(snapshot)
	return true
}

func (cs *ChatService) eventLoop() {
	for {
		select {
		case <-cs.ctx.Done():
			return
		case event, ok := <-cs.eventBus.UIToCore():
			if !ok {
				return
			}
			cs.handleUIEvent(event)
		case done := <-cs.completions:
			cs.finishExchange(done)
		}
	}
}

func (cs *ChatService) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.SubmitEvent:
		cs.store.SetPendingInput(e.Input)
		cs.Submit(e.Input)
	case eventbus.CheckHealthEvent:
		go cs.probeHealth()
	}
}

// runExchange always hands exactly one completion to the event loop.
func (cs *ChatService) runExchange(turns []models.Turn) {
	var done completion
	defer func() {
		if r := recover(); r != nil {
			done = completion{err: fmt.Errorf("exchange panicked: %v", r)}
		}
		select {
		case cs.completions <- done:
		case <-cs.ctx.Done():
		}
	}()

	turn, err := cs.exchanger.Exchange(cs.ctx, turns)
	done = completion{turn: turn, err: err}
}

func (cs *ChatService) finishExchange(done completion) {
	reply := done.turn
	if done.err != nil {
		logging.Error("exchange failed", "class", exchange.Classify(done.err), "err", done.err)
		reply = models.ErrorTurn()
	} else {
		logging.Debug("exchange completed", "action", reply.Action, "tool", reply.ToolName)
	}

	if !cs.store.CompleteSubmission(reply) {
		logging.Warn("completion without a submission in flight dropped")
	}
	cs.pushStateToUI(false)
}

func (cs *ChatService) probeHealth() {
	pinger, ok := cs.exchanger.(Pinger)
	if !ok {
		cs.sendToUI(eventbus.HealthUpdateEvent{Health: models.HealthDirect})
		return
	}

	ctx, cancel := context.WithTimeout(cs.ctx, healthTimeout)
	defer cancel()

	if err := pinger.Ping(ctx); err != nil {
		logging.Debug("health probe failed", "class", exchange.Classify(err), "err", err)
		cs.sendToUI(eventbus.HealthUpdateEvent{Health: models.HealthOffline, Err: err})
		return
	}
	cs.sendToUI(eventbus.HealthUpdateEvent{Health: models.HealthOnline})
}

func (cs *ChatService) pushStateToUI(inputConsumed bool) {
	cs.sendToUI(eventbus.StateUpdateEvent{
		Turns:         cs.store.Transcript(),
		InFlight:      cs.store.IsInFlight(),
		PendingInput:  cs.store.PendingInput(),
		InputConsumed: inputConsumed,
	})
}

func (cs *ChatService) sendToUI(event eventbus.CoreEvent) {
	if err := cs.eventBus.SendToUI(event); err != nil {
		logging.Warn("failed to send state to UI", "err", err)
	}
}
