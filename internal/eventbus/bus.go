package eventbus

import (
	"errors"
	"sync"
	"time"

	"github.com/Rorical/BooklyDesk/internal/models"
)

// UIEvent represents events sent from UI to Core
type UIEvent interface {
	UIEvent()
}

// CoreEvent represents events sent from Core to UI
type CoreEvent interface {
	CoreEvent()
}

// SubmitEvent - UI asks core to submit the current input
type SubmitEvent struct {
	Input string
}

func (e SubmitEvent) UIEvent() {}

// CheckHealthEvent - UI asks core to probe the assistant service
type CheckHealthEvent struct{}

func (e CheckHealthEvent) UIEvent() {}

// StateUpdateEvent - Core pushes a full conversation snapshot to UI
type StateUpdateEvent struct {
	Turns        []models.Turn
	InFlight     bool
	PendingInput string
	// InputConsumed is set when a submission was accepted and the draft was cleared.
	InputConsumed bool
}

func (e StateUpdateEvent) CoreEvent() {}

// HealthUpdateEvent - Core reports the result of a service probe
type HealthUpdateEvent struct {
	Health models.ServiceHealth
	Err    error
}

func (e HealthUpdateEvent) CoreEvent() {}

// EventBusError represents errors in event processing
type EventBusError struct {
	Operation string
	Err       error
	Timestamp time.Time
}

func (e EventBusError) Error() string {
	return e.Operation + ": " + e.Err.Error()
}

var (
	ErrCircuitOpen = errors.New("circuit breaker is open")
	ErrCoreFull    = errors.New("UI to Core channel is full")
	ErrUIFull      = errors.New("Core to UI channel is full")
	ErrClosed      = errors.New("event bus is closed")
)

// CircuitBreakerState represents the state of circuit breaker
type CircuitBreakerState int

const (
	CircuitClosed CircuitBreakerState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitBreakerState) String() string {
	switch s {
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// CircuitBreaker implements circuit breaker pattern
type CircuitBreaker struct {
	mu              sync.Mutex
	maxFailures     int
	resetTimeout    time.Duration
	failureCount    int
	lastFailureTime time.Time
	state           CircuitBreakerState
}

func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        CircuitClosed,
	}
}

func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == CircuitOpen {
		// Check if we should transition to half-open
		if time.Since(cb.lastFailureTime) > cb.resetTimeout {
			cb.state = CircuitHalfOpen
		}
	}
	return cb.state == CircuitOpen
}

func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failureCount = 0
	cb.state = CircuitClosed
}

func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failureCount++
	cb.lastFailureTime = time.Now()

	if cb.failureCount >= cb.maxFailures {
		cb.state = CircuitOpen
	}
}

func (cb *CircuitBreaker) State() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// EventBus handles communication between UI and Core with circuit breaker
type EventBus struct {
	uiToCore       chan UIEvent
	coreToUI       chan CoreEvent
	errorCallback  func(EventBusError)
	circuitBreaker *CircuitBreaker

	mu     sync.RWMutex
	closed bool
}

func NewEventBus() *EventBus {
	return &EventBus{
		uiToCore:       make(chan UIEvent, 100),
		coreToUI:       make(chan CoreEvent, 100),
		circuitBreaker: NewCircuitBreaker(5, 30*time.Second),
	}
}

func (eb *EventBus) SetErrorCallback(callback func(EventBusError)) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.errorCallback = callback
}

func (eb *EventBus) reportError(operation string, err error) {
	busError := EventBusError{
		Operation: operation,
		Err:       err,
		Timestamp: time.Now(),
	}

	eb.circuitBreaker.RecordFailure()

	eb.mu.RLock()
	callback := eb.errorCallback
	eb.mu.RUnlock()
	if callback != nil {
		callback(busError)
	}
}

func (eb *EventBus) SendToCore(event UIEvent) error {
	return eb.send("SendToCore", func() bool {
		select {
		case eb.uiToCore <- event:
			return true
		default:
			return false
		}
	}, ErrCoreFull)
}

func (eb *EventBus) SendToUI(event CoreEvent) error {
	return eb.send("SendToUI", func() bool {
		select {
		case eb.coreToUI <- event:
			return true
		default:
			return false
		}
	}, ErrUIFull)
}

// send runs a non-blocking channel send under the close guard and records the
// outcome on the circuit breaker.
func (eb *EventBus) send(operation string, trySend func() bool, fullErr error) error {
	if eb.circuitBreaker.IsOpen() {
		eb.reportError(operation, ErrCircuitOpen)
		return ErrCircuitOpen
	}

	eb.mu.RLock()
	if eb.closed {
		eb.mu.RUnlock()
		return ErrClosed
	}
	ok := trySend()
	eb.mu.RUnlock()

	if !ok {
		eb.reportError(operation, fullErr)
		return fullErr
	}
	eb.circuitBreaker.RecordSuccess()
	return nil
}

func (eb *EventBus) UIToCore() <-chan UIEvent {
	return eb.uiToCore
}

func (eb *EventBus) CoreToUI() <-chan CoreEvent {
	return eb.coreToUI
}

func (eb *EventBus) GetCircuitBreakerState() CircuitBreakerState {
	return eb.circuitBreaker.State()
}

// Close closes both channels. Sends after Close return ErrClosed.
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	if eb.closed {
		return
	}
	eb.closed = true
	close(eb.uiToCore)
	close(eb.coreToUI)
}
