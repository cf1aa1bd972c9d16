package core

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Rorical/BooklyDesk/internal/eventbus"
	"github.com/Rorical/BooklyDesk/internal/exchange"
	"github.com/Rorical/BooklyDesk/internal/models"
)

// fakeExchanger returns a fixed reply, optionally after the gate is released.
type fakeExchanger struct {
	reply models.Turn
	err   error
	panic bool
	gate  chan struct{}
	calls chan []models.Turn
}

func (f *fakeExchanger) Exchange(ctx context.Context, turns []models.Turn) (models.Turn, error) {
	if f.calls != nil {
		f.calls <- turns
	}
	if f.gate != nil {
		<-f.gate
	}
	if f.panic {
		panic("exchanger blew up")
	}
	return f.reply, f.err
}

type fakePinger struct {
	fakeExchanger
	pingErr error
}

func (f *fakePinger) Ping(ctx context.Context) error { return f.pingErr }

func startService(t *testing.T, ex exchange.Exchanger) (*ChatService, *eventbus.EventBus) {
	t.Helper()
	eb := eventbus.NewEventBus()
	cs := NewChatService(ex, eb)
	cs.Start()
	t.Cleanup(cs.Stop)
	return cs, eb
}

// waitForState drains core events until one satisfies match.
func waitForState(t *testing.T, eb *eventbus.EventBus, match func(eventbus.StateUpdateEvent) bool) eventbus.StateUpdateEvent {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case event := <-eb.CoreToUI():
			if state, ok := event.(eventbus.StateUpdateEvent); ok && match(state) {
				return state
			}
		case <-timeout:
			t.Fatal("timed out waiting for state update")
		}
	}
}

func idleWith(n int) func(eventbus.StateUpdateEvent) bool {
	return func(s eventbus.StateUpdateEvent) bool {
		return !s.InFlight && len(s.Turns) == n
	}
}

func newServiceClient(t *testing.T, handler http.HandlerFunc) *exchange.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return exchange.NewClient(srv.URL+"/chat", "web-session")
}

func TestSubmitSuccess(t *testing.T) {
	client := newServiceClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"Let me check that."},
			"action_metadata":{"action":"call_tool","tool_name":"order_lookup","is_clarifying_question":false}}`))
	})
	cs, eb := startService(t, client)

	if !cs.Submit("Where is my order B-1002?") {
		t.Fatal("Submit() = false")
	}
	state := waitForState(t, eb, idleWith(3))

	turns := state.Turns
	if turns[0].Text != models.GreetingText {
		t.Errorf("turn 0 = %+v", turns[0])
	}
	if turns[1].Speaker != models.User || turns[1].Text != "Where is my order B-1002?" {
		t.Errorf("turn 1 = %+v", turns[1])
	}
	reply := turns[2]
	if reply.Speaker != models.Assistant || reply.Text != "Let me check that." {
		t.Errorf("turn 2 = %+v", reply)
	}
	if reply.Action != models.ActionCallTool || reply.ToolName != "order_lookup" || reply.IsClarifying {
		t.Errorf("turn 2 annotations = %+v", reply)
	}
}

func TestSubmitMalformedResponse(t *testing.T) {
	client := newServiceClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":null}}`))
	})
	cs, eb := startService(t, client)

	cs.Submit("hello")
	state := waitForState(t, eb, idleWith(3))

	reply := state.Turns[2]
	if !reply.IsError() || reply.Text != models.ApologyText {
		t.Errorf("reply = %+v, want apology turn", reply)
	}
}

func TestSubmitTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL + "/chat"
	srv.Close()

	cs, eb := startService(t, exchange.NewClient(endpoint, ""))

	cs.Submit("hello")
	state := waitForState(t, eb, idleWith(3))

	if !state.Turns[2].IsError() {
		t.Errorf("reply = %+v, want error turn", state.Turns[2])
	}
	if cs.Store().IsInFlight() {
		t.Error("store still in flight after transport failure")
	}
}

func TestSubmitRecoversFromExchangerPanic(t *testing.T) {
	cs, eb := startService(t, &fakeExchanger{panic: true})

	cs.Submit("hello")
	state := waitForState(t, eb, idleWith(3))
	if !state.Turns[2].IsError() {
		t.Errorf("reply = %+v, want error turn", state.Turns[2])
	}

	// The guard is released, so the next submission goes through.
	if !cs.Submit("again") {
		t.Error("Submit() rejected after recovered panic")
	}
}

func TestSubmitSingleFlight(t *testing.T) {
	ex := &fakeExchanger{
		reply: models.NewAssistantTurn("Hello!", models.ActionMetadata{Action: models.ActionAnswer}),
		gate:  make(chan struct{}),
		calls: make(chan []models.Turn, 2),
	}
	cs, eb := startService(t, ex)

	if !cs.Submit("hi") {
		t.Fatal("first Submit() = false")
	}
	if cs.Submit("hi") {
		t.Fatal("second Submit() accepted while in flight")
	}

	sent := <-ex.calls
	if len(sent) != 2 {
		t.Errorf("exchanger saw %d turns, want 2", len(sent))
	}
	close(ex.gate)

	state := waitForState(t, eb, idleWith(3))
	if state.Turns[1].Text != "hi" || state.Turns[2].Text != "Hello!" {
		t.Errorf("transcript = %+v", state.Turns)
	}
	select {
	case extra := <-ex.calls:
		t.Errorf("unexpected second exchange with %d turns", len(extra))
	default:
	}
}

func TestSubmitIgnoresBlankInput(t *testing.T) {
	cs, eb := startService(t, &fakeExchanger{err: errors.New("should not be called")})

	for _, input := range []string{"", "   ", "\n\t"} {
		if cs.Submit(input) {
			t.Errorf("Submit(%q) = true", input)
		}
	}
	state := waitForState(t, eb, idleWith(1))
	if len(state.Turns) != 1 {
		t.Errorf("transcript = %+v", state.Turns)
	}
}

func TestSubmitEventFromUI(t *testing.T) {
	ex := &fakeExchanger{
		reply: models.NewAssistantTurn("Which order?", models.ActionMetadata{
			Action:       models.ActionClarify,
			IsClarifying: true,
		}),
	}
	_, eb := startService(t, ex)

	if err := eb.SendToCore(eventbus.SubmitEvent{Input: "I want a refund"}); err != nil {
		t.Fatalf("SendToCore() error = %v", err)
	}

	accepted := waitForState(t, eb, func(s eventbus.StateUpdateEvent) bool { return s.InputConsumed })
	if !accepted.InFlight || accepted.PendingInput != "" {
		t.Errorf("accepted state = %+v", accepted)
	}

	state := waitForState(t, eb, idleWith(3))
	if !state.Turns[2].IsClarifying {
		t.Errorf("reply = %+v", state.Turns[2])
	}
}

func TestCheckHealth(t *testing.T) {
	tests := []struct {
		name string
		ex   exchange.Exchanger
		want models.ServiceHealth
	}{
		{name: "online", ex: &fakePinger{}, want: models.HealthOnline},
		{name: "offline", ex: &fakePinger{pingErr: errors.New("refused")}, want: models.HealthOffline},
		{name: "direct", ex: &fakeExchanger{}, want: models.HealthDirect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, eb := startService(t, tt.ex)
			if err := eb.SendToCore(eventbus.CheckHealthEvent{}); err != nil {
				t.Fatalf("SendToCore() error = %v", err)
			}

			timeout := time.After(2 * time.Second)
			for {
				select {
				case event := <-eb.CoreToUI():
					if health, ok := event.(eventbus.HealthUpdateEvent); ok {
						if health.Health != tt.want {
							t.Errorf("Health = %v, want %v", health.Health, tt.want)
						}
						return
					}
				case <-timeout:
					t.Fatal("timed out waiting for health update")
				}
			}
		})
	}
}
