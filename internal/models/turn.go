package models

import (
	"fmt"

	"github.com/google/uuid"
)

// Speaker identifies who authored a turn.
type Speaker int

const (
	User Speaker = iota
	Assistant
)

// Action tags reported by the assistant service. The field is free-form, these are
// the values the console knows how to annotate.
const (
	ActionAnswer   = "answer"
	ActionCallTool = "call_tool"
	ActionClarify  = "ask_clarification"
	ActionError    = "error"
)

const (
	GreetingText = "Hello, this is Bookly Support. How may I assist you with your order or account today?"
	ApologyText  = "I was unable to reach the Bookly support service. Please try again in a moment."
)

func (s Speaker) String() string {
	switch s {
	case User:
		return "user"
	case Assistant:
		return "assistant"
	}
	return fmt.Sprintf("speaker(%d)", int(s))
}

func (s Speaker) MarshalText() ([]byte, error) {
	switch s {
	case User, Assistant:
		return []byte(s.String()), nil
	}
	return nil, fmt.Errorf("unknown speaker %d", int(s))
}

func (s *Speaker) UnmarshalText(text []byte) error {
	parsed, err := ParseSpeaker(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSpeaker maps a wire role onto a Speaker.
func ParseSpeaker(role string) (Speaker, error) {
	switch role {
	case "user":
		return User, nil
	case "assistant":
		return Assistant, nil
	}
	return 0, fmt.Errorf("unknown role %q", role)
}

// ActionMetadata is the assistant's annotation of its own reply.
type ActionMetadata struct {
	Action       string
	ToolName     string // empty when the service reported none
	IsClarifying bool
}

// Turn is one utterance in the transcript. Turns are values; the store never hands
// out references to the ones it holds.
type Turn struct {
	ID           string  `json:"id" yaml:"id"`
	Speaker      Speaker `json:"speaker" yaml:"speaker"`
	Text         string  `json:"text" yaml:"text"`
	Action       string  `json:"action,omitempty" yaml:"action,omitempty"`
	ToolName     string  `json:"tool_name,omitempty" yaml:"tool_name,omitempty"`
	IsClarifying bool    `json:"is_clarifying,omitempty" yaml:"is_clarifying,omitempty"`
}

func newTurnID() string {
	return uuid.NewString()
}

// NewUserTurn builds a user turn. The caller is responsible for trimming.
func NewUserTurn(text string) Turn {
	return Turn{
		ID:      newTurnID(),
		Speaker: User,
		Text:    text,
	}
}

// NewAssistantTurn builds an assistant turn annotated with meta.
func NewAssistantTurn(text string, meta ActionMetadata) Turn {
	return Turn{
		ID:           newTurnID(),
		Speaker:      Assistant,
		Text:         text,
		Action:       meta.Action,
		ToolName:     meta.ToolName,
		IsClarifying: meta.IsClarifying,
	}
}

// GreetingTurn is the seed turn every conversation starts with.
func GreetingTurn() Turn {
	return NewAssistantTurn(GreetingText, ActionMetadata{Action: ActionAnswer})
}

// ErrorTurn is the synthesized reply for any failed exchange.
func ErrorTurn() Turn {
	return NewAssistantTurn(ApologyText, ActionMetadata{Action: ActionError})
}

func (t Turn) IsError() bool {
	return t.Speaker == Assistant && t.Action == ActionError
}

// HasTool reports whether the turn should carry a tool badge.
func (t Turn) HasTool() bool {
	return t.Action == ActionCallTool && t.ToolName != ""
}
