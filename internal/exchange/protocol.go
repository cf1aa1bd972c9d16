package exchange

import (
	"context"
	"encoding/json"

	"github.com/Rorical/BooklyDesk/internal/models"
)

// Exchanger performs one round trip for a transcript and returns the assistant turn.
type Exchanger interface {
	Exchange(ctx context.Context, turns []models.Turn) (models.Turn, error)
}

// Message is one transcript entry on the wire.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the outbound payload.
type Request struct {
	ConversationID string    `json:"conversation_id"`
	Messages       []Message `json:"messages"`
}

// ReplyMessage is the reply inside a Response. Content is a pointer so that a null
// or missing content can be told apart from an empty string.
type ReplyMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

// ActionMetadata is the wire form of models.ActionMetadata.
type ActionMetadata struct {
	Action               string  `json:"action"`
	ToolName             *string `json:"tool_name"`
	IsClarifyingQuestion *bool   `json:"is_clarifying_question,omitempty"`
}

// Response is the inbound payload.
type Response struct {
	ConversationID string          `json:"conversation_id,omitempty"`
	Message        *ReplyMessage   `json:"message"`
	ActionMetadata *ActionMetadata `json:"action_metadata"`
}

// BuildRequest converts the transcript into the outbound payload. Only speaker and
// text travel; annotations stay local.
func BuildRequest(sessionID string, turns []models.Turn) Request {
	messages := make([]Message, 0, len(turns))
	for _, turn := range turns {
		messages = append(messages, Message{
			Role:    turn.Speaker.String(),
			Content: turn.Text,
		})
	}
	return Request{
		ConversationID: sessionID,
		Messages:       messages,
	}
}

// ParseResponse validates a response body and maps it into an assistant turn.
func ParseResponse(body []byte) (models.Turn, error) {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return models.Turn{}, &ProtocolError{Field: "body", Err: err}
	}
	return resp.Turn()
}

// Turn maps a decoded response into an assistant turn, rejecting any response that
// lacks the reply content or the action.
func (r Response) Turn() (models.Turn, error) {
	if r.Message == nil {
		return models.Turn{}, &ProtocolError{Field: "message", Err: errMissing}
	}
	if r.Message.Content == nil {
		return models.Turn{}, &ProtocolError{Field: "message.content", Err: errMissing}
	}
	if r.ActionMetadata == nil {
		return models.Turn{}, &ProtocolError{Field: "action_metadata", Err: errMissing}
	}
	if r.ActionMetadata.Action == "" {
		return models.Turn{}, &ProtocolError{Field: "action_metadata.action", Err: errMissing}
	}

	meta := models.ActionMetadata{Action: r.ActionMetadata.Action}
	if r.ActionMetadata.ToolName != nil {
		meta.ToolName = *r.ActionMetadata.ToolName
	}
	if r.ActionMetadata.IsClarifyingQuestion != nil {
		meta.IsClarifying = *r.ActionMetadata.IsClarifyingQuestion
	}
	return models.NewAssistantTurn(*r.Message.Content, meta), nil
}
