package exchange

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/Rorical/BooklyDesk/internal/models"
)

const DefaultModel = "gpt-4o-mini"

const directSystemPrompt = "You are Bookly's formal and concise customer support agent. " +
	"You assist customers with order status, returns and refunds, and general policy " +
	"questions (shipping, refunds, password reset). Ask a clarifying question when you " +
	"are missing essential information such as an order id or email. Never invent " +
	"order ids or shipment events."

// OpenAIExchanger answers turns straight from an OpenAI-compatible chat completion
// endpoint, without a support service in between. Every reply is an answer.
type OpenAIExchanger struct {
	client  *openai.Client
	model   string
	baseURL string
}

func NewOpenAIExchanger(apiKey, baseURL, model string) *OpenAIExchanger {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIExchanger{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   model,
		baseURL: clientConfig.BaseURL,
	}
}

func (o *OpenAIExchanger) Exchange(ctx context.Context, turns []models.Turn) (models.Turn, error) {
	req := openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: chatMessages(turns),
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return models.Turn{}, o.classify(err)
	}
	if len(resp.Choices) == 0 {
		return models.Turn{}, &ProtocolError{Field: "choices", Err: errMissing}
	}

	message := resp.Choices[0].Message
	meta := models.ActionMetadata{Action: models.ActionAnswer}
	if len(message.ToolCalls) > 0 {
		meta.Action = models.ActionCallTool
		meta.ToolName = message.ToolCalls[0].Function.Name
	}
	return models.NewAssistantTurn(message.Content, meta), nil
}

func (o *OpenAIExchanger) classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &StatusError{Endpoint: o.baseURL, StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &StatusError{Endpoint: o.baseURL, StatusCode: reqErr.HTTPStatusCode, Body: fmt.Sprint(reqErr.Err)}
	}
	return &TransportError{Endpoint: o.baseURL, Err: err}
}

// chatMessages strips annotations the same way BuildRequest does, behind a system
// prompt that stands in for the support service's persona.
func chatMessages(turns []models.Turn) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(turns)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: directSystemPrompt,
	})
	for _, turn := range turns {
		role := openai.ChatMessageRoleUser
		if turn.Speaker == models.Assistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: turn.Text,
		})
	}
	return messages
}
