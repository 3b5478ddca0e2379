// Package llm implements the language-model collaborator against a locally
// hosted Ollama server, using its OpenAI-compatible chat completions API.
package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/smolblud/forge/internal/domain"
	"github.com/smolblud/forge/internal/domain/models"
)

// Client generates single non-streaming completions. It implements
// services.Generator.
type Client struct {
	model  string
	client openai.Client
}

// NewClient creates a chat client against an OpenAI-compatible endpoint.
// For Ollama, baseURL is the server address; "/v1" is appended if missing.
func NewClient(baseURL, model string) *Client {
	if !strings.HasSuffix(baseURL, "/v1") {
		baseURL = strings.TrimSuffix(baseURL, "/") + "/v1"
	}

	return &Client{
		model: model,
		client: openai.NewClient(
			option.WithBaseURL(baseURL),
			// Ollama ignores the key but the SDK requires one.
			option.WithAPIKey("ollama"),
		),
	}
}

// Generate sends the message sequence and returns the normalized response.
func (c *Client) Generate(ctx context.Context, messages []models.Message) (models.ModelResponse, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: toParams(messages),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return models.ModelResponse{}, fmt.Errorf("chat completion: %w", domain.ErrTimeout)
		}
		return models.ModelResponse{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return models.ModelResponse{}, fmt.Errorf("chat completion: empty choices")
	}

	return models.ModelResponse{Text: resp.Choices[0].Message.Content}, nil
}

func toParams(messages []models.Message) []openai.ChatCompletionMessageParamUnion {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case "system":
			params = append(params, openai.SystemMessage(m.Content))
		case models.RoleAssistant:
			params = append(params, openai.ChatCompletionMessageParamOfAssistant(m.Content))
		default:
			params = append(params, openai.UserMessage(m.Content))
		}
	}
	return params
}
