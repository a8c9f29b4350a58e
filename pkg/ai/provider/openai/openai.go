package openai

import (
	"context"
	"fmt"

	"github.com/quillchat/quill/pkg/ai/provider"
	"github.com/sashabaranov/go-openai"
)

// Kind is the registry key for this backend. Any OpenAI-compatible endpoint
// (Fireworks, local gateways) is served by this backend with a BaseURL
// override.
const Kind = "openai"

// Service implements the ChatService interface for OpenAI-compatible APIs
type Service struct {
	client *openai.Client
}

// New creates a new OpenAI-backed chat service
func New(cfg provider.Config) (provider.ChatService, error) {
	clientConfig := openai.DefaultConfig(cfg.APIKey)

	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Service{
		client: openai.NewClientWithConfig(clientConfig),
	}, nil
}

// Kind returns the backend kind
func (s *Service) Kind() string {
	return Kind
}

// Complete implements the Complete method of the ChatService interface
func (s *Service) Complete(ctx context.Context, req provider.CompletionRequest) (*provider.CompletionResponse, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: convertMessages(req.Messages, req.System),
	}

	if req.Temperature > 0 {
		chatReq.Temperature = float32(req.Temperature)
	}

	if req.MaxTokens > 0 {
		chatReq.MaxTokens = req.MaxTokens
	}

	resp, err := s.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, provider.ErrEmptyResponse
	}

	choice := resp.Choices[0]

	return &provider.CompletionResponse{
		Content:      choice.Message.Content,
		Model:        resp.Model,
		FinishReason: string(choice.FinishReason),
		Usage: provider.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

func convertMessages(messages []provider.Message, system string) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, 0, len(messages)+1)

	if system != "" {
		result = append(result, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}

	for _, msg := range messages {
		result = append(result, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	return result
}
