package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/quillchat/quill/pkg/ai/provider"
)

// Kind is the registry key for this backend
const Kind = "anthropic"

// defaultMaxTokens is used when neither the request nor the model sets one;
// the Anthropic API requires max_tokens on every call.
const defaultMaxTokens = 4096

// Service implements the ChatService interface for Anthropic Claude
type Service struct {
	client anthropic.Client
}

// New creates a new Anthropic-backed chat service
func New(cfg provider.Config) (provider.ChatService, error) {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}

	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Service{
		client: anthropic.NewClient(opts...),
	}, nil
}

// Kind returns the backend kind
func (s *Service) Kind() string {
	return Kind
}

// Complete implements the Complete method of the ChatService interface
func (s *Service) Complete(ctx context.Context, req provider.CompletionRequest) (*provider.CompletionResponse, error) {
	msgReq := anthropic.MessageNewParams{
		Model:    anthropic.Model(req.Model),
		Messages: convertMessages(req.Messages),
	}

	if req.System != "" {
		msgReq.System = []anthropic.TextBlockParam{
			{Text: req.System},
		}
	}

	if req.MaxTokens > 0 {
		msgReq.MaxTokens = int64(req.MaxTokens)
	} else {
		msgReq.MaxTokens = int64(defaultMaxTokens)
	}

	if req.Temperature > 0 {
		msgReq.Temperature = anthropic.Float(req.Temperature)
	}

	resp, err := s.client.Messages.New(ctx, msgReq)
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	var content strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}

	if content.Len() == 0 {
		return nil, provider.ErrEmptyResponse
	}

	return &provider.CompletionResponse{
		Content:      content.String(),
		Model:        string(resp.Model),
		FinishReason: string(resp.StopReason),
		Usage: provider.Usage{
			PromptTokens:     int(resp.Usage.InputTokens),
			CompletionTokens: int(resp.Usage.OutputTokens),
			TotalTokens:      int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
		},
	}, nil
}

func convertMessages(messages []provider.Message) []anthropic.MessageParam {
	result := make([]anthropic.MessageParam, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case provider.RoleAssistant:
			result = append(result, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	return result
}
