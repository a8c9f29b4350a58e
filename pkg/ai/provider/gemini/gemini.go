package gemini

import (
	"context"
	"fmt"

	"github.com/quillchat/quill/pkg/ai/provider"
	"google.golang.org/genai"
)

// Kind is the registry key for this backend
const Kind = "gemini"

// Service implements the ChatService interface for Google Gemini
type Service struct {
	client *genai.Client
}

// New creates a new Gemini-backed chat service
func New(cfg provider.Config) (provider.ChatService, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Service{client: client}, nil
}

// Kind returns the backend kind
func (s *Service) Kind() string {
	return Kind
}

// Complete implements the Complete method of the ChatService interface
func (s *Service) Complete(ctx context.Context, req provider.CompletionRequest) (*provider.CompletionResponse, error) {
	config := &genai.GenerateContentConfig{}

	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(req.System)},
		}
	}

	contents := convertMessages(req.Messages)

	resp, err := s.client.Models.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini api error: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, provider.ErrEmptyResponse
	}

	candidate := resp.Candidates[0]

	response := &provider.CompletionResponse{
		Model:        req.Model,
		FinishReason: string(candidate.FinishReason),
	}

	if resp.UsageMetadata != nil {
		response.Usage = provider.Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}

	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			response.Content += part.Text
		}
	}

	if response.Content == "" {
		return nil, provider.ErrEmptyResponse
	}

	return response, nil
}

func convertMessages(messages []provider.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))

	for _, msg := range messages {
		role := genai.Role(genai.RoleUser)
		if msg.Role == provider.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}

	return contents
}
