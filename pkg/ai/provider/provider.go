package provider

import "context"

// ChatService defines the interface that all chat backends must implement
type ChatService interface {
	// Complete produces a full response for one turn (blocking)
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// Kind returns the backend kind this service was constructed from
	Kind() string
}

// CompletionRequest contains all parameters for one completion call
type CompletionRequest struct {
	// Model is the backend-specific model identifier
	Model string `json:"model"`

	// System is an optional system prompt
	System string `json:"system,omitempty"`

	// Messages is the conversation history, oldest first
	Messages []Message `json:"messages"`

	// Temperature controls randomness
	Temperature float64 `json:"temperature,omitempty"`

	// MaxTokens is the maximum number of tokens to generate
	MaxTokens int `json:"max_tokens,omitempty"`
}

// CompletionResponse is the unified response shape across backends
type CompletionResponse struct {
	// Content is the raw text of the reply
	Content string `json:"content"`

	// Model is the model that actually served the request
	Model string `json:"model"`

	// FinishReason indicates why generation stopped
	FinishReason string `json:"finish_reason"`

	// Usage records token accounting for the call
	Usage Usage `json:"usage"`
}

// Usage records token accounting information
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Role identifies the author of a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message represents a single conversational message
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
