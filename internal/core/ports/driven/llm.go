package driven

import (
	"context"

	"github.com/tecfag/rag/internal/core/domain"
)

// CompletionService produces a text completion from a prompt plus
// conversation history.
//
// Implementations may include:
//   - Gemini (gemini-1.5-flash)
//   - Groq (llama-3.3-70b-versatile)
//   - A failover decorator chaining a primary and a fallback provider
type CompletionService interface {
	// Complete generates a completion for the prompt given the prior
	// conversation history.
	Complete(ctx context.Context, prompt string, history []ChatMessage, opts CompleteOptions) (*domain.Completion, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight
	// request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ChatMessage is a single message in a conversation.
type ChatMessage struct {
	// Role is one of "user" or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// CompleteOptions configures text generation behaviour.
type CompleteOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}
