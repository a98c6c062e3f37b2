package driven

import "context"

// CompletionService produces answers from a hosted language model.
// This is an optional service - when nil, every query is answered by
// the local composer.
type CompletionService interface {
	// Chat conducts a multi-turn conversation and returns the full
	// answer text.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// StreamChat conducts the same conversation but delivers the answer
	// incrementally. onDelta is invoked for each text fragment in
	// arrival order; the concatenation of all fragments is returned
	// once the stream completes.
	StreamChat(ctx context.Context, messages []ChatMessage, opts ChatOptions, onDelta func(delta string)) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string `json:"role"`

	// Content is the message text.
	Content string `json:"content"`
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// Model overrides the service's default model when non-empty.
	Model string

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64

	// TopP restricts nucleus sampling when > 0.
	TopP float64
}
