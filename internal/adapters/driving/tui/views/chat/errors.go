package chat

import "errors"

// Error definitions for the chat view.
var (
	// ErrNoAssistant indicates that no assistant service was provided.
	ErrNoAssistant = errors.New("assistant service is required")
)
