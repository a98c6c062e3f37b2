package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingQuery indicates a chat request without a query string.
	ErrMissingQuery = errors.New("missing query")

	// ErrLLMUnavailable indicates the completion service is not
	// configured (missing credential). This is definitive: callers must
	// not retry, only fall back.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrUpstream indicates the remote completion endpoint failed
	// (non-success status, malformed stream, network error).
	ErrUpstream = errors.New("upstream completion failed")

	// ErrAnswerRejected indicates the remote answer was discarded by a
	// quality guard and the local composer should be used instead.
	ErrAnswerRejected = errors.New("remote answer rejected")

	// ErrKnowledgeUnavailable indicates no knowledge source yielded any
	// items; the assistant runs in reduced mode without an index.
	ErrKnowledgeUnavailable = errors.New("knowledge unavailable")
)
