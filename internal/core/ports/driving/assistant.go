package driving

import (
	"context"

	"github.com/zraval/portfolio-assistant/internal/core/domain"
)

// Assistant answers visitor questions about the site owner from the
// indexed knowledge base, optionally consulting a remote completion
// service.
type Assistant interface {
	// Answer runs the full retrieval-and-composition pipeline for one
	// query. onDelta, when non-nil, receives remote answer fragments in
	// arrival order; cached and locally composed answers arrive in one
	// piece. The returned answer is final (canonicalised, repaired,
	// cited) regardless of path.
	Answer(ctx context.Context, query string, onDelta func(delta string)) (domain.Answer, error)

	// Ready reports whether a knowledge index is available. When false
	// the assistant is in reduced mode and Answer returns the local
	// notice instead of searching.
	Ready() bool

	// Greeting returns the session-opening message, varied by time of
	// day and whether the user has chatted before.
	Greeting() string

	// Suggestions returns up to six deduplicated suggestion chips
	// (recent queries, top projects, core intents, guided prompts).
	Suggestions() []string

	// History returns the session's conversation turns in order.
	History() []domain.ConversationTurn

	// KnowledgeBase exposes the current knowledge base, or nil in
	// reduced mode.
	KnowledgeBase() *domain.KnowledgeBase
}
