package driven

import (
	"context"

	"github.com/zraval/portfolio-assistant/internal/core/domain"
)

// KnowledgeSource produces the ordered knowledge items for a session.
// Implementations include the JSON knowledge document and the degraded
// page-scrape extractor; the pipeline must not be able to tell which
// one fed it.
type KnowledgeSource interface {
	// Name identifies the source in logs ("document", "page", ...).
	Name() string

	// Load produces the ordered knowledge items. An empty slice with a
	// nil error means the source was readable but yielded nothing; the
	// caller decides whether to degrade further.
	Load(ctx context.Context) ([]*domain.KnowledgeItem, error)
}

// RawKnowledgeProvider exposes the unparsed knowledge document, used by
// the knowledge-read endpoint. Optional: sources without a raw form
// (page scraping) do not implement it.
type RawKnowledgeProvider interface {
	// Raw returns the knowledge document bytes as served to clients.
	Raw(ctx context.Context) ([]byte, error)
}

// IntentSource loads externally supplied intent rules. A missing
// document is not an error: implementations return (nil, nil) and the
// guided-intent stage is simply skipped.
type IntentSource interface {
	Load(ctx context.Context) ([]domain.IntentRule, error)
}
