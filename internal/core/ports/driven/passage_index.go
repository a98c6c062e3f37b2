package driven

import "github.com/zraval/portfolio-assistant/internal/core/domain"

// PassageIndex is a fuzzy, multi-field, weighted search structure over
// passages. It is built once per knowledge load and is immutable
// afterwards; rebuilding from an unchanged passage set must yield
// identical result ordering for a fixed query.
type PassageIndex interface {
	// Search returns up to limit matches sorted by ascending score
	// (best first). Scores are in [0,1]; lower is better.
	Search(query string, limit int) []domain.SearchResult

	// Len returns the number of indexed passages.
	Len() int
}

// IndexBuilder constructs a PassageIndex from a passage set. The
// session rebuilds through it whenever the knowledge base changes.
type IndexBuilder func(passages []domain.Passage) PassageIndex
