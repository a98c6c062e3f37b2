package driven

import "github.com/zraval/portfolio-assistant/internal/core/domain"

// AnswerCache memoises rendered answers for the session's lifetime.
// Keys are normalised (lower-cased, trimmed) query strings; there is no
// eviction, which is acceptable for a bounded session. It is consulted
// before invoking the remote orchestrator and populated only on
// orchestrator success.
type AnswerCache interface {
	// Get returns the cached answer for the query, if any.
	Get(query string) (domain.Answer, bool)

	// Set stores the answer under the normalised query.
	Set(query string, answer domain.Answer)

	// Len returns the number of cached entries.
	Len() int
}
