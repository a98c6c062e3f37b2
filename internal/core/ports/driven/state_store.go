package driven

// StateStore persists the small, non-durable client state used only to
// tailor the greeting and suggestion chips: a "seen chat" flag and a
// short list of recent free-text queries.
type StateStore interface {
	// Seen reports whether the user has opened a chat session before.
	Seen() bool

	// MarkSeen records that a chat session has been opened.
	MarkSeen()

	// RecentQueries returns the most recent queries, newest first.
	RecentQueries() []string

	// AddRecentQuery records a query, deduplicating and keeping only a
	// short trailing window.
	AddRecentQuery(query string)
}
