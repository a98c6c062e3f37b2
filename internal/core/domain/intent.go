package domain

import "regexp"

// IntentRule maps query patterns to a preferred knowledge item or a
// canned answer. Rules come from built-in tables and an optional
// externally supplied document, and are immutable once loaded.
type IntentRule struct {
	// Patterns are the compiled query regexes. A rule matches when any
	// pattern matches.
	Patterns []*regexp.Regexp

	// Name resolves the rule to an item by title substring.
	Name string

	// Href resolves the rule to an item by exact anchor/URL.
	Href string

	// Answer is the canned text used when no item resolves.
	Answer string

	// Tags are attached to a synthesized item.
	Tags []string

	// Prompt is an optional suggestion chip shown to the user.
	Prompt string
}

// Matches reports whether any of the rule's patterns match the query.
func (r IntentRule) Matches(query string) bool {
	for _, p := range r.Patterns {
		if p != nil && p.MatchString(query) {
			return true
		}
	}
	return false
}
