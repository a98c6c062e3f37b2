// Package lexical provides a fuzzy, multi-field, weighted search index
// over passages. Scores are normalised to [0,1] with lower meaning a
// better match; field weights and the match threshold follow the
// retrieval configuration of the chat pipeline.
package lexical

import (
	"math"
	"sort"
	"strings"

	"github.com/zraval/portfolio-assistant/internal/core/domain"
	"github.com/zraval/portfolio-assistant/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.PassageIndex = (*Index)(nil)

// DefaultThreshold is the loose match cutoff: passages scoring above it
// are dropped. Tuned permissive so short or partial queries still
// surface candidates.
const DefaultThreshold = 0.5

// DefaultMinMatchLength is the minimum matchable token length.
const DefaultMinMatchLength = 2

// Field weights. Content and the FAQ question dominate; tags only
// nudge.
const (
	weightTitle   = 0.4
	weightContent = 0.9
	weightTags    = 0.3
	weightFAQQ    = 0.9
	weightFAQA    = 0.7
)

// epsilon stands in for a perfect per-field score so the weighted
// combination never collapses to exactly zero.
const epsilon = 1e-3

// Index is an immutable search structure over a passage set.
type Index struct {
	passages  []domain.Passage
	fields    []entryFields
	threshold float64
	minMatch  int
}

// entryFields holds the lower-cased searchable text of one passage.
type entryFields struct {
	title   string
	content string
	tags    string
	faqQ    string
	faqA    string
}

// Option configures the index.
type Option func(*Index)

// WithThreshold sets the match score cutoff.
func WithThreshold(t float64) Option {
	return func(ix *Index) {
		if t > 0 {
			ix.threshold = t
		}
	}
}

// WithMinMatchLength sets the minimum matchable token length.
func WithMinMatchLength(n int) Option {
	return func(ix *Index) {
		if n > 0 {
			ix.minMatch = n
		}
	}
}

// New builds an index over the given passages. The index holds its own
// view of the searchable text; the passages themselves are not copied
// deeply and must not be mutated afterwards.
func New(passages []domain.Passage, opts ...Option) *Index {
	ix := &Index{
		passages:  passages,
		threshold: DefaultThreshold,
		minMatch:  DefaultMinMatchLength,
	}
	for _, opt := range opts {
		opt(ix)
	}

	ix.fields = make([]entryFields, len(passages))
	for i, p := range passages {
		f := entryFields{
			title:   strings.ToLower(p.Title),
			content: strings.ToLower(p.Content),
			tags:    strings.ToLower(strings.Join(p.Tags, " ")),
		}
		if p.FAQ != nil {
			f.faqQ = strings.ToLower(p.FAQ.Q)
			f.faqA = strings.ToLower(p.FAQ.A)
		}
		ix.fields[i] = f
	}
	return ix
}

// Len returns the number of indexed passages.
func (ix *Index) Len() int {
	return len(ix.passages)
}

// Search returns up to limit passages matching the query, sorted by
// ascending score. Ties keep index order, so rebuilding from the same
// passage set yields identical orderings.
func (ix *Index) Search(query string, limit int) []domain.SearchResult {
	tokens := tokenize(query, ix.minMatch)
	if len(tokens) == 0 {
		return nil
	}

	var results []domain.SearchResult
	for i := range ix.passages {
		score, matched := ix.score(tokens, ix.fields[i])
		if !matched || score > ix.threshold {
			continue
		}
		results = append(results, domain.SearchResult{
			Passage: ix.passages[i],
			Score:   score,
		})
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score < results[b].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// score combines per-field token scores into one passage score using
// weight-normalised exponents: fields with higher weight pull the
// combined score further toward their own. Unmatched fields contribute
// a neutral 1.
func (ix *Index) score(tokens []string, f entryFields) (float64, bool) {
	type fieldMatch struct {
		text   string
		weight float64
	}
	fields := []fieldMatch{
		{f.title, weightTitle},
		{f.content, weightContent},
		{f.tags, weightTags},
	}
	if f.faqQ != "" || f.faqA != "" {
		fields = append(fields,
			fieldMatch{f.faqQ, weightFAQQ},
			fieldMatch{f.faqA, weightFAQA},
		)
	}

	var totalWeight float64
	for _, fm := range fields {
		totalWeight += fm.weight
	}

	combined := 1.0
	matched := false
	for _, fm := range fields {
		s := fieldScore(tokens, fm.text)
		if s < 1 {
			matched = true
		}
		if s < epsilon {
			s = epsilon
		}
		combined *= math.Pow(s, fm.weight/totalWeight)
	}
	return combined, matched
}

// fieldScore averages the per-token approximate match scores over one
// field. 0 means every token occurs verbatim; 1 means nothing matched.
// Location within the field is ignored.
func fieldScore(tokens []string, text string) float64 {
	if text == "" {
		return 1
	}
	var sum float64
	for _, t := range tokens {
		sum += tokenScore(t, text)
	}
	return sum / float64(len(tokens))
}

// tokenScore is the normalised edit distance of the best approximate
// occurrence of token anywhere in text.
func tokenScore(token, text string) float64 {
	if strings.Contains(text, token) {
		return 0
	}
	d := approxDistance(token, text)
	s := float64(d) / float64(len([]rune(token)))
	if s > 1 {
		s = 1
	}
	return s
}

// approxDistance computes the minimal edit distance of pattern against
// any substring of text (Sellers' algorithm: free start, minimum over
// all end positions).
func approxDistance(pattern, text string) int {
	p := []rune(pattern)
	t := []rune(text)

	prev := make([]int, len(p)+1)
	cur := make([]int, len(p)+1)
	for i := range prev {
		prev[i] = i
	}

	best := len(p)
	for j := 1; j <= len(t); j++ {
		cur[0] = 0 // matches may begin anywhere
		for i := 1; i <= len(p); i++ {
			cost := 1
			if p[i-1] == t[j-1] {
				cost = 0
			}
			cur[i] = min3(prev[i]+1, cur[i-1]+1, prev[i-1]+cost)
		}
		if cur[len(p)] < best {
			best = cur[len(p)]
		}
		prev, cur = cur, prev
	}
	return best
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// tokenize splits the query into lower-cased tokens, keeping the
// characters meaningful in technology names (#, +) and dropping tokens
// shorter than minMatch.
func tokenize(query string, minMatch int) []string {
	lower := strings.ToLower(query)
	raw := strings.FieldsFunc(lower, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= '0' && r <= '9':
			return false
		case r == '#' || r == '+':
			return false
		}
		return true
	})

	var tokens []string
	for _, t := range raw {
		if len([]rune(t)) >= minMatch {
			tokens = append(tokens, t)
		}
	}
	return tokens
}
