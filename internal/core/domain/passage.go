package domain

// Passage is a retrieval-sized slice of a knowledge item's content.
// Display metadata is copied from the parent so the index can match on
// it without chasing the back-reference; Item points at the parent and
// is never mutated.
type Passage struct {
	// ID is the unique identifier for the passage.
	ID string

	// Item is the read-only back-reference to the parent item.
	Item *KnowledgeItem

	// Type, Title, Href and Tags mirror the parent's display metadata.
	Type  ItemType
	Title string
	Href  string
	Tags  []string

	// FAQ mirrors the parent's question/answer pair for FAQ items.
	FAQ *FAQEntry

	// Content is this slice of the parent's normalised text.
	Content string

	// ChunkIndex is the 0-based position within the parent item.
	ChunkIndex int
}

// SearchResult is a ranked match from the lexical index or a
// heuristically injected item. Score is in [0,1]; lower is better.
// Heuristic injections carry the fixed score they were given.
type SearchResult struct {
	Passage Passage
	Score   float64
}

// Item returns the knowledge item behind the result.
func (r SearchResult) Item() *KnowledgeItem {
	return r.Passage.Item
}

// ItemResult wraps a whole knowledge item as a synthetic single-passage
// result, used when heuristics inject or replace matches.
func ItemResult(it *KnowledgeItem, score float64) SearchResult {
	return SearchResult{
		Passage: Passage{
			Item:    it,
			Type:    it.Type,
			Title:   it.DisplayTitle(),
			Href:    it.Href,
			Tags:    it.Tags,
			FAQ:     it.FAQ,
			Content: it.Text(),
		},
		Score: score,
	}
}
