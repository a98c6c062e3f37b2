// Package passage splits knowledge items into overlapping fixed-size
// text chunks suitable for lexical indexing.
package passage

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/zraval/portfolio-assistant/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per passage.
const DefaultChunkSize = 420

// DefaultOverlap is the default number of overlapping characters
// between consecutive passages.
const DefaultOverlap = 60

var whitespaceRe = regexp.MustCompile(`\s+`)

// Builder splits item content into fixed-size overlapping passages.
type Builder struct {
	chunkSize int
	overlap   int
}

// Option configures the passage builder.
type Option func(*Builder)

// WithChunkSize sets the passage size in characters.
func WithChunkSize(size int) Option {
	return func(b *Builder) {
		if size > 0 {
			b.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between passages in characters.
func WithOverlap(overlap int) Option {
	return func(b *Builder) {
		if overlap >= 0 {
			b.overlap = overlap
		}
	}
}

// New creates a new passage builder with the given options.
func New(opts ...Option) *Builder {
	b := &Builder{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(b)
	}

	// Overlap must leave room to advance
	if b.overlap >= b.chunkSize {
		b.overlap = b.chunkSize / 4
	}

	return b
}

// Build splits every item into passages. Chunk boundaries are computed
// over whitespace-collapsed trimmed text and are deterministic for a
// given input. An item with empty content still yields exactly one
// empty passage, so it stays indexed and can match on title or tags.
func (b *Builder) Build(items []*domain.KnowledgeItem) []domain.Passage {
	var out []domain.Passage
	for _, it := range items {
		out = append(out, b.split(it)...)
	}
	return out
}

func (b *Builder) split(it *domain.KnowledgeItem) []domain.Passage {
	text := strings.TrimSpace(whitespaceRe.ReplaceAllString(it.Text(), " "))

	base := domain.Passage{
		Item:  it,
		Type:  it.Type,
		Title: it.DisplayTitle(),
		Href:  it.Href,
		Tags:  it.Tags,
		FAQ:   it.FAQ,
	}

	if text == "" {
		p := base
		p.ID = uuid.New().String()
		return []domain.Passage{p}
	}

	runes := []rune(text)
	step := b.chunkSize - b.overlap

	var passages []domain.Passage
	for i := 0; i < len(runes); i += step {
		end := i + b.chunkSize
		if end > len(runes) {
			end = len(runes)
		}

		p := base
		p.ID = uuid.New().String()
		p.Content = string(runes[i:end])
		p.ChunkIndex = i / step
		passages = append(passages, p)

		// The final chunk reaches the text end
		if i+b.chunkSize >= len(runes) {
			break
		}
	}
	return passages
}
