package knowledge

import (
	"context"
	"fmt"
	"os"

	"github.com/zraval/portfolio-assistant/internal/core/domain"
	"github.com/zraval/portfolio-assistant/internal/core/ports/driven"
)

var _ driven.KnowledgeSource = (*PageSource)(nil)

// PageSource scrapes knowledge items straight from the portfolio HTML
// page. It yields a coarser view than the JSON document and is used as
// a fallback when the document is unavailable.
type PageSource struct {
	path string
}

// NewPageSource creates a source reading the HTML page at path.
func NewPageSource(path string) *PageSource {
	return &PageSource{path: path}
}

// Name identifies the source in logs.
func (s *PageSource) Name() string { return "page" }

// Load scrapes the page into knowledge items.
func (s *PageSource) Load(_ context.Context) ([]*domain.KnowledgeItem, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("read page: %w", err)
	}
	return ScrapePage(data)
}
