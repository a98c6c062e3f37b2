package services

import (
	"fmt"
	"strings"

	"github.com/zraval/portfolio-assistant/internal/core/domain"
	"github.com/zraval/portfolio-assistant/internal/core/ports/driven"
	"github.com/zraval/portfolio-assistant/internal/render"
)

// PromptSource is one numbered grounding source sent to the model.
type PromptSource struct {
	Title string
	URL   string
	Text  string
}

// SourcesFromItems converts context items to prompt sources.
func SourcesFromItems(items []*domain.KnowledgeItem) []PromptSource {
	sources := make([]PromptSource, 0, len(items))
	for _, it := range items {
		sources = append(sources, PromptSource{
			Title: it.DisplayTitle(),
			URL:   it.Href,
			Text:  it.Text(),
		})
	}
	return sources
}

// FormatSources renders the numbered source block of the user prompt.
func FormatSources(sources []PromptSource) string {
	parts := make([]string, 0, len(sources))
	for i, s := range sources {
		parts = append(parts, fmt.Sprintf("#%d Title: %s\nURL: %s\nText: %s", i+1, s.Title, s.URL, s.Text))
	}
	return strings.Join(parts, "\n\n")
}

// BuildChatMessages assembles the full message sequence: the grounding
// system prompt, the trailing history window, then the user question
// with its sources.
func BuildChatMessages(systemPrompt, query string, sources []PromptSource, history []domain.ConversationTurn) []driven.ChatMessage {
	messages := make([]driven.ChatMessage, 0, len(history)+2)
	messages = append(messages, driven.ChatMessage{Role: "system", Content: systemPrompt})
	for _, turn := range domain.TailTurns(history, domain.HistoryWindow) {
		messages = append(messages, driven.ChatMessage{Role: string(turn.Role), Content: turn.Content})
	}
	messages = append(messages, driven.ChatMessage{
		Role:    "user",
		Content: fmt.Sprintf("User Question: %s\n\nSources:\n%s", query, FormatSources(sources)),
	})
	return messages
}

// Citation is one entry of the sources footer and of the JSON chat
// response.
type Citation struct {
	Title string `json:"title"`
	Href  string `json:"href,omitempty"`
}

// MaxCitations caps the sources footer length.
const MaxCitations = 4

// Citations derives the footer entries from context items: non-FAQ
// items first, deduplicated by title and href, capped at MaxCitations.
func Citations(items []*domain.KnowledgeItem) []Citation {
	prioritized := make([]*domain.KnowledgeItem, 0, len(items))
	for _, it := range items {
		if it.Type != domain.ItemFAQ {
			prioritized = append(prioritized, it)
		}
	}
	for _, it := range items {
		if it.Type == domain.ItemFAQ {
			prioritized = append(prioritized, it)
		}
	}

	seen := make(map[string]bool, len(prioritized))
	var cites []Citation
	for _, it := range prioritized {
		key := it.DisplayTitle() + "|" + it.Href
		if seen[key] {
			continue
		}
		seen[key] = true
		cites = append(cites, Citation{Title: it.DisplayTitle(), Href: it.Href})
		if len(cites) == MaxCitations {
			break
		}
	}
	return cites
}

// CitationFooter renders the numbered sources footer, or "" when there
// is nothing to cite.
func CitationFooter(cites []Citation) string {
	if len(cites) == 0 {
		return ""
	}
	parts := make([]string, 0, len(cites))
	for i, c := range cites {
		label := fmt.Sprintf("[%d] %s", i+1, render.EscapeHTML(c.Title))
		if c.Href != "" {
			parts = append(parts, fmt.Sprintf("<a href='%s' target='%s' rel='noopener'>%s</a>",
				c.Href, linkTarget(c.Href), label))
		} else {
			parts = append(parts, label)
		}
	}
	return "<br><small>Sources: " + strings.Join(parts, " · ") + "</small>"
}

func citationFooterItems(items []*domain.KnowledgeItem) string {
	return CitationFooter(Citations(items))
}
