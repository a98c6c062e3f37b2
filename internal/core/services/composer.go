package services

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/zraval/portfolio-assistant/internal/core/domain"
	"github.com/zraval/portfolio-assistant/internal/render"
)

// snippetLength is the cap on list-entry snippets. Snippets containing
// a URL are never truncated so the link survives intact.
const snippetLength = 180

// maxComposedItems caps the number of items rendered per answer.
const maxComposedItems = 6

// noMatchAnswer is returned when retrieval yields nothing at all.
const noMatchAnswer = "I couldn't find an exact match. You can explore: " +
	"<a href='#projects'>Projects</a>, <a href='#skills'>Skills</a>, " +
	"or ask about the resume or contact."

var (
	contactQueryRe  = regexp.MustCompile(`(?i)contact|email|linkedin|github|kaggle|whatsapp|upwork`)
	showcaseQueryRe = regexp.MustCompile(`(?i)project|portfolio|work|showcase`)
)

// keywordWeights boost technical terms during project card ranking.
var keywordWeights = map[string]float64{
	"rag": 5, "llm": 4, "langchain": 4, "chatbot": 3,
	"ai": 2, "ml": 2, "nlp": 3, "computer vision": 3, "cv": 3, "deep learning": 3,
	"tensorflow": 4, "pytorch": 4, "fastapi": 3, "docker": 2, "kubernetes": 2,
}

// Composer renders answers from arbitrated results without consulting
// the remote model. It owns the offline rendering rules: snippets,
// anchors, media, project cards and the job-fit digest.
type Composer struct {
	kb *domain.KnowledgeBase
}

// NewComposer creates a composer over the knowledge base.
func NewComposer(kb *domain.KnowledgeBase) *Composer {
	return &Composer{kb: kb}
}

// Compose renders the local answer for the query from arbitrated
// results.
func (c *Composer) Compose(query string, results []domain.SearchResult) domain.Answer {
	if len(results) == 0 {
		return localAnswer(noMatchAnswer)
	}

	items := make([]*domain.KnowledgeItem, 0, maxComposedItems)
	for _, r := range results {
		if it := r.Item(); it != nil {
			items = append(items, it)
		}
		if len(items) == maxComposedItems {
			break
		}
	}
	items = suppressFAQ(query, items)

	ql := strings.ToLower(query)

	if showcaseQueryRe.MatchString(ql) {
		if html := c.projectCards(ql, items); html != "" {
			return localAnswer(html)
		}
	}

	lis := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		title := render.EscapeHTML(it.DisplayTitle())
		raw := it.Text()
		snippet := raw
		if !strings.Contains(raw, "http") {
			snippet = truncate(raw, snippetLength)
		}
		safe := render.EscapeHTML(snippet)
		key := title + "|" + safe
		if seen[key] {
			continue
		}
		seen[key] = true
		if it.Href != "" {
			lis = append(lis, fmt.Sprintf("<li><a href='%s' target='%s' rel='noopener'>%s</a> — %s</li>",
				it.Href, linkTarget(it.Href), title, safe))
		} else {
			lis = append(lis, fmt.Sprintf("<li>%s — %s</li>", title, safe))
		}
	}

	if strings.Contains(ql, "resume") || strings.Contains(ql, "cv") {
		if resume := c.kb.FindType(domain.ItemResume); resume != nil {
			lis = append([]string{fmt.Sprintf("<li><a href='%s' download>Download resume</a></li>", resume.Href)}, lis...)
		}
	}
	if contactQueryRe.MatchString(ql) {
		if contact := c.kb.FindType(domain.ItemContact); contact != nil {
			lis = append([]string{fmt.Sprintf("<li><a href='#contact'>Contact section</a> — %s</li>",
				render.EscapeHTML(contact.Content))}, lis...)
		}
	}

	return localAnswer(c.mediaBlock(items) + "<ul>" + strings.Join(lis, "") + "</ul>")
}

// suppressFAQ drops FAQ items unless the query asks for FAQs or only
// FAQ items matched.
func suppressFAQ(query string, items []*domain.KnowledgeItem) []*domain.KnowledgeItem {
	if faqQueryRe.MatchString(query) {
		return items
	}
	hasOther := false
	for _, it := range items {
		if it.Type != domain.ItemFAQ {
			hasOther = true
			break
		}
	}
	if !hasOther {
		return items
	}
	out := items[:0:0]
	for _, it := range items {
		if it.Type != domain.ItemFAQ {
			out = append(out, it)
		}
	}
	return out
}

// mediaBlock renders the first filtered project's image or video ahead
// of the list.
func (c *Composer) mediaBlock(items []*domain.KnowledgeItem) string {
	for _, it := range items {
		if it.Type != domain.ItemProject || it.Media == nil {
			continue
		}
		m := it.Media
		if m.Image != "" {
			alt := it.Title
			if alt == "" {
				alt = "project image"
			}
			return fmt.Sprintf("<p><img src='%s' alt='%s'></p>", m.Image, render.EscapeHTML(alt))
		}
		if m.Video != "" {
			poster := ""
			if m.Poster != "" {
				poster = fmt.Sprintf(" poster='%s'", m.Poster)
			}
			return fmt.Sprintf("<p><video controls%s><source src='%s' type='video/mp4'></video></p>", poster, m.Video)
		}
		return ""
	}
	return ""
}

// projectCards renders up to three relevance-ranked project cards, or
// "" when no project is among the items.
func (c *Composer) projectCards(ql string, items []*domain.KnowledgeItem) string {
	var projects []*domain.KnowledgeItem
	for _, it := range items {
		if it.Type == domain.ItemProject {
			projects = append(projects, it)
		}
	}
	if len(projects) == 0 {
		return ""
	}

	sort.SliceStable(projects, func(i, j int) bool {
		return relevanceScore(projects[i], ql) > relevanceScore(projects[j], ql)
	})
	if len(projects) > 3 {
		projects = projects[:3]
	}

	var sb strings.Builder
	sb.WriteString("<div class='projects-container'><p>Here are some relevant projects:</p>")
	for _, p := range projects {
		title := p.Title
		if title == "" {
			title = "Project"
		}
		desc := p.Content
		if desc == "" {
			desc = "No description available"
		}
		sb.WriteString("<div class='project-card'><h4>")
		sb.WriteString(render.EscapeHTML(title))
		sb.WriteString("</h4><p>")
		sb.WriteString(render.EscapeHTML(desc))
		sb.WriteString("</p>")
		if p.Href != "" {
			sb.WriteString(fmt.Sprintf("<a href='%s' target='_blank' rel='noopener' class='project-link'>View Project →</a>", p.Href))
		}
		sb.WriteString("</div>")
	}
	sb.WriteString("</div>")
	return sb.String()
}

// relevanceScore ranks a project against the query terms: title hits
// weigh most, tags next, content least, with extra weight for known
// technical keywords.
func relevanceScore(it *domain.KnowledgeItem, ql string) float64 {
	title := strings.ToLower(it.Title)
	content := strings.ToLower(it.Content)
	tags := it.TagLine()

	var score float64
	for _, term := range strings.Fields(ql) {
		if strings.Contains(title, term) {
			score += 3
		}
		if strings.Contains(content, term) {
			score += 1
		}
		if strings.Contains(tags, term) {
			score += 2
		}
		if w, ok := keywordWeights[term]; ok {
			if strings.Contains(title, term) {
				score += w
			}
			if strings.Contains(content, term) {
				score += w * 0.5
			}
			if strings.Contains(tags, term) {
				score += w * 0.8
			}
		}
	}
	return score
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func linkTarget(href string) string {
	if strings.HasPrefix(href, "http") {
		return "_blank"
	}
	return "_self"
}

func localAnswer(html string) domain.Answer {
	return domain.Answer{
		HTML:   html,
		Plain:  render.PlainText(html),
		Source: domain.SourceKnowledgeBase,
	}
}
