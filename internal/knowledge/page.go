package knowledge

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/zraval/portfolio-assistant/internal/core/domain"
)

var resumeTextRe = regexp.MustCompile(`(?i)resume`)

// ScrapePage extracts knowledge items from a static portfolio page.
// It is a degraded fallback for when the JSON document is missing:
// headings and paragraphs become section items, the project gallery
// becomes project items, and mailto/profile links become a contact
// item.
func ScrapePage(data []byte) ([]*domain.KnowledgeItem, error) {
	root, err := html.Parse(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	var items []*domain.KnowledgeItem
	items = append(items, scrapeAbout(root)...)
	items = append(items, scrapeSkills(root)...)
	items = append(items, scrapeProjects(root)...)
	items = append(items, scrapeContact(root)...)
	items = append(items, scrapeResume(root)...)
	items = append(items, scrapeSections(root)...)
	return items, nil
}

func scrapeAuxSections(path string) ([]*domain.KnowledgeItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	root, err := html.Parse(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return scrapeSections(root), nil
}

func scrapeAbout(root *html.Node) []*domain.KnowledgeItem {
	sec := findByID(root, "about")
	if sec == nil {
		return nil
	}
	title := textOf(findFirst(sec, "h1"))
	if title == "" {
		title = textOf(findFirst(sec, "h2"))
	}
	if title == "" {
		title = "About"
	}
	content := joinedParagraphs(sec)
	if content == "" {
		return nil
	}
	return []*domain.KnowledgeItem{{
		Type:    domain.ItemSection,
		Title:   title,
		Content: content,
		Href:    "#about",
		Tags:    []string{"about"},
	}}
}

func scrapeSkills(root *html.Node) []*domain.KnowledgeItem {
	sec := findByID(root, "skills")
	if sec == nil {
		return nil
	}
	var skills []string
	walk(sec, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "span" {
			if t := collapseSpace(textOf(n)); t != "" {
				skills = append(skills, t)
			}
		}
	})
	if len(skills) == 0 {
		return nil
	}
	return []*domain.KnowledgeItem{{
		Type:    domain.ItemSection,
		Title:   "Skills",
		Content: strings.Join(skills, ", "),
		Href:    "#skills",
		Tags:    []string{"skills"},
	}}
}

func scrapeProjects(root *html.Node) []*domain.KnowledgeItem {
	var items []*domain.KnowledgeItem
	walk(root, func(n *html.Node) {
		if n.Type != html.ElementNode || !hasClass(n, "project-item") {
			return
		}
		title := collapseSpace(textOf(findFirst(n, "h3")))
		content := joinedParagraphs(n)
		href := ""
		if a := findFirst(n, "a"); a != nil {
			href = attr(a, "href")
		}
		if title == "" && content == "" {
			return
		}
		items = append(items, &domain.KnowledgeItem{
			Type:    domain.ItemProject,
			Title:   title,
			Content: content,
			Href:    href,
			Tags:    []string{"project"},
		})
	})
	return items
}

func scrapeContact(root *html.Node) []*domain.KnowledgeItem {
	sec := findByID(root, "contact")
	if sec == nil {
		sec = root
	}
	c := &ContactEntry{}
	walk(sec, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "a" {
			return
		}
		href := attr(n, "href")
		switch {
		case strings.HasPrefix(href, "mailto:"):
			c.Email = strings.TrimPrefix(href, "mailto:")
		case strings.Contains(href, "linkedin.com"):
			c.LinkedIn = href
		case strings.Contains(href, "github.com"):
			c.GitHub = href
		case strings.Contains(href, "kaggle.com"):
			c.Kaggle = href
		case strings.Contains(href, "wa.me"):
			c.WhatsApp = href
		case strings.Contains(href, "upwork.com"):
			c.Upwork = href
		}
	})
	if *c == (ContactEntry{}) {
		return nil
	}
	return []*domain.KnowledgeItem{contactItem(c)}
}

func scrapeResume(root *html.Node) []*domain.KnowledgeItem {
	var href string
	walk(root, func(n *html.Node) {
		if href != "" || n.Type != html.ElementNode || n.Data != "a" {
			return
		}
		h := attr(n, "href")
		if strings.HasSuffix(strings.ToLower(h), ".pdf") || resumeTextRe.MatchString(textOf(n)) {
			href = h
		}
	})
	if href == "" {
		return nil
	}
	return []*domain.KnowledgeItem{{
		Type:    domain.ItemResume,
		Title:   "Resume",
		Content: "Download my resume.",
		Href:    href,
		Tags:    []string{"resume", "cv", "download"},
	}}
}

// scrapeSections turns every id-carrying section with a heading and
// paragraphs into an auxiliary item, tagged "section" so arbitration
// can tell it apart from first-class entries.
func scrapeSections(root *html.Node) []*domain.KnowledgeItem {
	var items []*domain.KnowledgeItem
	walk(root, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "section" {
			return
		}
		id := attr(n, "id")
		if id == "" {
			return
		}
		title := collapseSpace(textOf(findFirst(n, "h2")))
		content := joinedParagraphs(n)
		if title == "" || content == "" {
			return
		}
		items = append(items, &domain.KnowledgeItem{
			Type:    domain.ItemDOM,
			Title:   title,
			Content: content,
			Href:    "#" + id,
			Tags:    []string{"section"},
		})
	})
	return items
}

// HTML tree helpers.

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func findByID(root *html.Node, id string) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) {
		if found == nil && n.Type == html.ElementNode && attr(n, "id") == id {
			found = n
		}
	})
	return found
}

func findFirst(root *html.Node, tag string) *html.Node {
	if root == nil {
		return nil
	}
	var found *html.Node
	walk(root, func(n *html.Node) {
		if found == nil && n.Type == html.ElementNode && n.Data == tag {
			found = n
		}
	})
	return found
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textOf(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	})
	return strings.TrimSpace(sb.String())
}

func joinedParagraphs(n *html.Node) string {
	var parts []string
	walk(n, func(c *html.Node) {
		if c.Type == html.ElementNode && c.Data == "p" {
			if t := collapseSpace(textOf(c)); t != "" {
				parts = append(parts, t)
			}
		}
	})
	return strings.Join(parts, " ")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
