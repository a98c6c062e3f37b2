package knowledge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zraval/portfolio-assistant/internal/core/domain"
)

const samplePage = `<html><body>
<section id="about">
	<h1>Zinal Raval</h1>
	<p>Machine learning engineer.</p>
	<p>Based in Ahmedabad.</p>
</section>
<section id="skills">
	<h2>Skills</h2>
	<span>Python</span><span>Go</span><span>TensorFlow</span>
</section>
<section id="projects">
	<div class="project-item">
		<h3>Trading Bot</h3>
		<p>Automated trading system.</p>
		<a href="https://github.com/example/trading">Code</a>
	</div>
	<div class="project-item">
		<h3>RAG Chatbot</h3>
		<p>Portfolio assistant.</p>
	</div>
</section>
<section id="testimonials">
	<h2>Testimonials</h2>
	<p>Great to work with.</p>
</section>
<section id="contact">
	<a href="mailto:hello@example.com">Email</a>
	<a href="https://linkedin.com/in/example">LinkedIn</a>
	<a href="https://wa.me/1234567890">WhatsApp</a>
</section>
<a href="Zinal%20Raval%20Resume.pdf">Download Resume</a>
</body></html>`

func findType(items []*domain.KnowledgeItem, t domain.ItemType) *domain.KnowledgeItem {
	for _, it := range items {
		if it.Type == t {
			return it
		}
	}
	return nil
}

func TestScrapePageAbout(t *testing.T) {
	items, err := ScrapePage([]byte(samplePage))
	require.NoError(t, err)

	about := findType(items, domain.ItemSection)
	require.NotNil(t, about)
	assert.Equal(t, "Zinal Raval", about.Title)
	assert.Equal(t, "Machine learning engineer. Based in Ahmedabad.", about.Content)
	assert.Equal(t, "#about", about.Href)
}

func TestScrapePageSkills(t *testing.T) {
	items, err := ScrapePage([]byte(samplePage))
	require.NoError(t, err)

	var skills *domain.KnowledgeItem
	for _, it := range items {
		if it.Title == "Skills" {
			skills = it
		}
	}
	require.NotNil(t, skills)
	assert.Equal(t, "Python, Go, TensorFlow", skills.Content)
}

func TestScrapePageProjects(t *testing.T) {
	items, err := ScrapePage([]byte(samplePage))
	require.NoError(t, err)

	var projects []*domain.KnowledgeItem
	for _, it := range items {
		if it.Type == domain.ItemProject {
			projects = append(projects, it)
		}
	}
	require.Len(t, projects, 2)
	assert.Equal(t, "Trading Bot", projects[0].Title)
	assert.Equal(t, "https://github.com/example/trading", projects[0].Href)
	assert.Equal(t, "RAG Chatbot", projects[1].Title)
	assert.Empty(t, projects[1].Href)
}

func TestScrapePageContact(t *testing.T) {
	items, err := ScrapePage([]byte(samplePage))
	require.NoError(t, err)

	contact := findType(items, domain.ItemContact)
	require.NotNil(t, contact)
	assert.Contains(t, contact.Content, "Email: hello@example.com.")
	assert.Contains(t, contact.Content, "WhatsApp: https://wa.me/1234567890.")
}

func TestScrapePageResume(t *testing.T) {
	items, err := ScrapePage([]byte(samplePage))
	require.NoError(t, err)

	resume := findType(items, domain.ItemResume)
	require.NotNil(t, resume)
	assert.Equal(t, "Zinal%20Raval%20Resume.pdf", resume.Href)
}

func TestScrapePageAuxSections(t *testing.T) {
	items, err := ScrapePage([]byte(samplePage))
	require.NoError(t, err)

	var aux []*domain.KnowledgeItem
	for _, it := range items {
		if it.Type == domain.ItemDOM {
			aux = append(aux, it)
		}
	}
	// about, skills, projects and contact are claimed by their own
	// scrapers but also carry id+h2+p; the scraper keeps every
	// qualifying section, including testimonials
	var titles []string
	for _, it := range aux {
		titles = append(titles, it.Title)
	}
	assert.Contains(t, titles, "Testimonials")
}

func TestScrapePageEmpty(t *testing.T) {
	items, err := ScrapePage([]byte("<html><body></body></html>"))

	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestPageSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(path, []byte(samplePage), 0o644))

	src := NewPageSource(path)

	assert.Equal(t, "page", src.Name())

	items, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, items)
	assert.NotNil(t, findType(items, domain.ItemProject))
}

func TestPageSourceMissingFile(t *testing.T) {
	src := NewPageSource(filepath.Join(t.TempDir(), "missing.html"))

	_, err := src.Load(context.Background())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
