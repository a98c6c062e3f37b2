// Package knowledge turns heterogeneous knowledge sources (the JSON
// knowledge document, a scraped HTML page, an optional intents
// document) into the uniform item list the retrieval pipeline indexes.
package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	"github.com/zraval/portfolio-assistant/internal/core/domain"
	"github.com/zraval/portfolio-assistant/internal/core/ports/driven"
	"github.com/zraval/portfolio-assistant/internal/logger"
)

// DefaultResumeFile is used when the resume record omits a file name.
const DefaultResumeFile = "Zinal_Raval_Resume.pdf"

// contactTags is the canonical tag set of the flattened contact item.
var contactTags = []string{"contact", "email", "linkedin", "github", "kaggle", "whatsapp", "upwork", "location"}

// SectionEntry is a titled free-text record (about, skills, experience,
// certifications).
type SectionEntry struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Section string   `json:"section"`
	Tags    []string `json:"tags"`
}

// ProjectEntry describes one project.
type ProjectEntry struct {
	Title   string      `json:"title"`
	Content string      `json:"content"`
	URL     string      `json:"url"`
	Tags    []string    `json:"tags"`
	Media   *MediaEntry `json:"media"`
}

// MediaEntry references a project image or video.
type MediaEntry struct {
	Image  string `json:"image"`
	Video  string `json:"video"`
	Poster string `json:"poster"`
}

// ContactEntry lists the owner's reachable profiles.
type ContactEntry struct {
	Email    string `json:"email"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
	Kaggle   string `json:"kaggle"`
	WhatsApp string `json:"whatsapp"`
	Upwork   string `json:"upwork"`
}

// ResumeEntry points at the downloadable resume file.
type ResumeEntry struct {
	File string `json:"file"`
	Note string `json:"note"`
}

// FAQRecord is one question/answer pair.
type FAQRecord struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// Document is the parsed knowledge document. Every key is optional.
type Document struct {
	About          *SectionEntry
	Skills         *SectionEntry
	Projects       []ProjectEntry
	Contact        *ContactEntry
	Resume         *ResumeEntry
	Experience     *SectionEntry
	Certifications *SectionEntry
	FAQ            []FAQRecord
}

// ParseDocument decodes the knowledge document leniently: each
// top-level field is decoded independently, and a malformed field is
// treated as absent rather than failing the whole document.
func ParseDocument(data []byte) (*Document, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse knowledge document: %w", err)
	}

	doc := &Document{}
	decodeField(raw, "about", &doc.About)
	decodeField(raw, "skills", &doc.Skills)
	decodeField(raw, "projects", &doc.Projects)
	decodeField(raw, "contact", &doc.Contact)
	decodeField(raw, "resume", &doc.Resume)
	decodeField(raw, "experience", &doc.Experience)
	decodeField(raw, "certifications", &doc.Certifications)
	decodeField(raw, "faq", &doc.FAQ)
	return doc, nil
}

func decodeField(raw map[string]json.RawMessage, key string, dst any) {
	msg, ok := raw[key]
	if !ok {
		return
	}
	if err := json.Unmarshal(msg, dst); err != nil {
		logger.Warn("knowledge: malformed %q field ignored: %v", key, err)
	}
}

// Normalize flattens the document into the ordered knowledge item
// list. Only present sections yield items; nothing here can fail.
func Normalize(doc *Document) []*domain.KnowledgeItem {
	var items []*domain.KnowledgeItem

	if doc.About != nil {
		items = append(items, sectionItem(doc.About, "About", "#about", nil))
	}
	if doc.Skills != nil {
		items = append(items, sectionItem(doc.Skills, "Skills", "#skills", nil))
	}

	for i := range doc.Projects {
		p := doc.Projects[i]
		it := &domain.KnowledgeItem{
			Type:    domain.ItemProject,
			Title:   p.Title,
			Content: p.Content,
			Href:    p.URL,
			Tags:    p.Tags,
		}
		if p.Media != nil {
			it.Media = &domain.Media{Image: p.Media.Image, Video: p.Media.Video, Poster: p.Media.Poster}
		}
		items = append(items, it)
	}

	if doc.Contact != nil {
		items = append(items, contactItem(doc.Contact))
	}

	if doc.Resume != nil {
		file := doc.Resume.File
		if file == "" {
			file = DefaultResumeFile
		}
		note := doc.Resume.Note
		if note == "" {
			note = "Download my resume."
		}
		items = append(items, &domain.KnowledgeItem{
			Type:    domain.ItemResume,
			Title:   "Resume",
			Content: note,
			Href:    encodePath(file),
			Tags:    []string{"resume", "cv", "download"},
		})
	}

	if doc.Experience != nil {
		items = append(items, sectionItem(doc.Experience, "Experience", "#experience", []string{"experience"}))
	}
	if doc.Certifications != nil {
		items = append(items, sectionItem(doc.Certifications, "Certifications", "#achievements", []string{"certifications"}))
	}

	for _, f := range doc.FAQ {
		items = append(items, &domain.KnowledgeItem{
			Type:    domain.ItemFAQ,
			Title:   "FAQ",
			Content: f.Q + " " + f.A,
			Tags:    []string{"faq"},
			FAQ:     &domain.FAQEntry{Q: f.Q, A: f.A},
		})
	}

	return items
}

func sectionItem(e *SectionEntry, defaultTitle, defaultHref string, extraTags []string) *domain.KnowledgeItem {
	title := e.Title
	if title == "" {
		title = defaultTitle
	}
	href := e.Section
	if href == "" {
		href = defaultHref
	}
	return &domain.KnowledgeItem{
		Type:    domain.ItemSection,
		Title:   title,
		Content: e.Content,
		Href:    href,
		Tags:    append(append([]string{}, e.Tags...), extraTags...),
	}
}

// contactItem flattens the contact record into one sentence-joined
// line, listing only the sub-fields present, each prefixed with its
// label.
func contactItem(c *ContactEntry) *domain.KnowledgeItem {
	var parts []string
	add := func(label, value string) {
		if value != "" {
			parts = append(parts, label+": "+value)
		}
	}
	add("Email", c.Email)
	add("LinkedIn", c.LinkedIn)
	add("GitHub", c.GitHub)
	add("Kaggle", c.Kaggle)
	add("WhatsApp", c.WhatsApp)
	add("Upwork", c.Upwork)

	var line string
	if len(parts) > 0 {
		line = joinSentences(parts)
	}
	return &domain.KnowledgeItem{
		Type:    domain.ItemContact,
		Title:   "Contact",
		Content: line,
		Href:    "#contact",
		Tags:    append([]string{}, contactTags...),
	}
}

func joinSentences(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p + "."
	}
	return out
}

// encodePath percent-encodes a local file name the way a URL path is
// encoded (spaces become %20, slashes survive).
func encodePath(file string) string {
	u := url.URL{Path: file}
	return u.String()
}

// Ensure DocumentSource implements the interfaces.
var (
	_ driven.KnowledgeSource      = (*DocumentSource)(nil)
	_ driven.RawKnowledgeProvider = (*DocumentSource)(nil)
)

// DocumentSource loads knowledge items from a JSON document on disk,
// optionally augmented with auxiliary section items scraped from a
// static site page.
type DocumentSource struct {
	path     string
	pagePath string
}

// DocumentOption configures a DocumentSource.
type DocumentOption func(*DocumentSource)

// WithPageAugment also scrapes heading+paragraph section items from the
// given HTML file. These supplement, never replace, the document's own
// entries.
func WithPageAugment(pagePath string) DocumentOption {
	return func(s *DocumentSource) {
		s.pagePath = pagePath
	}
}

// NewDocumentSource creates a source reading the knowledge document at
// path.
func NewDocumentSource(path string, opts ...DocumentOption) *DocumentSource {
	s := &DocumentSource{path: path}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name identifies the source in logs.
func (s *DocumentSource) Name() string { return "document" }

// Raw returns the knowledge document bytes for the read endpoint.
func (s *DocumentSource) Raw(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("read knowledge document: %w", err)
	}
	return data, nil
}

// Load parses and normalises the knowledge document, then appends any
// scraped auxiliary section items.
func (s *DocumentSource) Load(ctx context.Context) ([]*domain.KnowledgeItem, error) {
	data, err := s.Raw(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	items := Normalize(doc)

	if s.pagePath != "" {
		aux, err := scrapeAuxSections(s.pagePath)
		if err != nil {
			logger.Warn("knowledge: page augmentation skipped: %v", err)
		} else {
			items = append(items, aux...)
		}
	}
	return items, nil
}
