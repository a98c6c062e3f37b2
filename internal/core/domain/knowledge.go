package domain

import "strings"

// ItemType classifies a knowledge item. It is fixed at creation and
// never changes afterwards.
type ItemType string

// Known item types.
const (
	ItemSection ItemType = "section"
	ItemProject ItemType = "project"
	ItemContact ItemType = "contact"
	ItemResume  ItemType = "resume"
	ItemFAQ     ItemType = "faq"
	ItemDOM     ItemType = "dom"
	ItemIntent  ItemType = "intent"
)

// Media references an image or video attached to a project item.
type Media struct {
	Image  string
	Video  string
	Poster string
}

// FAQEntry carries the question/answer pair of an FAQ item.
type FAQEntry struct {
	Q string
	A string
}

// KnowledgeItem is one retrievable unit of the knowledge base.
// Only the fields relevant to the item's Type are populated: FAQ is
// non-nil only for ItemFAQ, Media only for projects that have one.
// Content is always a string, possibly empty.
type KnowledgeItem struct {
	// Type is immutable after creation.
	Type ItemType

	// Title is the human-readable title.
	Title string

	// Content is the free-text body.
	Content string

	// Href is an optional section anchor or external URL.
	Href string

	// Tags aid lexical matching and intent filtering.
	Tags []string

	// FAQ holds the question/answer pair for FAQ items.
	FAQ *FAQEntry

	// Media is an optional image/video reference for project items.
	Media *Media
}

// DisplayTitle returns the best available label for the item:
// title, then FAQ question, then the type name.
func (it *KnowledgeItem) DisplayTitle() string {
	if it.Title != "" {
		return it.Title
	}
	if it.FAQ != nil && it.FAQ.Q != "" {
		return it.FAQ.Q
	}
	if it.Type != "" {
		return string(it.Type)
	}
	return "Item"
}

// Text returns the retrievable body text: content, falling back to the
// FAQ answer.
func (it *KnowledgeItem) Text() string {
	if it.Content != "" {
		return it.Content
	}
	if it.FAQ != nil {
		return it.FAQ.A
	}
	return ""
}

// TagLine returns the tags joined into one lower-cased string.
func (it *KnowledgeItem) TagLine() string {
	return strings.ToLower(strings.Join(it.Tags, " "))
}

// MentionsTag reports whether the item's title, content or tags contain
// the given lower-cased needle.
func (it *KnowledgeItem) MentionsTag(tag string) bool {
	if strings.Contains(strings.ToLower(it.Title), tag) {
		return true
	}
	if strings.Contains(strings.ToLower(it.Content), tag) {
		return true
	}
	return strings.Contains(it.TagLine(), tag)
}

// KnowledgeBase is the ordered, immutable set of knowledge items built
// once per session. Items are referenced by pointer so that identity
// comparisons (deduplication during arbitration) are well defined.
type KnowledgeBase struct {
	Items []*KnowledgeItem
}

// Find returns the first item satisfying pred, or nil.
func (kb *KnowledgeBase) Find(pred func(*KnowledgeItem) bool) *KnowledgeItem {
	if kb == nil {
		return nil
	}
	for _, it := range kb.Items {
		if pred(it) {
			return it
		}
	}
	return nil
}

// FindType returns the first item of the given type, or nil.
func (kb *KnowledgeBase) FindType(t ItemType) *KnowledgeItem {
	return kb.Find(func(it *KnowledgeItem) bool { return it.Type == t })
}

// Filter returns all items satisfying pred, preserving order.
func (kb *KnowledgeBase) Filter(pred func(*KnowledgeItem) bool) []*KnowledgeItem {
	if kb == nil {
		return nil
	}
	var out []*KnowledgeItem
	for _, it := range kb.Items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}

// Projects returns all project items in order.
func (kb *KnowledgeBase) Projects() []*KnowledgeItem {
	return kb.Filter(func(it *KnowledgeItem) bool { return it.Type == ItemProject })
}

// Len returns the number of items.
func (kb *KnowledgeBase) Len() int {
	if kb == nil {
		return 0
	}
	return len(kb.Items)
}
