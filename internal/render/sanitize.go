// Package render sanitises and repairs the HTML flowing out of the
// answer pipeline. Model output is untrusted: it is validated and
// best-effort repaired, then sanitised through an allow-list policy
// before anything reaches a client.
package render

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// policy is the allow-list for assistant messages: basic text
// structure, anchors (with download), inline media.
var policy = buildPolicy()

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "ul", "li", "strong", "em", "small", "br", "mark", "div", "span")
	p.AllowAttrs("href", "target", "rel", "download").OnElements("a")
	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowAttrs("src", "poster", "controls").OnElements("video")
	p.AllowAttrs("src", "type").OnElements("source")
	p.AllowAttrs("class").OnElements("div", "span", "a", "small")
	p.AllowURLSchemes("http", "https", "mailto")
	p.AllowRelativeURLs(true)
	p.RequireNoFollowOnLinks(false)
	return p
}

// Sanitize filters markup down to the allowed tags and attributes.
func Sanitize(markup string) string {
	return policy.Sanitize(markup)
}

// EscapeHTML escapes the five HTML special characters.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

var (
	tagRe           = regexp.MustCompile(`<[^>]+>`)
	danglingTagRe   = regexp.MustCompile(`<[^>]*$`)
	openTagRe       = regexp.MustCompile(`<([a-z][a-z0-9-]*)[^>]*>`)
	closeTagRe      = regexp.MustCompile(`</([a-z][a-z0-9-]*)\s*>`)
	multiSpaceRe    = regexp.MustCompile(`[ \t]{2,}`)
	multiNewlineRe  = regexp.MustCompile(`\n{3,}`)
	selfClosingTags = map[string]bool{"br": true, "img": true, "source": true, "hr": true}
)

// PlainText strips tags and decodes entities, yielding the text stored
// in the conversation history and shown on terminals.
func PlainText(markup string) string {
	text := tagRe.ReplaceAllString(markup, "")
	text = html.UnescapeString(text)
	text = multiNewlineRe.ReplaceAllString(text, "\n\n")
	text = multiSpaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Valid reports whether markup is free of obvious structural damage: a
// trailing unterminated tag or unbalanced open/close tag counts. It is
// a coarse check; sanitisation provides the actual safety.
func Valid(markup string) bool {
	if danglingTagRe.MatchString(strings.TrimSpace(markup)) {
		return false
	}
	return countOpenTags(markup) == countCloseTags(markup)
}

// Repair applies the best-effort fixes for model output: strips a
// trailing unterminated tag and closes dangling <li> and <ul>
// elements. It never fails; unrepairable damage is left for the
// sanitiser to neutralise.
func Repair(markup string) string {
	out := danglingTagRe.ReplaceAllString(markup, "")

	liOpen := strings.Count(out, "<li>")
	liClose := strings.Count(out, "</li>")
	for i := 0; i < liOpen-liClose; i++ {
		out += "</li>"
	}

	ulOpen := strings.Count(out, "<ul>")
	ulClose := strings.Count(out, "</ul>")
	for i := 0; i < ulOpen-ulClose; i++ {
		out += "</ul>"
	}

	return out
}

func countOpenTags(markup string) int {
	n := 0
	for _, m := range openTagRe.FindAllStringSubmatch(strings.ToLower(markup), -1) {
		if !selfClosingTags[m[1]] {
			n++
		}
	}
	return n
}

func countCloseTags(markup string) int {
	return len(closeTagRe.FindAllString(strings.ToLower(markup), -1))
}
