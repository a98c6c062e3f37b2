package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/zraval/portfolio-assistant/internal/core/domain"
	"github.com/zraval/portfolio-assistant/internal/core/ports/driven"
	"github.com/zraval/portfolio-assistant/internal/logger"
	"github.com/zraval/portfolio-assistant/internal/render"
)

// Profile URL patterns the model tends to mangle. Matches in the
// answer body are replaced with the canonical URL from the contact
// item.
var (
	linkedinFindRe  = regexp.MustCompile(`(?i)https?://[^\s]*linkedin[^\s]*`)
	githubFindRe    = regexp.MustCompile(`(?i)https?://[^\s]*github[^\s]*`)
	kaggleFindRe    = regexp.MustCompile(`(?i)https?://[^\s]*kaggle[^\s]*`)
	whatsappFindRe  = regexp.MustCompile(`(?i)https?://wa\.me/[0-9]+`)
	linkedinBodyRe  = regexp.MustCompile(`(?i)https?://www?\.linkedin\.com/[A-Za-z0-9_\-/.]+`)
	githubBodyRe    = regexp.MustCompile(`(?i)https?://github\.com/[A-Za-z0-9_\-/.]+`)
	kaggleBodyRe    = regexp.MustCompile(`(?i)https?://(?:www\.)?kaggle\.com/[A-Za-z0-9_\-/.]*`)
	whatsappBodyRe  = regexp.MustCompile(`(?i)https?://wa\.me/\+?\d+`)
	contactLinkRe   = regexp.MustCompile(`(?i)linkedin\.com|github\.com|kaggle\.com|wa\.me|upwork\.com|#contact|mailto:`)
	contactAskRe    = regexp.MustCompile(`(?i)\b(contact|email|linkedin|github|kaggle|whatsapp|upwork)\b`)
	denyKnowledgeRe = regexp.MustCompile(`(?i)not\s+mentioned|no\s+(?:project|details)\s+(?:mentioned|found)`)
)

// Orchestrator drives the remote completion path: it assembles the
// grounding prompt from arbitrated results, streams the model's
// answer, then finalizes it (canonical URLs, repair, deterministic
// prefixes, citation footer). All post-processing happens only after
// the stream has fully completed.
type Orchestrator struct {
	kb      *domain.KnowledgeBase
	llm     driven.CompletionService
	prompts driven.PromptStore
	owner   string
	opts    driven.ChatOptions
}

// NewOrchestrator creates an orchestrator. llm may be nil, in which
// case Answer always reports the service unavailable.
func NewOrchestrator(kb *domain.KnowledgeBase, llm driven.CompletionService, prompts driven.PromptStore, owner string, opts driven.ChatOptions) *Orchestrator {
	return &Orchestrator{kb: kb, llm: llm, prompts: prompts, owner: owner, opts: opts}
}

// ContextItems selects the grounding items for a query: the top
// arbitrated results with FAQ entries suppressed unless asked for.
func ContextItems(query string, results []domain.SearchResult) []*domain.KnowledgeItem {
	items := make([]*domain.KnowledgeItem, 0, MaxArbitratedResults)
	for _, r := range results {
		if it := r.Item(); it != nil {
			items = append(items, it)
		}
		if len(items) == MaxArbitratedResults {
			break
		}
	}
	return suppressFAQ(query, items)
}

// Answer produces the finalized remote answer. onDelta, when non-nil,
// receives raw body fragments as they stream; the deny-knowledge guard
// is only applied on the non-streaming path, where nothing has been
// shown yet.
func (o *Orchestrator) Answer(ctx context.Context, query string, results []domain.SearchResult, history []domain.ConversationTurn, onDelta func(string)) (domain.Answer, error) {
	if o.llm == nil {
		return domain.Answer{}, domain.ErrLLMUnavailable
	}

	logger.Section("Remote Answer")
	items := ContextItems(query, results)
	logger.Debug("Context: %d items, history: %d turns", len(items), len(history))

	messages := BuildChatMessages(o.systemPrompt(), query, SourcesFromItems(items), history)

	var body string
	var err error
	if onDelta != nil {
		body, err = o.llm.StreamChat(ctx, messages, o.opts, onDelta)
	} else {
		body, err = o.llm.Chat(ctx, messages, o.opts)
	}
	if err != nil {
		return domain.Answer{}, fmt.Errorf("remote answer: %w", err)
	}

	body = o.canonicalizeURLs(body)

	if !render.Valid(body) {
		logger.Warn("Remote answer failed HTML validation, repairing")
		body = render.Repair(body)
	}

	if onDelta == nil && o.deniesKnowledge(query, items, body) {
		logger.Warn("Remote answer denies known project context, rejecting")
		return domain.Answer{}, domain.ErrAnswerRejected
	}

	final := o.prefix(query, body) + body + citationFooterItems(items)
	return domain.Answer{
		HTML:   final,
		Plain:  render.PlainText(final),
		Source: domain.SourceLLM,
	}, nil
}

func (o *Orchestrator) systemPrompt() string {
	if o.prompts != nil {
		if p, err := o.prompts.Load(driven.PromptChatSystem); err == nil && p != "" {
			if strings.Contains(p, "%s") {
				return fmt.Sprintf(p, o.owner)
			}
			return p
		}
	}
	return fmt.Sprintf("System: You are %s's AI Portfolio Assistant. Answer using ONLY the provided Sources.", o.owner)
}

// canonicalizeURLs replaces model-emitted profile URL variants with the
// exact URLs found in the contact item's content.
func (o *Orchestrator) canonicalizeURLs(body string) string {
	contact := o.kb.FindType(domain.ItemContact)
	if contact == nil {
		return body
	}
	text := contact.Content
	replace := func(body string, find, sub *regexp.Regexp) string {
		canon := find.FindString(text)
		if canon == "" {
			return body
		}
		return sub.ReplaceAllString(body, canon)
	}
	body = replace(body, linkedinFindRe, linkedinBodyRe)
	body = replace(body, githubFindRe, githubBodyRe)
	body = replace(body, kaggleFindRe, kaggleBodyRe)
	body = replace(body, whatsappFindRe, whatsappBodyRe)
	return body
}

// deniesKnowledge reports whether the model claimed ignorance of a
// project despite project context being supplied.
func (o *Orchestrator) deniesKnowledge(query string, items []*domain.KnowledgeItem, body string) bool {
	if !projectTermsRe.MatchString(query) {
		return false
	}
	hasProject := false
	for _, it := range items {
		if it.Type == domain.ItemProject {
			hasProject = true
			break
		}
	}
	return hasProject && denyKnowledgeRe.MatchString(body)
}

// prefix prepends the deterministic resume and contact lines when the
// query asks for them and the body lacks them.
func (o *Orchestrator) prefix(query, body string) string {
	var prefix string
	ql := strings.ToLower(query)
	if resumeQueryRe.MatchString(ql) {
		if resume := o.kb.FindType(domain.ItemResume); resume != nil && resume.Href != "" && !strings.Contains(body, resume.Href) {
			prefix += fmt.Sprintf("<p><a href='%s' download>Download resume (PDF)</a></p>", resume.Href)
		}
	}
	if contactAskRe.MatchString(ql) && !contactLinkRe.MatchString(body) {
		if contact := o.kb.FindType(domain.ItemContact); contact != nil {
			prefix += fmt.Sprintf("<p><a href='#contact'>Contact section</a> — %s</p>",
				render.EscapeHTML(contact.Content))
		}
	}
	return prefix
}
