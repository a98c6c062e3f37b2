package services

import (
	"regexp"
	"strings"

	"github.com/zraval/portfolio-assistant/internal/core/domain"
	"github.com/zraval/portfolio-assistant/internal/logger"
)

// Default arbitration cutoffs. A lexical score above WeakScore means
// the top match is weak enough for tag fallback and fragment injection
// to take over; IntentWeakScore gates the guided-intent stage.
const (
	DefaultWeakScore       = 0.6
	DefaultIntentWeakScore = 0.5
	MaxArbitratedResults   = 6
)

// tagRule maps query keywords to a knowledge tag used for fallback
// retrieval when lexical search comes up weak.
type tagRule struct {
	pattern *regexp.Regexp
	tag     string
}

// Evaluated in order; first match wins.
var tagRules = []tagRule{
	{regexp.MustCompile(`(?i)\b(trading|moneyverse)\b`), "trading"},
	{regexp.MustCompile(`(?i)\b(rag|retrieval|knowledge base)\b`), "rag"},
	{regexp.MustCompile(`(?i)\b(resume|cv)\b`), "resume"},
	{regexp.MustCompile(`(?i)\b(contact|email|linkedin|github|kaggle|whatsapp|upwork)\b`), "contact"},
	{regexp.MustCompile(`(?i)\b(skill|skills|stack|technology|technologies|tools)\b`), "skills"},
	{regexp.MustCompile(`(?i)\b(project|projects|work)\b`), "projects"},
	{regexp.MustCompile(`(?i)\b(about|intro|introduction|bio)\b`), "about"},
	{regexp.MustCompile(`(?i)\b(experience|work\s+experience|exp)\b`), "experience"},
	{regexp.MustCompile(`(?i)\b(achievement|achievements|awards|recognition)\b`), "achievements"},
}

// fragmentRule injects a well-known project when its name appears in
// the query but lexical search missed it.
type fragmentRule struct {
	pattern  *regexp.Regexp
	fragment string
}

var fragmentRules = []fragmentRule{
	{regexp.MustCompile(`(?i)\bhistori(ai)?\b`), "histori"},
	{regexp.MustCompile(`(?i)food\s+classification`), "food classification"},
	{regexp.MustCompile(`(?i)ar[-\s]?dms`), "ar-dms"},
	{regexp.MustCompile(`(?i)\bspam\b`), "spam"},
}

// projectTermsRe marks queries where a project answer should lead.
var projectTermsRe = regexp.MustCompile(`(?i)(project|projects|build|made|moneyverse|spam|classification|ar-dms|robotic|robotics|arm|nurse|face|swapping|recommender|segmentation|historiai|material|estimation)`)

var (
	resumeQueryRe = regexp.MustCompile(`(?i)\b(resume|cv)\b`)
	faqQueryRe    = regexp.MustCompile(`(?i)\bfaq\b|^faq[:\s]`)
)

// Arbiter reorders, replaces and injects search results through a
// fixed chain of heuristics. Each stage sees the previous stage's
// output; items are deduplicated by identity at the end.
type Arbiter struct {
	kb              *domain.KnowledgeBase
	intents         []domain.IntentRule
	weakScore       float64
	intentWeakScore float64
}

// NewArbiter creates an arbiter over the given knowledge base and
// intent rules. Zero cutoffs select the defaults.
func NewArbiter(kb *domain.KnowledgeBase, intents []domain.IntentRule, weakScore, intentWeakScore float64) *Arbiter {
	if weakScore <= 0 {
		weakScore = DefaultWeakScore
	}
	if intentWeakScore <= 0 {
		intentWeakScore = DefaultIntentWeakScore
	}
	return &Arbiter{
		kb:              kb,
		intents:         intents,
		weakScore:       weakScore,
		intentWeakScore: intentWeakScore,
	}
}

// Apply runs the heuristic chain over the raw lexical results.
func (a *Arbiter) Apply(query string, results []domain.SearchResult) []domain.SearchResult {
	logger.Section("Arbitration")
	logger.Debug("Input: %d results", len(results))

	results = a.tagFallback(query, results)
	results = a.guidedIntents(query, results)
	results = a.fragmentInjection(query, results)
	results = a.projectFirst(query, results)
	results = a.ensureFront(query, results)

	results = dedupeResults(results)
	if len(results) > MaxArbitratedResults {
		results = results[:MaxArbitratedResults]
	}
	logger.Debug("Output: %d results", len(results))
	return results
}

// weak reports whether the result set is empty or its best score is
// above the cutoff.
func weak(results []domain.SearchResult, cutoff float64) bool {
	return len(results) == 0 || results[0].Score > cutoff
}

// tagFallback replaces a weak result set with every item mentioning
// the tag implied by the query's keywords.
func (a *Arbiter) tagFallback(query string, results []domain.SearchResult) []domain.SearchResult {
	if !weak(results, a.weakScore) {
		return results
	}
	for _, rule := range tagRules {
		if !rule.pattern.MatchString(query) {
			continue
		}
		matches := a.kb.Filter(func(it *domain.KnowledgeItem) bool {
			return it.MentionsTag(rule.tag)
		})
		logger.Debug("Tag fallback: %q matched %d items", rule.tag, len(matches))
		out := make([]domain.SearchResult, 0, len(matches))
		for _, it := range matches {
			out = append(out, domain.ItemResult(it, 0.2))
		}
		return out
	}
	return results
}

// guidedIntents prepends the item resolved by the first matching
// intent rule when lexical results are weak. Rules resolve by href,
// then by name; an unresolvable rule with a canned answer synthesizes
// an item on the fly.
func (a *Arbiter) guidedIntents(query string, results []domain.SearchResult) []domain.SearchResult {
	if len(a.intents) == 0 || !weak(results, a.intentWeakScore) {
		return results
	}
	for i := range a.intents {
		rule := a.intents[i]
		if !rule.Matches(query) {
			continue
		}
		it := a.resolveIntent(rule)
		if it == nil {
			continue
		}
		logger.Debug("Guided intent: %q resolved to %q", rule.Name, it.DisplayTitle())
		out := append([]domain.SearchResult{domain.ItemResult(it, 0)}, results...)
		if len(out) > MaxArbitratedResults {
			out = out[:MaxArbitratedResults]
		}
		return out
	}
	return results
}

func (a *Arbiter) resolveIntent(rule domain.IntentRule) *domain.KnowledgeItem {
	if rule.Href != "" {
		href := strings.ToLower(rule.Href)
		if it := a.kb.Find(func(it *domain.KnowledgeItem) bool {
			return strings.ToLower(it.Href) == href
		}); it != nil {
			return it
		}
	}
	if rule.Name != "" {
		name := strings.ToLower(rule.Name)
		if it := a.kb.Find(func(it *domain.KnowledgeItem) bool {
			return strings.Contains(strings.ToLower(it.Title), name)
		}); it != nil {
			return it
		}
	}
	if rule.Answer != "" {
		return &domain.KnowledgeItem{
			Type:    domain.ItemIntent,
			Title:   rule.Name,
			Content: rule.Answer,
			Href:    rule.Href,
			Tags:    rule.Tags,
		}
	}
	return nil
}

// fragmentInjection prepends the well-known projects named in the
// query when lexical search missed them. Every matching rule
// contributes its project, in rule order.
func (a *Arbiter) fragmentInjection(query string, results []domain.SearchResult) []domain.SearchResult {
	if !weak(results, a.weakScore) {
		return results
	}
	var picks []domain.SearchResult
	for _, rule := range fragmentRules {
		if !rule.pattern.MatchString(query) {
			continue
		}
		it := a.kb.Find(func(it *domain.KnowledgeItem) bool {
			if it.Type != domain.ItemProject {
				return false
			}
			return strings.Contains(strings.ToLower(it.Title), rule.fragment) ||
				strings.Contains(strings.ToLower(it.Content), rule.fragment)
		})
		if it == nil {
			continue
		}
		logger.Debug("Fragment injection: %q", it.DisplayTitle())
		picks = append(picks, domain.ItemResult(it, 0))
	}
	if len(picks) == 0 {
		return results
	}
	return append(picks, results...)
}

// projectFirst moves the first project result to the front when the
// query uses project vocabulary.
func (a *Arbiter) projectFirst(query string, results []domain.SearchResult) []domain.SearchResult {
	if len(results) < 2 || !projectTermsRe.MatchString(query) {
		return results
	}
	for i, r := range results {
		if r.Item() != nil && r.Item().Type == domain.ItemProject {
			if i == 0 {
				return results
			}
			out := make([]domain.SearchResult, 0, len(results))
			out = append(out, r)
			out = append(out, results[:i]...)
			out = append(out, results[i+1:]...)
			return out
		}
	}
	return results
}

// ensureFront guarantees the identity item a direct query asks for
// (resume, contact, skills, achievements) leads the results.
func (a *Arbiter) ensureFront(query string, results []domain.SearchResult) []domain.SearchResult {
	type identity struct {
		pattern *regexp.Regexp
		find    func() *domain.KnowledgeItem
	}
	identities := []identity{
		{resumeQueryRe, func() *domain.KnowledgeItem { return a.kb.FindType(domain.ItemResume) }},
		{regexp.MustCompile(`(?i)\bcontact\b|reach\s+(you|out)|get\s+in\s+touch|\b(email|linkedin|github|kaggle|whatsapp|upwork)\b`), func() *domain.KnowledgeItem {
			return a.kb.FindType(domain.ItemContact)
		}},
		{regexp.MustCompile(`(?i)\bskills?\b|\bstack\b|\b(technology|technologies|tools)\b`), func() *domain.KnowledgeItem {
			return a.kb.Find(func(it *domain.KnowledgeItem) bool {
				return strings.EqualFold(it.Title, "skills") || it.Href == "#skills"
			})
		}},
		{regexp.MustCompile(`(?i)\bachievements?\b|\bcertifications?\b|\bawards?\b|\brecognition\b`), func() *domain.KnowledgeItem {
			return a.kb.Find(func(it *domain.KnowledgeItem) bool {
				return strings.EqualFold(it.Title, "achievements") || it.Href == "#achievements"
			})
		}},
	}

	for _, id := range identities {
		if !id.pattern.MatchString(query) {
			continue
		}
		it := id.find()
		if it == nil {
			continue
		}
		if len(results) > 0 && results[0].Item() == it {
			continue
		}
		filtered := make([]domain.SearchResult, 0, len(results)+1)
		filtered = append(filtered, domain.ItemResult(it, 0))
		for _, r := range results {
			if r.Item() != it {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}
	return results
}

// dedupeResults removes repeated items by pointer identity, keeping
// the first occurrence. Synthetic items (nil parents aside) are always
// distinct.
func dedupeResults(results []domain.SearchResult) []domain.SearchResult {
	seen := make(map[*domain.KnowledgeItem]bool, len(results))
	out := make([]domain.SearchResult, 0, len(results))
	for _, r := range results {
		it := r.Item()
		if it != nil && seen[it] {
			continue
		}
		if it != nil {
			seen[it] = true
		}
		out = append(out, r)
	}
	return out
}
