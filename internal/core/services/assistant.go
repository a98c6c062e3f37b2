package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/zraval/portfolio-assistant/internal/core/domain"
	"github.com/zraval/portfolio-assistant/internal/core/ports/driven"
	"github.com/zraval/portfolio-assistant/internal/core/ports/driving"
	"github.com/zraval/portfolio-assistant/internal/logger"
)

// Ensure AssistantService implements the interface.
var _ driving.Assistant = (*AssistantService)(nil)

// notReadyAnswer is returned while no knowledge index is available.
const notReadyAnswer = "Knowledge base not ready. Please try again in a moment."

// searchLimit is how many raw lexical results feed arbitration.
const searchLimit = 12

// PassageSplitter slices knowledge items into retrieval passages.
type PassageSplitter interface {
	Build(items []*domain.KnowledgeItem) []domain.Passage
}

// AssistantService runs the full answer pipeline: knowledge loading,
// lexical search, arbitration, then either the remote orchestrator or
// the local composer. One service instance backs one session; the
// conversation history lives here and dies with it.
type AssistantService struct {
	mu sync.RWMutex

	sources      []driven.KnowledgeSource
	splitter     PassageSplitter
	buildIndex   driven.IndexBuilder
	cache        driven.AnswerCache
	llm          driven.CompletionService
	intentSource driven.IntentSource
	prompts      driven.PromptStore
	state        driven.StateStore

	owner           string
	weakScore       float64
	intentWeakScore float64
	chatOpts        driven.ChatOptions

	kb           *domain.KnowledgeBase
	index        driven.PassageIndex
	intents      []domain.IntentRule
	arbiter      *Arbiter
	composer     *Composer
	orchestrator *Orchestrator
	history      []domain.ConversationTurn
}

// NewAssistantService creates an assistant over the given knowledge
// sources, tried in order until one yields items.
// Optional collaborators are attached with the Set methods.
func NewAssistantService(
	splitter PassageSplitter,
	buildIndex driven.IndexBuilder,
	cache driven.AnswerCache,
	owner string,
	sources ...driven.KnowledgeSource,
) *AssistantService {
	return &AssistantService{
		sources:    sources,
		splitter:   splitter,
		buildIndex: buildIndex,
		cache:      cache,
		owner:      owner,
	}
}

// SetCompletionService attaches the remote completion service.
func (s *AssistantService) SetCompletionService(llm driven.CompletionService) {
	s.llm = llm
}

// SetIntentSource attaches the optional guided-intent source.
func (s *AssistantService) SetIntentSource(src driven.IntentSource) {
	s.intentSource = src
}

// SetPromptStore attaches the prompt store.
func (s *AssistantService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// SetStateStore attaches the greeting/suggestion state store.
func (s *AssistantService) SetStateStore(store driven.StateStore) {
	s.state = store
}

// SetCutoffs overrides the arbitration cutoffs. Zero keeps a default.
func (s *AssistantService) SetCutoffs(weakScore, intentWeakScore float64) {
	s.weakScore = weakScore
	s.intentWeakScore = intentWeakScore
}

// SetChatOptions sets the remote completion options.
func (s *AssistantService) SetChatOptions(opts driven.ChatOptions) {
	s.chatOpts = opts
}

// LoadKnowledge loads items from the first source that yields any,
// builds the passage index and wires the pipeline. With no usable
// source the assistant stays in reduced mode and the error reports it.
func (s *AssistantService) LoadKnowledge(ctx context.Context) error {
	logger.Section("Knowledge Load")

	var items []*domain.KnowledgeItem
	for _, src := range s.sources {
		loaded, err := src.Load(ctx)
		if err != nil {
			logger.Warn("Source %q failed: %v", src.Name(), err)
			continue
		}
		if len(loaded) == 0 {
			logger.Debug("Source %q yielded no items", src.Name())
			continue
		}
		logger.Info("Loaded %d items from %q", len(loaded), src.Name())
		items = loaded
		break
	}

	var intents []domain.IntentRule
	if s.intentSource != nil {
		loaded, err := s.intentSource.Load(ctx)
		if err != nil {
			logger.Warn("Intent load failed: %v", err)
		} else {
			intents = loaded
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(items) == 0 {
		s.kb = nil
		s.index = nil
		s.arbiter = nil
		s.composer = nil
		s.orchestrator = nil
		return domain.ErrKnowledgeUnavailable
	}

	kb := &domain.KnowledgeBase{Items: items}
	passages := s.splitter.Build(items)
	logger.Debug("Built %d passages from %d items", len(passages), len(items))

	s.kb = kb
	s.index = s.buildIndex(passages)
	s.intents = intents
	s.arbiter = NewArbiter(kb, intents, s.weakScore, s.intentWeakScore)
	s.composer = NewComposer(kb)
	s.orchestrator = NewOrchestrator(kb, s.llm, s.prompts, s.owner, s.chatOpts)
	return nil
}

// Ready reports whether a knowledge index is available.
func (s *AssistantService) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index != nil
}

// KnowledgeBase exposes the current knowledge base, or nil in reduced
// mode.
func (s *AssistantService) KnowledgeBase() *domain.KnowledgeBase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kb
}

// History returns a copy of the session's conversation turns.
func (s *AssistantService) History() []domain.ConversationTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ConversationTurn, len(s.history))
	copy(out, s.history)
	return out
}

// Answer runs the pipeline for one query. See driving.Assistant.
func (s *AssistantService) Answer(ctx context.Context, query string, onDelta func(string)) (domain.Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Answer{}, domain.ErrMissingQuery
	}

	if s.state != nil {
		s.state.AddRecentQuery(query)
	}

	s.mu.Lock()
	if s.index == nil {
		s.mu.Unlock()
		return domain.Answer{
			HTML:   notReadyAnswer,
			Plain:  notReadyAnswer,
			Source: domain.SourceKnowledgeBase,
		}, nil
	}
	s.history = append(s.history, domain.ConversationTurn{Role: domain.RoleUser, Content: query})
	index := s.index
	arbiter := s.arbiter
	composer := s.composer
	orchestrator := s.orchestrator
	history := make([]domain.ConversationTurn, len(s.history))
	copy(history, s.history)
	s.mu.Unlock()

	results := index.Search(query, searchLimit)
	results = arbiter.Apply(query, results)

	if IsJobPostingQuery(query) {
		logger.Info("Answering via job-fit matcher")
		answer := composer.ComposeJobFit(query)
		s.recordAnswer(answer)
		return answer, nil
	}

	cacheKey := strings.ToLower(query)
	if cached, ok := s.cache.Get(cacheKey); ok {
		logger.Info("Answering from cache")
		cached.Source = domain.SourceCachedLLM
		s.recordAnswer(cached)
		return cached, nil
	}

	answer, err := orchestrator.Answer(ctx, query, results, history, onDelta)
	if err == nil {
		s.cache.Set(cacheKey, answer)
		s.recordAnswer(answer)
		return answer, nil
	}
	logger.Warn("Remote answer unavailable (%v), composing locally", err)

	answer = composer.Compose(query, results)
	s.recordAnswer(answer)
	return answer, nil
}

func (s *AssistantService) recordAnswer(answer domain.Answer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, domain.ConversationTurn{
		Role:    domain.RoleAssistant,
		Content: strings.TrimSpace(answer.Plain),
	})
}

var greetingTips = []string{
	"Ask me about my latest projects or tech stack!",
	"I can help you find specific skills or experiences.",
	"Looking for my contact info? Just ask!",
	"Check out my open-source contributions on GitHub.",
	"I can explain any project in detail - just ask!",
}

// Greeting returns the session-opening message, varied by time of day
// and whether the user has chatted before.
func (s *AssistantService) Greeting() string {
	var salutation string
	switch h := time.Now().Hour(); {
	case h < 5:
		salutation = "Working late"
	case h < 12:
		salutation = "Good morning"
	case h < 17:
		salutation = "Good afternoon"
	case h < 22:
		salutation = "Good evening"
	default:
		salutation = "Good night"
	}

	firstRun := s.state == nil || !s.state.Seen()
	if s.state != nil {
		s.state.MarkSeen()
	}
	if firstRun {
		tip := greetingTips[rand.Intn(len(greetingTips))]
		return fmt.Sprintf("%s! I'm %s's AI assistant. %s", salutation, s.owner, tip)
	}

	variants := []string{
		fmt.Sprintf("%s! How can I help today? I answer from this site's sources.", salutation),
		fmt.Sprintf("%s! Ask about a project, skill, resume, or contact and I'll cite sources.", salutation),
		fmt.Sprintf("%s! Looking for a quick project summary or tech stack? Ask away.", salutation),
	}
	return variants[rand.Intn(len(variants))]
}

// Suggestions returns up to six deduplicated suggestion chips: recent
// queries first, then top projects, core intents and guided prompts.
func (s *AssistantService) Suggestions() []string {
	var out []string
	if s.state != nil {
		recents := s.state.RecentQueries()
		if len(recents) > 3 {
			recents = recents[:3]
		}
		out = append(out, recents...)
	}

	s.mu.RLock()
	kb := s.kb
	intents := s.intents
	s.mu.RUnlock()

	projects := kb.Projects()
	if len(projects) > 2 {
		projects = projects[:2]
	}
	for _, p := range projects {
		out = append(out, "Tell me about "+p.DisplayTitle())
	}

	out = append(out,
		"What are your core skills?",
		"Share your resume",
		"How can I contact you?",
	)

	for i, rule := range intents {
		if i == 3 {
			break
		}
		if rule.Prompt != "" {
			out = append(out, rule.Prompt)
		}
	}

	seen := make(map[string]bool, len(out))
	uniq := make([]string, 0, 6)
	for _, s := range out {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		uniq = append(uniq, s)
		if len(uniq) == 6 {
			break
		}
	}
	return uniq
}
