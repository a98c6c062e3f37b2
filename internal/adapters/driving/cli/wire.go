package cli

import (
	"context"
	"os"
	"strconv"
	"time"

	cachemem "github.com/zraval/portfolio-assistant/internal/adapters/driven/cache/memory"
	configfile "github.com/zraval/portfolio-assistant/internal/adapters/driven/config/file"
	"github.com/zraval/portfolio-assistant/internal/adapters/driven/llm/groq"
	"github.com/zraval/portfolio-assistant/internal/core/domain"
	"github.com/zraval/portfolio-assistant/internal/core/ports/driven"
	"github.com/zraval/portfolio-assistant/internal/core/services"
	"github.com/zraval/portfolio-assistant/internal/index/lexical"
	"github.com/zraval/portfolio-assistant/internal/knowledge"
	"github.com/zraval/portfolio-assistant/internal/logger"
	"github.com/zraval/portfolio-assistant/internal/passage"
)

// newCompletionService builds the Groq adapter from the environment,
// or returns nil when no API key is configured.
func newCompletionService() driven.CompletionService {
	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		logger.Debug("GROQ_API_KEY not set, remote answers disabled")
		return nil
	}

	model := os.Getenv("GROQ_MODEL")
	if model == "" {
		model = cfg.LLM.Model
	}
	maxTokens := cfg.LLM.MaxTokens
	if v := os.Getenv("GROQ_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			maxTokens = n
		}
	}

	svc, err := groq.NewCompletionService(groq.Config{
		APIKey:    apiKey,
		BaseURL:   cfg.LLM.BaseURL,
		Model:     model,
		MaxTokens: maxTokens,
		Timeout:   time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
	})
	if err != nil {
		logger.Warn("completion service unavailable: %v", err)
		return nil
	}
	return svc
}

// newDocumentSource builds the primary knowledge source.
func newDocumentSource() *knowledge.DocumentSource {
	var opts []knowledge.DocumentOption
	if cfg.Knowledge.SiteFile != "" {
		opts = append(opts, knowledge.WithPageAugment(cfg.Knowledge.SiteFile))
	}
	return knowledge.NewDocumentSource(cfg.Knowledge.File, opts...)
}

// newAssistant wires the full pipeline and loads knowledge. A load
// failure leaves the assistant in reduced mode rather than aborting.
func newAssistant(ctx context.Context) *services.AssistantService {
	splitterOpts := []passage.Option{passage.WithChunkSize(cfg.Retrieval.ChunkSize)}
	if cfg.Retrieval.ChunkOverlap > 0 {
		splitterOpts = append(splitterOpts, passage.WithOverlap(cfg.Retrieval.ChunkOverlap))
	}
	splitter := passage.New(splitterOpts...)
	buildIndex := func(passages []domain.Passage) driven.PassageIndex {
		return lexical.New(passages, lexical.WithThreshold(cfg.Retrieval.Threshold))
	}

	sources := []driven.KnowledgeSource{newDocumentSource()}
	if cfg.Knowledge.SiteFile != "" {
		sources = append(sources, knowledge.NewPageSource(cfg.Knowledge.SiteFile))
	}

	assistant := services.NewAssistantService(splitter, buildIndex, cachemem.NewAnswerCache(), cfg.Owner, sources...)
	assistant.SetCutoffs(cfg.Retrieval.WeakScore, cfg.Retrieval.IntentWeakScore)
	assistant.SetCompletionService(newCompletionService())

	if cfg.Knowledge.IntentsFile != "" {
		assistant.SetIntentSource(knowledge.NewFileIntentSource(cfg.Knowledge.IntentsFile))
	}

	prompts, err := configfile.NewPromptStore("")
	if err != nil {
		logger.Warn("prompt store unavailable: %v", err)
	} else {
		assistant.SetPromptStore(prompts)
	}

	state, err := configfile.NewStateStore("")
	if err != nil {
		logger.Warn("state store unavailable: %v", err)
	} else {
		assistant.SetStateStore(state)
	}

	if err := assistant.LoadKnowledge(ctx); err != nil {
		logger.Warn("knowledge load: %v", err)
	}
	return assistant
}
