package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/zraval/portfolio-assistant/internal/core/domain"
	"github.com/zraval/portfolio-assistant/internal/core/ports/driven"
	"github.com/zraval/portfolio-assistant/internal/core/services"
	"github.com/zraval/portfolio-assistant/internal/logger"
)

// chatRequest is the /api/chat request body. Context items arrive in
// the client's own flattened shape, so titles and bodies each have an
// alternate field.
type chatRequest struct {
	Query        string                    `json:"query"`
	ContextItems []contextItem             `json:"contextItems"`
	History      []domain.ConversationTurn `json:"history"`
	Model        string                    `json:"model"`
	MaxTokens    int                       `json:"max_tokens"`
}

// contextItem is one grounding item as sent by the client.
type contextItem struct {
	Title   string `json:"title"`
	Q       string `json:"q"`
	Type    string `json:"type"`
	Href    string `json:"href"`
	Content string `json:"content"`
	A       string `json:"a"`
}

func (it contextItem) displayTitle() string {
	switch {
	case it.Title != "":
		return it.Title
	case it.Q != "":
		return it.Q
	case it.Type != "":
		return it.Type
	default:
		return "Item"
	}
}

func (it contextItem) text() string {
	if it.Content != "" {
		return it.Content
	}
	return it.A
}

// chatResponse is the non-streaming /api/chat response body.
type chatResponse struct {
	Answer    string              `json:"answer"`
	Citations []services.Citation `json:"citations"`
}

var acceptsSSERe = regexp.MustCompile(`(?i)text/event-stream`)

// handleChat proxies one chat completion. The request is
// self-contained: the server builds the grounding prompt from the
// request's own context items and history and keeps nothing
// afterwards.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.llm == nil {
		writeError(w, http.StatusInternalServerError, "GROQ_API_KEY is not configured on the server.")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "Missing query")
		return
	}

	items := req.ContextItems
	if len(items) > 6 {
		items = items[:6]
	}
	sources := make([]services.PromptSource, 0, len(items))
	for _, it := range items {
		sources = append(sources, services.PromptSource{
			Title: it.displayTitle(),
			URL:   it.Href,
			Text:  it.text(),
		})
	}

	messages := services.BuildChatMessages(s.systemPrompt(), req.Query, sources, req.History)
	opts := driven.ChatOptions{Model: req.Model, MaxTokens: req.MaxTokens}

	wantsStream := r.URL.Query().Get("stream") == "1" || acceptsSSERe.MatchString(r.Header.Get("Accept"))

	logger.Debug("api/chat: query=%q context=%d history=%d stream=%t",
		req.Query, len(items), len(req.History), wantsStream)

	if wantsStream {
		s.streamChat(w, r, messages, opts)
		return
	}

	answer, err := s.llm.Chat(r.Context(), messages, opts)
	if err != nil {
		logger.Warn("api/chat: %v", err)
		if errors.Is(err, domain.ErrUpstream) {
			writeJSON(w, http.StatusBadGateway, map[string]string{
				"error":  "Groq API error",
				"detail": err.Error(),
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	citations := make([]services.Citation, 0, 4)
	for i, it := range req.ContextItems {
		if i == 4 {
			break
		}
		citations = append(citations, services.Citation{Title: it.displayTitle(), Href: it.Href})
	}
	writeJSON(w, http.StatusOK, chatResponse{Answer: answer, Citations: citations})
}

// streamChat relays the completion as server-sent events. Each delta
// is one data frame carrying the JSON-encoded fragment. The SSE
// preamble is held back until the first delta, so an upstream failure
// before any output still surfaces as a 502; once streaming has
// started, the done event is emitted exactly once, whatever happens
// upstream.
func (s *Server) streamChat(w http.ResponseWriter, r *http.Request, messages []driven.ChatMessage, opts driven.ChatOptions) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	started := false
	start := func() {
		if started {
			return
		}
		started = true
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()
	}

	done := false
	sendDone := func() {
		if done {
			return
		}
		done = true
		start()
		fmt.Fprint(w, "event: done\ndata: [DONE]\n\n")
		flusher.Flush()
	}

	_, err := s.llm.StreamChat(r.Context(), messages, opts, func(delta string) {
		payload, err := json.Marshal(delta)
		if err != nil {
			return
		}
		start()
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	})
	if err != nil {
		logger.Warn("api/chat stream: %v", err)
		if !started && errors.Is(err, domain.ErrUpstream) {
			writeJSON(w, http.StatusBadGateway, map[string]string{
				"error":  "Groq API error",
				"detail": err.Error(),
			})
			return
		}
	}
	sendDone()
}

func (s *Server) systemPrompt() string {
	if s.prompts != nil {
		if p, err := s.prompts.Load(driven.PromptChatSystem); err == nil && p != "" {
			if strings.Contains(p, "%s") {
				return fmt.Sprintf(p, s.cfg.Owner)
			}
			return p
		}
	}
	return fmt.Sprintf("System: You are %s's AI Portfolio Assistant. Answer using ONLY the provided Sources.", s.cfg.Owner)
}
