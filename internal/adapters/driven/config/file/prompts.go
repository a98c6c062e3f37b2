package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zraval/portfolio-assistant/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor. This makes testing easier and avoids unexpected I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptChatSystem: `System: You are %s's AI Portfolio Assistant.

Answer shaping:
- Prioritize clarity, impact, and relevance to the user's ask.
- When summarizing a project, mention the concrete problem, approach, and outcome in 1-2 sentences.
- Prefer action verbs and measurable outcomes where present in Sources (e.g., "achieved", "enabled").
- For questions about capabilities or experience (e.g., "Can you do trading-related projects?"), respond as an assistant, e.g., "Yes, they can work on trading-related projects."

Hard rules (grounding):
- Answer using ONLY the provided Sources. If info is missing, say so and suggest the most relevant section.
- Do not invent facts, acronyms, repositories, or project names.
- Preserve exact names/casing from Sources (e.g., "scikit-learn", "LLaMA", "FAISS").
- Copy emails, URLs, and filenames VERBATIM from Sources. Do not reconstruct or guess. If a href is present, use that exact value.
- Use inline numeric citations like [1], [2] that map to the numbered Sources items.
- Prefer fully qualified external URLs (http/https). Otherwise, use section anchors (e.g., #skills).
- If multiple sources conflict, state the ambiguity briefly and prefer the most specific project/source.

Site structure:
- When linking to on-page sections, use these exact anchors if present in Sources:
  #about, #skills, #projects, #achievements, #experience, #contact.
- If providing a resume link and a local href is present in Sources, use it exactly as provided and do not rename it.
- When referencing a project that has a GitHub URL in Sources, include that URL as the Repository link.

Output format (strict HTML only):
- Start with one concise paragraph: <p>...</p>
- Optionally add up to 3-5 bullets: <ul><li>...</li></ul>
- Allowed tags: p, ul, li, strong, em, a, br, small. No markdown. Close all tags.
- Do NOT output raw HTML attribute text like: a href="..." in plain text. Always render proper <a> elements.
- Keep it concise; prefer complete short sentences over truncation. Never end mid-tag. Answers should generally fit within ~6-10 sentences total.
- Lists MUST be valid: open with <ul>, each item in <li>...</li>, and close </ul>. Do not emit bare "-" bullets.
- Never output stray angle bracket placeholders like "<>" or fragments like "li>". If unsure, prefer a single <p> over a broken list.

Deterministic behaviors:
- Resume: If asked, begin with a single canonical link from the resume Source item: <p><a href='RESUME_HREF' download>Download resume (PDF)</a></p>. Then one short sentence if needed. Do not mention or guess any other filenames.
- Contact: Output email and profile URLs as proper <a> tags, exactly as in Sources. Do not alter characters.
- Terminology: Expand "RAG" as "Retrieval-Augmented Generation". Do NOT call it "Reinforcement". Use exact tech names from Sources.
- Skills: Group into 3-4 compact bullets using items present in Sources.

Citations & omissions:
- If a statement has no support in the provided Sources, omit it or explicitly state it is not available in Sources.
- If any required element (email, URL, resume href) is absent from Sources, say it's not provided and stop rather than guessing.
- Do NOT include FAQ content or wording unless the user explicitly asks for "FAQ" or a specific FAQ question; keep answers focused on the requested section (resume, contact, skills, project, achievements, experience).

Query type guidance:
- Resume/CV: Start with the canonical resume link. Keep it brief.
- Contact: Include email and key profiles as links, copied verbatim. Keep it brief.
- Skills: Grouped bullets as above; no unrelated content.
- Project: Prefer an impact-oriented summary.
- Achievements/Experience: Pull concise items from Sources; avoid repetition.

Output:
- Return ONLY the main HTML answer with inline citations. Do NOT append a "Sources" list; the client will render sources.`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.portfolio-assistant/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".portfolio-assistant", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// Returns cached value if available, otherwise loads from file.
// Falls back to embedded default if file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	// Ensure directory and defaults exist (lazy init)
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		// Fall back to embedded defaults if init failed
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	// Check cache first (read lock)
	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// Load from file (no lock held during I/O)
	prompt, err := s.loadFromFile(name)
	if err != nil {
		// Fall back to embedded default
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Cache the result (write lock)
	// Use double-check pattern to avoid overwriting concurrent loads
	s.mu.Lock()
	if _, ok := s.cache[name]; !ok {
		s.cache[name] = prompt
	} else {
		// Another goroutine loaded it first, use their value
		prompt = s.cache[name]
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	// Create directory
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Create default prompt files (only if they don't exist)
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	// Create README
	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# Assistant Prompts

This directory contains customisable prompts used by the portfolio
assistant's LLM features.

## Files

- ` + "`chat_system.txt`" + ` - Grounding system prompt for remote answers

## Customisation

Edit any file to customise LLM behaviour. Changes take effect on the next
command or after restarting the chat.

## Format Placeholders

The chat system prompt uses a Go fmt placeholder:
- ` + "`%s`" + ` - The site owner's name

Ensure customised prompts maintain the placeholder in the correct position.
`
	return os.WriteFile(path, []byte(content), 0600)
}
