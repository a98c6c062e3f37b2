package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/zraval/portfolio-assistant/internal/core/domain"
	"github.com/zraval/portfolio-assistant/internal/core/ports/driven"
	"github.com/zraval/portfolio-assistant/internal/logger"
)

var _ driven.IntentSource = (*FileIntentSource)(nil)

// intentRecord is one entry in the intents document.
type intentRecord struct {
	Name     string   `json:"name"`
	Patterns []string `json:"patterns"`
	Href     string   `json:"href"`
	Answer   string   `json:"answer"`
	Tags     []string `json:"tags"`
	Prompt   string   `json:"prompt"`
}

// FileIntentSource loads guided intent rules from a JSON document.
// A missing file is not an error: intents are an optional layer.
type FileIntentSource struct {
	path string
}

// NewFileIntentSource creates a source reading intents from path.
func NewFileIntentSource(path string) *FileIntentSource {
	return &FileIntentSource{path: path}
}

// Load parses the intent rules. Records whose patterns fail to compile
// are skipped with a warning rather than failing the load.
func (s *FileIntentSource) Load(_ context.Context) ([]domain.IntentRule, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read intents: %w", err)
	}

	var records []intentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse intents: %w", err)
	}

	rules := make([]domain.IntentRule, 0, len(records))
	for _, rec := range records {
		rule := domain.IntentRule{
			Name:   rec.Name,
			Href:   rec.Href,
			Answer: rec.Answer,
			Tags:   rec.Tags,
			Prompt: rec.Prompt,
		}
		ok := true
		for _, p := range rec.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				logger.Warn("intents: skipping %q, bad pattern %q: %v", rec.Name, p, err)
				ok = false
				break
			}
			rule.Patterns = append(rule.Patterns, re)
		}
		if ok && len(rule.Patterns) > 0 {
			rules = append(rules, rule)
		}
	}
	return rules, nil
}
