// Package memory provides an in-memory answer cache.
package memory

import (
	"strings"
	"sync"

	"github.com/zraval/portfolio-assistant/internal/core/domain"
	"github.com/zraval/portfolio-assistant/internal/core/ports/driven"
)

// Ensure AnswerCache implements the interface.
var _ driven.AnswerCache = (*AnswerCache)(nil)

// AnswerCache is an in-memory implementation of driven.AnswerCache.
// Entries live for the session; there is no eviction.
type AnswerCache struct {
	mu      sync.RWMutex
	answers map[string]domain.Answer
}

// NewAnswerCache creates a new in-memory answer cache.
func NewAnswerCache() *AnswerCache {
	return &AnswerCache{
		answers: make(map[string]domain.Answer),
	}
}

// Get returns the cached answer for the query, if any.
func (c *AnswerCache) Get(query string) (domain.Answer, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	answer, ok := c.answers[normalizeKey(query)]
	return answer, ok
}

// Set stores the answer under the normalised query.
func (c *AnswerCache) Set(query string, answer domain.Answer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.answers[normalizeKey(query)] = answer
}

// Len returns the number of cached entries.
func (c *AnswerCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.answers)
}

func normalizeKey(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}
