package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zraval/portfolio-assistant/internal/core/domain"
	"github.com/zraval/portfolio-assistant/internal/core/ports/driven"
)

func TestAnswerCache_ImplementsInterface(t *testing.T) {
	var _ driven.AnswerCache = (*AnswerCache)(nil)
}

func TestAnswerCache_GetMiss(t *testing.T) {
	c := NewAnswerCache()

	_, ok := c.Get("anything")

	assert.False(t, ok)
}

func TestAnswerCache_SetGet(t *testing.T) {
	c := NewAnswerCache()
	answer := domain.Answer{HTML: "<p>Hi</p>", Plain: "Hi", Source: domain.SourceLLM}

	c.Set("what skills", answer)

	got, ok := c.Get("what skills")
	require.True(t, ok)
	assert.Equal(t, answer, got)
}

func TestAnswerCache_NormalisesKeys(t *testing.T) {
	c := NewAnswerCache()
	answer := domain.Answer{Plain: "cached"}

	c.Set("  What Skills  ", answer)

	got, ok := c.Get("what skills")
	require.True(t, ok)
	assert.Equal(t, "cached", got.Plain)

	_, ok = c.Get("WHAT SKILLS")
	assert.True(t, ok)
}

func TestAnswerCache_Overwrites(t *testing.T) {
	c := NewAnswerCache()

	c.Set("q", domain.Answer{Plain: "old"})
	c.Set("q", domain.Answer{Plain: "new"})

	got, _ := c.Get("q")
	assert.Equal(t, "new", got.Plain)
	assert.Equal(t, 1, c.Len())
}

func TestAnswerCache_Len(t *testing.T) {
	c := NewAnswerCache()
	assert.Equal(t, 0, c.Len())

	c.Set("a", domain.Answer{})
	c.Set("b", domain.Answer{})

	assert.Equal(t, 2, c.Len())
}

func TestAnswerCache_ConcurrentAccess(t *testing.T) {
	c := NewAnswerCache()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Set("shared", domain.Answer{Plain: "v"})
			_, _ = c.Get("shared")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, c.Len())
}
