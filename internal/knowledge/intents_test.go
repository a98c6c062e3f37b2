package knowledge

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeIntents(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "intents.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileIntentSourceLoad(t *testing.T) {
	path := writeIntents(t, `[
		{
			"name": "resume",
			"patterns": ["\\bresume\\b", "\\bcv\\b"],
			"href": "resume.pdf",
			"answer": "Here is the resume.",
			"tags": ["resume"],
			"prompt": "Show me your resume"
		}
	]`)

	rules, err := NewFileIntentSource(path).Load(context.Background())

	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "resume", rules[0].Name)
	assert.Len(t, rules[0].Patterns, 2)
	assert.True(t, rules[0].Matches("Can I see your Resume?"))
	assert.False(t, rules[0].Matches("tell me about projects"))
}

func TestFileIntentSourcePatternsCaseInsensitive(t *testing.T) {
	path := writeIntents(t, `[{"name": "skills", "patterns": ["skills?"]}]`)

	rules, err := NewFileIntentSource(path).Load(context.Background())

	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.True(t, rules[0].Matches("WHAT SKILLS do you have"))
}

func TestFileIntentSourceSkipsBadPattern(t *testing.T) {
	path := writeIntents(t, `[
		{"name": "broken", "patterns": ["[unclosed"]},
		{"name": "fine", "patterns": ["contact"]}
	]`)

	rules, err := NewFileIntentSource(path).Load(context.Background())

	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "fine", rules[0].Name)
}

func TestFileIntentSourceSkipsPatternlessRecord(t *testing.T) {
	path := writeIntents(t, `[{"name": "empty"}]`)

	rules, err := NewFileIntentSource(path).Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestFileIntentSourceMissingFile(t *testing.T) {
	src := NewFileIntentSource(filepath.Join(t.TempDir(), "missing.json"))

	rules, err := src.Load(context.Background())

	assert.NoError(t, err)
	assert.Nil(t, rules)
}

func TestFileIntentSourceMalformedJSON(t *testing.T) {
	path := writeIntents(t, `{not json]`)

	_, err := NewFileIntentSource(path).Load(context.Background())

	assert.Error(t, err)
}
