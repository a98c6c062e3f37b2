package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "Zinal Raval", cfg.Owner)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 5.0, cfg.Server.RateLimit)
	assert.Equal(t, 10, cfg.Server.RateBurst)
	assert.Equal(t, "data.json", cfg.Knowledge.File)
	assert.Equal(t, "intents.json", cfg.Knowledge.IntentsFile)
	assert.Equal(t, "index.html", cfg.Knowledge.SiteFile)
	assert.False(t, cfg.Knowledge.Watch)
	assert.Empty(t, cfg.LLM.Model)
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "assistant.toml")
	content := `
owner = "Someone Else"

[server]
addr = ":9090"

[knowledge]
file = "kb.json"
watch = true

[retrieval]
chunk_size = 300
chunk_overlap = 40
weak_score = 0.55

[llm]
model = "llama-3.3-70b-versatile"
max_tokens = 512
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "Someone Else", cfg.Owner)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	// Untouched fields keep their defaults
	assert.Equal(t, 10, cfg.Server.RateBurst)
	assert.Equal(t, "kb.json", cfg.Knowledge.File)
	assert.Equal(t, "intents.json", cfg.Knowledge.IntentsFile)
	assert.True(t, cfg.Knowledge.Watch)
	assert.Equal(t, 300, cfg.Retrieval.ChunkSize)
	assert.Equal(t, 40, cfg.Retrieval.ChunkOverlap)
	assert.Equal(t, 0.55, cfg.Retrieval.WeakScore)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.LLM.Model)
	assert.Equal(t, 512, cfg.LLM.MaxTokens)
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))

	require.Error(t, err)
	// Defaults still come back so callers can decide to continue
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_MalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("owner = [unclosed"), 0600))

	_, err := Load(path)

	assert.Error(t, err)
}

func TestLoadDefault_NoFileUsesDefaults(t *testing.T) {
	// Run from an empty directory with no config anywhere nearby
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)

	cfg, err := LoadDefault()

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadDefault_ReadsWorkingDirectoryFile(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, os.WriteFile(DefaultFileName, []byte(`owner = "From CWD"`), 0600))

	cfg, err := LoadDefault()

	require.NoError(t, err)
	assert.Equal(t, "From CWD", cfg.Owner)
}
