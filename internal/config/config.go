// Package config loads the assistant's TOML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DefaultFileName is the config file looked up in the working
// directory before falling back to the home directory.
const DefaultFileName = "assistant.toml"

// Config is the full application configuration.
type Config struct {
	// Owner is the site owner's display name.
	Owner string `toml:"owner"`

	Server    ServerConfig    `toml:"server"`
	Knowledge KnowledgeConfig `toml:"knowledge"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	LLM       LLMConfig       `toml:"llm"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `toml:"addr"`

	// StaticDir, when set, serves the portfolio site from this
	// directory.
	StaticDir string `toml:"static_dir"`

	// RateLimit is the sustained requests per second allowed per
	// client IP. Zero disables limiting.
	RateLimit float64 `toml:"rate_limit"`

	// RateBurst is the burst allowance per client IP.
	RateBurst int `toml:"rate_burst"`
}

// KnowledgeConfig locates the knowledge inputs.
type KnowledgeConfig struct {
	// File is the JSON knowledge document path.
	File string `toml:"file"`

	// IntentsFile is the optional guided-intents document path.
	IntentsFile string `toml:"intents_file"`

	// SiteFile is the optional portfolio HTML page, used both as a
	// degraded knowledge source and for section augmentation.
	SiteFile string `toml:"site_file"`

	// Watch reloads knowledge when the files change.
	Watch bool `toml:"watch"`
}

// RetrievalConfig tunes passage building and arbitration.
type RetrievalConfig struct {
	ChunkSize       int     `toml:"chunk_size"`
	ChunkOverlap    int     `toml:"chunk_overlap"`
	Threshold       float64 `toml:"threshold"`
	WeakScore       float64 `toml:"weak_score"`
	IntentWeakScore float64 `toml:"intent_weak_score"`
}

// LLMConfig configures the remote completion service. The API key is
// never stored here; it comes from the GROQ_API_KEY environment
// variable.
type LLMConfig struct {
	Model       string `toml:"model"`
	MaxTokens   int    `toml:"max_tokens"`
	BaseURL     string `toml:"base_url"`
	TimeoutSecs int    `toml:"timeout_secs"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Owner: "Zinal Raval",
		Server: ServerConfig{
			Addr:      ":8080",
			RateLimit: 5,
			RateBurst: 10,
		},
		Knowledge: KnowledgeConfig{
			File:        "data.json",
			IntentsFile: "intents.json",
			SiteFile:    "index.html",
		},
	}
}

// Load reads the config file at path over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault looks for assistant.toml in the working directory, then
// ~/.portfolio-assistant/config.toml. A missing file is not an error;
// the defaults apply.
func LoadDefault() (Config, error) {
	if _, err := os.Stat(DefaultFileName); err == nil {
		return Load(DefaultFileName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".portfolio-assistant", "config.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Default(), nil
}
