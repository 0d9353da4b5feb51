// Package config loads dialogshift settings from a TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Scorer names accepted by sentiment.scorer.
const (
	ScorerVader   = "vader"
	ScorerLexicon = "lexicon"
)

// DataConfig locates the DailyDialog split directories.
type DataConfig struct {
	BaseDir string `toml:"base_dir"`
	Strict  bool   `toml:"strict"`
}

// SentimentConfig selects the polarity scorer. A lexicon path implies the
// lexicon scorer.
type SentimentConfig struct {
	Scorer  string `toml:"scorer"`
	Workers int    `toml:"workers"`
	Lexicon string `toml:"lexicon"`
}

// EmbeddingConfig points at a pretrained word-vector file.
type EmbeddingConfig struct {
	Path string `toml:"path"`
}

// StoreConfig locates the SQLite database of saved runs.
type StoreConfig struct {
	DB string `toml:"db"`
}

// Config holds every dialogshift setting, one section per TOML table.
type Config struct {
	Data      DataConfig      `toml:"data"`
	Sentiment SentimentConfig `toml:"sentiment"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Store     StoreConfig     `toml:"store"`
}

// Default returns the settings used when no file or variable overrides them.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Data:      DataConfig{BaseDir: "data"},
		Sentiment: SentimentConfig{Scorer: ScorerVader, Workers: 1},
		Store:     StoreConfig{DB: filepath.Join(home, ".dialogshift", "samples.db")},
	}
}

// Load reads path over the defaults. A missing file is not an error when
// optional is set, so a default config path can always be passed.
func Load(path string, optional bool) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from DIALOGSHIFT_* variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("DIALOGSHIFT_DATA"); v != "" {
		c.Data.BaseDir = v
	}
	if v := os.Getenv("DIALOGSHIFT_DB"); v != "" {
		c.Store.DB = v
	}
	if v := os.Getenv("DIALOGSHIFT_EMBEDDINGS"); v != "" {
		c.Embedding.Path = v
	}
	if v := os.Getenv("DIALOGSHIFT_SCORER"); v != "" {
		c.Sentiment.Scorer = v
	}
	if v := os.Getenv("DIALOGSHIFT_LEXICON"); v != "" {
		c.Sentiment.Lexicon = v
	}
	if v := os.Getenv("DIALOGSHIFT_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DIALOGSHIFT_WORKERS: %w", err)
		}
		c.Sentiment.Workers = n
	}
	return nil
}

// Validate checks settings that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Data.BaseDir == "" {
		return errors.New("data.base_dir is required")
	}
	switch c.Sentiment.Scorer {
	case ScorerVader, ScorerLexicon:
	default:
		return fmt.Errorf("sentiment.scorer %q is not one of %s, %s", c.Sentiment.Scorer, ScorerVader, ScorerLexicon)
	}
	if c.Sentiment.Workers < 0 {
		return errors.New("sentiment.workers must be >= 0")
	}
	return nil
}
