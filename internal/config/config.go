// ABOUTME: Configuration loading for the vertex search service
// ABOUTME: YAML file with environment overrides; validated eagerly at startup
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vertexhq/vertex/internal/indexing"
	"github.com/vertexhq/vertex/internal/models"
)

// Config holds all configuration for the service. Invalid values are
// rejected here, at startup, never at query time.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Indexing  IndexingConfig  `yaml:"indexing"`
	Search    SearchConfig    `yaml:"search"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds the database location.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// Duration wraps time.Duration so YAML values like "30s" parse cleanly.
// Bare integers are read as seconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration value: %w", err)
	}
	*d = Duration(time.Duration(n) * time.Second)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// ProviderConfig holds settings for one embedding backend.
type ProviderConfig struct {
	Enabled bool     `yaml:"enabled"`
	BaseURL string   `yaml:"base_url"`
	APIKey  string   `yaml:"api_key"`
	Timeout Duration `yaml:"timeout"`
}

// EmbeddingConfig holds provider settings and the default model.
type EmbeddingConfig struct {
	DefaultModel string                    `yaml:"default_model"`
	Providers    map[string]ProviderConfig `yaml:"providers"`
}

// IndexingConfig selects the text preparation strategy.
type IndexingConfig struct {
	Strategy      string `yaml:"strategy"`
	MaxTextLength int    `yaml:"max_text_length"`
}

// SearchConfig holds similarity floor and result cap defaults.
type SearchConfig struct {
	MinSimilarity float64 `yaml:"min_similarity"`
	DefaultLimit  int     `yaml:"default_limit"`
	MaxResults    int     `yaml:"max_results"`
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Embedding: EmbeddingConfig{
			DefaultModel: models.ModelNomicEmbedText.Name,
			Providers: map[string]ProviderConfig{
				"ollama": {
					Enabled: true,
					BaseURL: "http://localhost:11434",
					Timeout: Duration(30 * time.Second),
				},
				"openai": {
					Enabled: false,
					Timeout: Duration(30 * time.Second),
				},
			},
		},
		Indexing: IndexingConfig{
			Strategy:      indexing.BasicStrategyName,
			MaxTextLength: indexing.DefaultMaxTextLength,
		},
		Search: SearchConfig{
			MinSimilarity: 0.7,
			DefaultLimit:  20,
			MaxResults:    100,
		},
	}
}

// Load reads configuration from an optional YAML file, applies environment
// overrides, and validates the result. An empty path uses defaults only.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays recognized environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("VERTEX_DB_PATH"); v != "" {
		c.Storage.DatabasePath = v
	}
	if v := os.Getenv("VERTEX_DEFAULT_MODEL"); v != "" {
		c.Embedding.DefaultModel = v
	}
	if v := os.Getenv("OLLAMA_BASE_URL"); v != "" {
		p := c.Embedding.Providers["ollama"]
		p.BaseURL = v
		c.Embedding.Providers["ollama"] = p
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		p := c.Embedding.Providers["openai"]
		p.APIKey = v
		c.Embedding.Providers["openai"] = p
	}
	if v := os.Getenv("VERTEX_INDEXING_STRATEGY"); v != "" {
		c.Indexing.Strategy = v
	}
	if v := os.Getenv("VERTEX_MIN_SIMILARITY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Search.MinSimilarity = f
		}
	}
	if v := os.Getenv("VERTEX_DEBUG"); v == "true" || v == "1" {
		c.Debug = true
	}
}

// Validate checks the configuration surface. Unknown models, unknown
// strategies, and out-of-range thresholds all fail here.
func (c *Config) Validate() error {
	model, err := models.ModelByName(c.Embedding.DefaultModel)
	if err != nil {
		return fmt.Errorf("embedding.default_model: %w", err)
	}
	if !model.Dimension.Valid() {
		return fmt.Errorf("embedding.default_model %q has unsupported dimension %d",
			model.Name, model.Dimension)
	}

	providerCfg, ok := c.Embedding.Providers[string(model.Provider)]
	if !ok || !providerCfg.Enabled {
		return fmt.Errorf("embedding.default_model %q requires the %q provider to be enabled",
			model.Name, model.Provider)
	}

	if _, err := indexing.ForName(c.Indexing.Strategy, c.Indexing.MaxTextLength); err != nil {
		return fmt.Errorf("indexing.strategy: %w", err)
	}
	if c.Indexing.MaxTextLength < 0 {
		return fmt.Errorf("indexing.max_text_length must be >= 0, got %d", c.Indexing.MaxTextLength)
	}

	if c.Search.MinSimilarity < 0 || c.Search.MinSimilarity > 1 {
		return fmt.Errorf("search.min_similarity must be in [0,1], got %f", c.Search.MinSimilarity)
	}
	if c.Search.DefaultLimit <= 0 {
		return fmt.Errorf("search.default_limit must be > 0, got %d", c.Search.DefaultLimit)
	}
	if c.Search.MaxResults < c.Search.DefaultLimit {
		return fmt.Errorf("search.max_results (%d) must be >= search.default_limit (%d)",
			c.Search.MaxResults, c.Search.DefaultLimit)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}

	return nil
}

// DefaultModel returns the validated default embedding model entry.
func (c *Config) DefaultModel() models.EmbeddingModel {
	m, _ := models.ModelByName(c.Embedding.DefaultModel)
	return m
}
