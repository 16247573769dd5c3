package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/xxxsen/common/logger"

	appErr "github.com/xxxsen/skillmap/internal/pkg/errors"
)

const (
	EnvEmbedAPIKey  = "SKILLMAP_EMBED_API_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
)

type Config struct {
	LogConfig logger.LogConfig `json:"log_config"`
	Embed     EmbedConfig      `json:"embed"`
	Cache     CacheConfig      `json:"cache"`
	Cluster   ClusterConfig    `json:"cluster"`
	Matching  MatchingConfig   `json:"matching"`
	Watch     WatchConfig      `json:"watch"`
}

type EmbedConfig struct {
	Provider          string          `json:"provider" validate:"required,oneof=openai gemini"`
	Model             string          `json:"model" validate:"required"`
	APIKey            string          `json:"api_key"`
	BaseURL           string          `json:"base_url" validate:"omitempty,url"`
	TaskType          string          `json:"task_type"`
	BatchSize         int             `json:"batch_size" validate:"gte=0"`
	Concurrency       int             `json:"concurrency" validate:"gte=0"`
	RequestsPerSecond float64         `json:"requests_per_second" validate:"gte=0"`
	TimeoutSeconds    int             `json:"timeout_seconds" validate:"gte=0"`
	Fallbacks         []FallbackEmbed `json:"fallbacks" validate:"dive"`
}

// FallbackEmbed is tried in order when the primary embed provider fails.
type FallbackEmbed struct {
	Provider string `json:"provider" validate:"required,oneof=openai gemini"`
	Model    string `json:"model" validate:"required"`
	APIKey   string `json:"api_key"`
	BaseURL  string `json:"base_url" validate:"omitempty,url"`
	TaskType string `json:"task_type"`
}

type CacheConfig struct {
	Size       int `json:"size" validate:"gte=0"`
	TTLSeconds int `json:"ttl_seconds" validate:"gte=0"`
}

type ClusterConfig struct {
	LexicalIterations  int    `json:"lexical_iterations" validate:"gte=0"`
	SemanticIterations int    `json:"semantic_iterations" validate:"gte=0"`
	DefaultK           int    `json:"default_k" validate:"gte=0"`
	Seed               uint64 `json:"seed"`
}

type MatchingConfig struct {
	SemanticThreshold  float64 `json:"semantic_threshold" validate:"gte=0,lte=1"`
	MaxRecommendations int     `json:"max_recommendations" validate:"gte=0"`
}

type WatchConfig struct {
	SkillsFile     string `json:"skills_file"`
	JobsFile       string `json:"jobs_file"`
	OutputFile     string `json:"output_file"`
	Spec           string `json:"spec"`
	CacheResetSpec string `json:"cache_reset_spec"`
}

func Default() *Config {
	return &Config{
		LogConfig: logger.LogConfig{Level: "info", Console: true},
		Embed: EmbedConfig{
			Provider:       "openai",
			Model:          "text-embedding-3-small",
			BatchSize:      100,
			Concurrency:    1,
			TimeoutSeconds: 30,
		},
		Cache: CacheConfig{Size: 10000},
		Cluster: ClusterConfig{
			LexicalIterations:  20,
			SemanticIterations: 50,
		},
		Matching: MatchingConfig{
			SemanticThreshold:  0.75,
			MaxRecommendations: 10,
		},
		Watch: WatchConfig{
			OutputFile:     "skillmap_snapshot.json",
			Spec:           "@every 10m",
			CacheResetSpec: "@daily",
		},
	}
}

// Load reads an optional .env file, then the JSON config at path on top of
// Default. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()
	cfg := Default()
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()
		if err := json.NewDecoder(file).Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w: %w", appErr.ErrInvalid, err)
		}
	}
	cfg.applyDefaults()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogConfig.Level == "" {
		c.LogConfig.Level = "info"
	}
	c.Embed.Provider = strings.ToLower(strings.TrimSpace(c.Embed.Provider))
	for i := range c.Embed.Fallbacks {
		c.Embed.Fallbacks[i].Provider = strings.ToLower(strings.TrimSpace(c.Embed.Fallbacks[i].Provider))
	}
}

func (c *Config) applyEnv() {
	if c.Embed.APIKey == "" {
		c.Embed.APIKey = APIKeyFromEnv(c.Embed.Provider)
	}
	for i := range c.Embed.Fallbacks {
		if c.Embed.Fallbacks[i].APIKey == "" {
			c.Embed.Fallbacks[i].APIKey = APIKeyFromEnv(c.Embed.Fallbacks[i].Provider)
		}
	}
}

// APIKeyFromEnv prefers SKILLMAP_EMBED_API_KEY, then the provider's own variable.
func APIKeyFromEnv(provider string) string {
	if v := os.Getenv(EnvEmbedAPIKey); v != "" {
		return v
	}
	switch provider {
	case "openai":
		return os.Getenv(EnvOpenAIAPIKey)
	case "gemini":
		return os.Getenv(EnvGeminiAPIKey)
	}
	return ""
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validate config: %w: %w", appErr.ErrInvalid, err)
	}
	return nil
}
