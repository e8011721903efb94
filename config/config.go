package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/poiesic/semanalyzer/ai"
	"github.com/poiesic/semanalyzer/profile"
)

// DefaultVectorFile is the word2vec resource looked up under the user's
// home directory when no vector path is configured.
const DefaultVectorFile = "Downloads/archive/GoogleNews-vectors-negative300.bin"

// Config holds the semanalyzer configuration.
type Config struct {
	AI      AIConfig      `yaml:"ai"`
	Vectors VectorsConfig `yaml:"vectors"`
	Cache   CacheConfig   `yaml:"cache"`
	Profile ProfileConfig `yaml:"profile"`
	Logging LoggingConfig `yaml:"logging"`
}

// AIConfig selects and configures the model provider.
type AIConfig struct {
	Provider           string `yaml:"provider"` // openai, local (default: openai)
	EmbeddingHost      string `yaml:"embedding_host"`
	ClassifierHost     string `yaml:"classifier_host"`
	EmbeddingModel     string `yaml:"embedding_model"`
	ClassifierModel    string `yaml:"classifier_model"`
	SummarizerModel    string `yaml:"summarizer_model"`
	APIKey             string `yaml:"api_key"`
	MaxAttempts        int    `yaml:"max_attempts"`
	EmbeddingBatchSize int    `yaml:"embedding_batch_size"`
}

// VectorsConfig locates the word vector resource.
type VectorsConfig struct {
	Path  string `yaml:"path"`
	Limit int    `yaml:"limit"` // 0 = whole vocabulary
}

// CacheConfig configures the persistent embedding cache.
type CacheConfig struct {
	Dir       string `yaml:"dir"` // empty disables the cache
	Namespace string `yaml:"namespace"`
}

// ProfileConfig configures qualitative profiling.
type ProfileConfig struct {
	Workers       int    `yaml:"workers"`
	FailurePolicy string `yaml:"failure_policy"` // partial, fail-unit
	RetryAttempts int    `yaml:"retry_attempts"`
	RetryDelayMS  int    `yaml:"retry_delay_ms"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	aiCfg := ai.DefaultConfig()
	cfg := &Config{
		AI: AIConfig{
			Provider:           aiCfg.Provider,
			EmbeddingHost:      aiCfg.EmbeddingHost,
			ClassifierHost:     aiCfg.ClassifierHost,
			EmbeddingModel:     aiCfg.EmbeddingModel,
			ClassifierModel:    aiCfg.ClassifierModel,
			APIKey:             aiCfg.APIKey,
			MaxAttempts:        aiCfg.MaxAttempts,
			EmbeddingBatchSize: aiCfg.EmbeddingBatchSize,
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

// Load reads a config from path. If path is empty or the file does not
// exist, returns defaults. ${VAR} and ${VAR:-default} references are
// replaced with environment values before parsing.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	data = expandEnvVars(data)

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.AI.Provider == "" {
		c.AI.Provider = ai.ProviderOpenAI
	}
	if c.AI.MaxAttempts <= 0 {
		c.AI.MaxAttempts = 3
	}
	if c.AI.EmbeddingBatchSize <= 0 {
		c.AI.EmbeddingBatchSize = 64
	}
	if c.Vectors.Path == "" {
		c.Vectors.Path = DefaultVectorPath()
	}
	if c.Cache.Namespace == "" {
		c.Cache.Namespace = "default"
	}
	if c.Profile.Workers <= 0 {
		c.Profile.Workers = 1
	}
	if c.Profile.FailurePolicy == "" {
		c.Profile.FailurePolicy = profile.PartialResults.String()
	}
	if c.Profile.RetryAttempts <= 0 {
		c.Profile.RetryAttempts = 1
	}
	if c.Profile.RetryDelayMS <= 0 {
		c.Profile.RetryDelayMS = 200
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if _, err := profile.ParseFailurePolicy(c.Profile.FailurePolicy); err != nil {
		return fmt.Errorf("profile.failure_policy: %w", err)
	}
	if c.Vectors.Limit < 0 {
		return fmt.Errorf("vectors.limit must not be negative, got %d", c.Vectors.Limit)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return c.AIConfig().Validate()
}

// AIConfig converts the ai section into an ai.Config.
func (c *Config) AIConfig() *ai.Config {
	return &ai.Config{
		Provider:           c.AI.Provider,
		EmbeddingHost:      c.AI.EmbeddingHost,
		ClassifierHost:     c.AI.ClassifierHost,
		EmbeddingModel:     c.AI.EmbeddingModel,
		ClassifierModel:    c.AI.ClassifierModel,
		SummarizerModel:    c.AI.SummarizerModel,
		APIKey:             c.AI.APIKey,
		MaxAttempts:        c.AI.MaxAttempts,
		EmbeddingBatchSize: c.AI.EmbeddingBatchSize,
	}
}

// FailurePolicy returns the parsed profile failure policy.
func (c *Config) FailurePolicy() profile.FailurePolicy {
	policy, err := profile.ParseFailurePolicy(c.Profile.FailurePolicy)
	if err != nil {
		return profile.PartialResults
	}
	return policy
}

// RetryDelay returns the base delay between profiling retries.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Profile.RetryDelayMS) * time.Millisecond
}

// DefaultVectorPath returns DefaultVectorFile under the user's home
// directory, or DefaultVectorFile itself when home cannot be resolved.
func DefaultVectorPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultVectorFile
	}
	return filepath.Join(home, DefaultVectorFile)
}

// DefaultPath returns ~/.config/semanalyzer/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "semanalyzer", "config.yaml"), nil
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		name, fallback, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(name)
		if val == "" && hasDefault {
			val = fallback
		}
		return []byte(val)
	})
}
