// Package config handles configuration loading and management for Ponder.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for Ponder.
type Config struct {
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Backend   BackendConfig   `mapstructure:"backend"`
	Invoker   InvokerConfig   `mapstructure:"invoker"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Chain     ChainConfig     `mapstructure:"chain"`
	Tree      TreeConfig      `mapstructure:"tree"`
	Trace     TraceConfig     `mapstructure:"trace"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// BackendConfig holds model and transport settings.
type BackendConfig struct {
	// Model is the Claude model to call. Empty selects the backend default.
	Model string `mapstructure:"model"`
	// MaxTokens caps the response length per call.
	MaxTokens int64 `mapstructure:"max_tokens"`
	// UseAWSBedrock routes calls through AWS Bedrock instead of the
	// Anthropic API.
	UseAWSBedrock bool `mapstructure:"use_aws_bedrock"`
	// AWSRegion is the Bedrock region.
	AWSRegion string `mapstructure:"aws_region"`
	// AWSProfile is the optional AWS profile name.
	AWSProfile string `mapstructure:"aws_profile"`
}

// InvokerConfig holds retry and timeout settings.
type InvokerConfig struct {
	// RequestTimeout bounds a single attempt.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	// MaxRetries is the retry budget for transient network failures.
	MaxRetries int `mapstructure:"max_retries"`
	// BaseRetryDelay seeds the exponential backoff.
	BaseRetryDelay time.Duration `mapstructure:"base_retry_delay"`
}

// CacheConfig holds cache-advisor settings.
type CacheConfig struct {
	// TTL is the freshness window for prompt usage records.
	TTL time.Duration `mapstructure:"ttl"`
	// SweepInterval is how often expired records are removed.
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// ChainConfig holds chain-reasoner settings.
type ChainConfig struct {
	// MaxSteps bounds the number of reasoning steps.
	MaxSteps int `mapstructure:"max_steps"`
}

// TreeConfig holds tree-reasoner settings.
type TreeConfig struct {
	// BranchingFactor is the number of alternatives requested per expansion.
	BranchingFactor int `mapstructure:"branching_factor"`
	// MaxDepth bounds the search tree.
	MaxDepth int `mapstructure:"max_depth"`
	// ExpandThreshold is the score a child must exceed to be expanded.
	ExpandThreshold float64 `mapstructure:"expand_threshold"`
	// DepthBonus is the per-node path score bonus.
	DepthBonus float64 `mapstructure:"depth_bonus"`
}

// TraceConfig holds invocation-log settings.
type TraceConfig struct {
	// Enabled turns the local invocation log on.
	Enabled bool `mapstructure:"enabled"`
	// RetainFor is how long trace records are kept before pruning.
	RetainFor time.Duration `mapstructure:"retain_for"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY, PONDER_MODEL)
// 2. Project config (.ponder.yaml in current directory or parent)
// 3. User config (~/.config/ponder/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Load user config from XDG path
	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Load project config if present
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			// Merge project config (takes precedence)
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	// Environment variable overrides
	v.AutomaticEnv()
	v.SetEnvPrefix("")

	// Map specific environment variables
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("backend.model", "PONDER_MODEL")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("backend.model", cfg.Backend.Model)
	v.Set("backend.max_tokens", cfg.Backend.MaxTokens)
	v.Set("backend.use_aws_bedrock", cfg.Backend.UseAWSBedrock)
	v.Set("backend.aws_region", cfg.Backend.AWSRegion)
	v.Set("backend.aws_profile", cfg.Backend.AWSProfile)
	v.Set("invoker.request_timeout", cfg.Invoker.RequestTimeout.String())
	v.Set("invoker.max_retries", cfg.Invoker.MaxRetries)
	v.Set("invoker.base_retry_delay", cfg.Invoker.BaseRetryDelay.String())
	v.Set("cache.ttl", cfg.Cache.TTL.String())
	v.Set("cache.sweep_interval", cfg.Cache.SweepInterval.String())
	v.Set("chain.max_steps", cfg.Chain.MaxSteps)
	v.Set("tree.branching_factor", cfg.Tree.BranchingFactor)
	v.Set("tree.max_depth", cfg.Tree.MaxDepth)
	v.Set("tree.expand_threshold", cfg.Tree.ExpandThreshold)
	v.Set("tree.depth_bonus", cfg.Tree.DepthBonus)
	v.Set("trace.enabled", cfg.Trace.Enabled)
	v.Set("trace.retain_for", cfg.Trace.RetainFor.String())

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	// Anthropic defaults
	v.SetDefault("anthropic.api_key", "")

	// Backend defaults
	v.SetDefault("backend.model", "")
	v.SetDefault("backend.max_tokens", 4096)
	v.SetDefault("backend.use_aws_bedrock", false)
	v.SetDefault("backend.aws_region", "")
	v.SetDefault("backend.aws_profile", "")

	// Invoker defaults
	v.SetDefault("invoker.request_timeout", "30s")
	v.SetDefault("invoker.max_retries", 3)
	v.SetDefault("invoker.base_retry_delay", "1s")

	// Cache defaults
	v.SetDefault("cache.ttl", "5m")
	v.SetDefault("cache.sweep_interval", "60s")

	// Reasoner defaults
	v.SetDefault("chain.max_steps", 5)
	v.SetDefault("tree.branching_factor", 3)
	v.SetDefault("tree.max_depth", 3)
	v.SetDefault("tree.expand_threshold", 0.5)
	v.SetDefault("tree.depth_bonus", 0.1)

	// Trace defaults
	v.SetDefault("trace.enabled", true)
	v.SetDefault("trace.retain_for", "168h")
}

// getUserConfigDir returns the XDG config directory for Ponder.
func getUserConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "ponder")
	}

	// Fall back to ~/.config/ponder
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "ponder")
	}
	return filepath.Join(home, ".config", "ponder")
}

// findProjectConfig searches for .ponder.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".ponder.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Anthropic: AnthropicConfig{
			APIKey: "",
		},
		Backend: BackendConfig{
			MaxTokens: 4096,
		},
		Invoker: InvokerConfig{
			RequestTimeout: 30 * time.Second,
			MaxRetries:     3,
			BaseRetryDelay: 1 * time.Second,
		},
		Cache: CacheConfig{
			TTL:           5 * time.Minute,
			SweepInterval: 60 * time.Second,
		},
		Chain: ChainConfig{
			MaxSteps: 5,
		},
		Tree: TreeConfig{
			BranchingFactor: 3,
			MaxDepth:        3,
			ExpandThreshold: 0.5,
			DepthBonus:      0.1,
		},
		Trace: TraceConfig{
			Enabled:   true,
			RetainFor: 168 * time.Hour,
		},
	}
}
