package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ponderlabs/ponder/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify Ponder configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/ponder/config.yaml
Project-specific overrides can be placed in .ponder.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	fmt.Printf("anthropic.api_key: %s\n", apiKeySummary(cfg))
	fmt.Printf("backend.model: %s\n", orUnset(cfg.Backend.Model))
	fmt.Printf("backend.max_tokens: %d\n", cfg.Backend.MaxTokens)
	fmt.Printf("backend.use_aws_bedrock: %t\n", cfg.Backend.UseAWSBedrock)
	fmt.Printf("backend.aws_region: %s\n", orUnset(cfg.Backend.AWSRegion))
	fmt.Printf("invoker.request_timeout: %s\n", cfg.Invoker.RequestTimeout)
	fmt.Printf("invoker.max_retries: %d\n", cfg.Invoker.MaxRetries)
	fmt.Printf("invoker.base_retry_delay: %s\n", cfg.Invoker.BaseRetryDelay)
	fmt.Printf("cache.ttl: %s\n", cfg.Cache.TTL)
	fmt.Printf("cache.sweep_interval: %s\n", cfg.Cache.SweepInterval)
	fmt.Printf("chain.max_steps: %d\n", cfg.Chain.MaxSteps)
	fmt.Printf("tree.branching_factor: %d\n", cfg.Tree.BranchingFactor)
	fmt.Printf("tree.max_depth: %d\n", cfg.Tree.MaxDepth)
	fmt.Printf("tree.expand_threshold: %g\n", cfg.Tree.ExpandThreshold)
	fmt.Printf("tree.depth_bonus: %g\n", cfg.Tree.DepthBonus)
	fmt.Printf("trace.enabled: %t\n", cfg.Trace.Enabled)
	fmt.Printf("trace.retain_for: %s\n", cfg.Trace.RetainFor)
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// apiKeySummary shows the resolved key masked, where it came from, and a
// format warning when it does not look like an Anthropic key.
func apiKeySummary(cfg *config.Config) string {
	key, err := config.GetAPIKey(cfg)
	if err != nil {
		return "(not set)"
	}

	summary := fmt.Sprintf("%s (from %s)", config.MaskAPIKey(key), config.GetAPIKeySource(cfg))
	if err := config.ValidateAPIKey(key); err != nil {
		summary += fmt.Sprintf(" -- warning: %v", err)
	}
	return summary
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		return apiKeySummary(cfg), nil
	case "backend.model":
		return orUnset(cfg.Backend.Model), nil
	case "backend.max_tokens":
		return strconv.FormatInt(cfg.Backend.MaxTokens, 10), nil
	case "backend.use_aws_bedrock":
		return strconv.FormatBool(cfg.Backend.UseAWSBedrock), nil
	case "backend.aws_region":
		return orUnset(cfg.Backend.AWSRegion), nil
	case "backend.aws_profile":
		return orUnset(cfg.Backend.AWSProfile), nil
	case "invoker.request_timeout":
		return cfg.Invoker.RequestTimeout.String(), nil
	case "invoker.max_retries":
		return strconv.Itoa(cfg.Invoker.MaxRetries), nil
	case "invoker.base_retry_delay":
		return cfg.Invoker.BaseRetryDelay.String(), nil
	case "cache.ttl":
		return cfg.Cache.TTL.String(), nil
	case "cache.sweep_interval":
		return cfg.Cache.SweepInterval.String(), nil
	case "chain.max_steps":
		return strconv.Itoa(cfg.Chain.MaxSteps), nil
	case "tree.branching_factor":
		return strconv.Itoa(cfg.Tree.BranchingFactor), nil
	case "tree.max_depth":
		return strconv.Itoa(cfg.Tree.MaxDepth), nil
	case "tree.expand_threshold":
		return strconv.FormatFloat(cfg.Tree.ExpandThreshold, 'g', -1, 64), nil
	case "tree.depth_bonus":
		return strconv.FormatFloat(cfg.Tree.DepthBonus, 'g', -1, 64), nil
	case "trace.enabled":
		return strconv.FormatBool(cfg.Trace.Enabled), nil
	case "trace.retain_for":
		return cfg.Trace.RetainFor.String(), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		cfg.Anthropic.APIKey = value
	case "backend.model":
		cfg.Backend.Model = value
	case "backend.max_tokens":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid value for max_tokens: %w", err)
		}
		cfg.Backend.MaxTokens = n
	case "backend.use_aws_bedrock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for use_aws_bedrock: %w", err)
		}
		cfg.Backend.UseAWSBedrock = b
	case "backend.aws_region":
		cfg.Backend.AWSRegion = value
	case "backend.aws_profile":
		cfg.Backend.AWSProfile = value
	case "invoker.request_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for request_timeout: %w", err)
		}
		cfg.Invoker.RequestTimeout = d
	case "invoker.max_retries":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_retries: %w", err)
		}
		cfg.Invoker.MaxRetries = n
	case "invoker.base_retry_delay":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for base_retry_delay: %w", err)
		}
		cfg.Invoker.BaseRetryDelay = d
	case "cache.ttl":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for cache.ttl: %w", err)
		}
		cfg.Cache.TTL = d
	case "cache.sweep_interval":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for sweep_interval: %w", err)
		}
		cfg.Cache.SweepInterval = d
	case "chain.max_steps":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_steps: %w", err)
		}
		cfg.Chain.MaxSteps = n
	case "tree.branching_factor":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for branching_factor: %w", err)
		}
		cfg.Tree.BranchingFactor = n
	case "tree.max_depth":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_depth: %w", err)
		}
		cfg.Tree.MaxDepth = n
	case "tree.expand_threshold":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid value for expand_threshold: %w", err)
		}
		cfg.Tree.ExpandThreshold = f
	case "tree.depth_bonus":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid value for depth_bonus: %w", err)
		}
		cfg.Tree.DepthBonus = f
	case "trace.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for trace.enabled: %w", err)
		}
		cfg.Trace.Enabled = b
	case "trace.retain_for":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for retain_for: %w", err)
		}
		cfg.Trace.RetainFor = d
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
