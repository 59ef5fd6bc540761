// Package profile loads named reasoning profiles from project configuration.
// A profile bundles a reasoning mode with its tuning so callers can say
// "--profile deep" instead of repeating flags.
package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.yaml.in/yaml/v3"
)

// Profile describes one named reasoning configuration.
type Profile struct {
	// Mode selects the reasoner: "chain" or "tree".
	Mode string `yaml:"mode"`
	// MaxSteps bounds chain reasoning.
	MaxSteps int `yaml:"max_steps,omitempty"`
	// BranchingFactor tunes tree expansion width.
	BranchingFactor int `yaml:"branching_factor,omitempty"`
	// MaxDepth tunes tree depth.
	MaxDepth int `yaml:"max_depth,omitempty"`
	// ExpandThreshold is the score a branch must exceed to keep growing.
	// Only positive values override the configured default; use the
	// --threshold flag to force zero.
	ExpandThreshold float64 `yaml:"expand_threshold,omitempty"`
	// DepthBonus is the per-node path score bonus. Only positive values
	// override the configured default; use the --depth-bonus flag to force
	// zero.
	DepthBonus float64 `yaml:"depth_bonus,omitempty"`
	// Criteria overrides the default evaluation criteria for tree scoring.
	Criteria string `yaml:"criteria,omitempty"`
}

// ponderConfig represents the profiles section of a .ponder.yaml file.
type ponderConfig struct {
	Profiles map[string]Profile `yaml:"profiles"`
}

// ModeChain and ModeTree are the recognized profile modes.
const (
	ModeChain = "chain"
	ModeTree  = "tree"
)

// Builtin returns the built-in profiles available without any config file.
func Builtin() map[string]Profile {
	return map[string]Profile{
		"quick": {
			Mode:     ModeChain,
			MaxSteps: 3,
		},
		"standard": {
			Mode:     ModeChain,
			MaxSteps: 5,
		},
		"deep": {
			Mode:            ModeTree,
			BranchingFactor: 3,
			MaxDepth:        3,
		},
		"wide": {
			Mode:            ModeTree,
			BranchingFactor: 5,
			MaxDepth:        2,
		},
	}
}

// Load reads profiles from a .ponder.yaml file and merges them over the
// built-ins. File profiles with the same name replace built-ins entirely.
func Load(configPath string) (map[string]Profile, error) {
	profiles := Builtin()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config ponderConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", configPath, err)
	}

	for name, p := range config.Profiles {
		profiles[name] = p
	}

	return profiles, nil
}

// Resolve returns the named profile, consulting the project config file when
// one exists and falling back to the built-ins otherwise.
func Resolve(name string) (Profile, error) {
	profiles := Builtin()

	if configPath := findProjectConfig(); configPath != "" {
		loaded, err := Load(configPath)
		if err == nil {
			profiles = loaded
		}
	}

	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q (available: %v)", name, names(profiles))
	}
	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("profile %q: %w", name, err)
	}
	return p, nil
}

// Validate checks that the profile's mode is recognized.
func (p Profile) Validate() error {
	switch p.Mode {
	case ModeChain, ModeTree:
		return nil
	case "":
		return fmt.Errorf("mode is required (chain or tree)")
	default:
		return fmt.Errorf("unknown mode %q (want chain or tree)", p.Mode)
	}
}

// names returns profile names in sorted order for stable error messages.
func names(profiles map[string]Profile) []string {
	out := make([]string, 0, len(profiles))
	for name := range profiles {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
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
