package profile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltin(t *testing.T) {
	profiles := Builtin()

	for _, name := range []string{"quick", "standard", "deep", "wide"} {
		p, ok := profiles[name]
		if !ok {
			t.Errorf("missing built-in profile %q", name)
			continue
		}
		if err := p.Validate(); err != nil {
			t.Errorf("built-in profile %q invalid: %v", name, err)
		}
	}

	if profiles["standard"].Mode != ModeChain {
		t.Errorf("standard mode = %q, want chain", profiles["standard"].Mode)
	}
	if profiles["deep"].Mode != ModeTree {
		t.Errorf("deep mode = %q, want tree", profiles["deep"].Mode)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".ponder.yaml")

	configContent := `
profiles:
  review:
    mode: tree
    branching_factor: 4
    max_depth: 2
    criteria: "prefer reversible changes"
  quick:
    mode: chain
    max_steps: 2
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	profiles, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	review, ok := profiles["review"]
	if !ok {
		t.Fatal("expected file-defined profile 'review'")
	}
	if review.Mode != ModeTree {
		t.Errorf("review mode = %q, want tree", review.Mode)
	}
	if review.BranchingFactor != 4 {
		t.Errorf("review branching_factor = %d, want 4", review.BranchingFactor)
	}
	if review.Criteria != "prefer reversible changes" {
		t.Errorf("review criteria = %q", review.Criteria)
	}

	// File profiles replace built-ins with the same name.
	if profiles["quick"].MaxSteps != 2 {
		t.Errorf("quick max_steps = %d, want file override 2", profiles["quick"].MaxSteps)
	}

	// Untouched built-ins survive the merge.
	if _, ok := profiles["deep"]; !ok {
		t.Error("built-in profile 'deep' should survive a file load")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".ponder.yaml")

	if err := os.WriteFile(configPath, []byte("profiles: [not: a: map"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		wantErr bool
	}{
		{"chain mode", Profile{Mode: ModeChain}, false},
		{"tree mode", Profile{Mode: ModeTree}, false},
		{"missing mode", Profile{}, true},
		{"unknown mode", Profile{Mode: "graph"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolveUnknownProfile(t *testing.T) {
	if _, err := Resolve("no-such-profile"); err == nil {
		t.Error("expected an error for an unknown profile")
	}
}
