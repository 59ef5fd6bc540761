package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ponderlabs/ponder/internal/control"
	"github.com/ponderlabs/ponder/internal/profile"
	"github.com/ponderlabs/ponder/internal/reason"
	"github.com/ponderlabs/ponder/internal/tui"
)

var (
	reasonContext string
	reasonSteps   int
	reasonProfile string
	reasonJSON    bool
)

var reasonCmd = &cobra.Command{
	Use:   "reason <task>",
	Short: "Reason through a task step by step",
	Long: `Reason through a task with a bounded chain of thought.

The model produces numbered steps with per-step confidence and a final
answer. Responses that fail to parse degrade to the raw answer instead of
failing the run.

Named profiles from .ponder.yaml (or the built-ins quick/standard) can
preset the step bound:
  ponder reason --profile quick "why is the build flaky?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReason,
}

func init() {
	reasonCmd.Flags().StringVarP(&reasonContext, "context", "c", "", "Additional context for the task")
	reasonCmd.Flags().IntVar(&reasonSteps, "steps", 0, "Maximum reasoning steps (0 = configured default)")
	reasonCmd.Flags().StringVar(&reasonProfile, "profile", "", "Named reasoning profile")
	reasonCmd.Flags().BoolVar(&reasonJSON, "json", false, "Emit the result as JSON")
}

func runReason(cmd *cobra.Command, args []string) error {
	task := args[0]

	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	maxSteps := s.cfg.Chain.MaxSteps
	if reasonProfile != "" {
		p, err := profile.Resolve(reasonProfile)
		if err != nil {
			return err
		}
		if p.Mode != profile.ModeChain {
			return fmt.Errorf("profile %q is a %s profile; use 'ponder explore'", reasonProfile, p.Mode)
		}
		if p.MaxSteps > 0 {
			maxSteps = p.MaxSteps
		}
	}
	if reasonSteps > 0 {
		maxSteps = reasonSteps
	}

	cwd, _ := os.Getwd()
	watcher, err := control.NewWatcher(cwd)
	if err != nil {
		return fmt.Errorf("create signal watcher: %w", err)
	}
	defer watcher.Close()

	ctx, cancel := watcher.Context(context.Background())
	defer cancel()

	chain := reason.NewChain(s.client, s.reason, maxSteps)
	result, err := chain.Reason(ctx, task, reasonContext)
	if err != nil {
		return fmt.Errorf("reasoning failed: %w", err)
	}

	if reasonJSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Print(tui.RenderChain(result))
	if result.Reasoning == reason.ParseFailureReasoning {
		printStatus("⚠", "structured output unavailable; showing the raw answer", color.FgYellow)
	}
	s.printUsage()
	return nil
}
