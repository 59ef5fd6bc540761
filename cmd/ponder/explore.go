package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ponderlabs/ponder/internal/control"
	"github.com/ponderlabs/ponder/internal/profile"
	"github.com/ponderlabs/ponder/internal/reason"
	"github.com/ponderlabs/ponder/internal/tui"
	"github.com/ponderlabs/ponder/pkg/models"
)

var (
	exploreContext   string
	exploreCriteria  string
	exploreBranching int
	exploreDepth     int
	exploreThreshold float64
	exploreBonus     float64
	exploreProfile   string
	exploreJSON      bool
	exploreHeadless  bool
)

var exploreCmd = &cobra.Command{
	Use:   "explore <task>",
	Short: "Explore a task as a branching tree of thoughts",
	Long: `Explore a task by growing a scored tree of candidate thoughts.

Each node is expanded into alternatives, scored against evaluation
criteria, and pruned when its score falls at or below the expansion
threshold. The best root-to-leaf path is synthesized into a final answer.

A live display shows expansion progress; use --headless for plain logs.
Drop a file named "stop" into .ponder/signals to cancel a long search.

Named profiles from .ponder.yaml (or the built-ins deep/wide) can preset
the search shape:
  ponder explore --profile wide "how should we shard the event store?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExplore,
}

func init() {
	exploreCmd.Flags().StringVarP(&exploreContext, "context", "c", "", "Additional context for the task")
	exploreCmd.Flags().StringVar(&exploreCriteria, "criteria", "", "Evaluation criteria for scoring thoughts")
	exploreCmd.Flags().IntVar(&exploreBranching, "branching", 0, "Alternatives per expansion (0 = configured default)")
	exploreCmd.Flags().IntVar(&exploreDepth, "depth", 0, "Maximum tree depth (0 = configured default)")
	exploreCmd.Flags().Float64Var(&exploreThreshold, "threshold", 0, "Expansion score threshold (unset = configured default; 0 expands everything)")
	exploreCmd.Flags().Float64Var(&exploreBonus, "depth-bonus", 0, "Per-node path score bonus (unset = configured default; 0 selects by mean alone)")
	exploreCmd.Flags().StringVar(&exploreProfile, "profile", "", "Named reasoning profile")
	exploreCmd.Flags().BoolVar(&exploreJSON, "json", false, "Emit the result as JSON")
	exploreCmd.Flags().BoolVar(&exploreHeadless, "headless", false, "Run without the live progress display")
}

func runExplore(cmd *cobra.Command, args []string) error {
	task := args[0]

	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	opts := reason.TreeOptions{
		BranchingFactor: s.cfg.Tree.BranchingFactor,
		MaxDepth:        s.cfg.Tree.MaxDepth,
		ExpandThreshold: s.cfg.Tree.ExpandThreshold,
		DepthBonus:      s.cfg.Tree.DepthBonus,
	}
	criteria := exploreCriteria

	if exploreProfile != "" {
		p, err := profile.Resolve(exploreProfile)
		if err != nil {
			return err
		}
		if p.Mode != profile.ModeTree {
			return fmt.Errorf("profile %q is a %s profile; use 'ponder reason'", exploreProfile, p.Mode)
		}
		if p.BranchingFactor > 0 {
			opts.BranchingFactor = p.BranchingFactor
		}
		if p.MaxDepth > 0 {
			opts.MaxDepth = p.MaxDepth
		}
		if p.ExpandThreshold > 0 {
			opts.ExpandThreshold = p.ExpandThreshold
		}
		if p.DepthBonus > 0 {
			opts.DepthBonus = p.DepthBonus
		}
		if criteria == "" {
			criteria = p.Criteria
		}
	}
	if exploreBranching > 0 {
		opts.BranchingFactor = exploreBranching
	}
	if exploreDepth > 0 {
		opts.MaxDepth = exploreDepth
	}
	// Presence, not value, decides for the float knobs: zero is a meaningful
	// setting for both.
	if cmd.Flags().Changed("threshold") {
		opts.ExpandThreshold = exploreThreshold
	}
	if cmd.Flags().Changed("depth-bonus") {
		opts.DepthBonus = exploreBonus
	}

	cwd, _ := os.Getwd()
	watcher, err := control.NewWatcher(cwd)
	if err != nil {
		return fmt.Errorf("create signal watcher: %w", err)
	}
	defer watcher.Close()

	ctx, cancel := watcher.Context(context.Background())
	defer cancel()

	var result *models.TreeResult
	if exploreHeadless || exploreJSON {
		result, err = runExploreHeadless(ctx, s, task, criteria, opts)
	} else {
		result, err = runExploreTUI(ctx, cancel, s, task, criteria, opts)
	}
	if err != nil {
		return err
	}
	if result == nil {
		// User cancelled before a result was produced.
		return nil
	}

	if exploreJSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Print(tui.RenderTree(result))
	s.printUsage()
	return nil
}

// runExploreHeadless runs the search with plain log output.
func runExploreHeadless(ctx context.Context, s *session, task, criteria string, opts reason.TreeOptions) (*models.TreeResult, error) {
	opts.OnProgress = func(ev reason.ProgressEvent) {
		if ev.NodeID != "" {
			log.Printf("[explore] %s %s (depth %d, %d nodes)", ev.Phase, ev.NodeID, ev.Depth, ev.Nodes)
		} else {
			log.Printf("[explore] %s (%d nodes)", ev.Phase, ev.Nodes)
		}
	}

	tree := reason.NewTree(s.client, s.reason, opts)
	result, err := tree.Reason(ctx, task, exploreContext, criteria)
	if err != nil {
		return nil, fmt.Errorf("exploration failed: %w", err)
	}
	return result, nil
}

// runExploreTUI runs the search behind the live progress display.
func runExploreTUI(ctx context.Context, cancel context.CancelFunc, s *session, task, criteria string, opts reason.TreeOptions) (*models.TreeResult, error) {
	p, app := tui.NewSearchProgram(task, "tree")

	opts.OnProgress = func(ev reason.ProgressEvent) {
		p.Send(tui.SearchUpdateMsg{State: tui.SearchState{
			Task:      task,
			Mode:      "tree",
			Phase:     ev.Phase,
			Nodes:     ev.Nodes,
			LastNode:  ev.NodeID,
			LastDepth: ev.Depth,
		}})
		if ev.NodeID != "" {
			p.Send(tui.SearchLogMsg{
				Timestamp: time.Now(),
				Phase:     ev.Phase,
				Message:   "created " + ev.NodeID,
			})
		}
	}

	tree := reason.NewTree(s.client, s.reason, opts)

	var (
		result *models.TreeResult
		runErr error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		result, runErr = tree.Reason(ctx, task, exploreContext, criteria)
		answer := ""
		if result != nil {
			answer = result.FinalAnswer
		}
		p.Send(tui.SearchDoneMsg{Answer: answer, Err: runErr})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return nil, fmt.Errorf("progress display: %w", err)
	}

	if app.Cancelled() {
		cancel()
		<-done
		printStatus("⚠", "exploration cancelled", color.FgYellow)
		return nil, nil
	}

	<-done
	if runErr != nil {
		return nil, fmt.Errorf("exploration failed: %w", runErr)
	}
	return result, nil
}
