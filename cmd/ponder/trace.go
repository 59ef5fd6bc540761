package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ponderlabs/ponder/internal/config"
	"github.com/ponderlabs/ponder/internal/trace"
)

var (
	traceLimit int
	tracePrune bool
)

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Show recent API invocations",
	Long: `Display the local invocation log.

Shows operation, model, token counts, and latency for recent calls.
Use --prune to delete records older than the configured retention.`,
	RunE: runTrace,
}

func init() {
	traceCmd.Flags().IntVarP(&traceLimit, "limit", "n", 20, "Number of records to show")
	traceCmd.Flags().BoolVar(&tracePrune, "prune", false, "Delete records older than trace.retain_for")
}

func runTrace(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	// Try the project database first, then the global one
	dbPath := trace.ProjectDBPath(cwd)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		dbPath = trace.GlobalDBPath()
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No invocations recorded yet. Run 'ponder reason <task>' to start.")
		return nil
	}

	store, err := trace.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open trace database: %w", err)
	}
	defer store.Close()

	if tracePrune {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		n, err := store.PruneOlderThan(cfg.Trace.RetainFor)
		if err != nil {
			return fmt.Errorf("prune trace: %w", err)
		}
		printStatus("✓", fmt.Sprintf("Pruned %d record(s) older than %s", n, cfg.Trace.RetainFor), color.FgGreen)
	}

	records, err := store.Recent(traceLimit)
	if err != nil {
		return fmt.Errorf("read trace: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No invocations recorded yet.")
		return nil
	}

	opStyle := color.New(color.FgMagenta)
	dimStyle := color.New(color.FgHiBlack)

	fmt.Printf("Recent invocations (%s):\n\n", dbPath)
	for _, rec := range records {
		fmt.Printf("  %s  %s  %s\n",
			dimStyle.Sprint(rec.CreatedAt.Local().Format("2006-01-02 15:04:05")),
			opStyle.Sprintf("%-16s", rec.Operation),
			rec.Model)
		fmt.Printf("    %s\n",
			dimStyle.Sprintf("%d in / %d out tokens, %s", rec.InputTokens, rec.OutputTokens, rec.Latency))
		if rec.PromptPreview != "" {
			fmt.Printf("    %s\n", dimStyle.Sprint(rec.PromptPreview))
		}
	}

	return nil
}
