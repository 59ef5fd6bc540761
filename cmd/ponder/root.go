package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ponder",
	Short: "Resilient reasoning workflows on Claude",
	Long: `Ponder runs structured reasoning workflows against the Anthropic API.

Core capabilities:
- Chain reasoning: step-by-step analysis with bounded depth
- Tree reasoning: branching exploration with scored alternatives
- Resilient invocation: timeouts, classified errors, category-aware retries
- Cache advice: repeated prompts opt into provider-side caching
- Invocation trace: a local log of every call with tokens and latency

Drop a file named "stop" into .ponder/signals to cancel a running search
from another terminal.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(reasonCmd)
	rootCmd.AddCommand(exploreCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(versionCmd)
}

// printStatus prints a colored status line.
func printStatus(symbol, message string, attr color.Attribute) {
	c := color.New(attr)
	c.Printf("%s ", symbol)
	fmt.Println(message)
}
