package tui

import (
	"strings"
	"testing"

	"github.com/ponderlabs/ponder/pkg/models"
)

func TestRenderChain(t *testing.T) {
	result := &models.ChainResult{
		Steps: []models.ReasoningStep{
			{Number: 1, Thought: "inspect the logs", Action: "read logs", Confidence: 0.9},
			{Number: 2, Thought: "classify the failure", Confidence: 0.8},
		},
		FinalAnswer: "dependency timeout",
		Reasoning:   "the signature matches a timeout",
	}

	out := RenderChain(result)

	if !strings.Contains(out, "inspect the logs") {
		t.Error("output should contain the first thought")
	}
	if !strings.Contains(out, "action: read logs") {
		t.Error("output should contain the step action")
	}
	if !strings.Contains(out, "dependency timeout") {
		t.Error("output should contain the final answer")
	}
	if !strings.Contains(out, "0.90") {
		t.Error("output should show step confidence")
	}
}

func TestRenderTree(t *testing.T) {
	leaf := &models.ThoughtNode{ID: "root-0-0", Thought: "narrow the search", Evaluation: 0.8, Depth: 2, IsLeaf: true}
	child := &models.ThoughtNode{ID: "root-0", Thought: "split by region", Evaluation: 0.7, Depth: 1, Children: []*models.ThoughtNode{leaf}}
	other := &models.ThoughtNode{ID: "root-1", Thought: "brute force", Evaluation: 0.3, Depth: 1, IsLeaf: true}
	root := &models.ThoughtNode{ID: "root", Thought: "find the regression", Evaluation: 1.0, Children: []*models.ThoughtNode{child, other}}

	best := []*models.ThoughtNode{root, child, leaf}
	result := &models.TreeResult{
		BestPath:    best,
		AllPaths:    [][]*models.ThoughtNode{best, {root, other}},
		FinalAnswer: "bisect by region",
		Reasoning:   "initial: find the regression\nstep 2: split by region\nconclusion: narrow the search",
	}

	out := RenderTree(result)

	for _, want := range []string{"find the regression", "split by region", "brute force", "bisect by region"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q", want)
		}
	}
	if !strings.Contains(out, "[0.30]") {
		t.Error("output should show node scores")
	}
	if !strings.Contains(out, "└─") {
		t.Error("output should use box-drawing connectors")
	}
}

func TestScoreStyleBands(t *testing.T) {
	if scoreStyle(0.9).GetForeground() != highScoreStyle.GetForeground() {
		t.Error("0.9 should use the high band")
	}
	if scoreStyle(0.5).GetForeground() != midScoreStyle.GetForeground() {
		t.Error("0.5 should use the mid band")
	}
	if scoreStyle(0.1).GetForeground() != lowScoreStyle.GetForeground() {
		t.Error("0.1 should use the low band")
	}
}
