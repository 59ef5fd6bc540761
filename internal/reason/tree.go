package reason

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/ponderlabs/ponder/pkg/models"
)

// Tree search defaults. The expansion threshold and depth bonus have no
// principled derivation; they are exposed as configuration rather than
// assumed to suit every domain.
const (
	DefaultBranchingFactor = 3
	DefaultMaxDepth        = 3
	DefaultExpandThreshold = 0.5
	DefaultDepthBonus      = 0.1
)

// fallbackThought is the single child produced when an expansion response is
// malformed; its low score makes it a leaf so the branch ends there instead
// of aborting.
const (
	fallbackThought    = "Continue with the current approach"
	fallbackEvaluation = 0.3
)

// TreeOptions tunes the branching search.
type TreeOptions struct {
	// BranchingFactor is the number of alternatives requested per
	// expansion. Defaults to DefaultBranchingFactor.
	BranchingFactor int
	// MaxDepth bounds the tree. Defaults to DefaultMaxDepth.
	MaxDepth int
	// ExpandThreshold is the score a child must exceed to be expanded.
	// Zero is honored (every positively scored child expands); negative
	// values select DefaultExpandThreshold.
	ExpandThreshold float64
	// DepthBonus is added to a path's score per node, biasing selection
	// toward longer, more thoroughly reasoned paths. Zero is honored
	// (selection by mean score alone); negative values select
	// DefaultDepthBonus.
	DepthBonus float64
	// OnProgress, when set, receives an event per created node and per
	// phase change. Must be fast; it runs on the reasoning path.
	OnProgress func(ev ProgressEvent)
}

// ProgressEvent describes search progress for interactive display.
type ProgressEvent struct {
	// Phase is "expanding" or "synthesizing".
	Phase string
	// NodeID is the node just created (expanding phase only).
	NodeID string
	// Depth is that node's depth.
	Depth int
	// Nodes is the total number of nodes created so far.
	Nodes int
}

// treeExpansion is the JSON structure the backend returns for an expansion.
type treeExpansion struct {
	Thoughts []treeThought `json:"thoughts"`
}

type treeThought struct {
	Thought    string          `json:"thought"`
	Evaluation float64         `json:"evaluation"`
	State      json.RawMessage `json:"state,omitempty"`
}

// Tree performs branching tree-of-thought reasoning: grow a search tree of
// candidate thoughts, score each, and synthesize an answer from the best
// root-to-leaf path.
type Tree struct {
	backend Backend
	cfg     Config
	opts    TreeOptions

	nodes int
}

// DefaultTreeOptions returns the stock search tuning.
func DefaultTreeOptions() TreeOptions {
	return TreeOptions{
		BranchingFactor: DefaultBranchingFactor,
		MaxDepth:        DefaultMaxDepth,
		ExpandThreshold: DefaultExpandThreshold,
		DepthBonus:      DefaultDepthBonus,
	}
}

// NewTree creates a tree reasoner. Non-positive integer options and negative
// float options select the defaults; a zero threshold or depth bonus is a
// valid explicit setting.
func NewTree(b Backend, cfg Config, opts TreeOptions) *Tree {
	if opts.BranchingFactor <= 0 {
		opts.BranchingFactor = DefaultBranchingFactor
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.ExpandThreshold < 0 {
		opts.ExpandThreshold = DefaultExpandThreshold
	}
	if opts.DepthBonus < 0 {
		opts.DepthBonus = DefaultDepthBonus
	}
	return &Tree{backend: b, cfg: cfg, opts: opts}
}

// Reason grows and evaluates the search tree, then synthesizes a final
// answer from the best path. The root is always expanded regardless of its
// placeholder score. Backend failures during expansion propagate; a failed
// synthesis call falls back to the terminal node's thought.
func (t *Tree) Reason(ctx context.Context, task, taskContext, criteria string) (*models.TreeResult, error) {
	if criteria == "" {
		criteria = defaultCriteria
	}
	if taskContext == "" {
		taskContext = "(none)"
	}

	t.nodes = 1
	root := &models.ThoughtNode{
		ID:         "root",
		Thought:    task,
		Evaluation: 1.0, // placeholder; the root is expanded unconditionally
		Depth:      0,
	}

	if err := t.expand(ctx, root, task, taskContext, criteria); err != nil {
		return nil, err
	}

	paths := collectPaths(root)
	best := t.selectBestPath(paths)

	t.progress(ProgressEvent{Phase: "synthesizing", Nodes: t.nodes})

	answer, err := t.synthesize(ctx, task, taskContext, best)
	if err != nil {
		// Reasoning already happened; don't throw it away over a failed
		// summary call.
		log.Printf("[tree] synthesis failed, falling back to terminal thought: %v", err)
		answer = best[len(best)-1].Thought
	}

	return &models.TreeResult{
		BestPath:    best,
		AllPaths:    paths,
		FinalAnswer: answer,
		Reasoning:   narrative(best),
	}, nil
}

// expand grows the subtree under node. A child is expanded only when its
// score exceeds the threshold and it has not reached maximum depth;
// otherwise it is a leaf from creation and is never revisited.
func (t *Tree) expand(ctx context.Context, node *models.ThoughtNode, task, taskContext, criteria string) error {
	if node.Depth >= t.opts.MaxDepth {
		node.IsLeaf = true
		return nil
	}

	state := "{}"
	if len(node.State) > 0 {
		state = string(node.State)
	}
	prompt := fmt.Sprintf(treeExpandPrompt, task, taskContext, node.Thought, state, criteria, t.opts.BranchingFactor)

	resp, err := t.cfg.invoke(ctx, t.backend, "tree_expand", backendRequest(treeSystemPrompt, prompt))
	if err != nil {
		return err
	}

	thoughts := parseExpansion(resp.Content)
	if len(thoughts) == 0 {
		// Malformed response: degrade to one low-confidence child instead
		// of aborting the branch.
		thoughts = []treeThought{{
			Thought:    fallbackThought,
			Evaluation: fallbackEvaluation,
			State:      node.State,
		}}
	}
	if len(thoughts) > t.opts.BranchingFactor {
		thoughts = thoughts[:t.opts.BranchingFactor]
	}

	for i, th := range thoughts {
		child := &models.ThoughtNode{
			ID:         fmt.Sprintf("%s-%d", node.ID, i),
			Thought:    th.Thought,
			State:      th.State,
			Evaluation: clamp01(th.Evaluation),
			Depth:      node.Depth + 1,
		}
		node.Children = append(node.Children, child)
		t.nodes++
		t.progress(ProgressEvent{Phase: "expanding", NodeID: child.ID, Depth: child.Depth, Nodes: t.nodes})

		if child.Depth >= t.opts.MaxDepth || child.Evaluation <= t.opts.ExpandThreshold {
			child.IsLeaf = true
			continue
		}
		if err := t.expand(ctx, child, task, taskContext, criteria); err != nil {
			return err
		}
	}
	return nil
}

// parseExpansion extracts candidate thoughts from a backend response,
// returning nil when the response is malformed.
func parseExpansion(raw string) []treeThought {
	cleaned := stripCodeFence(raw)
	obj, ok := extractJSONObject(cleaned)
	if !ok {
		return nil
	}
	var parsed treeExpansion
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
		return nil
	}

	var thoughts []treeThought
	for _, th := range parsed.Thoughts {
		if strings.TrimSpace(th.Thought) == "" {
			continue
		}
		thoughts = append(thoughts, th)
	}
	return thoughts
}

// collectPaths enumerates every root-to-leaf path depth-first, left to
// right. A node without expanded children terminates a path even if its
// IsLeaf flag was never set.
func collectPaths(root *models.ThoughtNode) [][]*models.ThoughtNode {
	var paths [][]*models.ThoughtNode

	var walk func(n *models.ThoughtNode, prefix []*models.ThoughtNode)
	walk = func(n *models.ThoughtNode, prefix []*models.ThoughtNode) {
		path := make([]*models.ThoughtNode, len(prefix)+1)
		copy(path, prefix)
		path[len(prefix)] = n

		if len(n.Children) == 0 {
			paths = append(paths, path)
			return
		}
		for _, child := range n.Children {
			walk(child, path)
		}
	}
	walk(root, nil)
	return paths
}

// selectBestPath scores each path as mean evaluation plus a per-node depth
// bonus and returns the highest. Ties resolve to the first-discovered path,
// so selection is deterministic for a fixed tree.
func (t *Tree) selectBestPath(paths [][]*models.ThoughtNode) []*models.ThoughtNode {
	best := paths[0]
	bestScore := t.pathScore(best)
	for _, p := range paths[1:] {
		if s := t.pathScore(p); s > bestScore {
			best, bestScore = p, s
		}
	}
	return best
}

// pathScore is mean(evaluation) + DepthBonus * len(path). The additive bonus
// deliberately favors longer, more thoroughly reasoned paths over shorter
// high-confidence ones.
func (t *Tree) pathScore(path []*models.ThoughtNode) float64 {
	if len(path) == 0 {
		return 0
	}
	var sum float64
	for _, n := range path {
		sum += n.Evaluation
	}
	return sum/float64(len(path)) + t.opts.DepthBonus*float64(len(path))
}

// synthesize issues the final call that turns the best path into a single
// actionable answer.
func (t *Tree) synthesize(ctx context.Context, task, taskContext string, path []*models.ThoughtNode) (string, error) {
	var numbered strings.Builder
	for i, n := range path {
		fmt.Fprintf(&numbered, "%d. %s\n", i+1, n.Thought)
	}

	prompt := fmt.Sprintf(treeSynthesizePrompt, task, taskContext, numbered.String())
	resp, err := t.cfg.invoke(ctx, t.backend, "tree_synthesize", backendRequest(treeSystemPrompt, prompt))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}

// narrative concatenates the path's thoughts with positional labels.
func narrative(path []*models.ThoughtNode) string {
	parts := make([]string, len(path))
	for i, n := range path {
		var label string
		switch {
		case i == 0:
			label = "initial"
		case i == len(path)-1:
			label = "conclusion"
		default:
			label = fmt.Sprintf("step %d", i+1)
		}
		parts[i] = fmt.Sprintf("%s: %s", label, n.Thought)
	}
	return strings.Join(parts, "\n")
}

func (t *Tree) progress(ev ProgressEvent) {
	if t.opts.OnProgress != nil {
		t.opts.OnProgress(ev)
	}
}
