package models

import "encoding/json"

// ThoughtNode is a vertex in a tree-of-thought search. Children are owned
// exclusively by their parent; the tree is never shared across goroutines
// while it is being built.
type ThoughtNode struct {
	// ID is path-derived: the root is "root", its third child is "root-2",
	// that child's first child is "root-2-0".
	ID string `json:"id"`
	// Thought is the candidate reasoning text for this node.
	Thought string `json:"thought"`
	// State is an opaque payload carried forward to children. Ponder never
	// inspects it; the backend produces it and consumes it on expansion.
	State json.RawMessage `json:"state,omitempty"`
	// Evaluation is the backend's self-reported score in [0,1].
	Evaluation float64 `json:"evaluation"`
	// Depth is the distance from the root (root = 0).
	Depth int `json:"depth"`
	// Children holds expanded alternatives, in the order the backend
	// returned them.
	Children []*ThoughtNode `json:"children,omitempty"`
	// IsLeaf is set at creation time when the node reached maximum depth or
	// scored at or below the expansion threshold. Leaves are never expanded.
	IsLeaf bool `json:"is_leaf"`
}

// TreeResult is the outcome of a tree-of-thought reasoning call.
type TreeResult struct {
	// BestPath is the selected root-to-leaf sequence.
	BestPath []*ThoughtNode `json:"best_path"`
	// AllPaths holds every root-to-leaf path in depth-first, left-to-right
	// discovery order.
	AllPaths [][]*ThoughtNode `json:"all_paths"`
	// FinalAnswer is synthesized from the best path.
	FinalAnswer string `json:"final_answer"`
	// Reasoning is a narrative built from the best path's thoughts.
	Reasoning string `json:"reasoning"`
}
