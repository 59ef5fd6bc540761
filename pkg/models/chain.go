// Package models defines the core data types shared across Ponder.
package models

// ReasoningStep is one unit of linear reasoning produced by the chain engine.
// Steps are immutable once returned to the caller.
type ReasoningStep struct {
	// Number is the 1-indexed position of the step in the chain.
	Number int `json:"number"`
	// Thought is the free-text reasoning for this step.
	Thought string `json:"thought"`
	// Action is an optional description of what to do for this step.
	Action string `json:"action,omitempty"`
	// Confidence is the self-reported confidence in [0,1].
	Confidence float64 `json:"confidence"`
}

// ChainResult is the outcome of a chain-of-thought reasoning call.
type ChainResult struct {
	// Steps holds the reasoning steps in the order they were produced.
	Steps []ReasoningStep `json:"steps"`
	// FinalAnswer is the answer synthesized from the steps. It is typically
	// text but may carry structured JSON verbatim from the backend.
	FinalAnswer string `json:"final_answer"`
	// Reasoning is a human-readable summary of the chain.
	Reasoning string `json:"reasoning"`
}
