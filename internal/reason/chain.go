package reason

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ponderlabs/ponder/pkg/models"
)

// DefaultMaxSteps bounds a chain when the caller does not choose one.
const DefaultMaxSteps = 5

// ParseFailureReasoning is the fixed marker placed in ChainResult.Reasoning
// when the backend response could not be parsed as structured output.
const ParseFailureReasoning = "structured output unavailable; degraded to raw response"

// chainResponse is the JSON structure the backend is instructed to return.
type chainResponse struct {
	Steps       []chainStep `json:"steps"`
	FinalAnswer string      `json:"final_answer"`
	Reasoning   string      `json:"reasoning"`
}

type chainStep struct {
	Number     int     `json:"number"`
	Thought    string  `json:"thought"`
	Action     string  `json:"action"`
	Confidence float64 `json:"confidence"`
}

// Chain performs linear chain-of-thought reasoning: one structured call
// producing an ordered sequence of steps and a final answer.
type Chain struct {
	backend  Backend
	cfg      Config
	maxSteps int
}

// NewChain creates a chain reasoner. maxSteps <= 0 selects DefaultMaxSteps.
func NewChain(b Backend, cfg Config, maxSteps int) *Chain {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &Chain{backend: b, cfg: cfg, maxSteps: maxSteps}
}

// Reason issues exactly one call through the resilient invoker and returns
// the parsed chain. Backend failures propagate unmodified; a response that
// fails to parse degrades to a single synthetic step rather than an error.
func (c *Chain) Reason(ctx context.Context, task, taskContext string) (*models.ChainResult, error) {
	if taskContext == "" {
		taskContext = "(none)"
	}
	prompt := fmt.Sprintf(chainPrompt, c.maxSteps, task, taskContext, c.maxSteps)

	resp, err := c.cfg.invoke(ctx, c.backend, "chain_reason", backendRequest(chainSystemPrompt, prompt))
	if err != nil {
		return nil, err
	}

	return parseChainResponse(resp.Content, c.maxSteps), nil
}

// parseChainResponse turns a backend response into a ChainResult. Parsing
// failure is never fatal: the caller gets one synthetic step, the fixed
// failure marker as the summary, and the raw text as the answer.
func parseChainResponse(raw string, maxSteps int) *models.ChainResult {
	cleaned := stripCodeFence(raw)
	obj, ok := extractJSONObject(cleaned)
	if !ok {
		return degradedChainResult(raw)
	}

	var parsed chainResponse
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
		return degradedChainResult(raw)
	}
	if len(parsed.Steps) == 0 {
		return degradedChainResult(raw)
	}

	steps := parsed.Steps
	if len(steps) > maxSteps {
		steps = steps[:maxSteps]
	}

	result := &models.ChainResult{
		Steps:       make([]models.ReasoningStep, len(steps)),
		FinalAnswer: parsed.FinalAnswer,
		Reasoning:   parsed.Reasoning,
	}
	for i, s := range steps {
		result.Steps[i] = models.ReasoningStep{
			Number:     i + 1,
			Thought:    s.Thought,
			Action:     s.Action,
			Confidence: clamp01(s.Confidence),
		}
	}
	if result.FinalAnswer == "" {
		result.FinalAnswer = raw
	}
	return result
}

// degradedChainResult is the graceful-degradation path for unparseable
// responses.
func degradedChainResult(raw string) *models.ChainResult {
	return &models.ChainResult{
		Steps: []models.ReasoningStep{{
			Number:     1,
			Thought:    strings.TrimSpace(raw),
			Confidence: 0.5,
		}},
		FinalAnswer: raw,
		Reasoning:   ParseFailureReasoning,
	}
}
