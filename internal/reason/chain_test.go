package reason

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ponderlabs/ponder/internal/backend"
	"github.com/ponderlabs/ponder/internal/resilience"
)

const wellFormedChain = `{
  "steps": [
    {"number": 1, "thought": "Inspect the error message", "action": "read logs", "confidence": 0.9},
    {"number": 2, "thought": "The timeout points at a slow dependency", "confidence": 0.8},
    {"number": 3, "thought": "Classify as infrastructure flake", "confidence": 0.85}
  ],
  "final_answer": "Infrastructure flake: dependency timeout, not a code defect",
  "reasoning": "The failure signature matches a dependency timeout."
}`

func TestChain_WellFormedResponse(t *testing.T) {
	fake := &fakeBackend{responses: []string{wellFormedChain}}
	chain := NewChain(fake, testConfig(), 3)

	result, err := chain.Reason(context.Background(), "classify test failure", "the run failed with a timeout error")
	if err != nil {
		t.Fatalf("Reason failed: %v", err)
	}

	if len(result.Steps) == 0 || len(result.Steps) > 3 {
		t.Fatalf("len(Steps) = %d, want 1..3", len(result.Steps))
	}
	for i, step := range result.Steps {
		if step.Number != i+1 {
			t.Errorf("step %d Number = %d, want %d", i, step.Number, i+1)
		}
		if step.Confidence < 0 || step.Confidence > 1 {
			t.Errorf("step %d Confidence = %f, out of [0,1]", i, step.Confidence)
		}
	}
	if result.FinalAnswer == "" {
		t.Error("FinalAnswer should not be empty")
	}
	if result.Reasoning == ParseFailureReasoning {
		t.Error("well-formed response should not carry the failure marker")
	}
	if fake.callCount() != 1 {
		t.Errorf("backend calls = %d, want exactly 1", fake.callCount())
	}
}

func TestChain_FencedResponse(t *testing.T) {
	fake := &fakeBackend{responses: []string{"```json\n" + wellFormedChain + "\n```"}}
	chain := NewChain(fake, testConfig(), 5)

	result, err := chain.Reason(context.Background(), "task", "")
	if err != nil {
		t.Fatalf("Reason failed: %v", err)
	}
	if len(result.Steps) != 3 {
		t.Errorf("len(Steps) = %d, want 3", len(result.Steps))
	}
}

func TestChain_MalformedResponseDegrades(t *testing.T) {
	raw := "I think the failure is probably a timeout but I can't say for sure."
	fake := &fakeBackend{responses: []string{raw}}
	chain := NewChain(fake, testConfig(), 5)

	result, err := chain.Reason(context.Background(), "classify test failure", "")
	if err != nil {
		t.Fatalf("parse failure must never be fatal, got: %v", err)
	}

	if len(result.Steps) != 1 {
		t.Fatalf("len(Steps) = %d, want exactly 1 synthetic step", len(result.Steps))
	}
	if result.Reasoning != ParseFailureReasoning {
		t.Errorf("Reasoning = %q, want the fixed failure marker", result.Reasoning)
	}
	if result.FinalAnswer != raw {
		t.Errorf("FinalAnswer = %q, want the raw response text", result.FinalAnswer)
	}
}

func TestChain_StepsTruncatedToMaxSteps(t *testing.T) {
	fake := &fakeBackend{responses: []string{wellFormedChain}}
	chain := NewChain(fake, testConfig(), 2)

	result, err := chain.Reason(context.Background(), "task", "")
	if err != nil {
		t.Fatalf("Reason failed: %v", err)
	}
	if len(result.Steps) != 2 {
		t.Errorf("len(Steps) = %d, want 2", len(result.Steps))
	}
}

func TestChain_BackendFailurePropagates(t *testing.T) {
	fake := &fakeBackend{fn: func(req backend.Request) (*backend.Response, error) {
		return nil, &resilience.HTTPError{Status: 400, Err: errors.New("bad request")}
	}}
	chain := NewChain(fake, testConfig(), 5)

	_, err := chain.Reason(context.Background(), "task", "")
	if err == nil {
		t.Fatal("backend failure should propagate to the caller")
	}
	var invErr *resilience.InvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("error type = %T, want *resilience.InvocationError", err)
	}
	if fake.callCount() != 1 {
		t.Errorf("backend calls = %d, want 1 (4xx must not retry)", fake.callCount())
	}
}

func TestChain_RetriesTransientFailure(t *testing.T) {
	calls := 0
	fake := &fakeBackend{fn: func(req backend.Request) (*backend.Response, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("connection reset by peer")
		}
		return &backend.Response{Content: wellFormedChain, Model: "fake-model"}, nil
	}}
	chain := NewChain(fake, testConfig(), 5)

	result, err := chain.Reason(context.Background(), "task", "")
	if err != nil {
		t.Fatalf("Reason failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("backend calls = %d, want 2", calls)
	}
	if len(result.Steps) != 3 {
		t.Errorf("len(Steps) = %d, want 3", len(result.Steps))
	}
}

func TestChain_DefaultMaxSteps(t *testing.T) {
	chain := NewChain(&fakeBackend{}, testConfig(), 0)
	if chain.maxSteps != DefaultMaxSteps {
		t.Errorf("maxSteps = %d, want %d", chain.maxSteps, DefaultMaxSteps)
	}
}

func TestChain_PromptCarriesTaskAndBound(t *testing.T) {
	fake := &fakeBackend{responses: []string{wellFormedChain}}
	chain := NewChain(fake, testConfig(), 3)

	if _, err := chain.Reason(context.Background(), "order the migration steps", "postgres 14"); err != nil {
		t.Fatalf("Reason failed: %v", err)
	}

	prompt := fake.requests[0].Prompt
	if !strings.Contains(prompt, "order the migration steps") {
		t.Error("prompt should contain the task")
	}
	if !strings.Contains(prompt, "postgres 14") {
		t.Error("prompt should contain the context")
	}
	if !strings.Contains(prompt, "at most 3 steps") {
		t.Error("prompt should state the step bound")
	}
}
