// Package trace records invocation metadata for diagnostics. The reasoning
// core only produces these fields; transmitting them anywhere is someone
// else's job.
package trace

import (
	"time"

	"github.com/google/uuid"
)

// PreviewLimit is how many characters of the prompt a record keeps.
const PreviewLimit = 200

// Record captures one backend invocation.
type Record struct {
	// ID uniquely identifies the invocation.
	ID string
	// Operation is the caller-supplied label (e.g. "chain_reason").
	Operation string
	// Model identifies the backend model.
	Model string
	// PromptPreview is the prompt truncated to PreviewLimit characters.
	PromptPreview string
	// InputTokens and OutputTokens report usage for the call.
	InputTokens  int64
	OutputTokens int64
	// Latency is the wall-clock duration of the call, retries included.
	Latency time.Duration
	// CreatedAt is when the record was produced.
	CreatedAt time.Time
}

// NewRecord builds a Record with a fresh ID and timestamp.
func NewRecord(operation, model, prompt string, inputTokens, outputTokens int64, latency time.Duration) Record {
	return Record{
		ID:            uuid.New().String(),
		Operation:     operation,
		Model:         model,
		PromptPreview: Preview(prompt),
		InputTokens:   inputTokens,
		OutputTokens:  outputTokens,
		Latency:       latency,
		CreatedAt:     time.Now(),
	}
}

// Preview truncates a prompt for storage.
func Preview(prompt string) string {
	if len(prompt) <= PreviewLimit {
		return prompt
	}
	return prompt[:PreviewLimit] + "..."
}

// Recorder receives invocation records. Implementations must not block the
// reasoning path; failures to record are logged, never surfaced.
type Recorder interface {
	Record(rec Record)
}

// Nop is a Recorder that discards everything.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(Record) {}
