// Package reason structures multi-step inference as either a linear chain or
// a branching search over candidate thoughts. Every network call is routed
// through the resilience invoker; response-format failures are absorbed
// locally so that reasoning degrades instead of aborting.
package reason

import (
	"context"
	"time"

	"github.com/ponderlabs/ponder/internal/backend"
	"github.com/ponderlabs/ponder/internal/cache"
	"github.com/ponderlabs/ponder/internal/resilience"
	"github.com/ponderlabs/ponder/internal/trace"
)

// Backend is the single operation the reasoners need from the inference
// service.
type Backend interface {
	Invoke(ctx context.Context, req backend.Request) (*backend.Response, error)
}

// Config carries the collaborators shared by both reasoners. Zero-value
// fields fall back to sane defaults: a fresh invoker, no cache advice, and a
// no-op recorder.
type Config struct {
	// Invoker applies timeout, retry, and classification to every call.
	Invoker *resilience.Invoker
	// Advisor decides whether calls should request provider-side caching.
	// Optional.
	Advisor *cache.Advisor
	// Recorder receives one trace record per backend invocation. Optional.
	Recorder trace.Recorder
}

func (c Config) invoker() *resilience.Invoker {
	if c.Invoker != nil {
		return c.Invoker
	}
	return resilience.NewInvoker()
}

func (c Config) recorder() trace.Recorder {
	if c.Recorder != nil {
		return c.Recorder
	}
	return trace.Nop{}
}

// invoke routes one call through the resilient invoker, consulting the cache
// advisor first and recording a trace on success.
func (c Config) invoke(ctx context.Context, b Backend, op string, req backend.Request) (*backend.Response, error) {
	if c.Advisor != nil && req.System != "" {
		// The system block is the only content marked cacheable on the wire,
		// so the ledger keys on it alone. User prompts vary per node during a
		// tree search while the system block repeats.
		req.CacheSystem = c.Advisor.ShouldCache(req.System)
	}

	start := time.Now()
	resp, err := resilience.Do(ctx, c.invoker(), op, func(ctx context.Context) (*backend.Response, error) {
		return b.Invoke(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	c.recorder().Record(trace.NewRecord(op, resp.Model, req.Prompt,
		resp.InputTokens, resp.OutputTokens, time.Since(start)))
	return resp, nil
}

func backendRequest(system, prompt string) backend.Request {
	return backend.Request{System: system, Prompt: prompt}
}
