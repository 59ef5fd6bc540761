package reason

import (
	"context"
	"sync"
	"time"

	"github.com/ponderlabs/ponder/internal/backend"
	"github.com/ponderlabs/ponder/internal/resilience"
)

// fakeBackend scripts responses for the reasoners. When fn is set it decides
// per-request; otherwise responses are served from the queue in order.
type fakeBackend struct {
	mu        sync.Mutex
	responses []string
	fn        func(req backend.Request) (*backend.Response, error)
	requests  []backend.Request
}

func (f *fakeBackend) Invoke(ctx context.Context, req backend.Request) (*backend.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)

	if f.fn != nil {
		return f.fn(req)
	}

	content := ""
	if len(f.responses) > 0 {
		content = f.responses[0]
		f.responses = f.responses[1:]
	}
	return &backend.Response{
		Content:      content,
		Model:        "fake-model",
		InputTokens:  10,
		OutputTokens: 20,
	}, nil
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeBackend) request(i int) backend.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[i]
}

// testConfig returns a Config whose invoker neither sleeps nor logs.
func testConfig() Config {
	inv := resilience.NewInvoker()
	inv.Timeout = 5 * time.Second
	inv.Sleep = func(ctx context.Context, d time.Duration) error { return nil }
	inv.Logf = func(string, ...any) {}
	return Config{Invoker: inv}
}
