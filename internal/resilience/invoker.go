package resilience

import (
	"context"
	"log"
	"time"
)

// Default invoker settings.
const (
	// DefaultTimeout bounds a single attempt.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRetries is the number of retries after the first attempt
	// for network-classified failures.
	DefaultMaxRetries = 3
	// DefaultBaseDelay seeds the exponential backoff (1s, 2s, 4s).
	DefaultBaseDelay = 1 * time.Second
)

// Invoker executes calls against an unreliable service with a per-attempt
// timeout, categorized retry schedules, and terminal error classification.
// Construct one per process and inject it; there is no package-level
// singleton.
type Invoker struct {
	// Timeout bounds each individual attempt. Defaults to DefaultTimeout.
	Timeout time.Duration
	// MaxRetries is the retry budget for network-classified failures.
	// Defaults to DefaultMaxRetries.
	MaxRetries int
	// BaseDelay seeds the exponential backoff: BaseDelay * 2^retry.
	// Defaults to DefaultBaseDelay.
	BaseDelay time.Duration
	// Logf receives retry and terminal-failure log lines. Defaults to
	// log.Printf.
	Logf func(format string, args ...any)
	// Sleep waits for the given delay, aborting early if the context is
	// canceled. Overridable in tests to avoid real sleeps.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewInvoker returns an Invoker with default settings.
func NewInvoker() *Invoker {
	return &Invoker{
		Timeout:    DefaultTimeout,
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  DefaultBaseDelay,
	}
}

// Do executes fn under the invoker's retry policy and returns its result, or
// an *InvocationError once the policy is exhausted. Client errors (4xx-class
// and other non-recoverable categories) are surfaced immediately without
// retry. Rate-limit failures use their own 30s/60s schedule independent of
// the network backoff budget.
func Do[T any](ctx context.Context, inv *Invoker, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	retries := make(map[Category]int)
	attempts := 0
	var lastErr error
	var lastClass Classification

	for {
		attempts++

		attemptCtx, cancel := context.WithTimeout(ctx, inv.timeout())
		result, err := fn(attemptCtx)
		cancel()
		if err == nil {
			return result, nil
		}

		lastErr = err
		lastClass = Classify(err)

		if !lastClass.Recoverable {
			break
		}
		// A canceled caller must not sleep-and-retry.
		if ctx.Err() != nil {
			lastErr = ctx.Err()
			break
		}

		delay, ok := inv.nextDelay(lastClass, retries[lastClass.Category])
		if !ok {
			break
		}
		retries[lastClass.Category]++

		inv.logf("[invoker] %s: attempt %d failed (%s), retrying in %s: %v",
			op, attempts, lastClass.Category, delay, err)

		if err := inv.sleep(ctx, delay); err != nil {
			lastErr = err
			break
		}
	}

	inv.logf("[invoker] %s: giving up after %d attempt(s): %v", op, attempts, lastErr)

	return zero, &InvocationError{
		Op:          op,
		Category:    lastClass.Category,
		Recoverable: lastClass.Recoverable,
		Hint:        lastClass.Hint,
		Attempts:    attempts,
		Err:         lastErr,
	}
}

// nextDelay returns the wait before the next retry of the given class, or
// false when that class's budget is spent.
func (inv *Invoker) nextDelay(c Classification, retry int) (time.Duration, bool) {
	if c.Category == CategoryNetwork {
		max := inv.MaxRetries
		if max <= 0 {
			max = DefaultMaxRetries
		}
		if retry >= max {
			return 0, false
		}
		base := inv.BaseDelay
		if base <= 0 {
			base = DefaultBaseDelay
		}
		return base << uint(retry), true
	}

	// Other recoverable categories carry their schedule in the
	// classification (rate limits: 30s, 60s).
	if retry >= len(c.Delays) {
		return 0, false
	}
	return c.Delays[retry], true
}

func (inv *Invoker) timeout() time.Duration {
	if inv.Timeout > 0 {
		return inv.Timeout
	}
	return DefaultTimeout
}

func (inv *Invoker) logf(format string, args ...any) {
	if inv.Logf != nil {
		inv.Logf(format, args...)
		return
	}
	log.Printf(format, args...)
}

func (inv *Invoker) sleep(ctx context.Context, d time.Duration) error {
	if inv.Sleep != nil {
		return inv.Sleep(ctx, d)
	}
	return sleepContext(ctx, d)
}

// sleepContext waits for d or until ctx is canceled, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
