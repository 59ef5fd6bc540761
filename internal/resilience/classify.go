// Package resilience wraps inference calls with timeout, retry-with-backoff,
// and failure classification.
package resilience

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Category is the closed set of failure classes Ponder distinguishes.
type Category string

const (
	// CategoryNetwork covers connection resets, refusals, and timeouts.
	CategoryNetwork Category = "network"
	// CategoryAPI covers rate limits, quota exhaustion, and auth failures.
	CategoryAPI Category = "api"
	// CategoryValidation covers requests the backend rejected as invalid.
	CategoryValidation Category = "validation"
	// CategoryParsing covers malformed responses and JSON errors.
	CategoryParsing Category = "parsing"
	// CategoryFileSystem covers missing paths and permission errors.
	CategoryFileSystem Category = "file_system"
	// CategoryResource is the default for anything unrecognized.
	CategoryResource Category = "resource"
)

// Classification carries the retry policy and user guidance for a failure.
type Classification struct {
	// Category is the assigned failure class.
	Category Category
	// Recoverable reports whether the invoker may retry automatically.
	Recoverable bool
	// Delays is the retry schedule when Recoverable is true.
	Delays []time.Duration
	// Hint is a user-facing remediation suggestion.
	Hint string
}

// HTTPError attaches an HTTP status to an underlying transport error so the
// classifier can use structured fields before falling back to message
// matching.
type HTTPError struct {
	Status int
	Err    error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %v", e.Status, e.Err)
}

// Unwrap returns the underlying error.
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// Default retry schedules. Network errors back off exponentially; rate
// limits wait for the provider's window to roll over.
var (
	networkDelays   = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
	rateLimitDelays = []time.Duration{30 * time.Second, 60 * time.Second}
)

// Remediation hints per category.
const (
	hintNetwork    = "Check your network connection and retry."
	hintRateLimit  = "The API rate limit was hit. Wait a moment or reduce request volume."
	hintAuth       = "Check that ANTHROPIC_API_KEY is set and valid."
	hintFileSystem = "Check that the path exists and is readable."
	hintParsing    = "The response was not valid JSON. Retry the operation."
	hintValidation = "The request was rejected as invalid. Check the input parameters."
	hintResource   = "Unexpected failure. If it persists, please report this issue."
)

// Classify assigns a failure category, retry policy, and remediation hint to
// an error. Structured fields (HTTP status) are consulted first; lowercased
// message matching is the fallback for errors that carry no status. Message
// matching is a known fragility, kept only because some transports surface
// nothing better.
func Classify(err error) Classification {
	if err == nil {
		return Classification{Category: CategoryResource, Hint: hintResource}
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return classifyStatus(httpErr.Status)
	}

	msg := strings.ToLower(err.Error())

	switch {
	case containsAny(msg, "rate limit", "rate_limit", "too many requests", "quota", "overloaded"):
		return Classification{Category: CategoryAPI, Recoverable: true, Delays: rateLimitDelays, Hint: hintRateLimit}

	case containsAny(msg, "401", "403", "unauthorized", "forbidden", "authentication", "api key"):
		return Classification{Category: CategoryAPI, Hint: hintAuth}

	case containsAny(msg, "connection reset", "connection refused", "timeout", "timed out", "deadline exceeded", "network", "no such host", "broken pipe"):
		return Classification{Category: CategoryNetwork, Recoverable: true, Delays: networkDelays, Hint: hintNetwork}

	case containsAny(msg, "no such file", "file not found", "permission denied"):
		return Classification{Category: CategoryFileSystem, Hint: hintFileSystem}

	case containsAny(msg, "unmarshal", "unexpected end of json", "invalid json", "syntax error", "parse"):
		return Classification{Category: CategoryParsing, Hint: hintParsing}

	case containsAny(msg, "validation", "invalid request", "missing field", "required field"):
		return Classification{Category: CategoryValidation, Hint: hintValidation}
	}

	return Classification{Category: CategoryResource, Hint: hintResource}
}

// classifyStatus maps an HTTP status to a classification. Client errors do
// not improve with retry; 429 is the one exception.
func classifyStatus(status int) Classification {
	switch {
	case status == 429:
		return Classification{Category: CategoryAPI, Recoverable: true, Delays: rateLimitDelays, Hint: hintRateLimit}
	case status == 401 || status == 403:
		return Classification{Category: CategoryAPI, Hint: hintAuth}
	case status >= 400 && status < 500:
		return Classification{Category: CategoryValidation, Hint: hintValidation}
	default:
		// 5xx and anything unrecognized is treated as transient.
		return Classification{Category: CategoryNetwork, Recoverable: true, Delays: networkDelays, Hint: hintNetwork}
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
