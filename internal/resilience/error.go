package resilience

import "fmt"

// InvocationError is a classified terminal failure from the invoker. The raw
// backend error is preserved as the cause for diagnostics; the formatted
// message leads with the operation, category, and remediation hint so callers
// can render guidance without knowing the taxonomy.
type InvocationError struct {
	// Op is the operation label supplied by the caller.
	Op string
	// Category is the assigned failure class.
	Category Category
	// Recoverable reports whether the failure was considered retryable.
	Recoverable bool
	// Hint is the user-facing remediation suggestion.
	Hint string
	// Attempts is the number of attempts made before giving up.
	Attempts int
	// Err is the last underlying error observed.
	Err error
}

// Error implements the error interface.
func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s failed after %d attempt(s) [%s, recoverable=%t]: %s",
		e.Op, e.Attempts, e.Category, e.Recoverable, e.Hint)
}

// Unwrap returns the underlying cause.
func (e *InvocationError) Unwrap() error {
	return e.Err
}
