package resilience

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestClassify_NetworkErrors(t *testing.T) {
	cases := []string{
		"connection reset by peer",
		"connection refused",
		"request timed out",
		"context deadline exceeded",
		"network is unreachable",
	}

	for _, msg := range cases {
		c := Classify(errors.New(msg))
		if c.Category != CategoryNetwork {
			t.Errorf("Classify(%q).Category = %s, want %s", msg, c.Category, CategoryNetwork)
		}
		if !c.Recoverable {
			t.Errorf("Classify(%q) should be recoverable", msg)
		}
		want := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
		if len(c.Delays) != len(want) {
			t.Fatalf("Classify(%q) delays = %v, want %v", msg, c.Delays, want)
		}
		for i := range want {
			if c.Delays[i] != want[i] {
				t.Errorf("Classify(%q) delay[%d] = %s, want %s", msg, i, c.Delays[i], want[i])
			}
		}
	}
}

func TestClassify_RateLimit(t *testing.T) {
	c := Classify(errors.New("rate limit exceeded, please slow down"))
	if c.Category != CategoryAPI {
		t.Errorf("Category = %s, want %s", c.Category, CategoryAPI)
	}
	if !c.Recoverable {
		t.Error("rate limit should be recoverable")
	}
	want := []time.Duration{30 * time.Second, 60 * time.Second}
	if len(c.Delays) != 2 || c.Delays[0] != want[0] || c.Delays[1] != want[1] {
		t.Errorf("Delays = %v, want %v", c.Delays, want)
	}
}

func TestClassify_AuthNotRecoverable(t *testing.T) {
	for _, msg := range []string{"401 unauthorized", "invalid api key provided"} {
		c := Classify(errors.New(msg))
		if c.Category != CategoryAPI {
			t.Errorf("Classify(%q).Category = %s, want %s", msg, c.Category, CategoryAPI)
		}
		if c.Recoverable {
			t.Errorf("Classify(%q) should not be recoverable", msg)
		}
		if c.Hint == "" {
			t.Errorf("Classify(%q) should carry a credential hint", msg)
		}
	}
}

func TestClassify_HTTPStatusTakesPriority(t *testing.T) {
	// Message mentions "timeout" but the 400 status wins.
	err := &HTTPError{Status: 400, Err: errors.New("gateway timeout while validating")}
	c := Classify(err)
	if c.Category != CategoryValidation {
		t.Errorf("Category = %s, want %s", c.Category, CategoryValidation)
	}
	if c.Recoverable {
		t.Error("4xx should not be recoverable")
	}
}

func TestClassify_Status429Recoverable(t *testing.T) {
	c := Classify(&HTTPError{Status: 429, Err: errors.New("too many requests")})
	if c.Category != CategoryAPI || !c.Recoverable {
		t.Errorf("429: got category=%s recoverable=%t, want api/true", c.Category, c.Recoverable)
	}
}

func TestClassify_Status5xxIsTransient(t *testing.T) {
	c := Classify(&HTTPError{Status: 503, Err: errors.New("service unavailable")})
	if c.Category != CategoryNetwork || !c.Recoverable {
		t.Errorf("503: got category=%s recoverable=%t, want network/true", c.Category, c.Recoverable)
	}
}

func TestClassify_WrappedHTTPError(t *testing.T) {
	inner := &HTTPError{Status: 404, Err: errors.New("model not found")}
	err := fmt.Errorf("invoke backend: %w", inner)
	c := Classify(err)
	if c.Category != CategoryValidation {
		t.Errorf("Category = %s, want %s", c.Category, CategoryValidation)
	}
}

func TestClassify_FileSystem(t *testing.T) {
	c := Classify(errors.New("open /etc/ponder: permission denied"))
	if c.Category != CategoryFileSystem {
		t.Errorf("Category = %s, want %s", c.Category, CategoryFileSystem)
	}
	if c.Recoverable {
		t.Error("file system errors are never auto-recovered")
	}
}

func TestClassify_Parsing(t *testing.T) {
	c := Classify(errors.New("unexpected end of JSON input"))
	if c.Category != CategoryParsing {
		t.Errorf("Category = %s, want %s", c.Category, CategoryParsing)
	}
}

func TestClassify_DefaultResource(t *testing.T) {
	c := Classify(errors.New("something inexplicable happened"))
	if c.Category != CategoryResource {
		t.Errorf("Category = %s, want %s", c.Category, CategoryResource)
	}
	if c.Recoverable {
		t.Error("unknown errors are never auto-recovered")
	}
	if c.Hint == "" {
		t.Error("unknown errors should carry a report-this hint")
	}
}
