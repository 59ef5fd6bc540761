package cache

import (
	"strings"
	"sync"
	"testing"
	"time"
)

// newTestAdvisor returns an advisor with a controllable clock. The sweep
// goroutine still runs but on a long interval so it never interferes.
func newTestAdvisor(ttl time.Duration) (*Advisor, *time.Time) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	a := NewAdvisor(Options{TTL: ttl, SweepInterval: time.Hour})
	a.now = func() time.Time { return now }
	return a, &now
}

func TestShouldCache_FirstUseNever(t *testing.T) {
	a, _ := newTestAdvisor(0)
	defer a.Close()

	if a.ShouldCache("some prompt") {
		t.Error("first use should never be cache-worthy")
	}
}

func TestShouldCache_SecondUseWithinTTL(t *testing.T) {
	a, now := newTestAdvisor(0)
	defer a.Close()

	a.ShouldCache("prompt")
	*now = now.Add(time.Minute)
	if !a.ShouldCache("prompt") {
		t.Error("second use within TTL should be cache-worthy")
	}
}

func TestShouldCache_FalseTrueTrue(t *testing.T) {
	a, now := newTestAdvisor(0)
	defer a.Close()

	prompt := strings.Repeat("describe the login flow ", 25)

	want := []bool{false, true, true}
	for i, expected := range want {
		got := a.ShouldCache(prompt)
		if got != expected {
			t.Errorf("call %d: ShouldCache = %t, want %t", i+1, got, expected)
		}
		*now = now.Add(20 * time.Second)
	}
}

func TestShouldCache_TTLElapseResetsCycle(t *testing.T) {
	a, now := newTestAdvisor(5 * time.Minute)
	defer a.Close()

	a.ShouldCache("prompt")
	a.ShouldCache("prompt")

	*now = now.Add(6 * time.Minute)
	if a.ShouldCache("prompt") {
		t.Error("use after TTL elapse should reset the cycle and return false")
	}
	if !a.ShouldCache("prompt") {
		t.Error("second use of the new cycle should be cache-worthy again")
	}
}

func TestShouldCache_DistinctPromptsIndependent(t *testing.T) {
	a, _ := newTestAdvisor(0)
	defer a.Close()

	a.ShouldCache("prompt A")
	if a.ShouldCache("prompt B") {
		t.Error("first use of a different prompt should not be cache-worthy")
	}
	if !a.ShouldCache("prompt A") {
		t.Error("second use of prompt A should be cache-worthy")
	}
}

func TestSweep_RemovesExpiredOnly(t *testing.T) {
	a, now := newTestAdvisor(5 * time.Minute)
	defer a.Close()

	a.ShouldCache("old prompt")
	*now = now.Add(4 * time.Minute)
	a.ShouldCache("fresh prompt")
	*now = now.Add(2 * time.Minute) // old: 6m stale, fresh: 2m

	removed := a.sweep()
	if removed != 1 {
		t.Errorf("sweep removed %d, want 1", removed)
	}
	if a.Size() != 1 {
		t.Errorf("Size = %d, want 1", a.Size())
	}
}

func TestAdvisor_ConcurrentUse(t *testing.T) {
	a := NewAdvisor(Options{SweepInterval: time.Hour})
	defer a.Close()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				a.ShouldCache("shared prompt")
			}
		}()
	}
	wg.Wait()

	if a.Size() != 1 {
		t.Errorf("Size = %d, want 1", a.Size())
	}
	// 1600 uses within the TTL: the next one is certainly cache-worthy.
	if !a.ShouldCache("shared prompt") {
		t.Error("heavily reused prompt should be cache-worthy")
	}
}

func TestClose_Idempotent(t *testing.T) {
	a := NewAdvisor(Options{})
	a.Close()
	a.Close()
}
