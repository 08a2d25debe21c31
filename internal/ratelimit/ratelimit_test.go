package ratelimit

import (
	"testing"
	"time"
)

func TestAllowWithinLimit(t *testing.T) {
	l := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Error("fourth attempt should be rejected")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l := New(1, time.Minute)

	if !l.Allow("10.0.0.1") {
		t.Fatal("first key should be allowed")
	}
	if !l.Allow("10.0.0.2") {
		t.Error("a different key must have its own bucket")
	}
	if l.Allow("10.0.0.1") {
		t.Error("first key should now be exhausted")
	}
}

func TestRefillOverTime(t *testing.T) {
	l := New(2, time.Minute)
	current := time.Now()
	l.now = func() time.Time { return current }

	l.Allow("ip")
	l.Allow("ip")
	if l.Allow("ip") {
		t.Fatal("bucket should be empty")
	}

	// Half the window restores one token.
	current = current.Add(30 * time.Second)
	if !l.Allow("ip") {
		t.Error("expected one token after half the window")
	}
	if l.Allow("ip") {
		t.Error("expected only one token after half the window")
	}
}

func TestStatus(t *testing.T) {
	l := New(5, time.Minute)
	current := time.Now()
	l.now = func() time.Time { return current }

	limit, remaining, resetAt := l.Status("ip")
	if limit != 5 || remaining != 5 {
		t.Errorf("fresh bucket: expected 5/5, got %d/%d", remaining, limit)
	}
	if !resetAt.Equal(current) {
		t.Errorf("full bucket resets now, got %v", resetAt)
	}

	l.Allow("ip")
	_, remaining, resetAt = l.Status("ip")
	if remaining != 4 {
		t.Errorf("expected 4 remaining, got %d", remaining)
	}
	if !resetAt.After(current) {
		t.Error("depleted bucket must reset in the future")
	}
}
