package sdk

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"
)

func TestBackoffDelaySequence(t *testing.T) {
	cfg := BackoffConfig{
		InitialDelay: time.Second,
		Multiplier:   2.0,
		MaxDelay:     30 * time.Second,
		JitterFactor: 0, // deterministic
	}
	want := []time.Duration{
		time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second,
		30 * time.Second,
	}
	for attempt, expected := range want {
		if got := cfg.Delay(attempt); got != expected {
			t.Fatalf("attempt %d: expected %v, got %v", attempt, expected, got)
		}
	}
}

func TestBackoffJitterBounds(t *testing.T) {
	cfg := DefaultBackoffConfig()
	for attempt := 0; attempt < 10; attempt++ {
		for i := 0; i < 50; i++ {
			d := cfg.Delay(attempt)
			max := time.Duration(float64(cfg.MaxDelay) * (1 + cfg.JitterFactor))
			if d <= 0 || d > max {
				t.Fatalf("attempt %d: delay %v outside (0, %v]", attempt, d, max)
			}
		}
	}
}

func TestBackoffCounter(t *testing.T) {
	b := NewBackoff(BackoffConfig{
		InitialDelay: 100 * time.Millisecond,
		Multiplier:   2.0,
		MaxDelay:     time.Second,
		JitterFactor: 0,
	})
	if d := b.Next(); d != 100*time.Millisecond {
		t.Fatalf("first delay: %v", d)
	}
	if d := b.Next(); d != 200*time.Millisecond {
		t.Fatalf("second delay: %v", d)
	}
	if b.Attempt() != 2 {
		t.Fatalf("attempt counter: %d", b.Attempt())
	}
	b.Reset()
	if d := b.Next(); d != 100*time.Millisecond {
		t.Fatalf("delay after reset: %v", d)
	}
}

func TestBackoffNormalized(t *testing.T) {
	var cfg BackoffConfig
	if d := cfg.Delay(0); d <= 0 {
		t.Fatalf("zero config should normalize to sane defaults, got %v", d)
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, true},
		{"429", &HTTPStatusError{StatusCode: 429}, true},
		{"503", &HTTPStatusError{StatusCode: 503}, true},
		{"400", &HTTPStatusError{StatusCode: 400}, false},
		{"dns temporary", &net.DNSError{IsTemporary: true}, true},
		{"plain", errors.New("nope"), false},
	}
	for _, tc := range cases {
		if got := IsRetryable(tc.err); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
