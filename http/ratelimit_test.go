package http

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 0})

	start := time.Now()
	for i := 0; i < 100; i++ {
		if err := rl.Wait(context.Background(), "https://example.com/"); err != nil {
			t.Fatalf("Wait() failed: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("disabled limiter blocked for %v", elapsed)
	}
}

func TestRateLimiterNilReceiver(t *testing.T) {
	var rl *RateLimiter
	if err := rl.Wait(context.Background(), "https://example.com/"); err != nil {
		t.Errorf("nil limiter Wait() = %v, want nil", err)
	}
}

func TestRateLimiterPacesRequests(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 50, Burst: 1})

	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := rl.Wait(context.Background(), "https://example.com/"); err != nil {
			t.Fatalf("Wait() failed: %v", err)
		}
	}
	// Burst 1 at 50 rps: 4 paced requests need roughly 80ms.
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Errorf("5 requests completed in %v, pacing not applied", elapsed)
	}
}

// Each host gets its own bucket: saturating one host must not delay another.
func TestRateLimiterPerHostBuckets(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 1, Burst: 1})

	if err := rl.Wait(context.Background(), "https://first.example.com/"); err != nil {
		t.Fatalf("Wait() failed: %v", err)
	}

	start := time.Now()
	if err := rl.Wait(context.Background(), "https://second.example.com/"); err != nil {
		t.Fatalf("Wait() failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("second host waited %v behind the first host's bucket", elapsed)
	}
}

func TestRateLimiterContextCancellation(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, Burst: 1})

	// Drain the burst token.
	if err := rl.Wait(context.Background(), "https://example.com/"); err != nil {
		t.Fatalf("Wait() failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := rl.Wait(ctx, "https://example.com/"); err == nil {
		t.Error("Wait() succeeded on an empty bucket, want context error")
	}
}

func TestExtractHost(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=abc", "www.youtube.com"},
		{"https://www.youtube.com:443/api", "www.youtube.com:443"},
		{"not a url at all", "not a url at all"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := extractHost(tt.url); got != tt.want {
			t.Errorf("extractHost(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestRateLimiterDefaultBurst(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 4})
	if rl.config.Burst != 2 {
		t.Errorf("Burst = %d, want default 2", rl.config.Burst)
	}
}
