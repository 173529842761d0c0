package worker

import (
	"context"
	"testing"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "https://www.sec.gov/Archives/a.txt"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	if err := limiter.Wait(ctx, "https://example.com"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_WaitNoHost(t *testing.T) {
	limiter := NewLimiter(100, 1)
	if err := limiter.Wait(context.Background(), "filings/local.txt"); err == nil {
		t.Error("expected error for URL without host")
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	limiter := NewLimiter(1, 1)
	url := "https://www.sec.gov/a"

	if err := limiter.Wait(context.Background(), url); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	// burst of 1 is spent
	if limiter.Allow(url) {
		t.Errorf("expected allow to fail (exhausted tokens)")
	}

	if limiter.Allow("https://WWW.SEC.GOV/b") {
		t.Errorf("host matching should ignore case")
	}

	if !limiter.Allow("https://other.com") {
		t.Errorf("expected allow for other host")
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 20; i++ {
		if !limiter.Allow("https://example.com") {
			t.Fatalf("request %d throttled with rate disabled", i)
		}
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	limiter := NewLimiter(10, 10)
	host := "slow.com"

	limiter.SetHostRate(host, 0.1, 1)

	if !limiter.Allow("http://" + host) {
		t.Errorf("first request should pass")
	}

	if limiter.Allow("http://" + host) {
		t.Errorf("second request should fail")
	}

	if !limiter.Allow("http://fast.com") {
		t.Errorf("other host should pass")
	}
}

func TestExtractHost(t *testing.T) {
	host, err := extractHost("http://Example.com/foo")
	if err != nil {
		t.Fatalf("extractHost failed: %v", err)
	}
	if host != "example.com" {
		t.Errorf("expected example.com, got %s", host)
	}

	if _, err := extractHost("::invalid"); err == nil {
		t.Errorf("expected error for invalid URL")
	}
}
