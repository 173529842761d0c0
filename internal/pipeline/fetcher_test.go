package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const filingBody = "CONFORMED PERIOD OF REPORT:\t20141231\n<TABLE></TABLE>\n"

// statusServer answers with the given statuses in turn, then serves the filing.
func statusServer(t *testing.T, statuses ...int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(attempts.Add(1))
		if n <= len(statuses) {
			w.WriteHeader(statuses[n-1])
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = fmt.Fprint(w, filingBody)
	}))
	t.Cleanup(server.Close)
	return server, &attempts
}

func noSleep(t *testing.T) {
	t.Helper()
	orig := fetchSleepFunc
	fetchSleepFunc = func(time.Duration) {}
	t.Cleanup(func() { fetchSleepFunc = orig })
}

func TestFetchWithRetry(t *testing.T) {
	tests := []struct {
		name     string
		statuses []int
		wantErr  string
		attempts int32
	}{
		{"first try", nil, "", 1},
		{"transient then ok", []int{503, 503}, "", 3},
		{"rate limited once", []int{429}, "", 2},
		{"not found is permanent", []int{404}, "unexpected status: 404 404 Not Found", 1},
		{"retries exhausted", []int{503, 502, 500}, "unexpected status: 500", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			noSleep(t)
			server, attempts := statusServer(t, tt.statuses...)

			fetcher := NewFetcher(5*time.Second, "wrangle-test", 1<<20, false, "", "", "")
			result, err := fetcher.FetchWithRetry(context.Background(), server.URL+"/102909_N-Q_2015-03-02.txt")
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("Expected error containing %q, got nil", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Unexpected error: %v", err)
				}
			} else {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				if result.Body != filingBody {
					t.Errorf("Unexpected body: %q", result.Body)
				}
				if result.Name != "102909_N-Q_2015-03-02.txt" {
					t.Errorf("Unexpected filing name: %s", result.Name)
				}
			}
			if got := attempts.Load(); got != tt.attempts {
				t.Errorf("Expected %d attempts, got %d", tt.attempts, got)
			}
		})
	}
}

func TestIsRetryableFetchError(t *testing.T) {
	tests := []struct {
		err       string
		retryable bool
	}{
		{"unexpected status: 503 Service Unavailable", true},
		{"unexpected status: 500 Internal Server Error", true},
		{"unexpected status: 502 Bad Gateway", true},
		{"unexpected status: 429 Too Many Requests", true},
		{"unexpected status: 404 Not Found", false},
		{"unexpected status: 403 Forbidden", false},
		{"unexpected status: 401 Unauthorized", false},
		{"fetch: connection refused", true},
		{"fetch: connection reset by peer", true},
		{"create request: invalid URL", false},
		{"read body: unexpected EOF", false},
	}

	for _, tt := range tests {
		t.Run(tt.err, func(t *testing.T) {
			err := fmt.Errorf("%s", tt.err)
			got := isRetryableFetchError(err)
			if got != tt.retryable {
				t.Errorf("isRetryableFetchError(%q) = %v, want %v", tt.err, got, tt.retryable)
			}
		})
	}
}

func TestIsRetryableFetchError_Nil(t *testing.T) {
	if isRetryableFetchError(nil) {
		t.Error("Expected nil error to not be retryable")
	}
}

type denyRobots struct{}

func (denyRobots) CanFetch(ctx context.Context, rawURL string) (bool, time.Duration, error) {
	return false, 0, nil
}

type countingLimiter struct {
	calls atomic.Int32
}

func (l *countingLimiter) Wait(ctx context.Context, rawURL string) error {
	l.calls.Add(1)
	return nil
}

func TestFetch_RobotsDisallowed(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, false, "", "", "").WithRobots(denyRobots{})
	_, err := fetcher.Fetch(context.Background(), server.URL+"/filing.txt")
	if !errors.Is(err, ErrDisallowed) {
		t.Fatalf("Expected ErrDisallowed, got %v", err)
	}
	if hits.Load() != 0 {
		t.Errorf("Expected no request to be made, got %d", hits.Load())
	}
}

func TestFetch_UsesLimiterAndNamesFiling(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "test-agent" {
			t.Errorf("Unexpected User-Agent: %s", got)
		}
		_, _ = fmt.Fprint(w, "<table></table>")
	}))
	defer server.Close()

	limiter := &countingLimiter{}
	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, false, "", "", "").WithLimiter(limiter)

	result, err := fetcher.Fetch(context.Background(), server.URL+"/Archives/1000_N-Q_2012-11-29.txt")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Name != "1000_N-Q_2012-11-29.txt" {
		t.Errorf("Unexpected name: %s", result.Name)
	}
	if limiter.calls.Load() != 1 {
		t.Errorf("Expected 1 limiter call, got %d", limiter.calls.Load())
	}
}

func TestFetch_MaxBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "0123456789")
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "test-agent", 4, false, "", "", "")
	result, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Body != "0123" {
		t.Errorf("Expected truncated body, got %q", result.Body)
	}
}

func TestNameFromURL(t *testing.T) {
	tests := map[string]string{
		"https://www.sec.gov/Archives/edgar/data/1000/0001.txt": "0001.txt",
		"https://www.sec.gov/":                                  "www.sec.gov",
		"https://www.sec.gov/filings/":                          "filings",
	}
	for in, want := range tests {
		if got := nameFromURL(in); got != want {
			t.Errorf("nameFromURL(%q) = %q, want %q", in, got, want)
		}
	}
}
