package fetcher

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sitereap/sitereap/internal/config"
)

// TestClientFetch tests single-page fetching.
func TestClientFetch(t *testing.T) {
	t.Parallel()

	t.Run("returns body on success", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(`<html><body>hello</body></html>`)) //nolint:errcheck
		}))
		defer server.Close()

		client := NewClient(WithRetryWait(0))
		body, err := client.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(body, "hello") {
			t.Errorf("expected body content, got %q", body)
		}
	})

	t.Run("sends a user agent from the pool", func(t *testing.T) {
		t.Parallel()

		var gotUA atomic.Value
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA.Store(r.Header.Get("User-Agent"))
			_, _ = w.Write([]byte("ok")) //nolint:errcheck
		}))
		defer server.Close()

		client := NewClient(WithRetryWait(0))
		if _, err := client.Fetch(context.Background(), server.URL); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		ua, _ := gotUA.Load().(string)
		found := false
		for _, candidate := range userAgents {
			if ua == candidate {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected User-Agent from the pool, got %q", ua)
		}
	})

	t.Run("exhausts retry budget on persistent failure", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			attempts.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewClient(WithRetries(3), WithRetryWait(0))
		_, err := client.Fetch(context.Background(), server.URL)
		if err == nil {
			t.Fatal("expected error after retry exhaustion")
		}

		// 1 initial attempt + 3 retries.
		if got := attempts.Load(); got != 4 {
			t.Errorf("expected 4 total attempts, got %d", got)
		}
	})

	t.Run("waits between attempts", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewClient(WithRetries(2), WithRetryWait(50*time.Millisecond))
		start := time.Now()
		_, err := client.Fetch(context.Background(), server.URL)
		if err == nil {
			t.Fatal("expected error")
		}

		// Two backoff sleeps between three attempts.
		if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
			t.Errorf("expected at least 100ms of backoff, got %v", elapsed)
		}
	})

	t.Run("succeeds after transient failures", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if attempts.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte("recovered")) //nolint:errcheck
		}))
		defer server.Close()

		client := NewClient(WithRetries(3), WithRetryWait(0))
		body, err := client.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if body != "recovered" {
			t.Errorf("expected recovered body, got %q", body)
		}
	})

	t.Run("non-2xx status is a failure", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := NewClient(WithRetries(0), WithRetryWait(0))
		if _, err := client.Fetch(context.Background(), server.URL); err == nil {
			t.Error("expected error for 404 response")
		}
	})

	t.Run("respects context cancellation during backoff", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()

		client := NewClient(WithRetries(5), WithRetryWait(time.Second))
		start := time.Now()
		_, err := client.Fetch(ctx, server.URL)
		if err == nil {
			t.Fatal("expected error")
		}
		if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
			t.Errorf("expected prompt cancellation, took %v", elapsed)
		}
	})

	t.Run("decodes gzip bodies", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			var buf bytes.Buffer
			gz := gzip.NewWriter(&buf)
			_, _ = gz.Write([]byte("<html><title>Zipped</title></html>")) //nolint:errcheck
			_ = gz.Close()                                                //nolint:errcheck

			w.Header().Set("Content-Encoding", "gzip")
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write(buf.Bytes()) //nolint:errcheck
		}))
		defer server.Close()

		client := NewClient(WithRetryWait(0))
		body, err := client.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(body, "Zipped") {
			t.Errorf("expected decoded body, got %q", body)
		}
	})

	t.Run("rejects oversized bodies", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write(bytes.Repeat([]byte("a"), 2048)) //nolint:errcheck
		}))
		defer server.Close()

		client := NewClient(WithRetries(0), WithRetryWait(0), WithMaxBodySize(1024))
		if _, err := client.Fetch(context.Background(), server.URL); err == nil {
			t.Error("expected error for oversized body")
		}
	})

	t.Run("applies site config headers and cookie", func(t *testing.T) {
		t.Parallel()

		var gotCookie, gotHeader atomic.Value
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotCookie.Store(r.Header.Get("Cookie"))
			gotHeader.Store(r.Header.Get("X-Custom"))
			_, _ = w.Write([]byte("ok")) //nolint:errcheck
		}))
		defer server.Close()

		sites := &config.File{
			Sites: map[string]config.SiteConfig{
				"127.0.0.1": {
					Cookie:  "session=abc",
					Headers: map[string]string{"X-Custom": "value"},
				},
			},
		}

		client := NewClient(WithRetryWait(0), WithSiteConfigs(sites))
		if _, err := client.Fetch(context.Background(), server.URL); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cookie, _ := gotCookie.Load().(string); cookie != "session=abc" {
			t.Errorf("expected site cookie, got %q", cookie)
		}
		if header, _ := gotHeader.Load().(string); header != "value" {
			t.Errorf("expected site header, got %q", header)
		}
	})

	t.Run("pinned user agent overrides pool", func(t *testing.T) {
		t.Parallel()

		var gotUA atomic.Value
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA.Store(r.Header.Get("User-Agent"))
			_, _ = w.Write([]byte("ok")) //nolint:errcheck
		}))
		defer server.Close()

		client := NewClient(WithRetryWait(0), WithUserAgent("sitereap-test/1.0"))
		if _, err := client.Fetch(context.Background(), server.URL); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ua, _ := gotUA.Load().(string); ua != "sitereap-test/1.0" {
			t.Errorf("expected pinned user agent, got %q", ua)
		}
	})
}

// TestRandomUserAgent tests pool membership.
func TestRandomUserAgent(t *testing.T) {
	t.Parallel()

	for i := 0; i < 20; i++ {
		ua := randomUserAgent()
		found := false
		for _, candidate := range userAgents {
			if ua == candidate {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("user agent %q not in pool", ua)
		}
	}
}
