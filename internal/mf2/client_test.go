package mf2

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientParse(t *testing.T) {
	t.Parallel()

	t.Run("fetches and parses a page", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<a rel="me" href="https://github.com/alice">github</a>`))
		}))
		defer server.Close()

		client := NewClient(server.Client())
		doc, err := client.Parse(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(doc.RelMe) != 1 || doc.RelMe[0] != "https://github.com/alice" {
			t.Errorf("expected github rel-me link, got %v", doc.RelMe)
		}
	})

	t.Run("sets the user agent header", func(t *testing.T) {
		t.Parallel()
		var gotUA string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
		}))
		defer server.Close()

		client := NewClient(server.Client(), WithUserAgent("resolver-test/1.0"))
		if _, err := client.Parse(context.Background(), server.URL); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotUA != "resolver-test/1.0" {
			t.Errorf("expected custom user agent, got %q", gotUA)
		}
	})

	t.Run("non-success status is a fetch error", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer server.Close()

		client := NewClient(server.Client())
		if _, err := client.Parse(context.Background(), server.URL); !errors.Is(err, ErrFetch) {
			t.Errorf("expected ErrFetch, got %v", err)
		}
	})

	t.Run("unreachable server is a fetch error", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		client := NewClient(nil, WithTimeout(2*time.Second))
		if _, err := client.Parse(context.Background(), url); !errors.Is(err, ErrFetch) {
			t.Errorf("expected ErrFetch, got %v", err)
		}
	})

	t.Run("body larger than the limit is truncated not fatal", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<a rel="me" href="https://github.com/alice">a</a>`))
			for range 1000 {
				_, _ = w.Write([]byte("<p>padding padding padding</p>"))
			}
		}))
		defer server.Close()

		client := NewClient(server.Client(), WithMaxBodySize(64))
		doc, err := client.Parse(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(doc.RelMe) != 1 {
			t.Errorf("expected the leading rel-me link to survive truncation, got %v", doc.RelMe)
		}
	})
}
