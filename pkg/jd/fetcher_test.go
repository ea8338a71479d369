package jd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nikogura/resume-coach/pkg/failure"
)

func TestIsURL(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "https://jobs.example.com/123", want: true},
		{input: "http://localhost:8080/posting", want: true},
		{input: "posting.txt", want: false},
		{input: "/home/me/jd.txt", want: false},
		{input: "ftp://example.com/jd.txt", want: false},
		{input: "https://", want: false},
	}

	for _, tt := range tests {
		if got := IsURL(tt.input); got != tt.want {
			t.Errorf("IsURL(%q): expected %v, got %v", tt.input, tt.want, got)
		}
	}
}

func TestFetchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posting.txt")
	err := os.WriteFile(path, []byte("\n  Senior Go Engineer\nKubernetes required  \n"), 0600)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	content, err := NewFetcher(0).Fetch(context.Background(), path)
	if err != nil {
		t.Fatalf("Failed to fetch from file: %v", err)
	}

	if content != "Senior Go Engineer\nKubernetes required" {
		t.Errorf("Expected trimmed content, got %q", content)
	}
}

func TestFetchFileErrors(t *testing.T) {
	empty := filepath.Join(t.TempDir(), "empty.txt")
	err := os.WriteFile(empty, []byte("  \n"), 0600)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	for _, path := range []string{"/nonexistent/posting.txt", empty} {
		_, err = NewFetcher(0).Fetch(context.Background(), path)
		if !failure.Is(err, failure.PreconditionNotMet) {
			t.Errorf("Expected precondition error for %s, got %v", path, err)
		}
	}
}

func TestFetchURLConvertsHTML(t *testing.T) {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body><h1>Platform Engineer</h1><ul><li>Go</li></ul></body></html>"))
	}))
	defer server.Close()

	content, err := NewFetcher(0).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Failed to fetch from URL: %v", err)
	}

	if !strings.Contains(content, "# Platform Engineer") || !strings.Contains(content, "- Go") {
		t.Errorf("Expected markdown content, got %q", content)
	}
	if userAgent != "resume-coach/1.0" {
		t.Errorf("Expected user agent resume-coach/1.0, got %q", userAgent)
	}
}

func TestFetchURLPlainText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("Requires <3 years of Go\n"))
	}))
	defer server.Close()

	content, err := NewFetcher(0).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Failed to fetch from URL: %v", err)
	}
	if content != "Requires <3 years of Go" {
		t.Errorf("Expected text to pass through, got %q", content)
	}
}

func TestFetchURLErrors(t *testing.T) {
	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer notFound.Close()

	_, err := NewFetcher(0).Fetch(context.Background(), notFound.URL)
	if !failure.Is(err, failure.TransportError) {
		t.Errorf("Expected transport error for 404, got %v", err)
	}

	blank := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><script>render()</script></body></html>"))
	}))
	defer blank.Close()

	_, err = NewFetcher(0).Fetch(context.Background(), blank.URL)
	if !failure.Is(err, failure.PreconditionNotMet) {
		t.Errorf("Expected precondition error for empty page, got %v", err)
	}
}

func TestFetchURLTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
		_, _ = w.Write([]byte("too slow"))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := NewFetcher(0).Fetch(ctx, server.URL)
	if !failure.Is(err, failure.TransportError) {
		t.Errorf("Expected transport error on timeout, got %v", err)
	}
}

func TestHTMLToText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "heading and list",
			input:    "<h2>Requirements</h2><ul><li>Go</li><li>Kubernetes</li></ul>",
			contains: []string{"## Requirements", "- Go", "- Kubernetes"},
			excludes: []string{"<li>", "<h2>"},
		},
		{
			name:     "script and style dropped",
			input:    "<style>.class{color:red}</style><p>Text</p><script>alert('hi')</script><p>More</p>",
			contains: []string{"Text", "More"},
			excludes: []string{"alert", "color:red"},
		},
		{
			name:     "no HTML",
			input:    "  Plain text\n",
			contains: []string{"Plain text"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := htmlToText(tt.input)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(result, want) {
					t.Errorf("Expected %q in %q", want, result)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(result, unwanted) {
					t.Errorf("Did not expect %q in %q", unwanted, result)
				}
			}
		})
	}
}
