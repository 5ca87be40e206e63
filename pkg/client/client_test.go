package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
	}{
		{
			name:        "valid config",
			config:      Config{Contact: "test@example.com"},
			expectError: false,
		},
		{
			name:        "empty contact",
			config:      Config{},
			expectError: true,
		},
		{
			name: "gate without redis",
			config: Config{
				Contact:            "test@example.com",
				MinRequestInterval: time.Second,
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.config)
			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	c, err := New(Config{Contact: "test@example.com"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if c.ListURL() != DefaultListURL {
		t.Errorf("ListURL = %q, want %q", c.ListURL(), DefaultListURL)
	}
	if c.BatchURL() != DefaultBatchURL {
		t.Errorf("BatchURL = %q, want %q", c.BatchURL(), DefaultBatchURL)
	}
	if c.PageCache() != nil {
		t.Error("PageCache should be nil without Redis")
	}
}

func TestDo_SetsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c, err := New(Config{Contact: "test@example.com"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	resp, err := c.Get(context.Background(), server.URL+"/uniprot/")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	resp.Body.Close()

	want := "uniprot-client/" + Version + " (test@example.com)"
	if gotUA != want {
		t.Errorf("User-Agent = %q, want %q", gotUA, want)
	}
}

func TestDo_DoesNotFollowRedirects(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Location", "/elsewhere")
		w.WriteHeader(http.StatusFound)
	}))
	defer server.Close()

	c, err := New(Config{Contact: "test@example.com"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	resp, err := c.Get(context.Background(), server.URL+"/batch/")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound {
		t.Errorf("StatusCode = %d, want 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/elsewhere" {
		t.Errorf("Location = %q, want /elsewhere", loc)
	}
	if hits != 1 {
		t.Errorf("server hits = %d, want 1 (redirect must not be followed)", hits)
	}
}

func TestDo_ReturnsErrorResponsesToCaller(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	c, err := New(Config{Contact: "test@example.com"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	resp, err := c.Get(context.Background(), server.URL+"/uniprot/")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	defer resp.Body.Close()

	// No retry, no error: the caller owns failure classification.
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if len(body) == 0 {
		t.Error("error body should be readable by the caller")
	}
}

func TestDo_NetworkError(t *testing.T) {
	c, err := New(Config{Contact: "test@example.com", Timeout: 200 * time.Millisecond})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// Closed server -> connection refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	if _, err := c.Get(context.Background(), url+"/uniprot/"); err == nil {
		t.Error("expected network error, got nil")
	}
}
