// Package testutil provides testing utilities for the UniProt client.
package testutil

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
)

// MockUniProt is a configurable mock UniProt server for testing. It serves
// the paginated list endpoint and the asynchronous batch-export protocol
// (submit, redirect, poll, export).
type MockUniProt struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount      int
	LastRequestHeader http.Header
}

// NewMockUniProt creates a new mock UniProt server.
func NewMockUniProt() *MockUniProt {
	mock := &MockUniProt{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestHeader = r.Header.Clone()
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		http.NotFound(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockUniProt) URL() string {
	return m.server.URL
}

// ListURL returns the mock list endpoint URL.
func (m *MockUniProt) ListURL() string {
	return m.server.URL + "/uniprot/"
}

// BatchURL returns the mock batch endpoint URL.
func (m *MockUniProt) BatchURL() string {
	return m.server.URL + "/batch/"
}

// Close shuts down the mock server.
func (m *MockUniProt) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockUniProt) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.LastRequestHeader = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockUniProt) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockUniProt) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// SetListResults serves the list endpoint from the given identifier slice,
// honoring offset and limit query parameters the way the real service does.
func (m *MockUniProt) SetListResults(ids []string) {
	m.SetHandler("/uniprot/", func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 {
			limit = 1000
		}

		w.Header().Set("Content-Type", "text/plain")

		if offset >= len(ids) {
			return
		}
		end := offset + limit
		if end > len(ids) {
			end = len(ids)
		}
		fmt.Fprint(w, strings.Join(ids[offset:end], "\n"))
	})
}

// SetBatchJob scripts a full batch-export lifecycle: the submission is
// answered with a 302 to a job-status path, which replies "still processing"
// (202 + Retry-After) the given number of times before serving the export
// document with the given content type.
func (m *MockUniProt) SetBatchJob(stillProcessing int, contentType, body string) {
	var mu sync.Mutex
	polls := 0

	m.SetHandler("/batch/", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, "bad multipart form", http.StatusBadRequest)
			return
		}
		w.Header().Set("Location", "/jobs/mock-job")
		w.WriteHeader(http.StatusFound)
	})

	m.SetHandler("/jobs/mock-job", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		polls++
		processing := polls <= stillProcessing
		mu.Unlock()

		if processing {
			w.Header().Set("Retry-After", "3")
			w.WriteHeader(http.StatusAccepted)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, body)
	})
}

// SubmittedIDs parses the identifier list out of a batch submission request.
// Intended for use inside a custom /batch/ handler.
func SubmittedIDs(r *http.Request) ([]string, error) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		return nil, fmt.Errorf("parse multipart form: %w", err)
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("missing file field: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read file field: %w", err)
	}

	var ids []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			ids = append(ids, line)
		}
	}
	return ids, nil
}
