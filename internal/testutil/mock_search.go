// Package testutil provides testing utilities for the search client.
package testutil

import (
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MockSearchResponse defines the behavior of one mocked page response.
type MockSearchResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockSearch is a configurable mock search API server for testing. It records
// the order of requested page numbers and how many TCP connections clients
// opened, so tests can assert both request sequencing and connection reuse.
type MockSearch struct {
	server    *httptest.Server
	mu        sync.RWMutex
	responses map[int]MockSearchResponse

	// Tracking
	RequestedPages    []int
	LastRequestHeader http.Header
	LastQuery         url.Values
	connections       int
}

// NewMockSearch creates and starts a new mock search server.
func NewMockSearch() *MockSearch {
	mock := &MockSearch{
		responses: make(map[int]MockSearchResponse),
	}

	mock.server = httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()
		page, err := strconv.Atoi(params.Get("page"))
		if err != nil {
			page = 0
		}

		mock.mu.Lock()
		mock.RequestedPages = append(mock.RequestedPages, page)
		mock.LastRequestHeader = r.Header.Clone()
		mock.LastQuery = params
		resp, exists := mock.responses[page]
		mock.mu.Unlock()

		if !exists {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintf(w, `{"error": "no fixture for page %d"}`, page)
			return
		}

		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	}))

	mock.server.Config.ConnState = func(conn net.Conn, state http.ConnState) {
		if state == http.StateNew {
			mock.mu.Lock()
			mock.connections++
			mock.mu.Unlock()
		}
	}

	mock.server.Start()

	return mock
}

// URL returns the mock server URL, used as the client's base URL.
func (m *MockSearch) URL() string {
	return m.server.URL + "/search"
}

// Close shuts down the mock server.
func (m *MockSearch) Close() {
	m.server.Close()
}

// Reset clears all tracking state and page fixtures.
func (m *MockSearch) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestedPages = nil
	m.LastRequestHeader = nil
	m.LastQuery = nil
	m.connections = 0
	m.responses = make(map[int]MockSearchResponse)
}

// SetPage configures the response for one page number.
func (m *MockSearch) SetPage(page int, resp MockSearchResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[page] = resp
}

// PageRequests returns the requested page numbers in arrival order.
func (m *MockSearch) PageRequests() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pages := make([]int, len(m.RequestedPages))
	copy(pages, m.RequestedPages)
	return pages
}

// RequestCount returns the number of requests made to the server.
func (m *MockSearch) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.RequestedPages)
}

// ConnectionCount returns how many TCP connections clients opened. With a
// keep-alive client this stays at 1 regardless of the number of requests.
func (m *MockSearch) ConnectionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connections
}

// NewPageResponse creates a 200 OK page with the given total page count and
// result objects (each a JSON object literal).
func NewPageResponse(pages int, results ...string) MockSearchResponse {
	return MockSearchResponse{
		StatusCode: http.StatusOK,
		Body: fmt.Sprintf(`{"count": %d, "pages": %d, "results": [%s]}`,
			len(results), pages, strings.Join(results, ", ")),
	}
}

// NewResult builds one result object literal with the given dataset JSON.
func NewResult(source, id, dataset string) string {
	return fmt.Sprintf(`{"source": %q, "id": %q, "dataset": %s}`, source, id, dataset)
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockSearchResponse {
	return MockSearchResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
	}
}

// NewMalformedResponse creates a 200 OK response with the given raw body,
// used for shape and parse failure cases.
func NewMalformedResponse(body string) MockSearchResponse {
	return MockSearchResponse{
		StatusCode: http.StatusOK,
		Body:       body,
	}
}
