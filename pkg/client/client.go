// Package client provides the HTTP layer for the search API: one reusable
// connection context, single-page requests, and error handling.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for search API requests.
var (
	searchRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "search_requests_total",
		Help: "Total search page requests by HTTP status",
	}, []string{"status"})

	searchRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "search_request_duration_seconds",
		Help:    "Search page request duration in seconds",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
	})

	searchErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "search_errors_total",
		Help: "Total search request errors by class",
	}, []string{"class"})
)

const (
	// DefaultBaseURL is the local development endpoint of the search API.
	DefaultBaseURL = "http://localhost:8081/search"

	// DefaultQuery matches every document.
	DefaultQuery = "*"

	// PageSize is the fixed number of results requested per page. The search
	// API caps results_per_page at 100, so this is a protocol detail rather
	// than a tuning knob.
	PageSize = 100
)

// Result is one unit of search output. Dataset is an open-ended mapping whose
// shape is determined entirely by the upstream API; the client hands it
// through undecoded for consumers to interpret.
type Result struct {
	Source  string                     `json:"source"`
	ID      string                     `json:"id"`
	Dataset map[string]json.RawMessage `json:"dataset"`
}

// Page is one parsed search response.
type Page struct {
	Count   int
	Pages   int
	Results []Result
}

// pagePayload mirrors the wire format. Results and Pages are pointers so that
// absent keys can be told apart from empty ones.
type pagePayload struct {
	Count   int       `json:"count"`
	Pages   *int      `json:"pages"`
	Results *[]Result `json:"results"`
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the search endpoint.
	BaseURL string

	// Query is the search query string.
	Query string

	// UserAgent header sent with every request.
	UserAgent string

	// Timeout per page request.
	Timeout time.Duration
}

// DefaultConfig returns a configuration pointing at the local development
// endpoint with the match-all query.
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		Query:     DefaultQuery,
		UserAgent: "search-client/0.1.0",
		Timeout:   30 * time.Second,
	}
}

// Client is the search API client. The embedded http.Client is the shared
// connection context: its pooled keep-alive connections are reused across all
// page requests issued through one Client, so sequential page fetches
// amortize connection setup.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// New creates a new search client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	if cfg.Query == "" {
		cfg.Query = DefaultQuery
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	logger := log.With().Str("component", "search-client").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		logger: logger,
	}, nil
}

// SearchPage fetches a single page of search results. Page numbers are
// 1-based. A failed call or non-2xx status returns a TransportError; a body
// that is not a valid search page returns a ProtocolError.
func (c *Client) SearchPage(ctx context.Context, page int) (*Page, error) {
	pageURL := c.pageURL(page)

	startTime := time.Now()
	defer func() {
		searchRequestDuration.Observe(time.Since(startTime).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Int("page", page).
		Str("query", c.config.Query).
		Msg("Fetching search page")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		searchErrorsTotal.WithLabelValues(string(ErrorClassTransport)).Inc()
		searchRequestsTotal.WithLabelValues("network_error").Inc()
		c.logger.Error().Err(err).Int("page", page).Msg("Search request failed")
		return nil, &TransportError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	searchRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	// Drain the body fully even on error statuses so the underlying
	// connection goes back into the pool.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		searchErrorsTotal.WithLabelValues(string(ErrorClassTransport)).Inc()
		return nil, &TransportError{StatusCode: resp.StatusCode, URL: pageURL, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		searchErrorsTotal.WithLabelValues(string(ErrorClassTransport)).Inc()
		c.logger.Warn().
			Int("page", page).
			Int("status", resp.StatusCode).
			Msg("Search request returned error status")
		return nil, &TransportError{StatusCode: resp.StatusCode, URL: pageURL}
	}

	parsed, err := parsePage(page, body)
	if err != nil {
		searchErrorsTotal.WithLabelValues(string(ErrorClassProtocol)).Inc()
		c.logger.Warn().Err(err).Int("page", page).Msg("Malformed search page")
		return nil, err
	}

	c.logger.Debug().
		Int("page", page).
		Int("results", len(parsed.Results)).
		Int("pages", parsed.Pages).
		Msg("Search page fetched")

	return parsed, nil
}

// pageURL builds the request URL for one page.
func (c *Client) pageURL(page int) string {
	params := url.Values{}
	params.Set("query", c.config.Query)
	params.Set("page", strconv.Itoa(page))
	params.Set("results_per_page", strconv.Itoa(PageSize))

	return c.config.BaseURL + "?" + params.Encode()
}

// parsePage validates the wire payload and converts it into a Page.
func parsePage(page int, body []byte) (*Page, error) {
	var payload pagePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &ProtocolError{Page: page, Message: "response is not valid JSON", Err: err}
	}

	if payload.Results == nil {
		return nil, &ProtocolError{Page: page, Message: `response lacks "results"`}
	}

	if payload.Pages == nil {
		return nil, &ProtocolError{Page: page, Message: `response lacks "pages"`}
	}

	// The page count drives the termination condition of a fetch; a value
	// below 1 cannot name the page that produced it and is treated as
	// malformed rather than guessed at.
	if *payload.Pages < 1 {
		return nil, &ProtocolError{
			Page:    page,
			Message: fmt.Sprintf("invalid page count %d", *payload.Pages),
		}
	}

	return &Page{
		Count:   payload.Count,
		Pages:   *payload.Pages,
		Results: *payload.Results,
	}, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
