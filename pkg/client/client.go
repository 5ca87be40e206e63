// Package client provides the core UniProt HTTP client with caller
// identification, politeness gating, and error classification.
//
// The client never follows redirects on its own: both batch submission and
// job-status polling must observe 3xx responses themselves to drive the
// retrieval state machine.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sequencetools/uniprot-client/pkg/cache"
	"github.com/sequencetools/uniprot-client/pkg/ratelimit"
)

// Version is reported in the User-Agent of every outbound request.
const Version = "0.3.0"

// Default remote endpoints (legacy uniprot.org service).
const (
	DefaultListURL  = "https://www.uniprot.org/uniprot/"
	DefaultBatchURL = "https://www.uniprot.org/batch/"
)

// Prometheus metrics for client operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uniprot_requests_total",
		Help: "Total UniProt requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "uniprot_request_duration_seconds",
		Help:    "UniProt request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uniprot_errors_total",
		Help: "Total UniProt errors by class",
	}, []string{"class"})
)

// Client is the main UniProt client.
type Client struct {
	httpClient *http.Client
	gate       *ratelimit.Gate
	pageCache  *cache.Manager
	config     Config
	userAgent  string
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// Contact identifies the caller to UniProt (REQUIRED by the fair-use
	// policy). Typically an email address or a project URL.
	Contact string

	// ListURL is the paginated search endpoint.
	ListURL string

	// BatchURL is the asynchronous batch-export submission endpoint.
	BatchURL string

	// Timeout for individual HTTP requests.
	Timeout time.Duration

	// Redis enables the search page cache and the politeness gate when set.
	// A nil client disables both.
	Redis *redis.Client

	// CacheTTL is the TTL for cached search pages.
	CacheTTL time.Duration

	// MinRequestInterval is the minimum spacing between outbound requests
	// enforced by the shared politeness gate. Zero disables the gate.
	MinRequestInterval time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(contact string) Config {
	return Config{
		Contact:            contact,
		ListURL:            DefaultListURL,
		BatchURL:           DefaultBatchURL,
		Timeout:            60 * time.Second,
		CacheTTL:           cache.DefaultTTL,
		MinRequestInterval: 0,
	}
}

// New creates a new UniProt client.
func New(cfg Config) (*Client, error) {
	if cfg.Contact == "" {
		return nil, fmt.Errorf("contact identifier is required (UniProt fair-use policy)")
	}
	if cfg.ListURL == "" {
		cfg.ListURL = DefaultListURL
	}
	if cfg.BatchURL == "" {
		cfg.BatchURL = DefaultBatchURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MinRequestInterval > 0 && cfg.Redis == nil {
		return nil, fmt.Errorf("min_request_interval requires a redis client")
	}

	logger := log.With().Str("component", "uniprot-client").Logger()

	c := &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			// The batch state machine owns redirect handling.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		config:    cfg,
		userAgent: fmt.Sprintf("uniprot-client/%s (%s)", Version, cfg.Contact),
		logger:    logger,
	}

	if cfg.Redis != nil {
		c.pageCache = cache.NewManager(cfg.Redis, cfg.CacheTTL)
		if cfg.MinRequestInterval > 0 {
			c.gate = ratelimit.NewGate(cfg.Redis, cfg.MinRequestInterval, logger)
		}
	}

	return c, nil
}

// Do performs an HTTP request with politeness gating, caller identification,
// and error classification. Non-2xx responses are returned to the caller,
// never retried here: the only retry loop in this module is the batch
// controller's counted polling loop.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	endpoint := req.URL.Path

	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	if c.gate != nil {
		if err := c.gate.Wait(ctx); err != nil {
			return nil, fmt.Errorf("politeness gate: %w", err)
		}
	}

	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("method", req.Method).
		Msg("Executing UniProt request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		errClass := classifyError(nil, err)
		errorsTotal.WithLabelValues(string(errClass)).Inc()
		requestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
		return nil, err
	}

	requestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if resp.StatusCode >= 400 {
		errClass := classifyError(resp, nil)
		errorsTotal.WithLabelValues(string(errClass)).Inc()
		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("error_class", string(errClass)).
			Msg("UniProt request error")
	}

	return resp, nil
}

// Get performs a GET request against an absolute URL.
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return c.Do(req)
}

// Post performs a POST request against an absolute URL with the given body
// and content type.
func (c *Client) Post(ctx context.Context, rawURL, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.Do(req)
}

// ListURL returns the configured list endpoint.
func (c *Client) ListURL() string { return c.config.ListURL }

// BatchURL returns the configured batch endpoint.
func (c *Client) BatchURL() string { return c.config.BatchURL }

// UserAgent returns the caller-identifying User-Agent string.
func (c *Client) UserAgent() string { return c.userAgent }

// PageCache returns the search page cache, or nil when Redis is not
// configured.
func (c *Client) PageCache() *cache.Manager { return c.pageCache }

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}
