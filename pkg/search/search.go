// Package search implements cursor-based pagination against the UniProt list
// endpoint: successive GETs at increasing offsets until a short page signals
// the end of the result set.
package search

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/sequencetools/uniprot-client/pkg/cache"
	"github.com/sequencetools/uniprot-client/pkg/client"
	"github.com/sequencetools/uniprot-client/pkg/logging"
)

// Prometheus metrics for search operations.
var (
	searchPagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uniprot_search_pages_total",
		Help: "Total search pages fetched by source",
	}, []string{"source"})

	searchResultsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uniprot_search_results_total",
		Help: "Total identifiers returned across all searches",
	})
)

// SearchError indicates a non-success response from the list endpoint. The
// whole search fails: no partial identifier list is returned.
type SearchError struct {
	StatusCode int
}

// Error implements the error interface.
func (e *SearchError) Error() string {
	return fmt.Sprintf("list endpoint returned status %d", e.StatusCode)
}

// Config holds paginator configuration.
type Config struct {
	// PageSize is the number of identifiers requested per page.
	PageSize int
}

// DefaultConfig returns the default paginator configuration.
func DefaultConfig() Config {
	return Config{PageSize: 1000}
}

// Paginator accumulates matching identifiers from the list endpoint, one
// page at a time, preserving the remote service's return order.
type Paginator struct {
	client *client.Client
	cfg    Config
	logger zerolog.Logger
}

// NewPaginator creates a new paginator on top of the given client.
func NewPaginator(c *client.Client, cfg Config) *Paginator {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 1000
	}
	return &Paginator{
		client: c,
		cfg:    cfg,
		logger: logging.NewLogger("paginator"),
	}
}

// Search returns all identifiers matching the query, in the remote service's
// return order. The query string is opaque to this client and passed through
// unvalidated. An empty result is a success, not an error.
func (p *Paginator) Search(ctx context.Context, query string) ([]string, error) {
	var ids []string

	for offset := 0; ; offset += p.cfg.PageSize {
		page, err := p.fetchPage(ctx, query, offset)
		if err != nil {
			return nil, err
		}

		ids = append(ids, page...)

		// A short page (possibly empty) is the final page.
		if len(page) < p.cfg.PageSize {
			break
		}
	}

	searchResultsTotal.Add(float64(len(ids)))
	p.logger.Info().
		Str("query", query).
		Int("results", len(ids)).
		Msg("Search complete")

	return ids, nil
}

// fetchPage retrieves one page of identifiers, consulting the page cache
// when the client has one configured.
func (p *Paginator) fetchPage(ctx context.Context, query string, offset int) ([]string, error) {
	key := cache.PageKey{Query: query, Offset: offset, Limit: p.cfg.PageSize}

	if pc := p.client.PageCache(); pc != nil {
		body, err := pc.Get(ctx, key)
		if err == nil {
			searchPagesTotal.WithLabelValues("cache").Inc()
			p.logger.Debug().
				Str("query", query).
				Int("offset", offset).
				Msg("Search page cache hit")
			return parseList(body), nil
		}
		if err != cache.ErrCacheMiss {
			p.logger.Warn().Err(err).Msg("Page cache get error")
		}
	}

	pageURL, err := p.pageURL(query, offset)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Get(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("search page at offset %d: %w", offset, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, &SearchError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search page at offset %d: %w", offset, err)
	}

	searchPagesTotal.WithLabelValues("remote").Inc()

	if pc := p.client.PageCache(); pc != nil {
		if err := pc.Set(ctx, key, body); err != nil {
			p.logger.Warn().Err(err).Msg("Page cache set error")
		}
	}

	return parseList(body), nil
}

// pageURL builds the list-endpoint URL for one page.
func (p *Paginator) pageURL(query string, offset int) (string, error) {
	u, err := url.Parse(p.client.ListURL())
	if err != nil {
		return "", fmt.Errorf("parse list URL: %w", err)
	}

	q := u.Query()
	q.Set("query", query)
	q.Set("format", "list")
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(p.cfg.PageSize))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// parseList splits a newline-delimited identifier list, discarding blank
// lines.
func parseList(body []byte) []string {
	var ids []string
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			ids = append(ids, line)
		}
	}
	return ids
}
