// Package cache provides a Redis-backed cache for list-endpoint search pages.
//
// Only search pages are cached. Batch submissions and job-status polls are
// never cached: a poll response describes the momentary state of a remote job
// and replaying it would wedge the polling state machine.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

// Prometheus metrics for page cache operations.
var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uniprot_cache_hits_total",
		Help: "Total search page cache hits",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uniprot_cache_misses_total",
		Help: "Total search page cache misses",
	})

	cacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uniprot_cache_errors_total",
		Help: "Total cache operation errors by operation",
	}, []string{"operation"})
)

// ErrCacheMiss indicates the requested page was not found in cache.
var ErrCacheMiss = errors.New("cache miss")

// DefaultTTL is the fallback TTL for cached search pages. UniProt sends no
// cache-control hints on list responses, so staleness is bounded locally.
const DefaultTTL = 15 * time.Minute

// PageKey identifies one search page: the opaque query string plus the
// pagination window it was requested with.
type PageKey struct {
	Query  string
	Offset int
	Limit  int
}

// String generates a deterministic cache key string.
//
// Example:
//
//	uniprot:search:1000:2000:organism:9606 AND reviewed:yes
func (k PageKey) String() string {
	return fmt.Sprintf("uniprot:search:%d:%d:%s", k.Limit, k.Offset, k.Query)
}

// Manager handles search page caching with a Redis backend.
type Manager struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewManager creates a new cache manager with a Redis backend.
// A non-positive ttl falls back to DefaultTTL.
func NewManager(redisClient *redis.Client, ttl time.Duration) *Manager {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		redis: redisClient,
		ttl:   ttl,
	}
}

// Get retrieves a cached page body by key.
// Returns ErrCacheMiss if the key doesn't exist.
func (m *Manager) Get(ctx context.Context, key PageKey) ([]byte, error) {
	data, err := m.redis.Get(ctx, key.String()).Bytes()
	if err != nil {
		if err == redis.Nil {
			cacheMisses.Inc()
			return nil, ErrCacheMiss
		}
		cacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	cacheHits.Inc()
	return data, nil
}

// Set stores a page body under the given key with the manager's TTL.
func (m *Manager) Set(ctx context.Context, key PageKey, body []byte) error {
	if err := m.redis.Set(ctx, key.String(), body, m.ttl).Err(); err != nil {
		cacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes a cached page.
func (m *Manager) Delete(ctx context.Context, key PageKey) error {
	if err := m.redis.Del(ctx, key.String()).Err(); err != nil {
		cacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
