// Package ratelimit implements a Redis-shared politeness gate that spaces
// outbound requests to the remote service. UniProt publishes no error-budget
// headers; its fair-use policy asks for a contact identifier and a moderate
// request rate, so the gate is purely time-based. The state lives in Redis so
// that all client instances sharing a contact identifier share one budget.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// redisKeyGate is the shared gate slot. Holding the key means a request was
// sent less than one interval ago.
const redisKeyGate = "uniprot:gate:last_request"

// Prometheus metrics for gate waits.
var (
	gateWaitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uniprot_gate_waits_total",
		Help: "Total number of requests delayed by the politeness gate",
	})

	gateWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "uniprot_gate_wait_seconds",
		Help:    "Time spent waiting on the politeness gate",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})
)

// Gate enforces a minimum spacing between outbound requests across all
// client instances sharing the same Redis.
type Gate struct {
	redis    *redis.Client
	interval time.Duration
	logger   zerolog.Logger
}

// NewGate creates a new politeness gate. The interval is the minimum spacing
// between two requests.
func NewGate(redisClient *redis.Client, interval time.Duration, logger zerolog.Logger) *Gate {
	return &Gate{
		redis:    redisClient,
		interval: interval,
		logger:   logger,
	}
}

// Wait blocks until the gate slot is free, then claims it for one interval.
// It returns early when the context is cancelled.
func (g *Gate) Wait(ctx context.Context) error {
	start := time.Now()
	waited := false

	for {
		acquired, err := g.redis.SetNX(ctx, redisKeyGate, 1, g.interval).Result()
		if err != nil {
			return fmt.Errorf("gate acquire: %w", err)
		}
		if acquired {
			if waited {
				gateWaitSeconds.Observe(time.Since(start).Seconds())
			}
			return nil
		}

		// Slot is held; wait out the remaining TTL and try again.
		remaining, err := g.redis.PTTL(ctx, redisKeyGate).Result()
		if err != nil {
			return fmt.Errorf("gate ttl: %w", err)
		}
		if remaining <= 0 {
			remaining = g.interval
		}

		if !waited {
			waited = true
			gateWaitsTotal.Inc()
			g.logger.Debug().
				Dur("remaining", remaining).
				Msg("Waiting on politeness gate")
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("gate wait: %w", ctx.Err())
		case <-time.After(remaining):
		}
	}
}
