// Package metrics provides the centralized Prometheus metrics reference for
// the UniProt client. All metrics are defined in their respective packages
// (client, cache, ratelimit, search, batch) to maintain modularity and avoid
// circular dependencies.
//
// This package provides documentation and reference for all available
// metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the client.
// All metrics are automatically registered via promauto in their respective
// packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - uniprot_requests_total{endpoint, status} (Counter): Total requests by endpoint and HTTP status
//   - uniprot_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - uniprot_errors_total{class} (Counter): Errors by class (client, server, network)
//
// Cache Metrics (pkg/cache):
//   - uniprot_cache_hits_total (Counter): Search page cache hits
//   - uniprot_cache_misses_total (Counter): Search page cache misses
//   - uniprot_cache_errors_total{operation} (Counter): Cache operation errors
//
// Politeness Gate Metrics (pkg/ratelimit):
//   - uniprot_gate_waits_total (Counter): Requests delayed by the shared gate
//   - uniprot_gate_wait_seconds (Histogram): Time spent waiting on the gate
//
// Search Metrics (pkg/search):
//   - uniprot_search_pages_total{source} (Counter): Pages fetched, by cache/remote
//   - uniprot_search_results_total (Counter): Identifiers returned across searches
//
// Batch Metrics (pkg/batch):
//   - uniprot_batch_submissions_total{result} (Counter): Submissions by accepted/rejected
//   - uniprot_batch_polls_total (Counter): Job-status polls
//   - uniprot_batch_redirect_hops_total (Counter): Redirect hops while polling
//   - uniprot_batch_budget_exhausted_total (Counter): Jobs abandoned past the poll budget
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   rate(uniprot_cache_hits_total[5m]) /
//   (rate(uniprot_cache_hits_total[5m]) + rate(uniprot_cache_misses_total[5m]))
//
//   # Request Error Rate
//   rate(uniprot_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(uniprot_request_duration_seconds_bucket[5m]))
//
//   # Polls per Export
//   rate(uniprot_batch_polls_total[1h]) / rate(uniprot_batch_submissions_total{result="accepted"}[1h])
