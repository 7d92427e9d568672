// Package metrics provides the centralized Prometheus registry reference for
// the search client. Metrics are defined in their owning packages (client,
// pagination) via promauto to keep registration next to the code that drives
// them.
//
// This package documents the available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the search client.
// All metrics are automatically registered via promauto in their respective
// packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - search_requests_total{status} (Counter): Page requests by HTTP status
//     ("network_error" when the call itself failed)
//   - search_request_duration_seconds (Histogram): Page request duration
//   - search_errors_total{class} (Counter): Errors by class (transport, protocol)
//
// Fetch Metrics (pkg/pagination):
//   - search_pages_fetched_total (Counter): Pages fetched across all fetch calls
//   - search_records_yielded_total (Counter): Records handed to consumers
//
// Example Prometheus Queries:
//
//   # Request Error Rate
//   rate(search_errors_total[5m])
//
//   # P95 Page Latency
//   histogram_quantile(0.95, rate(search_request_duration_seconds_bucket[5m]))
//
//   # Records per Page
//   rate(search_records_yielded_total[5m]) / rate(search_pages_fetched_total[5m])
