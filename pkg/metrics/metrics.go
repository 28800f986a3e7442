// Package metrics exposes the Prometheus registry of the blog server.
// Collectors are defined next to the code that updates them (cache, strapi,
// internal/blog) and registered via promauto on the default registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by the blog server.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - blog_cache_hits_total{layer="redis"} (Counter): Cache hits by layer
//   - blog_cache_misses_total (Counter): Cache misses
//   - blog_cache_written_bytes_total{layer="redis"} (Counter): Bytes written to the cache
//   - blog_cache_errors_total{operation} (Counter): Cache operation errors
//
// Content API Metrics (pkg/strapi):
//   - blog_content_requests_total{operation, status} (Counter): Requests by GraphQL operation and HTTP status
//     ("cache_hit" and "network_error" for requests that produced no HTTP status)
//   - blog_content_request_duration_seconds{operation} (Histogram): Request duration by operation
//   - blog_content_errors_total{class} (Counter): Errors by class (client, server, network, graphql, decode)
//
// HTTP Metrics (internal/blog):
//   - blog_http_requests_total{route, status} (Counter): Served requests by route template and status
//   - blog_http_request_duration_seconds{route} (Histogram): Handler latency by route template
//   - blog_pagination_clicks_total{control} (Counter): Accepted pagination clicks (page, prev, next)
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(blog_cache_hits_total[5m])) /
//   (sum(rate(blog_cache_hits_total[5m])) + sum(rate(blog_cache_misses_total[5m])))
//
//   # Content API Error Rate
//   rate(blog_content_errors_total[5m])
//
//   # P95 Content API Latency
//   histogram_quantile(0.95, rate(blog_content_request_duration_seconds_bucket[5m]))
//
//   # 5xx Rate of the listing
//   sum(rate(blog_http_requests_total{route="/blog/articles",status=~"5.."}[5m]))
