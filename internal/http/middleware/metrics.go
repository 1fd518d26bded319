// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file holds the Prometheus collectors of the HTTP layer. Request series
// are labelled by method, route template (/product/:id, not /product/5) and
// the final status, which for failures is the one chosen by the advice layer.
// handlerExec is observed by ExecutionTime, per decorated handler.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_inflight",
			Help: "Current number of in-flight HTTP requests.",
		},
	)

	// Bodies here are short texts and {code,message} envelopes.
	httpRespSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "Size of HTTP responses in bytes.",
			Buckets: prometheus.ExponentialBuckets(16, 4, 8), // 16B..256KiB
		},
		[]string{"method", "path"},
	)

	handlerExec = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "handler_execution_seconds",
			Help:    "Execution time of endpoint handlers in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler"},
	)
)

func init() {
	prometheus.MustRegister(httpReqs, httpLat, httpInflight, httpRespSize, handlerExec)
}

// Metrics records request count, latency, size and in-flight requests.
// Unmatched routes are labelled with the raw URL path. Install it outside
// Recovery so recovered panics are counted with their 500 status.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInflight.Inc()
		defer func() {
			httpInflight.Dec()
			observeRequest(c, time.Since(start))
		}()
		c.Next()
	}
}

func observeRequest(c *gin.Context, elapsed time.Duration) {
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	method := c.Request.Method

	httpReqs.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
	httpLat.WithLabelValues(method, path).Observe(elapsed.Seconds())
	if size := c.Writer.Size(); size >= 0 {
		httpRespSize.WithLabelValues(method, path).Observe(float64(size))
	}
}
