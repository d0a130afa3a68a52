package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "Total number of HTTP requests processed by the dashboard API.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	messagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_whatsapp_messages_total",
			Help: "Total number of WhatsApp messages dispatched, by type and result.",
		},
		[]string{"type", "result"},
	)
	fallbackEnqueuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_fallback_enqueued_total",
			Help: "Total number of NocoDB writes queued in the local fallback store.",
		},
		[]string{"table", "operation"},
	)
	fallbackSyncedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_fallback_synced_total",
			Help: "Total number of fallback entries replayed, by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		messagesTotal,
		fallbackEnqueuedTotal,
		fallbackSyncedTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func IncMessage(msgType, result string) {
	messagesTotal.WithLabelValues(msgType, result).Inc()
}

func IncFallbackEnqueued(table, operation string) {
	fallbackEnqueuedTotal.WithLabelValues(table, operation).Inc()
}

func IncFallbackSynced(result string) {
	fallbackSyncedTotal.WithLabelValues(result).Inc()
}
