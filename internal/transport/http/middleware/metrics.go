package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type HTTPMetrics struct {
	total   *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

// NewHTTPMetrics registers the request counter and latency histogram on reg.
func NewHTTPMetrics(reg prometheus.Registerer, server string) *HTTPMetrics {
	m := &HTTPMetrics{
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "http_requests_total",
				Help:        "Count of HTTP requests",
				ConstLabels: prometheus.Labels{"server": server},
			},
			[]string{"path", "method", "status"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "http_request_duration_seconds",
				Help:        "Latency of HTTP requests",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: prometheus.Labels{"server": server},
			}, []string{"path", "method"},
		),
	}
	reg.MustRegister(m.total, m.latency)
	return m
}

func (m *HTTPMetrics) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		// 未匹配路由统一归一，避免 label 爆炸
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.total.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.latency.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
