package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total de requisições HTTP por rota e status",
		},
		[]string{"method", "path", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latência das requisições HTTP",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	LoginRateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "login_rate_limited_total",
			Help: "Tentativas de login bloqueadas pelo rate limit",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPDuration, LoginRateLimited)
}

// Metrics registra contagem e latência por rota (FullPath, para não explodir a cardinalidade)
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		HTTPRequests.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
