package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/taxiservice/internal/pkg/metrics"
)

// unmatchedRoute labels requests that hit no registered route, keeping label cardinality bounded
const unmatchedRoute = "unmatched"

// Metrics records request count, latency and in-flight gauge per route template
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		method := c.Request.Method

		metrics.HTTPRequestsTotal.WithLabelValues(method, route, metrics.StatusClass(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
