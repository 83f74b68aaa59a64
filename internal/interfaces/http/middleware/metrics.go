package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ContractLens/internal/infrastructure/monitoring/prometheus"
)

// Metrics records request count, latency and in-flight requests.  The route
// template, not the raw path, labels the series.
func Metrics(m *prometheus.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		done := prometheus.TrackInFlightRequest(m)
		start := time.Now()
		c.Next()
		done()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		prometheus.RecordHTTPRequest(m, c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

//Personal.AI order the ending
