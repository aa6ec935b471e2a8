package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"quotegen/internal/metrics"
)

// Metrics records request counts, latency and in-flight requests. Paths are reported as the
// matched route template so session IDs do not explode label cardinality.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.RequestStarted()
		c.Next()
		m.RequestFinished(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
