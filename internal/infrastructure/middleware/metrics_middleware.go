package middleware

import (
	"time"

	"github.com/pubudu2003060/NoteShare-sub000/pkg/utils"

	"github.com/gin-gonic/gin"
)

// HTTPMetrics records request latency per method and route.
type HTTPMetrics interface {
	ObserveHTTPRequest(method, route string, duration time.Duration)
}

// MetricsMiddleware times every request under its route template, so
// /notifications/:id stays one series regardless of the concrete id.
func MetricsMiddleware(metrics HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTPRequest(c.Request.Method, route, time.Since(start))
	}
}

const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware tags each request with an identifier, honoring one the
// client already carries, and echoes it on the response.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = utils.GenerateRequestID()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}
