package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tyler180/fantasy-roster-values/internal/logging"
	"github.com/tyler180/fantasy-roster-values/internal/metrics"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestID reuses an inbound X-Request-ID or mints one, and puts a logger
// carrying it on the request context.
func RequestID(h *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)

		logger := h.logger.With(logging.FieldRequestID, id)
		c.Request = c.Request.WithContext(logging.WithLogger(c.Request.Context(), logger))
		c.Next()
	}
}

// AccessLog logs one line per request, at a level that follows the status.
func AccessLog(h *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		logger := logging.FromContext(c.Request.Context(), h.logger)
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			logging.FieldRoute, c.FullPath(),
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			attrs = append(attrs, "query", q)
		}
		switch {
		case status >= 500:
			logger.Error("request failed", attrs...)
		case status >= 400:
			logger.Warn("request rejected", attrs...)
		default:
			logger.Info("request completed", attrs...)
		}
	}
}

// Metrics records request counts and latency by route template.
func Metrics(m *metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
