package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yangpin97/cisco-client-portal/tool"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an id and logs it once it completes.
func RequestLogger(c *gin.Context) {
	id := c.GetHeader(RequestIDHeader)
	if id == "" {
		id = tool.GenerateRequestID()
	}
	c.Set("requestID", id)
	c.Header(RequestIDHeader, id)

	start := time.Now()
	c.Next()

	status := c.Writer.Status()
	switch {
	case status >= 500:
		tool.DefaultLogger.Errorf("[HTTP] %s %s %s -> %d (%s)", id, c.Request.Method, c.Request.URL.Path, status, time.Since(start))
	case status >= 400:
		tool.DefaultLogger.Warnf("[HTTP] %s %s %s -> %d (%s)", id, c.Request.Method, c.Request.URL.Path, status, time.Since(start))
	default:
		tool.DefaultLogger.Debugf("[HTTP] %s %s %s -> %d (%s)", id, c.Request.Method, c.Request.URL.Path, status, time.Since(start))
	}
}
