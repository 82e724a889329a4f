package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestLog tags every request with an id and logs its outcome.
func (m Middleware) RequestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)

		start := time.Now()
		c.Next()

		m.l.Infof(c.Request.Context(), "%s %s -> %d (%s) request_id=%s",
			c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start).Round(time.Millisecond), id)
	}
}
