// Package middleware provides the gin middleware of the operational HTTP server.
package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/ewbot/internal/platform/logging"
	"github.com/jsamuelsen/ewbot/internal/platform/requestid"
)

// ContextKeyRequestID is the gin context key holding the request ID.
const ContextKeyRequestID = "request_id"

// RequestID returns middleware that takes the request ID from the
// X-Request-ID header or generates one. The ID is echoed in the response,
// stored in the gin context, and attached to the request context together
// with a logger carrying it.
func RequestID(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		id := c.GetHeader(requestid.Header)
		if id == "" {
			id = requestid.New()
		}

		c.Set(ContextKeyRequestID, id)
		c.Header(requestid.Header, id)

		ctx := requestid.WithID(c.Request.Context(), id)
		ctx = logging.WithContext(ctx, logger.With(slog.String("request_id", id)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetRequestID returns the request ID stored by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}
