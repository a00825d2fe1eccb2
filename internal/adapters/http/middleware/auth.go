package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/ewbot/internal/adapters/http/dto"
)

// tokenScheme is the Authorization scheme accepted by RequireToken, the same
// one the quote service uses.
const tokenScheme = "Token "

// RequireToken returns middleware that rejects requests whose
// "Authorization: Token <token>" header does not match token.
// An empty token rejects everything.
func RequireToken(token string) gin.HandlerFunc {
	want := []byte(token)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")

		got, ok := strings.CutPrefix(header, tokenScheme)
		if !ok || len(want) == 0 || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			abortWithUnauthorized(c, "admin token required")

			return
		}

		c.Next()
	}
}

func abortWithUnauthorized(c *gin.Context, message string) {
	errResp := dto.NewErrorResponse(dto.ErrorCodeUnauthorized, message)

	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		errResp.TraceID = span.SpanContext().TraceID().String()
	}

	c.Header("WWW-Authenticate", strings.TrimSpace(tokenScheme))
	c.AbortWithStatusJSON(http.StatusUnauthorized, errResp)
}
