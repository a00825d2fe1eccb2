package telemetry

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
)

// Middleware returns the Gin handlers that trace ops-server requests and
// echo the trace ID in the X-Trace-ID response header.
//
//	engine.Use(telemetry.Middleware("ewbot")...)
func Middleware(serviceName string) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		otelgin.Middleware(serviceName),
		traceHeader,
	}
}

// traceHeader runs inside the otelgin span so the header is set before the body is written.
func traceHeader(c *gin.Context) {
	span := trace.SpanFromContext(c.Request.Context())
	if span.SpanContext().HasTraceID() {
		c.Header("X-Trace-ID", span.SpanContext().TraceID().String())
	}

	c.Next()
}
