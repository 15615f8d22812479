package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength bounds client supplied request ids
const MaxRequestIDLength = 128

// Span attribute keys added on top of otelgin's HTTP attributes
const (
	spanAttrRequestID  = "request_id"
	spanAttrUserID     = "user_id"
	spanAttrResourceID = "resource.id"
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "cotizador-backend",
		Enabled:     true,
	}
}

// TracingWithConfig opens a server span per request. otelgin names it after
// the route pattern, e.g. "GET /api/v1/quotations/:id/pdf".
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// SpanAnnotator enriches the request span once the handlers have run, so
// the user set by the JWT middleware further down the chain is known.
// It must sit right after TracingWithConfig.
func SpanAnnotator() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		attrs := make([]attribute.KeyValue, 0, 3)
		if id := c.GetString(RequestIDKey); id != "" {
			attrs = append(attrs, attribute.String(spanAttrRequestID, id))
		}
		if userID := GetJWTUserID(c); userID != "" {
			attrs = append(attrs, attribute.String(spanAttrUserID, userID))
		}
		if id := c.Param("id"); id != "" {
			attrs = append(attrs, attribute.String(spanAttrResourceID, id))
		}
		span.SetAttributes(attrs...)

		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			span.SetStatus(codes.Error, spanErrorDescription(status))
		}
	}
}

// spanErrorDescription groups client errors so that span descriptions stay
// low-cardinality. otelgin overwrites the description of 5xx spans.
func spanErrorDescription(status int) string {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound,
		http.StatusConflict, http.StatusTooManyRequests:
		return http.StatusText(status)
	}
	if status >= http.StatusInternalServerError {
		return "Server Error"
	}
	return "Client Error"
}
