package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
	})
	return recorder
}

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func tracedRouter(status int) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(TracingWithConfig(DefaultTracingConfig()))
	router.Use(SpanAnnotator())
	// stands in for the JWT middleware, which runs after the annotator
	router.Use(func(c *gin.Context) {
		c.Set(JWTUserIDKey, "user-7")
		c.Next()
	})
	router.GET("/api/v1/quotations/:id/pdf", func(c *gin.Context) {
		c.Status(status)
	})
	return router
}

func TestTracingWithConfig_Disabled(t *testing.T) {
	recorder := setupTestTracer(t)

	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{Enabled: false}))
	router.GET("/test", okHandler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, recorder.Ended())
}

func TestTracingWithConfig_TagsRequest(t *testing.T) {
	recorder := setupTestTracer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotations/abc/pdf", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	tracedRouter(http.StatusOK).ServeHTTP(w, req)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Name(), "/api/v1/quotations/:id/pdf")

	requestID, ok := attrValue(spans[0].Attributes(), "request_id")
	require.True(t, ok)
	assert.Equal(t, "req-42", requestID.AsString())

	userID, ok := attrValue(spans[0].Attributes(), "user_id")
	require.True(t, ok)
	assert.Equal(t, "user-7", userID.AsString())

	resourceID, ok := attrValue(spans[0].Attributes(), "resource.id")
	require.True(t, ok)
	assert.Equal(t, "abc", resourceID.AsString())
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)
}

func TestSpanAnnotator_MarksErrors(t *testing.T) {
	tests := []struct {
		status  int
		message string
	}{
		// otelgin owns the description of 5xx spans
		{http.StatusInternalServerError, ""},
		{http.StatusUnauthorized, "Unauthorized"},
		{http.StatusForbidden, "Forbidden"},
		{http.StatusNotFound, "Not Found"},
		{http.StatusTooManyRequests, "Too Many Requests"},
		{http.StatusBadRequest, "Client Error"},
		{http.StatusUnprocessableEntity, "Client Error"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			recorder := setupTestTracer(t)

			w := httptest.NewRecorder()
			tracedRouter(tt.status).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/quotations/abc/pdf", nil))

			spans := recorder.Ended()
			require.Len(t, spans, 1)
			assert.Equal(t, codes.Error, spans[0].Status().Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, spans[0].Status().Description)
			}
		})
	}
}

func TestSpanErrorDescription(t *testing.T) {
	assert.Equal(t, "Conflict", spanErrorDescription(http.StatusConflict))
	assert.Equal(t, "Server Error", spanErrorDescription(http.StatusBadGateway))
	assert.Equal(t, "Client Error", spanErrorDescription(http.StatusRequestEntityTooLarge))
}
