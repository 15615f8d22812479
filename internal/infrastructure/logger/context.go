package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type scopeKey struct{}

// scope is what a request carries for logging. Each With* call stores a
// fresh copy, so a parent context never sees ids added further down.
type scope struct {
	logger    *zap.Logger
	requestID string
	userID    string
}

func scopeFrom(ctx context.Context) scope {
	if s, ok := ctx.Value(scopeKey{}).(scope); ok {
		return s
	}
	return scope{}
}

func withScope(ctx context.Context, s scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// WithContext attaches logger to ctx, keeping any ids already stored
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	s := scopeFrom(ctx)
	s.logger = logger
	return withScope(ctx, s)
}

// FromContext returns the attached logger, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if l := scopeFrom(ctx).logger; l != nil {
		return l
	}
	return zap.NewNop()
}

// WithRequestID stores the request id and attaches logger tagged with it
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	s := scopeFrom(ctx)
	s.requestID = requestID
	s.logger = logger.With(zap.String("request_id", requestID))
	return withScope(ctx, s), s.logger
}

// WithUserID stores the authenticated user and attaches logger tagged with it
func WithUserID(ctx context.Context, logger *zap.Logger, userID string) (context.Context, *zap.Logger) {
	s := scopeFrom(ctx)
	s.userID = userID
	s.logger = logger.With(zap.String("user_id", userID))
	return withScope(ctx, s), s.logger
}

func GetRequestID(ctx context.Context) string { return scopeFrom(ctx).requestID }

func GetUserID(ctx context.Context) string { return scopeFrom(ctx).userID }

// GetTraceID returns the id of the active trace, or ""
func GetTraceID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}

// L is the logger to use inside request handling code. Inside a span it
// also carries trace_id and span_id for correlation with traces.
//
//	logger.L(ctx).Info("quotation rendered", zap.Int("pages", n))
func L(ctx context.Context) *zap.Logger {
	l := FromContext(ctx)
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l
	}
	return l.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}
