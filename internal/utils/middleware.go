package utils

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/AngelCh415/wb-ads-dashboard/internal/observability"
)

type ctxKey string

const requestIDKey ctxKey = "rid"

// RequestIDHeader is echoed back on every response. An inbound value is kept.
const RequestIDHeader = "X-Request-ID"

func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(RequestIDHeader)
		if rid == "" || len(rid) > 128 {
			rid = uuid.NewString()
		}
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey, rid))
		w.Header().Set(RequestIDHeader, rid)
		next.ServeHTTP(w, r)
	})
}

// Logger writes one access log line per request and records request metrics
// labelled with the matched route pattern.
func Logger(log *zap.Logger, m observability.MetricsRegistry) func(http.Handler) http.Handler {
	if m == nil {
		m = observability.NewNoOpRegistry()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := RoutePattern(r)
			latency := time.Since(start)
			m.IncrementRequests(route, r.Method, status)
			m.RecordRequestLatency(route, r.Method, latency)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route", route),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.String("request_id", RID(r.Context())),
				zap.Duration("latency", latency),
			}
			if sc := trace.SpanContextFromContext(r.Context()); sc.HasTraceID() {
				fields = append(fields, zap.String("trace_id", sc.TraceID().String()))
			}
			if status >= http.StatusInternalServerError {
				log.Error("http", fields...)
				return
			}
			log.Info("http", fields...)
		})
	}
}

// RoutePattern is the chi pattern that served r, or "unmatched".
func RoutePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func RID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// WithRID returns a logger carrying the request id of ctx.
func WithRID(log *zap.Logger, ctx context.Context) *zap.Logger {
	if rid := RID(ctx); rid != "" {
		return log.With(zap.String("request_id", rid))
	}
	return log
}
