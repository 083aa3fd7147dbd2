package httptransport

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Zhima-Mochi/orderdesk/internal/pkg/logging"
)

// ObservabilityMiddleware combines:
// - W3C trace context extraction
// - X-Request-ID generation + echo
// - request-scoped logger injection
// - HTTP metrics with low-cardinality labels
func ObservabilityMiddleware(base *zap.Logger, metrics *Metrics) func(http.Handler) http.Handler {
	prop := otel.GetTextMapPropagator()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := prop.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			sc := trace.SpanContextFromContext(ctx)

			rid := r.Header.Get("X-Request-ID")
			if rid == "" {
				rid = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", rid)

			reqLogger := base.With(zap.String("request_id", rid))
			if sc.IsValid() {
				reqLogger = reqLogger.With(
					zap.String("trace_id", sc.TraceID().String()),
					zap.String("span_id", sc.SpanID().String()),
				)
			}
			ctx = logging.ContextWithLogger(ctx, reqLogger)

			start := time.Now()
			lrw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			rr := r.WithContext(ctx)
			next.ServeHTTP(lrw, rr)

			route := chi.RouteContext(rr.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			status := strconv.Itoa(lrw.status)

			if metrics != nil {
				metrics.Requests.WithLabelValues(r.Method, route, status).Inc()
				metrics.Durations.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
			}

			reqLogger.Info("http_request_done",
				zap.String("method", r.Method),
				zap.String("route", route),
				zap.Int("status", lrw.status),
				zap.Duration("latency", time.Since(start)),
			)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
