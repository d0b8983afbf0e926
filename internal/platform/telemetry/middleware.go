package telemetry

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahmedtravel/playbook/internal/platform/logging"
)

const instrumentationName = "github.com/ahmedtravel/playbook/internal/platform/telemetry"

// HeaderTraceID carries the trace id back to the dashboard so agents can
// quote it when reporting a problem.
const HeaderTraceID = "X-Trace-ID"

const opsPrefix = "/-/"

// httpMetrics are the OTel server instruments. Prometheus scrapes the app
// counters separately through /-/metrics.
type httpMetrics struct {
	duration metric.Float64Histogram
	requests metric.Int64Counter
	inFlight metric.Int64UpDownCounter
}

func newHTTPMetrics() (*httpMetrics, error) {
	meter := otel.Meter(instrumentationName)

	duration, err := meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Duration of API requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requests, err := meter.Int64Counter("http.server.request.total",
		metric.WithDescription("API requests by route and status"),
	)
	if err != nil {
		return nil, err
	}

	inFlight, err := meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("API requests in flight"),
	)
	if err != nil {
		return nil, err
	}

	return &httpMetrics{duration: duration, requests: requests, inFlight: inFlight}, nil
}

// Tracing starts a server span per request. Ops routes are not traced.
func Tracing(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName,
		otelgin.WithFilter(func(r *http.Request) bool {
			return !strings.HasPrefix(r.URL.Path, opsPrefix)
		}),
	)
}

// Middleware records request metrics, echoes the trace id in X-Trace-ID and
// adds it to the request logger. It must run after Tracing.
func Middleware() gin.HandlerFunc {
	metrics, err := newHTTPMetrics()
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, opsPrefix) {
			c.Next()
			return
		}

		ctx := c.Request.Context()

		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			traceID := sc.TraceID().String()
			c.Header(HeaderTraceID, traceID)
			c.Request = c.Request.WithContext(logging.WithTraceID(ctx, traceID))
		}

		if metrics == nil {
			c.Next()
			return
		}

		route := attribute.String("http.route", c.FullPath())
		method := attribute.String("http.request.method", c.Request.Method)

		metrics.inFlight.Add(ctx, 1, metric.WithAttributes(method, route))
		defer metrics.inFlight.Add(ctx, -1, metric.WithAttributes(method, route))

		start := time.Now()

		c.Next()

		attrs := metric.WithAttributes(method, route, attribute.Int("http.response.status_code", c.Writer.Status()))
		metrics.duration.Record(ctx, time.Since(start).Seconds(), attrs)
		metrics.requests.Add(ctx, 1, attrs)
	}
}
