package httpmiddleware

import (
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry provides OpenTelemetry providers.
type Telemetry interface {
	TracerProvider() trace.TracerProvider
	MeterProvider() metric.MeterProvider
}

// Instrument returns a middleware that traces requests and records HTTP
// server metrics. Spans are named after the matched ServeMux pattern, or the
// method alone when nothing matched, and metrics get the http.route label.
func Instrument(service string, m Telemetry) Middleware {
	return func(next http.Handler) http.Handler {
		routed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)

			route := routeOf(r)
			if route == "" {
				return
			}
			if l, ok := otelhttp.LabelerFromContext(r.Context()); ok {
				l.Add(attribute.String("http.route", route))
			}
		})
		return otelhttp.NewHandler(routed, service,
			otelhttp.WithTracerProvider(m.TracerProvider()),
			otelhttp.WithMeterProvider(m.MeterProvider()),
			otelhttp.WithSpanNameFormatter(spanName),
		)
	}
}

// spanName is called by otelhttp when the span starts and again after the
// handler returns, when r.Pattern is known.
func spanName(_ string, r *http.Request) string {
	if r.Pattern != "" {
		return r.Pattern
	}
	return r.Method
}

// routeOf returns the path part of the ServeMux pattern matched for r, or
// an empty string if nothing matched.
func routeOf(r *http.Request) string {
	if r.Pattern == "" {
		return ""
	}
	if _, path, ok := strings.Cut(r.Pattern, " "); ok {
		return path
	}
	return r.Pattern
}
