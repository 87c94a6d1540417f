package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Run metrics
	RunsTotal   *prometheus.CounterVec
	RunDuration prometheus.Histogram
	Iterations  prometheus.Counter
	QueryLength prometheus.Gauge

	// Model metrics
	ModelCallsTotal   *prometheus.CounterVec
	ModelCallDuration *prometheus.HistogramVec
	ParseErrorsTotal  prometheus.Counter

	// Tool metrics
	ToolCallsTotal   *prometheus.CounterVec
	ToolCallDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all metrics
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mcploop_runs_total",
				Help: "Total number of agent loop runs by outcome",
			},
			[]string{"outcome"},
		),
		RunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mcploop_run_duration_seconds",
				Help:    "Duration of agent loop runs in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		Iterations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "mcploop_iterations_total",
				Help: "Total number of loop iterations started",
			},
		),
		QueryLength: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "mcploop_query_length_bytes",
				Help: "Length of the most recent query sent to the model",
			},
		),

		ModelCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mcploop_model_calls_total",
				Help: "Total number of model calls",
			},
			[]string{"provider", "status"},
		),
		ModelCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mcploop_model_call_duration_seconds",
				Help:    "Duration of model calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		ParseErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "mcploop_directive_parse_errors_total",
				Help: "Total number of model responses that were not a valid directive",
			},
		),

		ToolCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mcploop_tool_calls_total",
				Help: "Total number of tool calls",
			},
			[]string{"tool_name", "status"},
		),
		ToolCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mcploop_tool_call_duration_seconds",
				Help:    "Duration of tool calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"tool_name"},
		),
	}

	m.registerMetrics()

	return m
}

func (m *Metrics) registerMetrics() {
	m.registry.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.Iterations,
		m.QueryLength,
		m.ModelCallsTotal,
		m.ModelCallDuration,
		m.ParseErrorsTotal,
		m.ToolCallsTotal,
		m.ToolCallDuration,
	)
}

// ObserveRun records a finished run.
func (m *Metrics) ObserveRun(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(outcome).Inc()
	m.RunDuration.Observe(d.Seconds())
}

// ObserveIteration records the start of an iteration and the query size.
func (m *Metrics) ObserveIteration(queryLen int) {
	if m == nil {
		return
	}
	m.Iterations.Inc()
	m.QueryLength.Set(float64(queryLen))
}

// ObserveModelCall records one model call; status is "success", "timeout" or "error".
func (m *Metrics) ObserveModelCall(provider, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.ModelCallsTotal.WithLabelValues(provider, status).Inc()
	m.ModelCallDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// ObserveParseError counts a response that did not parse as a directive.
func (m *Metrics) ObserveParseError() {
	if m == nil {
		return
	}
	m.ParseErrorsTotal.Inc()
}

// ObserveToolCall records one tool call.
func (m *Metrics) ObserveToolCall(tool, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.ToolCallsTotal.WithLabelValues(tool, status).Inc()
	m.ToolCallDuration.WithLabelValues(tool).Observe(d.Seconds())
}

// Handler returns an HTTP handler for the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string, logger zerolog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return m.serve(ctx, ln, logger)
}

func (m *Metrics) serve(ctx context.Context, ln net.Listener, logger zerolog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", ln.Addr().String()).Msg("Serving metrics")
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
