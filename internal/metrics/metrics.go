// Package metrics tracks RPC call counts and latencies: a
// CounterVec/HistogramVec pair per subsystem, every method
// nil-receiver safe so a caller that never enables metrics pays no
// cost beyond a nil check. nfsshell has no always-on metrics surface:
// the registry is only exposed over HTTP when --metrics-addr is set.
package metrics

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marmos91/nfsshell/internal/logger"
)

// Metrics tracks nfsshell's RPC call volume and latency by procedure,
// program, and outcome.
type Metrics struct {
	CallsTotal   *prometheus.CounterVec
	CallDuration *prometheus.HistogramVec
	SessionState prometheus.Gauge
}

// New creates and registers nfsshell's metrics against reg. Panics if
// registration fails, which only happens on programmer error
// (duplicate metric names) caught at process startup.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nfsshell_rpc_calls_total",
				Help: "Total ONC-RPC calls by program, procedure, and outcome",
			},
			[]string{"program", "procedure", "outcome"},
		),
		CallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nfsshell_rpc_call_duration_seconds",
				Help:    "ONC-RPC call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"program", "procedure"},
		),
		SessionState: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "nfsshell_session_state",
				Help: "Current session state (0=empty, 1=host-bound, 2=mounted)",
			},
		),
	}

	reg.MustRegister(m.CallsTotal, m.CallDuration, m.SessionState)
	return m
}

// RecordCall records one completed RPC call. outcome is "ok", "status"
// (a non-OK NFS/MOUNT status reply), or "error" (transport/program
// failure never reaching a status).
func (m *Metrics) RecordCall(program, procedure, outcome string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.CallsTotal.WithLabelValues(program, procedure, outcome).Inc()
	m.CallDuration.WithLabelValues(program, procedure).Observe(durationSeconds)
}

// SetSessionState publishes the session's current state.
func (m *Metrics) SetSessionState(state int) {
	if m == nil {
		return
	}
	m.SessionState.Set(float64(state))
}

// Server optionally exposes the registry on addr under /metrics. A nil
// *Server (returned when addr is empty) has a no-op Shutdown.
type Server struct {
	http *http.Server
}

// NewServer starts listening on addr in the background; pass "" to get
// a no-op Server, matching the --metrics-addr flag being off by default.
func NewServer(addr string, reg *prometheus.Registry) *Server {
	if addr == "" {
		return &Server{}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "addr", addr, "error", err)
		}
	}()

	logger.Info("metrics listening", "addr", addr)
	return &Server{http: srv}
}

// Shutdown stops the HTTP listener, if one is running.
func (s *Server) Shutdown(ctx context.Context) error {
	if s == nil || s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
