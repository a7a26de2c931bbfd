package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the supervisor and the
// animation engine. Each binary registers only the series it touches;
// unused series simply stay at zero.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Supervisor metrics
	ProgramStarts  *prometheus.CounterVec
	ProgramStops   *prometheus.CounterVec
	LaunchFailures *prometheus.CounterVec
	ProgramRunning prometheus.Gauge
	LivePushes     *prometheus.CounterVec

	// Engine metrics
	FramesPresented prometheus.Counter
	Transitions     *prometheus.CounterVec
	Brightness      prometheus.Gauge
	SinkErrors      prometheus.Counter

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector backed by its own registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		startTime: time.Now(),
		registry:  registry,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matrixd_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "matrixd_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		ProgramStarts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matrixd_program_starts_total",
				Help: "Total number of display program launches",
			},
			[]string{"program"},
		),
		ProgramStops: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matrixd_program_stops_total",
				Help: "Total number of display program stops",
			},
			[]string{"program", "mode"},
		),
		LaunchFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matrixd_launch_failures_total",
				Help: "Total number of failed display program launches",
			},
			[]string{"program"},
		),
		ProgramRunning: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "matrixd_program_running",
				Help: "Whether a display program is currently running (0 or 1)",
			},
		),
		LivePushes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matrixd_live_pushes_total",
				Help: "Loopback control channel calls by operation and status",
			},
			[]string{"op", "status"},
		),

		FramesPresented: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "matrixd_frames_presented_total",
				Help: "Total number of frames presented to the matrix sink",
			},
		),
		Transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matrixd_transitions_total",
				Help: "Total number of window transitions by kind",
			},
			[]string{"kind"},
		),
		Brightness: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "matrixd_brightness",
				Help: "Current display brightness (1-100)",
			},
		),
		SinkErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "matrixd_sink_errors_total",
				Help: "Total number of frame presentation failures",
			},
		),

		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "matrixd_uptime_seconds",
				Help: "Process uptime in seconds",
			},
		),
	}
}

// Handler returns an HTTP handler exposing this collector's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordStart records a successful program launch.
func (m *Metrics) RecordStart(program string) {
	m.ProgramStarts.WithLabelValues(program).Inc()
	m.ProgramRunning.Set(1)
}

// RecordStop records a program stop. Mode is "graceful" or "killed".
func (m *Metrics) RecordStop(program, mode string) {
	m.ProgramStops.WithLabelValues(program, mode).Inc()
	m.ProgramRunning.Set(0)
}

// RecordLaunchFailure records a failed launch.
func (m *Metrics) RecordLaunchFailure(program string) {
	m.LaunchFailures.WithLabelValues(program).Inc()
}

// RecordLivePush records a loopback control call outcome.
func (m *Metrics) RecordLivePush(op, status string) {
	m.LivePushes.WithLabelValues(op, status).Inc()
}

// TickUptime refreshes the uptime gauge.
func (m *Metrics) TickUptime() {
	m.Uptime.Set(time.Since(m.startTime).Seconds())
}
