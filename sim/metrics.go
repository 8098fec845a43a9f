package sim

import (
	"net/http"

	"empirikit/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// statCounter maps one engine counter to a metric
type statCounter struct {
	name  string
	help  string
	value func(core.StatsSnapshot) uint32
}

var statCounters = []statCounter{
	{"bytes_received_total", "Bytes read from the host", func(s core.StatsSnapshot) uint32 { return s.BytesReceived }},
	{"frames_dispatched_total", "Command frames dispatched", func(s core.StatsSnapshot) uint32 { return s.FramesDispatched }},
	{"receive_overflows_total", "Receive buffer overflows", func(s core.StatsSnapshot) uint32 { return s.Overflows }},
	{"unknown_commands_total", "Frames with an unknown command code", func(s core.StatsSnapshot) uint32 { return s.UnknownCommands }},
	{"malformed_arguments_total", "Frames with an unparseable argument", func(s core.StatsSnapshot) uint32 { return s.MalformedArgs }},
	{"stream_ticks_total", "StreamData responses sent", func(s core.StatsSnapshot) uint32 { return s.StreamTicks }},
	{"recordings_total", "Completed accelerometer recordings", func(s core.StatsSnapshot) uint32 { return s.Recordings }},
	{"samples_recorded_total", "Accelerometer samples logged", func(s core.StatsSnapshot) uint32 { return s.SamplesRecorded }},
	{"deadline_overruns_total", "Sample deadlines missed", func(s core.StatsSnapshot) uint32 { return s.DeadlineOverruns }},
	{"panics_total", "Recovered panics in the run loop", func(s core.StatsSnapshot) uint32 { return s.Panics }},
	{"write_errors_total", "Failed transport writes", func(s core.StatsSnapshot) uint32 { return s.WriteErrors }},
}

// NewMetrics registers the engine counters and transport state on a fresh
// registry
func NewMetrics(stats func() core.StatsSnapshot, transport *WSTransport) *prometheus.Registry {
	reg := prometheus.NewRegistry()

	for _, c := range statCounters {
		value := c.value
		reg.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "empirikit",
			Name:      c.name,
			Help:      c.help,
		}, func() float64 { return float64(value(stats())) }))
	}

	reg.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "empirikit",
			Name:      "host_connected",
			Help:      "1 while a host is attached",
		}, func() float64 {
			if transport.Connected() {
				return 1
			}
			return 0
		}),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "empirikit",
			Name:      "host_connections_total",
			Help:      "Hosts attached since start",
		}, func() float64 { return float64(transport.clients.Load()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "empirikit",
			Name:      "host_rejections_total",
			Help:      "Hosts refused because another was attached",
		}, func() float64 { return float64(transport.rejected.Load()) }),
	)

	return reg
}

// MetricsHandler serves reg in the Prometheus text format
func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
