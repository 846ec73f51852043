package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds counters of the tracking loop
type Metrics struct {
	FramesRead    prometheus.Counter
	FramesTracked prometheus.Counter
	FramesSkipped prometheus.Counter
	// Distance every slot moved between two consecutive tracked frames
	SlotDisplacement prometheus.Histogram

	registry *prometheus.Registry
}

// New creates a new Metrics instance with its own Prometheus registry
func New() *Metrics {
	m := &Metrics{
		FramesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "slottrack_frames_read_total",
			Help: "Total frames read from the detection source",
		}),
		FramesTracked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "slottrack_frames_tracked_total",
			Help: "Total frames with expected number of detections that were matched and logged",
		}),
		FramesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "slottrack_frames_skipped_total",
			Help: "Total frames skipped because detection count differed from expected",
		}),
		SlotDisplacement: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "slottrack_slot_displacement_pixels",
			Help:    "Distance a slot moved between consecutive tracked frames",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(m.FramesRead, m.FramesTracked, m.FramesSkipped, m.SlotDisplacement)
	return m
}

// Registry returns underlying Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns HTTP handler exposing metrics in Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
