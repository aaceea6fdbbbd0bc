package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Frame phases observed by FramePhaseDuration.
const (
	PhaseRebuild = "rebuild"
	PhaseLayout  = "layout"
	PhasePaint   = "paint"
	PhaseFlush   = "flush"
)

// Metrics holds the frame loop's Prometheus collectors. A nil *Metrics
// records nothing.
type Metrics struct {
	Frames             prometheus.Counter
	FrameDuration      prometheus.Histogram
	FramePhaseDuration *prometheus.HistogramVec
	Changes            *prometheus.CounterVec
	Messages           *prometheus.CounterVec
	Wakes              prometheus.Counter
	Animating          prometheus.Gauge
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Frames: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "trellis",
			Subsystem: "frame",
			Name:      "rendered_total",
			Help:      "Total number of frames rendered",
		}),
		FrameDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "trellis",
			Subsystem: "frame",
			Name:      "duration_seconds",
			Help:      "Time from rebuild start to flush end",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12), // 100µs to ~200ms
		}),
		FramePhaseDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "trellis",
			Subsystem: "frame",
			Name:      "phase_duration_seconds",
			Help:      "Time spent in each frame phase",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 12),
		}, []string{"phase"}),
		Changes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trellis",
			Subsystem: "view",
			Name:      "changes_total",
			Help:      "Root rebuilds by the change flag they reported",
		}, []string{"flag"}),
		Messages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trellis",
			Subsystem: "view",
			Name:      "messages_total",
			Help:      "Messages delivered to the view tree by result kind",
		}, []string{"result"}),
		Wakes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "trellis",
			Subsystem: "async",
			Name:      "wakes_total",
			Help:      "Wake-ups delivered from async tasks",
		}),
		Animating: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "trellis",
			Subsystem: "animation",
			Name:      "active",
			Help:      "1 while an animation keeps requesting frames",
		}),
	}
}

// ObserveFrame records one rendered frame.
func (m *Metrics) ObserveFrame(total time.Duration) {
	if m == nil {
		return
	}
	m.Frames.Inc()
	m.FrameDuration.Observe(total.Seconds())
}

// ObservePhase records the time one phase of a frame took.
func (m *Metrics) ObservePhase(phase string, d time.Duration) {
	if m == nil {
		return
	}
	m.FramePhaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

// CountChanges records each flag name in flags, such as "LAYOUT" or
// "TREE". A rebuild that changed nothing counts as "NONE".
func (m *Metrics) CountChanges(flags []string) {
	if m == nil {
		return
	}
	for _, f := range flags {
		m.Changes.WithLabelValues(f).Inc()
	}
}

// CountMessage records a message delivery outcome.
func (m *Metrics) CountMessage(result string) {
	if m == nil {
		return
	}
	m.Messages.WithLabelValues(result).Inc()
}

// CountWake records an async wake-up.
func (m *Metrics) CountWake() {
	if m == nil {
		return
	}
	m.Wakes.Inc()
}

// SetAnimating records whether animations are running.
func (m *Metrics) SetAnimating(on bool) {
	if m == nil {
		return
	}
	if on {
		m.Animating.Set(1)
	} else {
		m.Animating.Set(0)
	}
}
