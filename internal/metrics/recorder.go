package metrics

import (
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder implements usecase.Recorder using Prometheus metrics.
type Recorder struct {
	registry         *prom.Registry
	starts           prom.Counter
	stops            prom.Counter
	reminders        *prom.CounterVec
	playbackFailures prom.Counter
	running          prom.Gauge
	interval         prom.Gauge
}

// NewRecorder constructs and registers the reminder metrics on reg.
// A nil reg gets a private registry.
func NewRecorder(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	r := &Recorder{
		registry: reg,
		starts: prom.NewCounter(prom.CounterOpts{
			Namespace: "drink_reminder",
			Name:      "starts_total",
			Help:      "Number of successful starts (including restarts with a new interval)",
		}),
		stops: prom.NewCounter(prom.CounterOpts{
			Namespace: "drink_reminder",
			Name:      "stops_total",
			Help:      "Number of transitions from running to stopped",
		}),
		reminders: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "drink_reminder",
			Name:      "reminders_total",
			Help:      "Reminders emitted by channel",
		}, []string{"channel"}),
		playbackFailures: prom.NewCounter(prom.CounterOpts{
			Namespace: "drink_reminder",
			Name:      "playback_failures_total",
			Help:      "Reminder sounds that failed to play",
		}),
		running: prom.NewGauge(prom.GaugeOpts{
			Namespace: "drink_reminder",
			Name:      "running",
			Help:      "1 while reminders are scheduled",
		}),
		interval: prom.NewGauge(prom.GaugeOpts{
			Namespace: "drink_reminder",
			Name:      "interval_minutes",
			Help:      "Interval of the active schedule",
		}),
	}
	reg.MustRegister(r.starts, r.stops, r.reminders, r.playbackFailures, r.running, r.interval)
	return r
}

func (r *Recorder) ReminderStarted(intervalMinutes int) {
	r.starts.Inc()
	r.running.Set(1)
	r.interval.Set(float64(intervalMinutes))
}

func (r *Recorder) ReminderStopped() {
	r.stops.Inc()
	r.running.Set(0)
}

func (r *Recorder) ReminderEmitted(channel string) {
	r.reminders.WithLabelValues(channel).Inc()
}

func (r *Recorder) PlaybackFailed() {
	r.playbackFailures.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
