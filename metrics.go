package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gin-gonic/gin"
)

// Metrics holds the Prometheus collectors, registered on a private registry
// so tests can build throwaway instances.
type Metrics struct {
	Registry       *prometheus.Registry
	Gestures       *prometheus.CounterVec
	Placements     *prometheus.CounterVec
	Submissions    *prometheus.CounterVec
	CheckFailures  prometheus.Counter
	StaleResponses prometheus.Counter
	Lookups        *prometheus.CounterVec
}

func newMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Gestures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "satzbau_gestures_total",
				Help: "Resolved gesture intents by kind",
			},
			[]string{"intent"},
		),
		Placements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "satzbau_placements_total",
				Help: "Placement model mutations",
			},
			[]string{"op"},
		),
		Submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "satzbau_submissions_total",
				Help: "Checked submissions by outcome",
			},
			[]string{"outcome"},
		),
		CheckFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "satzbau_check_failures_total",
			Help: "Checker calls that failed in transport or decoding",
		}),
		StaleResponses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "satzbau_stale_responses_total",
			Help: "Checker responses discarded because the board was reset",
		}),
		Lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "satzbau_lookups_total",
				Help: "Dictionary lookups by result",
			},
			[]string{"result"},
		),
	}
	m.Registry.MustRegister(m.Gestures, m.Placements, m.Submissions,
		m.CheckFailures, m.StaleResponses, m.Lookups)
	return m
}

// handler exposes the registry for the /metrics route.
func (m *Metrics) handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}

// recordGesture counts a classifier outcome; ambiguous steps are not counted.
func (m *Metrics) recordGesture(out GestureOutcome) {
	switch out.Intent {
	case IntentNone, IntentDragMove:
		return
	}
	m.Gestures.WithLabelValues(out.Intent).Inc()
	if out.Placed {
		m.Placements.WithLabelValues("place").Inc()
	}
}
