package triage

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the intake subsystem.
type Metrics struct {
	AssessmentsTotal     *prometheus.CounterVec
	AssessmentDuration   *prometheus.HistogramVec
	ClassifierCallsTotal *prometheus.CounterVec
	ClassifierDuration   prometheus.Histogram
	PlacementsTotal      *prometheus.CounterVec
	QueueDepth           *prometheus.GaugeVec
	RegistrationsTotal   *prometheus.CounterVec
	ExtractionsTotal     prometheus.Counter
	NarrationsTotal      *prometheus.CounterVec
}

// NewMetrics registers and returns intake metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AssessmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_assessments_total",
			Help: "Total assessment workflows by outcome.",
		}, []string{"outcome"}),
		AssessmentDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "intake_assessment_duration_seconds",
			Help:    "Duration of assessment workflows in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms .. ~100s
		}, []string{"outcome"}),
		ClassifierCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_classifier_calls_total",
			Help: "Total classifier calls by outcome.",
		}, []string{"outcome"}),
		ClassifierDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "intake_classifier_call_duration_seconds",
			Help:    "Duration of individual classifier calls in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 11), // 50ms .. ~50s
		}),
		PlacementsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_placements_total",
			Help: "Total queue placements by department and result.",
		}, []string{"department", "result"}),
		QueueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "intake_queue_depth",
			Help: "Current patient queue depth per department.",
		}, []string{"department"}),
		RegistrationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_registrations_total",
			Help: "Total patient registrations by outcome.",
		}, []string{"outcome"}),
		ExtractionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "intake_extractions_total",
			Help: "Total report field extractions.",
		}),
		NarrationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_narrations_total",
			Help: "Total narrative generations by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		m.AssessmentsTotal,
		m.AssessmentDuration,
		m.ClassifierCallsTotal,
		m.ClassifierDuration,
		m.PlacementsTotal,
		m.QueueDepth,
		m.RegistrationsTotal,
		m.ExtractionsTotal,
		m.NarrationsTotal,
	)

	return m
}
