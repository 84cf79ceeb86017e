package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes.
const (
	OutcomeSent           = "sent"
	OutcomeInvalid        = "invalid"
	OutcomeRenderFailed   = "render_failed"
	OutcomeDispatchFailed = "dispatch_failed"
)

// Pipeline stages.
const (
	StageValidate = "validate"
	StageCompose  = "compose"
	StageDispatch = "dispatch"
)

// Metrics provides observability for the intake pipeline.
// Methods are safe to call on a nil *Metrics.
type Metrics struct {
	Submissions   *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
	DocumentBytes prometheus.Histogram
}

// New registers the intake metrics on the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the intake metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_submissions_total",
			Help: "Intake submissions by terminal outcome",
		}, []string{"outcome"}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "intake_stage_duration_seconds",
			Help:    "Duration of each intake pipeline stage",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"stage"}),
		DocumentBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "intake_document_bytes",
			Help:    "Size of rendered intake documents",
			Buckets: prometheus.ExponentialBuckets(1024, 2, 10),
		}),
	}
}

// IncrementSubmission records one finished submission.
func (m *Metrics) IncrementSubmission(outcome string) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(outcome).Inc()
}

// ObserveStage records how long a stage took.
// Call with time.Now() at the start of the stage.
func (m *Metrics) ObserveStage(stage string, start time.Time) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// ObserveDocumentSize records the rendered PDF size.
func (m *Metrics) ObserveDocumentSize(size int) {
	if m == nil {
		return
	}
	m.DocumentBytes.Observe(float64(size))
}
