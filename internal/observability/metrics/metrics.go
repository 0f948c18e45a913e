package metrics

import "github.com/prometheus/client_golang/prometheus"

// Submission outcomes recorded by the lead handler.
const (
	OutcomePreflight        = "preflight"
	OutcomeMethodNotAllowed = "method_not_allowed"
	OutcomeMisconfigured    = "misconfigured"
	OutcomeInvalid          = "invalid"
	OutcomeRenderFailed     = "render_failed"
	OutcomeSent             = "sent"
	OutcomeRejected         = "rejected"
	OutcomeUnreachable      = "unreachable"
)

// LeadMetrics exposes counters/histograms for the lead relay.
type LeadMetrics struct {
	submissionsTotal *prometheus.CounterVec
	relayLatency     *prometheus.HistogramVec
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lead_relay",
			Subsystem: "form",
			Name:      "submissions_total",
			Help:      "Lead form requests by outcome",
		}, []string{"outcome"}),
		relayLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lead_relay",
			Subsystem: "relay",
			Name:      "send_seconds",
			Help:      "Latency of mail provider calls",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.relayLatency)
	return m
}

func (m *LeadMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *LeadMetrics) ObserveRelay(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.relayLatency.WithLabelValues(outcome).Observe(seconds)
}

// SubmissionsCounter returns the counter for one outcome label.
func (m *LeadMetrics) SubmissionsCounter(outcome string) prometheus.Counter {
	return m.submissionsTotal.WithLabelValues(outcome)
}
