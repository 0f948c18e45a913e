package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestLeadMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLeadMetrics(reg)
	m.ObserveSubmission(OutcomeSent)
	m.ObserveSubmission(OutcomeSent)
	m.ObserveSubmission(OutcomeInvalid)
	m.ObserveRelay(OutcomeSent, 0.5)

	if got := testutil.ToFloat64(m.SubmissionsCounter(OutcomeSent)); got != 2 {
		t.Fatalf("expected 2 sent submissions, got %v", got)
	}
	if got := testutil.ToFloat64(m.submissionsTotal.WithLabelValues(OutcomeInvalid)); got != 1 {
		t.Fatalf("expected 1 invalid submission, got %v", got)
	}
	if got := testutil.CollectAndCount(m.relayLatency); got != 1 {
		t.Fatalf("expected 1 relay latency series, got %d", got)
	}
}

func TestLeadMetricsDefaultRegistry(t *testing.T) {
	prev := prometheus.DefaultRegisterer
	prometheus.DefaultRegisterer = prometheus.NewRegistry()
	t.Cleanup(func() { prometheus.DefaultRegisterer = prev })

	m := NewLeadMetrics(nil)
	m.ObserveSubmission(OutcomePreflight)
}

func TestLeadMetricsNilSafe(t *testing.T) {
	var m *LeadMetrics
	m.ObserveSubmission(OutcomeSent)
	m.ObserveRelay(OutcomeUnreachable, 0.1)
}

func TestLeadMetricsRelayHistogram(t *testing.T) {
	m := NewLeadMetrics(prometheus.NewRegistry())
	m.ObserveRelay(OutcomeRejected, 0.25)
	m.ObserveRelay(OutcomeRejected, 1.5)

	var out dto.Metric
	observer := m.relayLatency.WithLabelValues(OutcomeRejected)
	if err := observer.(prometheus.Metric).Write(&out); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	if got := out.GetHistogram().GetSampleCount(); got != 2 {
		t.Fatalf("expected 2 samples, got %d", got)
	}
	if got := out.GetHistogram().GetSampleSum(); got != 1.75 {
		t.Fatalf("expected sum 1.75, got %v", got)
	}
}
