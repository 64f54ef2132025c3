package perf

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	jobmetrics "github.com/rubankumarsankar/new-b/internal/jobs"
)

func TestNotificationJobThroughputAndReliability(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := jobmetrics.NewMetrics(reg)

	// Simulate email deliveries finishing fast and mostly successful.
	for i := 0; i < 60; i++ {
		tracker := metrics.Track("notify:email")
		time.Sleep(5 * time.Millisecond)
		if err := tracker.End(nil); err != nil {
			t.Fatalf("unexpected error ending email tracker: %v", err)
		}
	}

	// Teams webhook posts are slower but must stay within budget.
	for i := 0; i < 15; i++ {
		tracker := metrics.Track("notify:teams")
		time.Sleep(20 * time.Millisecond)
		if err := tracker.End(nil); err != nil {
			t.Fatalf("unexpected error ending teams tracker: %v", err)
		}
	}

	// Inject a couple of failures to make sure the failure counter moves.
	for i := 0; i < 3; i++ {
		tracker := metrics.Track("notify:email")
		time.Sleep(6 * time.Millisecond)
		if err := tracker.End(errors.New("smtp timeout")); err == nil {
			t.Fatal("expected error to propagate")
		}
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	success := metricValue(t, families, "ems_jobs_total", map[string]string{"job": "notify:email", "status": "success"})
	failure := metricValue(t, families, "ems_jobs_total", map[string]string{"job": "notify:email", "status": "failure"})
	if success+failure == 0 {
		t.Fatal("no email job executions recorded")
	}
	ratio := success / (success + failure)
	if ratio < 0.9 {
		t.Fatalf("email delivery success ratio too low: %f", ratio)
	}

	teamsDuration := histogramMean(t, families, "ems_job_duration_seconds", map[string]string{"job": "notify:teams"})
	if teamsDuration > 2.0 {
		t.Fatalf("teams webhook duration above budget: %f", teamsDuration)
	}

	emailDuration := histogramMean(t, families, "ems_job_duration_seconds", map[string]string{"job": "notify:email"})
	if emailDuration > 0.5 {
		t.Fatalf("email delivery duration above budget: %f", emailDuration)
	}
}

func metricValue(t *testing.T, families []*dto.MetricFamily, name string, labels map[string]string) float64 {
	t.Helper()
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, metric := range fam.GetMetric() {
			if hasLabels(metric, labels) {
				if fam.GetType() == dto.MetricType_COUNTER {
					return metric.GetCounter().GetValue()
				}
				if fam.GetType() == dto.MetricType_GAUGE {
					return metric.GetGauge().GetValue()
				}
			}
		}
	}
	t.Fatalf("metric %s with labels %v not found", name, labels)
	return 0
}

func histogramMean(t *testing.T, families []*dto.MetricFamily, name string, labels map[string]string) float64 {
	t.Helper()
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, metric := range fam.GetMetric() {
			if hasLabels(metric, labels) {
				hist := metric.GetHistogram()
				if hist == nil || hist.GetSampleCount() == 0 {
					t.Fatalf("histogram %s missing samples", name)
				}
				return hist.GetSampleSum() / float64(hist.GetSampleCount())
			}
		}
	}
	t.Fatalf("histogram %s with labels %v not found", name, labels)
	return 0
}

func hasLabels(metric *dto.Metric, labels map[string]string) bool {
	for _, lp := range metric.GetLabel() {
		if val, ok := labels[lp.GetName()]; ok {
			if lp.GetValue() != val {
				return false
			}
		}
	}
	for key := range labels {
		found := false
		for _, lp := range metric.GetLabel() {
			if lp.GetName() == key {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
