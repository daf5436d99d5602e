package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestUpstreamMetricsExportsFamilies(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewUpstreamMetrics(reg)

	metrics.ObserveRequest("medicines.list", 200, 120*time.Millisecond)
	metrics.ObserveRequestError("medicines.list", 30*time.Millisecond)
	metrics.IncRefresh("success")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "upstream_requests_total", "status", "200"); err != nil {
		t.Fatalf("fetch requests: %v", err)
	} else if got != 1 {
		t.Fatalf("expected one 200 request, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "upstream_requests_total", "status", "0"); err != nil {
		t.Fatalf("fetch transport errors: %v", err)
	} else if got != 1 {
		t.Fatalf("expected one transport error, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "upstream_token_refreshes_total", "outcome", "success"); err != nil {
		t.Fatalf("fetch refreshes: %v", err)
	} else if got != 1 {
		t.Fatalf("expected one refresh, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "upstream_request_duration_seconds", "endpoint", "medicines.list"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestUpstreamMetricsNilSafe(t *testing.T) {
	var metrics *UpstreamMetrics
	metrics.ObserveRequest("x", 200, time.Second)
	metrics.IncRefresh("failure")

	empty := NewUpstreamMetrics(nil)
	empty.ObserveRequest("x", 200, time.Second)
	empty.IncRefresh("failure")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("no series of %q with %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("no series of %q with %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(pairs []*dto.LabelPair, label, value string) bool {
	for _, pair := range pairs {
		if pair.GetName() == label && pair.GetValue() == value {
			return true
		}
	}
	return false
}
