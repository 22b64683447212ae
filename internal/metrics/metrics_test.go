// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package metrics

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

// histogramCount extracts the sample count from a Prometheus histogram
func histogramCount(t *testing.T, obs prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := obs.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T is not a metric", obs)
	}
	var m io_prometheus_client.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

// TestRecordDBQuery tests database query metric recording
func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		table     string
		err       error
	}{
		{name: "successful select", operation: "SELECT", table: "tag_settings"},
		{name: "successful insert", operation: "INSERT", table: "units"},
		{name: "failed update", operation: "UPDATE", table: "saved_selections", err: errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordDBQuery(tt.operation, tt.table, 5*time.Millisecond, tt.err)
		})
	}
}

// TestRecordDBQuery_ErrorTruncation verifies error labels are capped at 50 chars
func TestRecordDBQuery_ErrorTruncation(t *testing.T) {
	long := strings.Repeat("x", 80)
	RecordDBQuery("SELECT", "truncation_test", time.Millisecond, errors.New(long))

	got := testutil.ToFloat64(DBQueryErrors.WithLabelValues("SELECT", "truncation_test", long[:50]))
	if got != 1 {
		t.Errorf("truncated error label count = %v, want 1", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/meta", "200"))
	RecordAPIRequest("GET", "/api/meta", "200", 25*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/meta", "200"))

	if after-before != 1 {
		t.Errorf("api_requests_total delta = %v, want 1", after-before)
	}
}

func TestRecordUpstreamRequest_ObservesDuration(t *testing.T) {
	before := histogramCount(t, UpstreamRequestDuration.WithLabelValues("duration_test"))
	RecordUpstreamRequest("duration_test", "success", 150*time.Millisecond)
	RecordUpstreamRequest("duration_test", "error", 3*time.Second)

	if got := histogramCount(t, UpstreamRequestDuration.WithLabelValues("duration_test")) - before; got != 2 {
		t.Errorf("upstream duration samples = %d, want 2", got)
	}
}

func TestRecordUpstreamRequest(t *testing.T) {
	before := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("hourly", "error"))
	RecordUpstreamRequest("hourly", "error", 2*time.Second)
	after := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("hourly", "error"))

	if after-before != 1 {
		t.Errorf("upstream_requests_total delta = %v, want 1", after-before)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(CacheHits.WithLabelValues("lookup_test"))
	misses := testutil.ToFloat64(CacheMisses.WithLabelValues("lookup_test"))

	RecordCacheLookup("lookup_test", true)
	RecordCacheLookup("lookup_test", false)
	RecordCacheLookup("lookup_test", false)

	if d := testutil.ToFloat64(CacheHits.WithLabelValues("lookup_test")) - hits; d != 1 {
		t.Errorf("hits delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(CacheMisses.WithLabelValues("lookup_test")) - misses; d != 2 {
		t.Errorf("misses delta = %v, want 2", d)
	}
}

// TestTrackActiveRequest_RequestLifecycle simulates a realistic request lifecycle
func TestTrackActiveRequest_RequestLifecycle(t *testing.T) {
	start := testutil.ToFloat64(APIActiveRequests)

	for i := 0; i < 10; i++ {
		TrackActiveRequest(true)
	}
	if got := testutil.ToFloat64(APIActiveRequests) - start; got != 10 {
		t.Errorf("active after start = %v, want 10", got)
	}
	for i := 0; i < 10; i++ {
		TrackActiveRequest(false)
	}
	if got := testutil.ToFloat64(APIActiveRequests); got != start {
		t.Errorf("active after completion = %v, want %v", got, start)
	}
}

func TestConcurrentMetricRecording(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RecordAPIRequest("GET", "/api/data", "200", time.Millisecond)
			RecordUpstreamRequest("meta", "success", time.Millisecond)
			ReshapeRowsDropped.Inc()
			ViewBuildsTotal.WithLabelValues("ok").Inc()
		}()
	}
	wg.Wait()
}

func TestCircuitBreakerMetrics(t *testing.T) {
	CircuitBreakerState.WithLabelValues("test-cb").Set(2)
	CircuitBreakerRequests.WithLabelValues("test-cb", "rejected").Inc()
	CircuitBreakerConsecutiveFailures.WithLabelValues("test-cb").Set(5)
	CircuitBreakerTransitions.WithLabelValues("test-cb", "closed", "open").Inc()

	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("test-cb")); got != 2 {
		t.Errorf("circuit_breaker_state = %v, want 2", got)
	}
}

// TestMetricGathering tests that metrics can be gathered using testutil
func TestMetricGathering(t *testing.T) {
	RecordDBQuery("TEST", "test_table", time.Millisecond, nil)
	RecordAPIRequest("GET", "/test", "200", time.Millisecond)

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Logf("Lint errors (may be expected): %v", err)
	}
	for _, p := range problems {
		t.Logf("Metric lint problem: %s", p.Text)
	}
}
