package datadog

import (
	"reflect"
	"testing"

	"salespipe/internal/metrics"
)

func TestStageTags(t *testing.T) {
	got := stageTags(metrics.Labels{
		"job":    "validator",
		"stage":  "publish",
		"status": "success",
	})
	want := []string{"job:validator", "stage:publish", "status:success"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("stageTags() = %v, want %v", got, want)
	}
}

func TestRecordTags(t *testing.T) {
	tests := []struct {
		kind string
		want []string
	}{
		{"input", []string{"job:validator", "kind:input"}},
		{"accepted", []string{"job:validator", "kind:accepted"}},
		{"rejected", []string{"job:validator", "kind:rejected"}},
		{"rejected_invalid_price", []string{"job:validator", "kind:rejected", "reason:invalid_price"}},
		{"rejected_schema_error", []string{"job:validator", "kind:rejected", "reason:schema_error"}},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			got := recordTags(metrics.Labels{"job": "validator", "kind": tt.kind})
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("recordTags(%q) = %v, want %v", tt.kind, got, tt.want)
			}
		})
	}
}

func TestNewBackendRequiresAddr(t *testing.T) {
	if _, err := NewBackend(Config{}); err == nil {
		t.Fatal("NewBackend() accepted an empty address")
	}
}

// A backend without a client must be safe to call; the routing layer bails
// out before touching statsd.
func TestNilClientIsSafe(t *testing.T) {
	b := &Backend{}
	b.IncCounter("sales_pipeline_stage_total", 1, metrics.Labels{"stage": "parse"})
	b.ObserveHistogram("sales_pipeline_stage_duration_seconds", 0.5, nil)
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
}
