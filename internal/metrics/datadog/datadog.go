// Package datadog implements a DogStatsD backend for the metrics package.
//
// Where the Pushgateway backend keeps the Prometheus naming scheme, DogStatsD
// metrics follow Datadog's dotted convention, so this backend routes the
// pipeline's metrics onto Datadog names:
//
//	sales_pipeline_stage_total            -> pipeline.stage.runs      (count)
//	sales_pipeline_stage_duration_seconds -> pipeline.stage.duration  (histogram, seconds)
//	sales_pipeline_records_total          -> pipeline.records         (count)
//
// Labels become tags in a fixed order. Compound record kinds like
// "rejected_invalid_price" are split into kind:rejected plus
// reason:invalid_price so rejection reasons facet on their own tag instead of
// multiplying the kind tag's cardinality.
//
// All Datadog-specific dependencies live here; the rest of the project
// depends only on the metrics.Backend abstraction.
package datadog

import (
	"fmt"
	"strings"

	"salespipe/internal/metrics"

	"github.com/DataDog/datadog-go/v5/statsd"
)

// Config holds Datadog backend configuration.
type Config struct {
	// Addr is the DogStatsD address, e.g. "127.0.0.1:8125" or "unix:///path/to/socket".
	Addr string

	// Namespace is an optional prefix added to all metric names, e.g. "salespipe.".
	Namespace string

	// GlobalTags are tags applied to all metrics emitted by this backend,
	// e.g. []string{"env:prod","service:salespipe"}.
	GlobalTags []string
}

// Backend is a Datadog implementation of metrics.Backend. The same instance
// is intended to be installed globally via metrics.SetBackend.
type Backend struct {
	client *statsd.Client
}

// NewBackend constructs a Datadog metrics backend from the given configuration.
//
// The Addr field is required; when empty, NewBackend returns an error.
func NewBackend(cfg Config) (*Backend, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("datadog: Addr is required")
	}

	var opts []statsd.Option
	if cfg.Namespace != "" {
		opts = append(opts, statsd.WithNamespace(cfg.Namespace))
	}
	if len(cfg.GlobalTags) > 0 {
		opts = append(opts, statsd.WithTags(cfg.GlobalTags))
	}

	c, err := statsd.New(cfg.Addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("datadog: create client: %w", err)
	}

	return &Backend{client: c}, nil
}

// IncCounter routes the pipeline's counters onto Datadog Count metrics.
// Unknown metric names are ignored.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	if b.client == nil {
		return
	}
	switch name {
	case "sales_pipeline_stage_total":
		b.client.Count("pipeline.stage.runs", int64(delta), stageTags(labels), 1)

	case "sales_pipeline_records_total":
		b.client.Count("pipeline.records", int64(delta), recordTags(labels), 1)

	default:
		// unknown metric name: ignore
	}
}

// ObserveHistogram routes stage durations onto a Datadog Histogram metric.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if b.client == nil || name != "sales_pipeline_stage_duration_seconds" {
		return
	}
	b.client.Histogram("pipeline.stage.duration", value, stageTags(labels), 1)
}

// Flush implements metrics.Backend.Flush.
//
// For the Datadog statsd client, Close() is the closest equivalent and is
// typically used at process shutdown to flush any buffered data.
func (b *Backend) Flush() error {
	if b.client == nil {
		return nil
	}
	return b.client.Close()
}

// stageTags builds the tag set for stage-level metrics, in a fixed order so
// emitted series are deterministic.
func stageTags(lbls metrics.Labels) []string {
	return []string{
		"job:" + lbls["job"],
		"stage:" + lbls["stage"],
		"status:" + lbls["status"],
	}
}

// recordTags builds the tag set for record-level metrics. Compound rejection
// kinds carry the reason code on its own tag.
func recordTags(lbls metrics.Labels) []string {
	tags := []string{"job:" + lbls["job"]}
	if reason, ok := strings.CutPrefix(lbls["kind"], "rejected_"); ok {
		return append(tags, "kind:rejected", "reason:"+reason)
	}
	return append(tags, "kind:"+lbls["kind"])
}
