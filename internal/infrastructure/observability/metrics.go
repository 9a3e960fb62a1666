package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics.
type Metrics struct {
	meter metric.Meter

	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPRequestsActive  metric.Int64UpDownCounter

	// Webhook event metrics
	EventsReceivedTotal  metric.Int64Counter
	EventsDiscardedTotal metric.Int64Counter

	// Document processing metrics
	JobsTotal   metric.Int64Counter
	JobDuration metric.Float64Histogram

	// Summary cache metrics
	CacheHitsTotal   metric.Int64Counter
	CacheMissesTotal metric.Int64Counter

	// Generation API metrics
	GenerationCallsTotal metric.Int64Counter
	GenerationDuration   metric.Float64Histogram
}

// NewMetrics creates and registers all application metrics.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{meter: meter}

	var err error

	// HTTP metrics
	m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http.server.requests.total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{requests}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http_requests_total: %w", err)
	}

	m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http_request_duration: %w", err)
	}

	m.HTTPRequestsActive, err = meter.Int64UpDownCounter(
		"http.server.requests.active",
		metric.WithDescription("Number of active HTTP requests"),
		metric.WithUnit("{requests}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http_requests_active: %w", err)
	}

	// Webhook event metrics
	m.EventsReceivedTotal, err = meter.Int64Counter(
		"events.received.total",
		metric.WithDescription("Total number of webhook events received"),
		metric.WithUnit("{events}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating events_received_total: %w", err)
	}

	m.EventsDiscardedTotal, err = meter.Int64Counter(
		"events.discarded.total",
		metric.WithDescription("Total number of events discarded before processing"),
		metric.WithUnit("{events}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating events_discarded_total: %w", err)
	}

	// Document processing metrics
	m.JobsTotal, err = meter.Int64Counter(
		"documents.jobs.total",
		metric.WithDescription("Total number of document jobs processed"),
		metric.WithUnit("{jobs}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating documents_jobs_total: %w", err)
	}

	m.JobDuration, err = meter.Float64Histogram(
		"documents.job.duration",
		metric.WithDescription("Document job duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating documents_job_duration: %w", err)
	}

	// Summary cache metrics
	m.CacheHitsTotal, err = meter.Int64Counter(
		"summaries.cache.hits.total",
		metric.WithDescription("Total number of summary cache hits"),
		metric.WithUnit("{hits}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating cache_hits_total: %w", err)
	}

	m.CacheMissesTotal, err = meter.Int64Counter(
		"summaries.cache.misses.total",
		metric.WithDescription("Total number of summary cache misses"),
		metric.WithUnit("{misses}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating cache_misses_total: %w", err)
	}

	// Generation API metrics
	m.GenerationCallsTotal, err = meter.Int64Counter(
		"generation.calls.total",
		metric.WithDescription("Total number of generation API calls"),
		metric.WithUnit("{calls}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating generation_calls_total: %w", err)
	}

	m.GenerationDuration, err = meter.Float64Histogram(
		"generation.call.duration",
		metric.WithDescription("Generation API call duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating generation_duration: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records HTTP request metrics.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.route", path),
		attribute.Int("http.status_code", statusCode),
	}

	m.HTTPRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.HTTPRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordEventReceived records a webhook event by type.
func (m *Metrics) RecordEventReceived(ctx context.Context, eventType string) {
	m.EventsReceivedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event.type", eventType),
	))
}

// RecordEventDiscarded records an event dropped before processing.
func (m *Metrics) RecordEventDiscarded(ctx context.Context, reason string) {
	m.EventsDiscardedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

// RecordJob records the outcome and duration of a document job.
// Implements the summarize.MetricsRecorder interface.
func (m *Metrics) RecordJob(ctx context.Context, outcome string, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("outcome", outcome),
	}

	m.JobsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.JobDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordCacheHit records a summary cache hit.
func (m *Metrics) RecordCacheHit(ctx context.Context) {
	m.CacheHitsTotal.Add(ctx, 1)
}

// RecordCacheMiss records a summary cache miss.
func (m *Metrics) RecordCacheMiss(ctx context.Context) {
	m.CacheMissesTotal.Add(ctx, 1)
}

// RecordGenerationCall records a generation API call.
func (m *Metrics) RecordGenerationCall(ctx context.Context, model string, success bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("model", model),
		attribute.Bool("success", success),
	}

	m.GenerationCallsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.GenerationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
