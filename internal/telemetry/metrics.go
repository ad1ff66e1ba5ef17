package telemetry

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/wolfeidau/interviewnotes"
)

// Metrics holds all the OpenTelemetry metric instruments
type Metrics struct {
	// Authentication metrics
	AuthOutcomesTotal metric.Int64Counter
	TokensIssuedTotal metric.Int64Counter
	LoginFailures     metric.Int64Counter

	// Interview access metrics
	InterviewAccessDeniedTotal metric.Int64Counter
	InterviewsListedTotal      metric.Int64Counter
	InterviewMutationsTotal    metric.Int64Counter
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance, initializing it if necessary
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = initMetrics()
	})
	return metrics
}

// initMetrics creates and registers all metric instruments
func initMetrics() *Metrics {
	meter := otel.GetMeterProvider().Meter(meterName)

	m := &Metrics{}

	m.AuthOutcomesTotal, _ = meter.Int64Counter(
		"interviewnotes.auth.outcomes.total",
		metric.WithDescription("Total number of bearer token authentication attempts by outcome"),
		metric.WithUnit("{request}"),
	)

	m.TokensIssuedTotal, _ = meter.Int64Counter(
		"interviewnotes.tokens.issued.total",
		metric.WithDescription("Total number of access tokens issued"),
		metric.WithUnit("{token}"),
	)

	m.LoginFailures, _ = meter.Int64Counter(
		"interviewnotes.auth.login.failures.total",
		metric.WithDescription("Total number of rejected login attempts"),
		metric.WithUnit("{attempt}"),
	)

	m.InterviewAccessDeniedTotal, _ = meter.Int64Counter(
		"interviewnotes.interviews.access.denied.total",
		metric.WithDescription("Total number of interview reads denied by the access policy"),
		metric.WithUnit("{request}"),
	)

	m.InterviewsListedTotal, _ = meter.Int64Counter(
		"interviewnotes.interviews.listed.total",
		metric.WithDescription("Total number of interviews returned by list operations"),
		metric.WithUnit("{interview}"),
	)

	m.InterviewMutationsTotal, _ = meter.Int64Counter(
		"interviewnotes.interviews.mutations.total",
		metric.WithDescription("Total number of interview create, update and delete operations"),
		metric.WithUnit("{operation}"),
	)

	return m
}
