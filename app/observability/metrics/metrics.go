package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	AuthAttemptsTotal        metric.Int64Counter
	ResumeSavesTotal         metric.Int64Counter
	TransformDurationSeconds metric.Float64Histogram
	TransformErrorsTotal     metric.Int64Counter
	DbQueryErrorsTotal       metric.Int64Counter
	RateLimitedTotal         metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics creates the instruments from the global MeterProvider. Call it
// after the provider is installed; later calls are no-ops.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("resume-wizard")
		var err error
		m := &AppMetrics{}

		m.AuthAttemptsTotal, err = meter.Int64Counter(
			"auth_attempts_total",
			metric.WithDescription("Sign-up, sign-in and password operations by outcome"),
			metric.WithUnit("{attempt}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create auth_attempts_total: %v", err)
		}

		m.ResumeSavesTotal, err = meter.Int64Counter(
			"resume_saves_total",
			metric.WithDescription("Résumé content updates by resulting status"),
			metric.WithUnit("{save}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create resume_saves_total: %v", err)
		}

		m.TransformDurationSeconds, err = meter.Float64Histogram(
			"transform_duration_seconds",
			metric.WithDescription("Duration of content transform calls in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create transform_duration_seconds: %v", err)
		}

		m.TransformErrorsTotal, err = meter.Int64Counter(
			"transform_errors_total",
			metric.WithDescription("Content transform calls that failed"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create transform_errors_total: %v", err)
		}

		m.DbQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		m.RateLimitedTotal, err = meter.Int64Counter(
			"rate_limited_requests_total",
			metric.WithDescription("Requests rejected by the rate limiter"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create rate_limited_requests_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the instruments, creating them against the current global
// provider on first use.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}
