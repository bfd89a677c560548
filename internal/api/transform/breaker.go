package transform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-resume-wizard/app/observability/metrics"
	"github.com/FACorreiaa/go-resume-wizard/internal/types"
)

var _ Transformer = (*Breaker)(nil)

// Breaker bounds every call with a timeout and stops calling a failing
// provider for a while. All failures surface as types.ErrUpstream.
type Breaker struct {
	next     Transformer
	cb       *gobreaker.CircuitBreaker
	timeout  time.Duration
	provider string
	logger   *slog.Logger
}

func NewBreaker(next Transformer, provider string, timeout time.Duration, logger *slog.Logger) *Breaker {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	settings := gobreaker.Settings{
		Name:        "transform-" + provider,
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
		// A caller giving up is not a provider failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}
	return &Breaker{
		next:     next,
		cb:       gobreaker.NewCircuitBreaker(settings),
		timeout:  timeout,
		provider: provider,
		logger:   logger,
	}
}

func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

func (b *Breaker) ExtractKeywords(ctx context.Context, text string) ([]string, error) {
	res, err := b.call(ctx, "ExtractKeywords", func(ctx context.Context) (interface{}, error) {
		return b.next.ExtractKeywords(ctx, text)
	})
	if err != nil {
		return nil, err
	}
	return res.([]string), nil
}

func (b *Breaker) EnhanceDraft(ctx context.Context, doc *types.ResumeDocument, role string) (*types.ResumeDocument, error) {
	res, err := b.call(ctx, "EnhanceDraft", func(ctx context.Context) (interface{}, error) {
		return b.next.EnhanceDraft(ctx, doc, role)
	})
	if err != nil {
		return nil, err
	}
	return res.(*types.ResumeDocument), nil
}

func (b *Breaker) RewriteBullet(ctx context.Context, bullet, role string) (string, error) {
	res, err := b.call(ctx, "RewriteBullet", func(ctx context.Context) (interface{}, error) {
		return b.next.RewriteBullet(ctx, bullet, role)
	})
	if err != nil {
		return "", err
	}
	return res.(string), nil
}

func (b *Breaker) RewriteSummary(ctx context.Context, doc *types.ResumeDocument, role string) (string, error) {
	res, err := b.call(ctx, "RewriteSummary", func(ctx context.Context) (interface{}, error) {
		return b.next.RewriteSummary(ctx, doc, role)
	})
	if err != nil {
		return "", err
	}
	return res.(string), nil
}

func (b *Breaker) MatchScore(ctx context.Context, doc *types.ResumeDocument, jd *types.JobDescription) (*types.MatchResult, error) {
	res, err := b.call(ctx, "MatchScore", func(ctx context.Context) (interface{}, error) {
		return b.next.MatchScore(ctx, doc, jd)
	})
	if err != nil {
		return nil, err
	}
	return res.(*types.MatchResult), nil
}

func (b *Breaker) call(ctx context.Context, op string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	attrs := metric.WithAttributes(
		attribute.String("provider", b.provider),
		attribute.String("operation", op),
	)
	start := time.Now()
	res, err := b.cb.Execute(func() (interface{}, error) {
		return fn(ctx)
	})
	metrics.Get().TransformDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		metrics.Get().TransformErrorsTotal.Add(ctx, 1, attrs)
		b.logger.ErrorContext(ctx, "Content transform failed",
			slog.String("provider", b.provider),
			slog.String("operation", op),
			slog.Any("error", err))
		return nil, fmt.Errorf("%w: %s %s: %v", types.ErrUpstream, b.provider, op, err)
	}
	return res, nil
}
