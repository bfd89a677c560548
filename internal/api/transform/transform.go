package transform

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/FACorreiaa/go-resume-wizard/config"
	"github.com/FACorreiaa/go-resume-wizard/internal/types"
)

const (
	ProviderMock   = "mock"
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Transformer produces enhanced résumé text. Implementations must not mutate
// the documents they receive.
type Transformer interface {
	ExtractKeywords(ctx context.Context, text string) ([]string, error)
	EnhanceDraft(ctx context.Context, doc *types.ResumeDocument, role string) (*types.ResumeDocument, error)
	RewriteBullet(ctx context.Context, bullet, role string) (string, error)
	RewriteSummary(ctx context.Context, doc *types.ResumeDocument, role string) (string, error)
	MatchScore(ctx context.Context, doc *types.ResumeDocument, jd *types.JobDescription) (*types.MatchResult, error)
}

// New builds the configured transformer behind a circuit breaker and a
// per-call timeout.
func New(ctx context.Context, cfg config.TransformConfig, logger *slog.Logger) (Transformer, error) {
	var inner Transformer
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderMock:
		inner = NewMockTransformer()
	case ProviderGemini:
		c, err := NewGeminiCompleter(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		inner = NewLLMTransformer(c, logger)
	case ProviderOpenAI:
		c, err := NewOpenAICompleter(cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		inner = NewLLMTransformer(c, logger)
	default:
		return nil, fmt.Errorf("unknown transform provider %q", cfg.Provider)
	}
	logger.Info("Content transform configured", slog.String("provider", cfg.Provider), slog.Duration("timeout", cfg.Timeout))
	return NewBreaker(inner, cfg.Provider, cfg.Timeout, logger), nil
}
