package transform

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-resume-wizard/internal/types"
)

// Completer sends one prompt to a language model and returns the raw reply.
type Completer interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

var _ Transformer = (*LLMTransformer)(nil)

// LLMTransformer asks a language model for JSON replies and decodes them.
type LLMTransformer struct {
	completer Completer
	logger    *slog.Logger
}

func NewLLMTransformer(completer Completer, logger *slog.Logger) *LLMTransformer {
	return &LLMTransformer{completer: completer, logger: logger}
}

func (t *LLMTransformer) ExtractKeywords(ctx context.Context, text string) ([]string, error) {
	var reply struct {
		Keywords []string `json:"keywords"`
	}
	if err := t.ask(ctx, "ExtractKeywords", keywordsPrompt(text), &reply); err != nil {
		return nil, err
	}
	return reply.Keywords, nil
}

func (t *LLMTransformer) EnhanceDraft(ctx context.Context, doc *types.ResumeDocument, role string) (*types.ResumeDocument, error) {
	out := copyDocument(doc)
	var reply struct {
		Summary          string   `json:"summary"`
		Responsibilities []string `json:"responsibilities"`
	}
	if err := t.ask(ctx, "EnhanceDraft", enhancePrompt(out, role), &reply); err != nil {
		return nil, err
	}
	if reply.Summary != "" {
		if out.Summary == nil {
			out.Summary = &types.Summary{}
		}
		out.Summary.Text = reply.Summary
	}
	// Replies with a different number of entries are ignored rather than
	// misaligned.
	if len(reply.Responsibilities) == len(out.Experience) {
		for i, r := range reply.Responsibilities {
			if strings.TrimSpace(r) != "" {
				out.Experience[i].Responsibilities = types.TextBlock(r)
			}
		}
	}
	return out, nil
}

func (t *LLMTransformer) RewriteBullet(ctx context.Context, bullet, role string) (string, error) {
	var reply struct {
		Text string `json:"text"`
	}
	if err := t.ask(ctx, "RewriteBullet", bulletPrompt(bullet, role), &reply); err != nil {
		return "", err
	}
	return reply.Text, nil
}

func (t *LLMTransformer) RewriteSummary(ctx context.Context, doc *types.ResumeDocument, role string) (string, error) {
	var reply struct {
		Text string `json:"text"`
	}
	if err := t.ask(ctx, "RewriteSummary", summaryPrompt(doc, role), &reply); err != nil {
		return "", err
	}
	return reply.Text, nil
}

func (t *LLMTransformer) MatchScore(ctx context.Context, doc *types.ResumeDocument, jd *types.JobDescription) (*types.MatchResult, error) {
	var reply types.MatchResult
	if err := t.ask(ctx, "MatchScore", matchPrompt(doc, jd), &reply); err != nil {
		return nil, err
	}
	if reply.Score < 0 {
		reply.Score = 0
	} else if reply.Score > 100 {
		reply.Score = 100
	}
	return &reply, nil
}

func (t *LLMTransformer) ask(ctx context.Context, op, prompt string, dst interface{}) error {
	ctx, span := otel.Tracer("Transformer").Start(ctx, op, trace.WithAttributes(
		attribute.String("provider", t.completer.Name()),
		attribute.Int("prompt.length", len(prompt)),
	))
	defer span.End()

	raw, err := t.completer.Complete(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Completion failed")
		return fmt.Errorf("%s completion failed: %w", t.completer.Name(), err)
	}
	if err := json.Unmarshal([]byte(cleanJSONResponse(raw)), dst); err != nil {
		t.logger.WarnContext(ctx, "Model reply is not valid JSON",
			slog.String("operation", op),
			slog.Int("reply_length", len(raw)))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid model reply")
		return fmt.Errorf("decoding %s reply: %w", t.completer.Name(), err)
	}
	span.SetStatus(codes.Ok, "Completed")
	return nil
}

// cleanJSONResponse strips markdown fences and any prose around the outermost
// JSON object.
func cleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)
	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	response = strings.TrimSpace(strings.TrimSuffix(response, "```"))

	first := strings.Index(response, "{")
	last := strings.LastIndex(response, "}")
	if first == -1 || last < first {
		return response
	}
	return response[first : last+1]
}
