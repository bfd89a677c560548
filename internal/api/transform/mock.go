package transform

import (
	"context"
	"strings"

	"github.com/FACorreiaa/go-resume-wizard/internal/types"
)

const enhancedMarker = "(Enhanced by AI)"

var (
	knownKeywords = []string{
		"React", "TypeScript", "Node.js", "Tailwind CSS", "Next.js",
		"Figma", "User Research", "Prototyping", "Agile", "Scrum",
	}
	fallbackKeywords = []string{"Communication", "Teamwork", "Problem Solving"}
)

var _ Transformer = (*MockTransformer)(nil)

// MockTransformer is deterministic and needs no network access.
type MockTransformer struct{}

func NewMockTransformer() *MockTransformer {
	return &MockTransformer{}
}

// ExtractKeywords returns the known keywords found in text, case-insensitively.
func (m *MockTransformer) ExtractKeywords(_ context.Context, text string) ([]string, error) {
	lower := strings.ToLower(text)
	var found []string
	for _, kw := range knownKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			found = append(found, kw)
		}
	}
	if len(found) == 0 {
		return append([]string(nil), fallbackKeywords...), nil
	}
	return found, nil
}

// EnhanceDraft writes a summary paragraph and marks each responsibility line.
// Lines already carrying the marker are left alone, so repeated saves do not
// stack it.
func (m *MockTransformer) EnhanceDraft(_ context.Context, doc *types.ResumeDocument, role string) (*types.ResumeDocument, error) {
	out := copyDocument(doc)

	skills := "relevant technologies"
	if out.Skills != nil {
		var parts []string
		for _, s := range []string{out.Skills.Core, out.Skills.Tools} {
			if s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) > 0 {
			skills = strings.Join(parts, ", ")
		}
	}
	if out.Summary == nil {
		out.Summary = &types.Summary{}
	}
	out.Summary.Text = "Experienced " + role + " with a proven track record. Skilled in " + skills + ". Committed to delivering high-quality results."

	for i := range out.Experience {
		out.Experience[i].Responsibilities = enhanceLines(out.Experience[i].Responsibilities)
	}
	return out, nil
}

func enhanceLines(block types.TextBlock) types.TextBlock {
	if strings.TrimSpace(string(block)) == "" {
		return block
	}
	lines := strings.Split(string(block), "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasSuffix(line, enhancedMarker) {
			lines[i] = line
			continue
		}
		lines[i] = "• " + line + " " + enhancedMarker
	}
	return types.TextBlock(strings.Join(lines, "\n"))
}

func (m *MockTransformer) RewriteBullet(_ context.Context, bullet, role string) (string, error) {
	return "• " + bullet + " [Optimized for " + role + "]", nil
}

func (m *MockTransformer) RewriteSummary(_ context.Context, _ *types.ResumeDocument, role string) (string, error) {
	return "Professional " + role + " summary generated based on provided details.", nil
}

// MatchScore returns a fixed ATS-style result.
func (m *MockTransformer) MatchScore(_ context.Context, _ *types.ResumeDocument, _ *types.JobDescription) (*types.MatchResult, error) {
	return &types.MatchResult{
		Score:           75,
		MissingKeywords: []string{"GraphQL", "AWS"},
		Suggestions: []string{
			"Include more metrics in your experience.",
			"Add a skills section matching the JD.",
		},
	}, nil
}

// copyDocument is a deep copy of the sections transformers rewrite.
func copyDocument(doc *types.ResumeDocument) *types.ResumeDocument {
	if doc == nil {
		return &types.ResumeDocument{}
	}
	out := *doc
	if doc.Summary != nil {
		s := *doc.Summary
		out.Summary = &s
	}
	if doc.Skills != nil {
		s := *doc.Skills
		out.Skills = &s
	}
	out.Experience = append([]types.Experience(nil), doc.Experience...)
	return &out
}
