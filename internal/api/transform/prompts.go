package transform

import (
	"encoding/json"
	"fmt"

	"github.com/FACorreiaa/go-resume-wizard/internal/types"
)

func documentJSON(doc *types.ResumeDocument) string {
	if doc == nil {
		return "{}"
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func keywordsPrompt(text string) string {
	return fmt.Sprintf(`Extract the skills, tools and methodologies an applicant tracking system
would look for in the job description below. Use the exact casing a recruiter would.
Reply with JSON only: {"keywords": ["..."]}

Job description:
%s`, text)
}

func enhancePrompt(doc *types.ResumeDocument, role string) string {
	return fmt.Sprintf(`You improve résumé drafts for the role %q.
Write a three sentence professional summary, and rewrite the responsibilities of
every experience entry as concise achievement bullets starting with "• ".
Keep the entries in the same order and do not invent employers or dates.
Reply with JSON only: {"summary": "...", "responsibilities": ["one string per experience entry"]}

Résumé:
%s`, role, documentJSON(doc))
}

func bulletPrompt(bullet, role string) string {
	return fmt.Sprintf(`Rewrite this résumé bullet for a %q application. Start with a strong verb,
keep it to one line, and quantify impact when the text allows it.
Reply with JSON only: {"text": "..."}

Bullet: %s`, role, bullet)
}

func summaryPrompt(doc *types.ResumeDocument, role string) string {
	return fmt.Sprintf(`Write a professional summary of at most three sentences for a %q résumé
using only the details below.
Reply with JSON only: {"text": "..."}

Résumé:
%s`, role, documentJSON(doc))
}

func matchPrompt(doc *types.ResumeDocument, jd *types.JobDescription) string {
	var text string
	var keywords []string
	if jd != nil {
		text, keywords = jd.Text, jd.Keywords
	}
	kw, _ := json.Marshal(keywords)
	return fmt.Sprintf(`Score how well the résumé matches the job description from 0 to 100, as an
applicant tracking system would. List important keywords missing from the résumé and
up to three concrete suggestions.
Reply with JSON only: {"score": 0, "missingKeywords": ["..."], "suggestions": ["..."]}

Known job keywords: %s

Job description:
%s

Résumé:
%s`, kw, text, documentJSON(doc))
}
