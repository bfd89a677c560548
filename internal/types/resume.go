package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ResumeStatus string

const (
	ResumeStatusDraft     ResumeStatus = "draft"
	ResumeStatusCompleted ResumeStatus = "completed"
)

func (s ResumeStatus) Valid() bool {
	switch s {
	case ResumeStatusDraft, ResumeStatusCompleted:
		return true
	default:
		return false
	}
}

// Resume is owned by exactly one user; every query is scoped by UserID.
type Resume struct {
	ID               uuid.UUID       `json:"id"`
	UserID           uuid.UUID       `json:"userId"`
	Title            string          `json:"title"`
	Role             string          `json:"role"`
	ExperienceLevel  string          `json:"experienceLevel"`
	TargetRole       string          `json:"targetRole"`
	Content          *ResumeDocument `json:"content"`
	Status           ResumeStatus    `json:"status"`
	JobDescriptionID *uuid.UUID      `json:"jobDescriptionId"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

type NewResume struct {
	UserID          uuid.UUID
	Title           string
	Role            string
	ExperienceLevel string
	TargetRole      string
}

type JobDescription struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Text      string    `json:"text"`
	Keywords  []string  `json:"keywords"`
	CreatedAt time.Time `json:"createdAt"`
}

// MatchResult scores a résumé against a job description.
type MatchResult struct {
	Score           int      `json:"score"`
	MissingKeywords []string `json:"missingKeywords"`
	Suggestions     []string `json:"suggestions"`
}

// ResumeDocument is the structured content of a résumé. Every section is optional.
type ResumeDocument struct {
	PersonalDetails *PersonalDetails `json:"personalDetails,omitempty"`
	Portfolio       *Portfolio       `json:"portfolio,omitempty"`
	Summary         *Summary         `json:"summary,omitempty"`
	Skills          *Skills          `json:"skills,omitempty"`
	Experience      []Experience     `json:"experience,omitempty" validate:"dive"`
	Projects        []Project        `json:"projects,omitempty"`
	Education       []Education      `json:"education,omitempty" validate:"dive"`
	Certifications  string           `json:"certifications,omitempty"`
}

type PersonalDetails struct {
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Location     string `json:"location,omitempty"`
	PortfolioURL string `json:"portfolioUrl,omitempty"`
	Headline     string `json:"headline,omitempty"`
}

type Portfolio struct {
	Main  string   `json:"main,omitempty"`
	Other LinkList `json:"other,omitempty"`
}

// Summary keeps the wizard inputs next to the generated paragraph.
type Summary struct {
	Years      string `json:"years,omitempty"`
	Strengths  string `json:"strengths,omitempty"`
	Background string `json:"background,omitempty"`
	Text       string `json:"summary,omitempty"`
}

type Skills struct {
	Core  string `json:"core,omitempty"`
	Tools string `json:"tools,omitempty"`
	Soft  string `json:"soft,omitempty"`
}

type Experience struct {
	Company          string    `json:"company" validate:"required"`
	Title            string    `json:"title" validate:"required"`
	StartDate        string    `json:"startDate" validate:"required,resume_date"`
	EndDate          string    `json:"endDate,omitempty" validate:"omitempty,resume_date"`
	CurrentlyWorking bool      `json:"currentlyWorking"`
	Responsibilities TextBlock `json:"responsibilities,omitempty"`
	Duration         string    `json:"duration,omitempty"`
}

type Project struct {
	Title       string `json:"title,omitempty"`
	Role        string `json:"role,omitempty"`
	Description string `json:"description,omitempty"`
	Impact      string `json:"impact,omitempty"`
}

type Education struct {
	Degree    string `json:"degree" validate:"required"`
	Institute string `json:"institute" validate:"required"`
	Year      string `json:"year" validate:"required,pass_out_year"`
}

// LinkList accepts either a comma separated string or an array of strings.
type LinkList []string

func (l *LinkList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = SplitLinks(s)
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("portfolio links must be a string or an array of strings: %w", err)
	}
	out := make(LinkList, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*l = out
	return nil
}

func SplitLinks(s string) LinkList {
	var out LinkList
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// UnmarshalJSON accepts the generated summary as a bare string.
func (s *Summary) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*s = Summary{Text: text}
		return nil
	}
	type plain Summary
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Summary(p)
	return nil
}

// TextBlock is free text that may arrive as a list of lines.
type TextBlock string

func (t *TextBlock) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var lines []string
		if err := json.Unmarshal(data, &lines); err != nil {
			return err
		}
		*t = TextBlock(strings.Join(lines, "\n"))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = TextBlock(s)
	return nil
}

// UnwrapDocumentJSON returns the JSON object inside raw. Content may have been
// stored as an object or as a JSON string holding the serialized object.
func UnwrapDocumentJSON(raw []byte) ([]byte, error) {
	raw = bytes.TrimSpace(raw)
	for i := 0; i < 2 && len(raw) > 0 && raw[0] == '"'; i++ {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("content is not valid JSON: %w", err)
		}
		raw = bytes.TrimSpace([]byte(inner))
	}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []byte("{}"), nil
	}
	if raw[0] != '{' {
		return nil, fmt.Errorf("content must be a JSON object")
	}
	return raw, nil
}

// DecodeDocument parses stored or submitted content into a ResumeDocument.
func DecodeDocument(raw []byte) (*ResumeDocument, error) {
	obj, err := UnwrapDocumentJSON(raw)
	if err != nil {
		return nil, err
	}
	var doc ResumeDocument
	if err := json.Unmarshal(obj, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode resume content: %w", err)
	}
	return &doc, nil
}
