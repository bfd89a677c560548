package wizard

import (
	_ "embed"
	"fmt"
	"html"
	"strconv"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/xeipuuv/gojsonschema"

	"github.com/FACorreiaa/go-resume-wizard/internal/types"
)

//go:embed resume.schema.json
var resumeSchemaJSON []byte

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(resumeSchemaJSON))
})

var textPolicy = bluemonday.StrictPolicy()

// Parse checks submitted content against the document schema and decodes it.
// Content may be an object or a JSON string holding one. Shape problems are
// reported as *types.ValidationError.
func Parse(raw []byte) (*types.ResumeDocument, error) {
	obj, err := types.UnwrapDocumentJSON(raw)
	if err != nil {
		verr := types.NewValidationError("invalid resume content")
		verr.Add("content", err.Error())
		return nil, verr
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling resume schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(obj))
	if err != nil {
		verr := types.NewValidationError("invalid resume content")
		verr.Add("content", err.Error())
		return nil, verr
	}
	if !result.Valid() {
		verr := types.NewValidationError("invalid resume content")
		for _, re := range result.Errors() {
			field := re.Field()
			if field == "" || field == "(root)" {
				field = "content"
			}
			verr.Add(field, re.Description())
		}
		return nil, verr
	}

	doc, err := types.DecodeDocument(obj)
	if err != nil {
		verr := types.NewValidationError("invalid resume content")
		verr.Add("content", err.Error())
		return nil, verr
	}
	return doc, nil
}

// Normalize trims every text value and strips markup. The result is safe to
// render as plain text. Normalizing an already normalized document changes
// nothing.
func Normalize(doc *types.ResumeDocument) *types.ResumeDocument {
	if doc == nil {
		return &types.ResumeDocument{}
	}
	out := Clone(doc)

	if p := out.PersonalDetails; p != nil {
		p.Name = clean(p.Name)
		p.Email = clean(p.Email)
		p.Phone = clean(p.Phone)
		p.Location = clean(p.Location)
		p.PortfolioURL = clean(p.PortfolioURL)
		p.Headline = clean(p.Headline)
	}
	if p := out.Portfolio; p != nil {
		p.Main = clean(p.Main)
		links := make(types.LinkList, 0, len(p.Other))
		for _, l := range p.Other {
			if l = clean(l); l != "" {
				links = append(links, l)
			}
		}
		p.Other = links
	}
	if s := out.Summary; s != nil {
		s.Years = clean(s.Years)
		s.Strengths = clean(s.Strengths)
		s.Background = clean(s.Background)
		s.Text = clean(s.Text)
	}
	if s := out.Skills; s != nil {
		s.Core = clean(s.Core)
		s.Tools = clean(s.Tools)
		s.Soft = clean(s.Soft)
	}
	for i := range out.Experience {
		e := &out.Experience[i]
		e.Company = clean(e.Company)
		e.Title = clean(e.Title)
		e.StartDate = clean(e.StartDate)
		e.EndDate = clean(e.EndDate)
		e.Responsibilities = types.TextBlock(clean(string(e.Responsibilities)))
		e.Duration = clean(e.Duration)
	}
	for i := range out.Projects {
		p := &out.Projects[i]
		p.Title = clean(p.Title)
		p.Role = clean(p.Role)
		p.Description = clean(p.Description)
		p.Impact = clean(p.Impact)
	}
	for i := range out.Education {
		e := &out.Education[i]
		e.Degree = clean(e.Degree)
		e.Institute = clean(e.Institute)
		e.Year = clean(e.Year)
	}
	out.Certifications = clean(out.Certifications)
	return out
}

// maxCleanPasses bounds clean for input with deeply nested entity encoding.
const maxCleanPasses = 4

// clean strips markup and stores plain text. Encoded markup such as
// "&lt;b&gt;" decodes to a tag on the first pass, so passes repeat until the
// text no longer changes.
func clean(s string) string {
	s = strings.TrimSpace(s)
	for i := 0; i < maxCleanPasses && s != ""; i++ {
		next := strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
		if next == s {
			break
		}
		s = next
	}
	return s
}

// Clone returns a deep copy so callers can mutate sections freely.
func Clone(doc *types.ResumeDocument) *types.ResumeDocument {
	if doc == nil {
		return nil
	}
	out := *doc
	if doc.PersonalDetails != nil {
		p := *doc.PersonalDetails
		out.PersonalDetails = &p
	}
	if doc.Portfolio != nil {
		p := *doc.Portfolio
		p.Other = append(types.LinkList(nil), doc.Portfolio.Other...)
		out.Portfolio = &p
	}
	if doc.Summary != nil {
		s := *doc.Summary
		out.Summary = &s
	}
	if doc.Skills != nil {
		s := *doc.Skills
		out.Skills = &s
	}
	out.Experience = append([]types.Experience(nil), doc.Experience...)
	out.Projects = append([]types.Project(nil), doc.Projects...)
	out.Education = append([]types.Education(nil), doc.Education...)
	return &out
}

// ForEdit prepares stored content for the wizard so every repeatable section
// configured in steps has at least one item to edit.
func ForEdit(doc *types.ResumeDocument, steps []types.StepConfig) (*types.ResumeDocument, error) {
	out := Clone(doc)
	if out == nil {
		out = &types.ResumeDocument{}
	}
	for _, step := range steps {
		for _, field := range step.Fields {
			switch field.Kind {
			case types.FieldArray:
				if itemCount(out, field.Name) > 0 {
					continue
				}
				if err := appendItem(out, field.Name); err != nil {
					return nil, err
				}
			case types.FieldText, types.FieldTextarea, types.FieldDate, types.FieldSelect, types.FieldCheckbox:
				// scalar fields start from their zero value
			default:
				return nil, fmt.Errorf("field %q has unknown kind %q", field.Name, field.Kind)
			}
		}
	}
	return out, nil
}

func itemCount(doc *types.ResumeDocument, section string) int {
	switch section {
	case "experience":
		return len(doc.Experience)
	case "projects":
		return len(doc.Projects)
	case "education":
		return len(doc.Education)
	default:
		return 0
	}
}

func appendItem(doc *types.ResumeDocument, section string) error {
	switch section {
	case "experience":
		doc.Experience = append(doc.Experience, types.Experience{})
	case "projects":
		doc.Projects = append(doc.Projects, types.Project{})
	case "education":
		doc.Education = append(doc.Education, types.Education{})
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}
	return nil
}

func removeItem(doc *types.ResumeDocument, section string, index int) error {
	n := itemCount(doc, section)
	if index < 0 || index >= n {
		return fmt.Errorf("%w: %s[%d]", ErrItemOutOfRange, section, index)
	}
	switch section {
	case "experience":
		doc.Experience = append(doc.Experience[:index:index], doc.Experience[index+1:]...)
	case "projects":
		doc.Projects = append(doc.Projects[:index:index], doc.Projects[index+1:]...)
	case "education":
		doc.Education = append(doc.Education[:index:index], doc.Education[index+1:]...)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}
	return nil
}

// DeriveDurations fills each experience entry's display period. Ongoing roles
// end with "Present".
func DeriveDurations(doc *types.ResumeDocument) {
	for i := range doc.Experience {
		e := &doc.Experience[i]
		switch {
		case e.StartDate == "":
			e.Duration = ""
		case e.CurrentlyWorking:
			e.Duration = e.StartDate + " - Present"
		case e.EndDate != "":
			e.Duration = e.StartDate + " - " + e.EndDate
		default:
			e.Duration = e.StartDate
		}
	}
}

// DropBlankItems removes repeatable entries the user never filled in.
func DropBlankItems(doc *types.ResumeDocument) {
	experience := doc.Experience[:0]
	for _, e := range doc.Experience {
		if e != (types.Experience{}) {
			experience = append(experience, e)
		}
	}
	doc.Experience = experience

	projects := doc.Projects[:0]
	for _, p := range doc.Projects {
		if p != (types.Project{}) {
			projects = append(projects, p)
		}
	}
	doc.Projects = projects

	education := doc.Education[:0]
	for _, e := range doc.Education {
		if e != (types.Education{}) {
			education = append(education, e)
		}
	}
	doc.Education = education
}

// blankItemPath reports whether a dotted error path such as
// "education.0.degree" points into an entry with no values at all.
func blankItemPath(doc *types.ResumeDocument, path string) bool {
	parts := strings.SplitN(path, ".", 3)
	if len(parts) < 3 {
		return false
	}
	i, err := strconv.Atoi(parts[1])
	if err != nil || i < 0 {
		return false
	}
	switch parts[0] {
	case "experience":
		return i < len(doc.Experience) && doc.Experience[i] == (types.Experience{})
	case "projects":
		return i < len(doc.Projects) && doc.Projects[i] == (types.Project{})
	case "education":
		return i < len(doc.Education) && doc.Education[i] == (types.Education{})
	default:
		return false
	}
}

// Finalize normalizes and fully validates a document for submission and
// stores the derived durations on it. Blank repeatable entries are dropped.
func Finalize(doc *types.ResumeDocument) (*types.ResumeDocument, error) {
	out := Normalize(doc)
	DropBlankItems(out)
	if err := ValidateDocument(out); err != nil {
		return nil, err
	}
	DeriveDurations(out)
	return out, nil
}
