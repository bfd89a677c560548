package forms

import (
	"strings"
	"time"

	"github.com/FACorreiaa/go-resume-wizard/internal/types"
)

// designerMarker selects the portfolio step. The match is case-sensitive.
const designerMarker = "Designer"

// BuildSteps returns the ordered wizard steps for a role. Designer roles get
// a leading portfolio step. Every call returns freshly allocated configs.
func BuildSteps(role string, now time.Time) []types.StepConfig {
	steps := make([]types.StepConfig, 0, 8)
	if strings.Contains(role, designerMarker) {
		steps = append(steps, portfolioStep())
	}
	return append(steps,
		summaryStep(),
		skillsStep(),
		experienceStep(),
		projectsStep(),
		educationStep(now),
		certificationsStep(),
		types.StepConfig{ID: "review", Title: "Review & Finish", Fields: []types.FieldConfig{}},
	)
}

func portfolioStep() types.StepConfig {
	return types.StepConfig{
		ID:    "portfolio",
		Title: "Portfolio",
		Fields: []types.FieldConfig{
			{Name: "portfolio.main", Label: "Main Portfolio Link", Kind: types.FieldText, Placeholder: "https://yourportfolio.com"},
			{Name: "portfolio.other", Label: "Other Links (Behance, Dribbble)", Kind: types.FieldText, Placeholder: "Comma separated links"},
		},
	}
}

func summaryStep() types.StepConfig {
	return types.StepConfig{
		ID:    "summary",
		Title: "Summary",
		Fields: []types.FieldConfig{
			{Name: "summary.years", Label: "Years of Experience", Kind: types.FieldText, Placeholder: "e.g. 5 years"},
			{Name: "summary.strengths", Label: "Key Strengths", Kind: types.FieldTextarea, Placeholder: "What are you best at?"},
			{Name: "summary.background", Label: "Industry Background", Kind: types.FieldText, Placeholder: "e.g. Fintech, E-commerce"},
		},
	}
}

func skillsStep() types.StepConfig {
	return types.StepConfig{
		ID:    "skills",
		Title: "Skills",
		Fields: []types.FieldConfig{
			{Name: "skills.core", Label: "Core Skills", Kind: types.FieldTextarea, Placeholder: "e.g. React, Node.js, Python"},
			{Name: "skills.tools", Label: "Tools", Kind: types.FieldTextarea, Placeholder: "e.g. VS Code, Figma, Jira"},
			{Name: "skills.soft", Label: "Soft Skills", Kind: types.FieldTextarea, Placeholder: "e.g. Leadership, Communication"},
		},
	}
}

func experienceStep() types.StepConfig {
	return types.StepConfig{
		ID:    "experience",
		Title: "Experience",
		Fields: []types.FieldConfig{{
			Name:  "experience",
			Label: "Experience",
			Kind:  types.FieldArray,
			ArrayFields: []types.FieldConfig{
				{Name: "company", Label: "Company", Kind: types.FieldText},
				{Name: "title", Label: "Title", Kind: types.FieldText},
				{Name: "startDate", Label: "Joining Date", Kind: types.FieldDate},
				{Name: "endDate", Label: "Last Working Day", Kind: types.FieldDate},
				{Name: "currentlyWorking", Label: "Currently working here", Kind: types.FieldCheckbox},
				{Name: "responsibilities", Label: "Responsibilities & Achievements", Kind: types.FieldTextarea, Placeholder: "Describe what you did..."},
			},
		}},
	}
}

func projectsStep() types.StepConfig {
	return types.StepConfig{
		ID:    "projects",
		Title: "Projects",
		Fields: []types.FieldConfig{{
			Name:  "projects",
			Label: "Projects",
			Kind:  types.FieldArray,
			ArrayFields: []types.FieldConfig{
				{Name: "title", Label: "Project Title", Kind: types.FieldText},
				{Name: "role", Label: "Your Role", Kind: types.FieldText},
				{Name: "description", Label: "Description", Kind: types.FieldTextarea},
				{Name: "impact", Label: "Impact / Metrics", Kind: types.FieldText, Placeholder: "e.g. Increased conversion by 20%"},
			},
		}},
	}
}

func educationStep(now time.Time) types.StepConfig {
	return types.StepConfig{
		ID:    "education",
		Title: "Education",
		Fields: []types.FieldConfig{{
			Name:  "education",
			Label: "Education",
			Kind:  types.FieldArray,
			ArrayFields: []types.FieldConfig{
				{Name: "degree", Label: "Degree", Kind: types.FieldText},
				{Name: "institute", Label: "Institute", Kind: types.FieldText},
				{Name: "year", Label: "Pass-out Year", Kind: types.FieldSelect, Options: types.PassOutYears(now)},
			},
		}},
	}
}

func certificationsStep() types.StepConfig {
	return types.StepConfig{
		ID:    "certifications",
		Title: "Certifications",
		Fields: []types.FieldConfig{
			{Name: "certifications", Label: "Certifications & Extras", Kind: types.FieldTextarea, Placeholder: "List your certifications, awards, or languages..."},
		},
	}
}
