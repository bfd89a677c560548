package types

import (
	"strconv"
	"time"
)

// FieldKind is the closed set of input kinds a wizard field can take.
type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldTextarea FieldKind = "textarea"
	FieldDate     FieldKind = "date"
	FieldSelect   FieldKind = "select"
	FieldCheckbox FieldKind = "checkbox"
	FieldArray    FieldKind = "array"
)

func (k FieldKind) Valid() bool {
	switch k {
	case FieldText, FieldTextarea, FieldDate, FieldSelect, FieldCheckbox, FieldArray:
		return true
	default:
		return false
	}
}

// FieldConfig describes one input. ArrayFields is set iff Kind is FieldArray.
type FieldConfig struct {
	Name        string        `json:"name"`
	Label       string        `json:"label"`
	Kind        FieldKind     `json:"type"`
	Placeholder string        `json:"placeholder,omitempty"`
	Options     []string      `json:"options,omitempty"`
	ArrayFields []FieldConfig `json:"arrayFields,omitempty"`
}

// StepConfig is one page of the wizard.
type StepConfig struct {
	ID     string        `json:"id"`
	Title  string        `json:"title"`
	Fields []FieldConfig `json:"fields"`
}

const (
	// EarliestPassOutYear is the oldest year offered by the education step.
	EarliestPassOutYear = 1980
	// PassOutYearsAhead allows expected graduation dates.
	PassOutYearsAhead = 5
)

// PassOutYears lists selectable years from the newest to the oldest.
func PassOutYears(now time.Time) []string {
	latest := now.Year() + PassOutYearsAhead
	years := make([]string, 0, latest-EarliestPassOutYear+1)
	for y := latest; y >= EarliestPassOutYear; y-- {
		years = append(years, strconv.Itoa(y))
	}
	return years
}
