package wizard

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/FACorreiaa/go-resume-wizard/internal/types"
)

var dateLayouts = []string{"2006-01-02", "2006-01"}

var documentValidator = newDocumentValidator()

func newDocumentValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("resume_date", func(fl validator.FieldLevel) bool {
		_, ok := parseResumeDate(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("pass_out_year", func(fl validator.FieldLevel) bool {
		return validPassOutYear(fl.Field().String(), time.Now())
	})
	v.RegisterStructValidation(experienceStructValidation, types.Experience{})
	return v
}

func parseResumeDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func validPassOutYear(s string, now time.Time) bool {
	if len(s) != 4 {
		return false
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return false
	}
	return year >= types.EarliestPassOutYear && year <= now.Year()+types.PassOutYearsAhead
}

// experienceStructValidation covers the rules that span two fields. A bad
// date format is already reported by the field tags.
func experienceStructValidation(sl validator.StructLevel) {
	exp := sl.Current().Interface().(types.Experience)
	if exp.CurrentlyWorking {
		return
	}
	if exp.EndDate == "" {
		sl.ReportError(exp.EndDate, "endDate", "EndDate", "required_unless_current", "")
		return
	}
	start, okStart := parseResumeDate(exp.StartDate)
	end, okEnd := parseResumeDate(exp.EndDate)
	if okStart && okEnd && end.Before(start) {
		sl.ReportError(exp.EndDate, "endDate", "EndDate", "not_before_start", "")
	}
}

var fieldMessages = map[string]string{
	"company.required":                "Company is required",
	"title.required":                  "Title is required",
	"startDate.required":              "Start date is required",
	"startDate.resume_date":           "Start date must be YYYY-MM or YYYY-MM-DD",
	"endDate.resume_date":             "End date must be YYYY-MM or YYYY-MM-DD",
	"endDate.required_unless_current": "End date is required",
	"endDate.not_before_start":        "End date cannot be before start date",
	"degree.required":                 "Degree is required",
	"institute.required":              "Institute is required",
	"year.required":                   "Year is required",
	"year.pass_out_year":              "Select a valid year",
}

// ValidateDocument runs every rule over the document. Errors are keyed by
// dotted path, e.g. "experience.0.endDate". Entries left completely blank
// are not reported.
func ValidateDocument(doc *types.ResumeDocument) error {
	if doc == nil {
		return nil
	}
	err := documentValidator.Struct(doc)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating resume content: %w", err)
	}
	verr := types.NewValidationError("validation failed")
	for _, fe := range fieldErrs {
		path := fieldPath(fe.Namespace())
		if blankItemPath(doc, path) {
			continue
		}
		verr.Add(path, documentMessage(fe))
	}
	return verr.OrNil()
}

// ValidateStep reports only the errors that belong to the step's fields.
func ValidateStep(step types.StepConfig, doc *types.ResumeDocument) error {
	err := ValidateDocument(doc)
	if err == nil {
		return nil
	}
	var verr *types.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	scoped := types.NewValidationError(verr.Message)
	for path, msg := range verr.Fields {
		for _, field := range step.Fields {
			if path == field.Name || strings.HasPrefix(path, field.Name+".") {
				scoped.Add(path, msg)
				break
			}
		}
	}
	return scoped.OrNil()
}

func documentMessage(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if fe.Tag() == "required" {
		return "This field is required"
	}
	return "Invalid value"
}

// fieldPath turns "ResumeDocument.experience[0].company" into
// "experience.0.company".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		namespace = namespace[i+1:]
	}
	namespace = strings.ReplaceAll(namespace, "[", ".")
	return strings.ReplaceAll(namespace, "]", "")
}
