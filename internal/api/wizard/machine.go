package wizard

import (
	"errors"
	"fmt"

	"github.com/FACorreiaa/go-resume-wizard/internal/types"
)

var (
	ErrNoSteps          = errors.New("wizard has no steps")
	ErrStepOutOfRange   = errors.New("step index out of range")
	ErrUnknownSection   = errors.New("unknown repeatable section")
	ErrItemOutOfRange   = errors.New("item index out of range")
	ErrAlreadySubmitted = errors.New("wizard already submitted")
)

// Wizard walks a résumé document through a resolved list of steps. It is not
// safe for concurrent use; each request builds its own.
type Wizard struct {
	steps     []types.StepConfig
	current   int
	doc       *types.ResumeDocument
	submitted bool
}

// New starts at the first step with doc prepared for editing: every empty
// repeatable section gets one blank item.
func New(steps []types.StepConfig, doc *types.ResumeDocument) (*Wizard, error) {
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}
	prepared, err := ForEdit(doc, steps)
	if err != nil {
		return nil, err
	}
	return &Wizard{steps: steps, doc: prepared}, nil
}

// Restore resumes a wizard at step current with doc exactly as the client
// holds it. Sections the client emptied stay empty.
func Restore(steps []types.StepConfig, doc *types.ResumeDocument, current int) (*Wizard, error) {
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}
	if current < 0 || current >= len(steps) {
		return nil, fmt.Errorf("%w: %d of %d", ErrStepOutOfRange, current, len(steps))
	}
	restored := Clone(doc)
	if restored == nil {
		restored = &types.ResumeDocument{}
	}
	return &Wizard{steps: steps, current: current, doc: restored}, nil
}

func (w *Wizard) Steps() []types.StepConfig { return w.steps }
func (w *Wizard) Current() int { return w.current }
func (w *Wizard) Step() types.StepConfig { return w.steps[w.current] }
func (w *Wizard) Document() *types.ResumeDocument { return w.doc }
func (w *Wizard) Submitted() bool { return w.submitted }
func (w *Wizard) IsLast() bool { return w.current == len(w.steps)-1 }

// Next validates the fields of the current step. On success it advances, or
// submits when the current step is the last one. On failure the step does not
// change and the returned error is a *types.ValidationError.
func (w *Wizard) Next() error {
	if w.submitted {
		return ErrAlreadySubmitted
	}
	if err := ValidateStep(w.Step(), Normalize(w.doc)); err != nil {
		return err
	}
	if w.IsLast() {
		return w.Submit()
	}
	w.current++
	return nil
}

// Back moves to the previous step without validating. It never goes below
// the first step.
func (w *Wizard) Back() {
	if w.submitted || w.current == 0 {
		return
	}
	w.current--
}

// Submit finalizes the whole document.
func (w *Wizard) Submit() error {
	if w.submitted {
		return ErrAlreadySubmitted
	}
	final, err := Finalize(w.doc)
	if err != nil {
		return err
	}
	w.doc = final
	w.submitted = true
	return nil
}

// AddArrayItem appends an empty item to a repeatable section.
func (w *Wizard) AddArrayItem(section string) error {
	if !w.hasArrayField(section) {
		return fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}
	return appendItem(w.doc, section)
}

// RemoveArrayItem drops one item. Removing the last remaining item leaves the
// section empty.
func (w *Wizard) RemoveArrayItem(section string, index int) error {
	if !w.hasArrayField(section) {
		return fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}
	return removeItem(w.doc, section, index)
}

func (w *Wizard) hasArrayField(section string) bool {
	for _, step := range w.steps {
		for _, field := range step.Fields {
			if field.Kind == types.FieldArray && field.Name == section {
				return true
			}
		}
	}
	return false
}
