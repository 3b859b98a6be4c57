// Package engine turns a form definition into its input surface and gates
// candidate submissions. Everything here is a pure function of its inputs;
// failures are reported synchronously and nothing is ever partially applied.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/adhamo/formdesk/model"
)

// ControlKind names the input control a field renders as.
type ControlKind string

const (
	ControlText     ControlKind = "text-input"
	ControlTextarea ControlKind = "textarea"
	ControlPassword ControlKind = "password-input"
	ControlEmail    ControlKind = "email-input"
	ControlNumber   ControlKind = "number-input"
	ControlDate     ControlKind = "date-picker"
	ControlTime     ControlKind = "time-picker"
	ControlCheckbox ControlKind = "checkbox-group"
	ControlRadio    ControlKind = "radio-group"
	ControlSelect   ControlKind = "select"
	ControlFile     ControlKind = "file-picker"
)

// ControlFor maps a field to its input control. The mapping is total over
// the field-type enumeration and deterministic. File controls submit the
// file's name only; no file bytes pass through this engine.
func ControlFor(f model.FieldDefinition) ControlKind {
	switch f.Type {
	case model.FieldTextarea:
		return ControlTextarea
	case model.FieldPassword:
		return ControlPassword
	case model.FieldEmail:
		return ControlEmail
	case model.FieldNumber:
		return ControlNumber
	case model.FieldDate:
		return ControlDate
	case model.FieldTime:
		return ControlTime
	case model.FieldCheckbox:
		return ControlCheckbox
	case model.FieldRadio:
		return ControlRadio
	case model.FieldSelect:
		return ControlSelect
	case model.FieldFile:
		return ControlFile
	}
	return ControlText
}

type ValidationErrorKind string

const (
	MissingPhoneNumber   ValidationErrorKind = "missing_phone_number"
	MissingRequiredField ValidationErrorKind = "missing_required_field"
	ConstraintViolation  ValidationErrorKind = "constraint_violation"
)

// ValidationError blocks a submission. Label carries the failing field's
// label resolved in the submission's language.
type ValidationError struct {
	Kind    ValidationErrorKind
	FieldID string
	Label   string
	Detail  string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case MissingPhoneNumber:
		return "phone number is required"
	case MissingRequiredField:
		return fmt.Sprintf("required field %q has no answer", e.Label)
	case ConstraintViolation:
		return fmt.Sprintf("field %q: %s", e.Label, e.Detail)
	}
	return string(e.Kind)
}

// Validator gates submissions. The zero value treats min/max/pattern
// constraints as hints for the input control only; EnforceConstraints
// upgrades them to hard gates.
type Validator struct {
	EnforceConstraints bool
}

// ValidateSubmission checks a candidate submission against the form:
// first the implicit phone number, then every required field in form order,
// failing fast on the first gap. Constraint checks run only under the strict
// policy, after all required fields are known to be answered.
func (v Validator) ValidateSubmission(form model.FormDefinition, lang model.Language, phoneNumber string, answers map[string]any) error {
	if strings.TrimSpace(phoneNumber) == "" {
		return &ValidationError{Kind: MissingPhoneNumber}
	}

	for _, f := range form.Fields {
		if !f.Required {
			continue
		}
		if emptyAnswer(answers[f.ID]) {
			return &ValidationError{
				Kind:    MissingRequiredField,
				FieldID: f.ID,
				Label:   f.Label.Resolve(lang),
			}
		}
	}

	if !v.EnforceConstraints {
		return nil
	}
	for _, f := range form.Fields {
		if emptyAnswer(answers[f.ID]) {
			continue
		}
		if err := checkConstraints(f, lang, answers[f.ID]); err != nil {
			return err
		}
	}
	return nil
}

// emptyAnswer reports whether an answer counts as missing: absent, blank, or
// an empty selection.
func emptyAnswer(answer any) bool {
	switch v := answer.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	}
	return false
}

func checkConstraints(f model.FieldDefinition, lang model.Language, answer any) error {
	c := f.Validation
	if c == nil {
		return nil
	}

	violation := func(detail string) error {
		return &ValidationError{
			Kind:    ConstraintViolation,
			FieldID: f.ID,
			Label:   f.Label.Resolve(lang),
			Detail:  detail,
		}
	}

	if f.Type == model.FieldNumber && (c.Min != nil || c.Max != nil) {
		n, ok := numericAnswer(answer)
		if !ok {
			return violation("must be a number")
		}
		if c.Min != nil && n < *c.Min {
			return violation(fmt.Sprintf("must be at least %v", *c.Min))
		}
		if c.Max != nil && n > *c.Max {
			return violation(fmt.Sprintf("must be at most %v", *c.Max))
		}
	}

	if c.Pattern != "" {
		if s, ok := answer.(string); ok {
			re, err := regexp.Compile(c.Pattern)
			// an unparseable pattern stays advisory rather than
			// locking every respondent out
			if err == nil && !re.MatchString(s) {
				return violation("does not match the expected format")
			}
		}
	}

	return nil
}

func numericAnswer(answer any) (float64, bool) {
	switch v := answer.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return n, err == nil
	}
	return 0, false
}

// DisplayField is one field of the rendered input surface, with every
// bilingual value resolved for the active language.
type DisplayField struct {
	ID          string      `json:"id"`
	Control     ControlKind `json:"control"`
	Label       string      `json:"label"`
	Placeholder string      `json:"placeholder,omitempty"`
	Required    bool        `json:"required"`
	Options     []string    `json:"options,omitempty"`
}

type DisplayForm struct {
	Title            string         `json:"title"`
	Description      string         `json:"description,omitempty"`
	SubmitButtonText string         `json:"submitButtonText"`
	HeroImageURL     string         `json:"heroImageUrl,omitempty"`
	Language         model.Language `json:"language"`
	Fields           []DisplayField `json:"fields"`
}

// ResolveDisplay produces the respondent-facing surface for one language,
// in form order, defaulting the submit button text per language when the
// form provides none.
func ResolveDisplay(form model.FormDefinition, lang model.Language) DisplayForm {
	display := DisplayForm{
		Title:            form.Title.Resolve(lang),
		Description:      form.Description.Resolve(lang),
		SubmitButtonText: form.SubmitButtonText.Resolve(lang),
		HeroImageURL:     form.HeroImageURL,
		Language:         lang,
		Fields:           make([]DisplayField, 0, len(form.Fields)),
	}
	if display.SubmitButtonText == "" {
		display.SubmitButtonText = defaultSubmitText(lang)
	}

	for _, f := range form.Fields {
		df := DisplayField{
			ID:          f.ID,
			Control:     ControlFor(f),
			Label:       f.Label.Resolve(lang),
			Placeholder: f.Placeholder.Resolve(lang),
			Required:    f.Required,
		}
		for _, opt := range f.Options {
			df.Options = append(df.Options, opt.Resolve(lang))
		}
		display.Fields = append(display.Fields, df)
	}
	return display
}

func defaultSubmitText(lang model.Language) string {
	if lang == model.LanguageArabic {
		return "إرسال"
	}
	return "Submit"
}
