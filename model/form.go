package model

import (
	"time"

	"github.com/hashicorp/go-multierror"
)

// FormDefinition is the authoring-time description of a form. Field order is
// significant and preserved end-to-end: it defines both render order and
// export-column order. The respondent's phone number is implicit: it is
// always collected first and is always required, so it never appears in
// Fields.
type FormDefinition struct {
	Title            BilingualText     `json:"title"`
	Description      BilingualText     `json:"description"`
	SubmitButtonText BilingualText     `json:"submitButtonText"`
	HeroImageURL     string            `json:"heroImageUrl,omitempty"`
	Fields           []FieldDefinition `json:"fields"`
}

// ValidateShape checks every field and reports all problems at once, so the
// author can fix a whole form in one pass.
func (d FormDefinition) ValidateShape() error {
	var errs *multierror.Error
	for _, f := range d.Fields {
		if err := f.ValidateShape(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

// Sanitize unwraps every bilingual value in place, guaranteeing the
// definition carries no doubly-encoded text before it is persisted.
func (d *FormDefinition) Sanitize() {
	d.Title = d.Title.SanitizeForStorage()
	d.Description = d.Description.SanitizeForStorage()
	d.SubmitButtonText = d.SubmitButtonText.SanitizeForStorage()
	for i := range d.Fields {
		f := &d.Fields[i]
		f.Label = f.Label.SanitizeForStorage()
		f.Placeholder = f.Placeholder.SanitizeForStorage()
		for j := range f.Options {
			f.Options[j] = f.Options[j].SanitizeForStorage()
		}
	}
}

// Form is the persisted entity: a definition plus its lifecycle state.
// Deactivation (IsActive=false) is the only lifecycle end normally exposed;
// hard deletion also removes the form's responses.
type Form struct {
	ID int `json:"id"`
	FormDefinition
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Submission is one respondent's accepted set of answers. Records are
// append-only and reference their form weakly: they stay readable after the
// form is edited or deactivated.
type Submission struct {
	ID           int            `json:"id"`
	FormID       int            `json:"formId"`
	PhoneNumber  string         `json:"phoneNumber"`
	ResponseData map[string]any `json:"responseData"`
	Language     Language       `json:"language"`
	SubmittedAt  time.Time      `json:"submittedAt"`
}
