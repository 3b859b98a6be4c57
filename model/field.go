package model

import (
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
)

type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldPassword FieldType = "password"
	FieldEmail    FieldType = "email"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldTime     FieldType = "time"
	FieldCheckbox FieldType = "checkbox"
	FieldRadio    FieldType = "radio"
	FieldSelect   FieldType = "select"
	FieldFile     FieldType = "file"
)

var fieldTypes = []FieldType{
	FieldText, FieldTextarea, FieldPassword, FieldEmail, FieldNumber,
	FieldDate, FieldTime, FieldCheckbox, FieldRadio, FieldSelect, FieldFile,
}

// FieldTypes returns every supported field type, in declaration order.
func FieldTypes() []FieldType {
	out := make([]FieldType, len(fieldTypes))
	copy(out, fieldTypes)
	return out
}

func (t FieldType) Valid() bool {
	for _, known := range fieldTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsChoice reports whether the type presents a fixed list of options.
func (t FieldType) IsChoice() bool {
	switch t {
	case FieldCheckbox, FieldRadio, FieldSelect:
		return true
	}
	return false
}

// FieldValidation carries the optional numeric/pattern constraints of a
// field. They hint the input control; whether they also gate submission is
// the validator's policy.
type FieldValidation struct {
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Pattern string   `json:"pattern,omitempty"`
}

type FieldDefinition struct {
	ID          string           `json:"id"`
	Type        FieldType        `json:"type"`
	Label       BilingualText    `json:"label"`
	Placeholder BilingualText    `json:"placeholder"`
	Required    bool             `json:"required"`
	Options     []BilingualText  `json:"options,omitempty"`
	Validation  *FieldValidation `json:"validation,omitempty"`
}

// NewField builds a field of the given type with a fresh opaque id, a
// default English label, and one default option for choice types.
func NewField(t FieldType) FieldDefinition {
	f := FieldDefinition{
		ID:    uuid.Must(uuid.NewV4()).String(),
		Type:  t,
		Label: BilingualText{En: defaultLabel(t)},
	}
	if t.IsChoice() {
		f.Options = []BilingualText{{En: "Option 1"}}
	}
	return f
}

func defaultLabel(t FieldType) string {
	name := string(t)
	if name == "" {
		return "Field"
	}
	return strings.ToUpper(name[:1]) + name[1:] + " Field"
}

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Reorder swaps the field with the given id with its immediate neighbor in
// the requested direction. The input is returned unchanged when the id is
// unknown, the move would cross an edge, or the direction is not recognized.
// The input slice is never mutated.
func Reorder(fields []FieldDefinition, id string, dir Direction) []FieldDefinition {
	idx := -1
	for i, f := range fields {
		if f.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fields
	}

	var swap int
	switch dir {
	case DirectionUp:
		swap = idx - 1
	case DirectionDown:
		swap = idx + 1
	default:
		return fields
	}
	if swap < 0 || swap >= len(fields) {
		return fields
	}

	out := make([]FieldDefinition, len(fields))
	copy(out, fields)
	out[idx], out[swap] = out[swap], out[idx]
	return out
}

// ShapeError reports a malformed field configuration, surfaced to the form
// author at edit time.
type ShapeError struct {
	FieldID string
	Type    FieldType
	Reason  string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("field %s (%s): %s", e.FieldID, e.Type, e.Reason)
}

// ValidateShape checks the field's options list against its type: choice
// fields need at least one option, other fields must not carry any.
func (f FieldDefinition) ValidateShape() error {
	switch {
	case !f.Type.Valid():
		return &ShapeError{FieldID: f.ID, Type: f.Type, Reason: "unknown field type"}
	case f.Type.IsChoice() && len(f.Options) == 0:
		return &ShapeError{FieldID: f.ID, Type: f.Type, Reason: "choice field has no options"}
	case !f.Type.IsChoice() && len(f.Options) > 0:
		return &ShapeError{FieldID: f.ID, Type: f.Type, Reason: "non-choice field carries options"}
	}
	return nil
}
