// ABOUTME: FieldDescriptor value type and its per-type constraint rules
// ABOUTME: Validates that each field carries exactly the constraints its type allows
package objects

import (
	"fmt"
	"strings"
)

// FieldType is the platform field type of a big object field.
type FieldType string

// Supported field types.
const (
	FieldTypeText         FieldType = "Text"
	FieldTypeNumber       FieldType = "Number"
	FieldTypeCheckbox     FieldType = "Checkbox"
	FieldTypeLongTextArea FieldType = "LongTextArea"
	FieldTypeDateTime     FieldType = "DateTime"
	FieldTypeLookup       FieldType = "Lookup"
)

// Constraint names, as they appear in the field descriptor file.
const (
	ConstraintLength           = "length"
	ConstraintPrecision        = "precision"
	ConstraintScale            = "scale"
	ConstraintVisibleLines     = "visibleLines"
	ConstraintReferenceTo      = "referenceTo"
	ConstraintRelationshipName = "relationshipName"
	ConstraintDefaultValue     = "defaultValue"
)

// Limits enforced on constraint values.
const (
	MaxTextLength         = 255
	MinLongTextAreaLength = 256
	MaxLongTextAreaLength = 131072
	MaxNumberPrecision    = 18
)

type typeRule struct {
	required []string
	optional []string
}

var typeRules = map[FieldType]typeRule{
	FieldTypeText:         {required: []string{ConstraintLength}},
	FieldTypeNumber:       {required: []string{ConstraintPrecision, ConstraintScale}},
	FieldTypeCheckbox:     {optional: []string{ConstraintDefaultValue}},
	FieldTypeLongTextArea: {required: []string{ConstraintLength, ConstraintVisibleLines}},
	FieldTypeDateTime:     {},
	FieldTypeLookup:       {required: []string{ConstraintReferenceTo, ConstraintRelationshipName}},
}

// FieldTypes returns the supported field types in a stable order.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText,
		FieldTypeNumber,
		FieldTypeCheckbox,
		FieldTypeLongTextArea,
		FieldTypeDateTime,
		FieldTypeLookup,
	}
}

// ParseFieldType resolves a type name case-insensitively.
func ParseFieldType(s string) (FieldType, error) {
	for _, t := range FieldTypes() {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown field type %q", ErrInvalidFieldSpec, s)
}

// FieldDescriptor describes one field of a big object. Optional constraints
// are pointers (or empty strings) so that absence can be told apart from a
// zero value.
type FieldDescriptor struct {
	FullName string
	Label    string
	Type     FieldType
	Required bool

	Length           *int
	Precision        *int
	Scale            *int
	VisibleLines     *int
	ReferenceTo      string
	RelationshipName string
	DefaultValue     *bool
}

// Int returns a pointer to v, for populating optional constraints.
func Int(v int) *int {
	return &v
}

// Bool returns a pointer to v.
func Bool(v bool) *bool {
	return &v
}

// Normalize trims the identity fields and fills in the defaults the
// platform expects to see written out.
func (f *FieldDescriptor) Normalize() {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Label = strings.TrimSpace(f.Label)
	if f.Type == FieldTypeCheckbox && f.DefaultValue == nil {
		f.DefaultValue = Bool(false)
	}
}

// Constraints lists the constraints present on the field, in file order.
func (f *FieldDescriptor) Constraints() []string {
	var present []string
	if f.DefaultValue != nil {
		present = append(present, ConstraintDefaultValue)
	}
	if f.Length != nil {
		present = append(present, ConstraintLength)
	}
	if f.Precision != nil {
		present = append(present, ConstraintPrecision)
	}
	if f.ReferenceTo != "" {
		present = append(present, ConstraintReferenceTo)
	}
	if f.RelationshipName != "" {
		present = append(present, ConstraintRelationshipName)
	}
	if f.Scale != nil {
		present = append(present, ConstraintScale)
	}
	if f.VisibleLines != nil {
		present = append(present, ConstraintVisibleLines)
	}
	return present
}

// Validate checks the field identity and that its constraints match its type.
func (f *FieldDescriptor) Validate() error {
	if err := ValidateFieldName(f.FullName); err != nil {
		return err
	}
	if strings.TrimSpace(f.Label) == "" {
		return fmt.Errorf("%w: field %s needs a label", ErrInvalidFieldSpec, f.FullName)
	}

	rule, ok := typeRules[f.Type]
	if !ok {
		return fmt.Errorf("%w: field %s has unknown type %q", ErrInvalidFieldSpec, f.FullName, f.Type)
	}

	allowed := make(map[string]bool, len(rule.required)+len(rule.optional))
	for _, c := range rule.required {
		allowed[c] = true
	}
	for _, c := range rule.optional {
		allowed[c] = true
	}

	present := make(map[string]bool)
	for _, c := range f.Constraints() {
		if !allowed[c] {
			return fmt.Errorf("%w: %s is not allowed on %s field %s", ErrInvalidFieldSpec, c, f.Type, f.FullName)
		}
		present[c] = true
	}
	for _, c := range rule.required {
		if !present[c] {
			return fmt.Errorf("%w: %s field %s requires %s", ErrInvalidFieldSpec, f.Type, f.FullName, c)
		}
	}

	return f.validateRanges()
}

func (f *FieldDescriptor) validateRanges() error {
	switch f.Type {
	case FieldTypeText:
		if *f.Length < 1 || *f.Length > MaxTextLength {
			return fmt.Errorf("%w: length %d out of range 1..%d", ErrInvalidFieldSpec, *f.Length, MaxTextLength)
		}
	case FieldTypeLongTextArea:
		if *f.Length < MinLongTextAreaLength || *f.Length > MaxLongTextAreaLength {
			return fmt.Errorf("%w: length %d out of range %d..%d", ErrInvalidFieldSpec, *f.Length, MinLongTextAreaLength, MaxLongTextAreaLength)
		}
		if *f.VisibleLines < 1 {
			return fmt.Errorf("%w: visibleLines must be positive", ErrInvalidFieldSpec)
		}
	case FieldTypeNumber:
		if *f.Precision < 1 || *f.Precision > MaxNumberPrecision {
			return fmt.Errorf("%w: precision %d out of range 1..%d", ErrInvalidFieldSpec, *f.Precision, MaxNumberPrecision)
		}
		if *f.Scale < 0 || *f.Scale > *f.Precision {
			return fmt.Errorf("%w: scale %d out of range 0..%d", ErrInvalidFieldSpec, *f.Scale, *f.Precision)
		}
	}
	return nil
}
