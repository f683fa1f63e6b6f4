// ABOUTME: ObjectDescriptor for a big object and its owned index block
// ABOUTME: Resolves index directives into positions and applies them in order
package objects

import (
	"fmt"
	"strings"
)

// DeploymentStatus of a big object.
type DeploymentStatus string

// Deployment statuses.
const (
	Deployed      DeploymentStatus = "Deployed"
	InDevelopment DeploymentStatus = "InDevelopment"
)

// ParseDeploymentStatus validates a status read from a descriptor; an empty
// value means Deployed.
func ParseDeploymentStatus(s string) (DeploymentStatus, error) {
	switch DeploymentStatus(s) {
	case "", Deployed:
		return Deployed, nil
	case InDevelopment:
		return InDevelopment, nil
	}
	return "", fmt.Errorf("unknown deployment status %q", s)
}

// ObjectDescriptor is the identity and index of a big object.
type ObjectDescriptor struct {
	APIName          string
	Label            string
	PluralLabel      string
	DeploymentStatus DeploymentStatus
	Index            *IndexList
}

// NewObjectDescriptor builds a deployed big object with an index block that
// has no entries yet.
func NewObjectDescriptor(apiName, label, pluralLabel string) (*ObjectDescriptor, error) {
	obj := &ObjectDescriptor{
		APIName:          strings.TrimSpace(apiName),
		Label:            strings.TrimSpace(label),
		PluralLabel:      strings.TrimSpace(pluralLabel),
		DeploymentStatus: Deployed,
	}
	if err := obj.Validate(); err != nil {
		return nil, err
	}
	obj.Index = NewIndexList(obj.Label)
	return obj, nil
}

// Validate checks the identity fields.
func (o *ObjectDescriptor) Validate() error {
	if err := ValidateObjectName(o.APIName); err != nil {
		return err
	}
	if o.Label == "" {
		return fmt.Errorf("%w: label is required", ErrInvalidObjectSpec)
	}
	if o.PluralLabel == "" {
		return fmt.Errorf("%w: plural label is required", ErrInvalidObjectSpec)
	}
	return nil
}

// IsIndexed reports whether the field is one of the index entries.
func (o *ObjectDescriptor) IsIndexed(fieldName string) bool {
	return o.Index.Contains(fieldName)
}

// ResolveIndexPosition turns the directives into a zero-based insertion
// point for the current index. Neither append nor position means append.
func (o *ObjectDescriptor) ResolveIndexPosition(spec IndexSpec) (int, error) {
	if err := spec.Validate(); err != nil {
		return 0, err
	}
	n := o.Index.Len()
	if spec.Position == nil {
		return n, nil
	}
	p := *spec.Position
	if p < 0 || p > n {
		return 0, fmt.Errorf("%w: %d not in 0..%d", ErrInvalidPosition, p, n)
	}
	return p, nil
}

// IndexField inserts the field into the index at position p, creating the
// index block first if the object has none.
func (o *ObjectDescriptor) IndexField(fieldName string, p int, dir SortDirection) error {
	if o.Index == nil {
		o.Index = NewIndexList(o.Label)
	}
	return o.Index.Insert(p, IndexEntry{FieldName: fieldName, SortDirection: dir})
}
