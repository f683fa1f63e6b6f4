// ABOUTME: Error kinds surfaced by the big object metadata core
// ABOUTME: Callers match them with errors.Is through any wrapping
package objects

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrAlreadyExists       = errors.New("already exists")
	ErrDuplicateField      = errors.New("duplicate field")
	ErrInvalidFieldSpec    = errors.New("invalid field spec")
	ErrInvalidObjectSpec   = errors.New("invalid object spec")
	ErrInvalidPosition     = errors.New("invalid index position")
	ErrMalformedDescriptor = errors.New("malformed descriptor")
)
