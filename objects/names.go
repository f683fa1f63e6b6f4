// ABOUTME: API name rules for big objects, fields and permission sets
// ABOUTME: Names double as path segments so only platform identifiers are accepted
package objects

import (
	"fmt"
	"regexp"
)

var (
	objectNamePattern        = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*__b$`)
	fieldNamePattern         = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*__c$`)
	permissionSetNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
)

// ValidateObjectName checks a big object API name such as Widget__b.
func ValidateObjectName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: api name is required", ErrInvalidObjectSpec)
	}
	if !objectNamePattern.MatchString(name) {
		return fmt.Errorf("%w: big object api name %q must be an identifier ending with __b", ErrInvalidObjectSpec, name)
	}
	return nil
}

// ValidateFieldName checks a field API name such as Name__c.
func ValidateFieldName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: field api name is required", ErrInvalidFieldSpec)
	}
	if !fieldNamePattern.MatchString(name) {
		return fmt.Errorf("%w: field api name %q must be an identifier ending with __c", ErrInvalidFieldSpec, name)
	}
	return nil
}

// ValidatePermissionSetName checks a permission set name such as WidgetAccess.
func ValidatePermissionSetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: permission set name is required", ErrInvalidObjectSpec)
	}
	if !permissionSetNamePattern.MatchString(name) {
		return fmt.Errorf("%w: permission set name %q must be an identifier", ErrInvalidObjectSpec, name)
	}
	return nil
}
