// ABOUTME: IndexList, the ordered composite index owned by a big object
// ABOUTME: Supports append, positional insert and per-entry sort direction
package objects

import (
	"fmt"
	"strings"
)

// SortDirection orders one column of the composite index.
type SortDirection string

// Sort directions.
const (
	SortAscending  SortDirection = "ASC"
	SortDescending SortDirection = "DESC"
)

// ParseSortDirection accepts ASC or DESC in any case.
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(SortAscending):
		return SortAscending, nil
	case string(SortDescending):
		return SortDescending, nil
	}
	return "", fmt.Errorf("%w: unknown sort direction %q", ErrInvalidFieldSpec, s)
}

// IndexEntry is one column of the composite index.
type IndexEntry struct {
	FieldName     string
	SortDirection SortDirection
}

// IndexList is the big object's single index block. Entry order is the
// column order of the composite index.
type IndexList struct {
	FullName string
	Label    string
	Entries  []IndexEntry
}

// NewIndexList creates an empty index block named after the object label.
func NewIndexList(objectLabel string) *IndexList {
	return &IndexList{
		FullName: strings.ReplaceAll(objectLabel, " ", "") + "Index",
		Label:    objectLabel + " Index",
	}
}

// Len returns the number of entries.
func (l *IndexList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Entries)
}

// Contains reports whether the field is part of the index.
func (l *IndexList) Contains(fieldName string) bool {
	return l.position(fieldName) >= 0
}

func (l *IndexList) position(fieldName string) int {
	if l == nil {
		return -1
	}
	for i, e := range l.Entries {
		if e.FieldName == fieldName {
			return i
		}
	}
	return -1
}

// Names returns the indexed field names in index order.
func (l *IndexList) Names() []string {
	if l == nil {
		return nil
	}
	names := make([]string, 0, len(l.Entries))
	for _, e := range l.Entries {
		names = append(names, e.FieldName)
	}
	return names
}

// Append places the entry after all existing entries.
func (l *IndexList) Append(e IndexEntry) error {
	return l.Insert(len(l.Entries), e)
}

// Insert places the entry at zero-based position p, shifting entries at p
// and beyond one place to the right.
func (l *IndexList) Insert(p int, e IndexEntry) error {
	if p < 0 || p > len(l.Entries) {
		return fmt.Errorf("%w: %d not in 0..%d", ErrInvalidPosition, p, len(l.Entries))
	}
	if l.Contains(e.FieldName) {
		return fmt.Errorf("%w: %s is already indexed", ErrDuplicateField, e.FieldName)
	}
	if e.SortDirection == "" {
		e.SortDirection = SortAscending
	}

	l.Entries = append(l.Entries, IndexEntry{})
	copy(l.Entries[p+1:], l.Entries[p:])
	l.Entries[p] = e
	return nil
}

// Remove drops the named entry, keeping the order of the rest.
func (l *IndexList) Remove(fieldName string) bool {
	i := l.position(fieldName)
	if i < 0 {
		return false
	}
	l.Entries = append(l.Entries[:i], l.Entries[i+1:]...)
	if len(l.Entries) == 0 {
		l.Entries = nil
	}
	return true
}

// IndexSpec carries the index directives of a field-creation call.
type IndexSpec struct {
	NoIndex   bool
	Append    bool
	Position  *int
	Direction SortDirection
}

// Validate rejects conflicting directives.
func (s IndexSpec) Validate() error {
	if s.Append && s.Position != nil {
		return fmt.Errorf("%w: append and position are mutually exclusive", ErrInvalidPosition)
	}
	if s.NoIndex && (s.Append || s.Position != nil) {
		return fmt.Errorf("%w: noIndex cannot be combined with append or position", ErrInvalidPosition)
	}
	if s.Direction != "" && s.Direction != SortAscending && s.Direction != SortDescending {
		return fmt.Errorf("%w: unknown sort direction %q", ErrInvalidFieldSpec, s.Direction)
	}
	return nil
}
