// ABOUTME: Tests for IndexList ordering and index directive resolution
// ABOUTME: Covers append, positional insert, removal and direction defaults
package objects

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIndexList_DerivesNames(t *testing.T) {
	idx := NewIndexList("Widget")
	assert.Equal(t, "WidgetIndex", idx.FullName)
	assert.Equal(t, "Widget Index", idx.Label)
	assert.Equal(t, 0, idx.Len())

	spaced := NewIndexList("Sales Event")
	assert.Equal(t, "SalesEventIndex", spaced.FullName)
	assert.Equal(t, "Sales Event Index", spaced.Label)
}

func TestIndexList_AppendKeepsOrder(t *testing.T) {
	idx := NewIndexList("Widget")
	require.NoError(t, idx.Append(IndexEntry{FieldName: "Name__c", SortDirection: SortAscending}))
	require.NoError(t, idx.Append(IndexEntry{FieldName: "Code__c", SortDirection: SortDescending}))

	assert.Equal(t, []IndexEntry{
		{FieldName: "Name__c", SortDirection: SortAscending},
		{FieldName: "Code__c", SortDirection: SortDescending},
	}, idx.Entries)
}

func TestIndexList_DefaultsDirection(t *testing.T) {
	idx := NewIndexList("Widget")
	require.NoError(t, idx.Append(IndexEntry{FieldName: "Name__c"}))
	assert.Equal(t, SortAscending, idx.Entries[0].SortDirection)
}

func TestIndexList_Insert(t *testing.T) {
	tests := []struct {
		name     string
		position int
		want     []string
	}{
		{"front", 0, []string{"New__c", "A__c", "B__c"}},
		{"middle", 1, []string{"A__c", "New__c", "B__c"}},
		{"end", 2, []string{"A__c", "B__c", "New__c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := NewIndexList("Widget")
			require.NoError(t, idx.Append(IndexEntry{FieldName: "A__c"}))
			require.NoError(t, idx.Append(IndexEntry{FieldName: "B__c"}))

			require.NoError(t, idx.Insert(tt.position, IndexEntry{FieldName: "New__c"}))
			assert.Equal(t, tt.want, idx.Names())
		})
	}
}

func TestIndexList_InsertThenRemoveRestoresOrder(t *testing.T) {
	original := []string{"A__c", "B__c", "C__c", "D__c"}

	for p := 0; p <= len(original); p++ {
		idx := NewIndexList("Widget")
		for _, name := range original {
			require.NoError(t, idx.Append(IndexEntry{FieldName: name}))
		}

		require.NoError(t, idx.Insert(p, IndexEntry{FieldName: "X__c"}))
		assert.Equal(t, "X__c", idx.Names()[p])
		assert.True(t, idx.Remove("X__c"))
		assert.Equal(t, original, idx.Names())
	}
}

func TestIndexList_InsertRejectsBadPosition(t *testing.T) {
	idx := NewIndexList("Widget")
	require.NoError(t, idx.Append(IndexEntry{FieldName: "A__c"}))

	err := idx.Insert(-1, IndexEntry{FieldName: "B__c"})
	assert.True(t, errors.Is(err, ErrInvalidPosition))

	err = idx.Insert(2, IndexEntry{FieldName: "B__c"})
	assert.True(t, errors.Is(err, ErrInvalidPosition))

	assert.Equal(t, []string{"A__c"}, idx.Names())
}

func TestIndexList_RejectsDuplicate(t *testing.T) {
	idx := NewIndexList("Widget")
	require.NoError(t, idx.Append(IndexEntry{FieldName: "A__c"}))

	err := idx.Append(IndexEntry{FieldName: "A__c", SortDirection: SortDescending})
	assert.True(t, errors.Is(err, ErrDuplicateField))
	assert.Equal(t, 1, idx.Len())
}

func TestIndexList_RemoveMissing(t *testing.T) {
	idx := NewIndexList("Widget")
	assert.False(t, idx.Remove("Nope__c"))

	require.NoError(t, idx.Append(IndexEntry{FieldName: "A__c"}))
	assert.True(t, idx.Remove("A__c"))
	assert.Nil(t, idx.Entries)
}

func TestIndexList_NilIsEmpty(t *testing.T) {
	var idx *IndexList
	assert.Equal(t, 0, idx.Len())
	assert.False(t, idx.Contains("A__c"))
	assert.Nil(t, idx.Names())
}

func TestIndexSpec_Validate(t *testing.T) {
	tests := []struct {
		name    string
		spec    IndexSpec
		wantErr error
	}{
		{"empty", IndexSpec{}, nil},
		{"append", IndexSpec{Append: true, Direction: SortDescending}, nil},
		{"position", IndexSpec{Position: Int(0)}, nil},
		{"no index", IndexSpec{NoIndex: true}, nil},
		{"append and position", IndexSpec{Append: true, Position: Int(1)}, ErrInvalidPosition},
		{"no index and append", IndexSpec{NoIndex: true, Append: true}, ErrInvalidPosition},
		{"bad direction", IndexSpec{Direction: "UP"}, ErrInvalidFieldSpec},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestParseSortDirection(t *testing.T) {
	dir, err := ParseSortDirection("desc")
	require.NoError(t, err)
	assert.Equal(t, SortDescending, dir)

	dir, err = ParseSortDirection(" ASC ")
	require.NoError(t, err)
	assert.Equal(t, SortAscending, dir)

	_, err = ParseSortDirection("sideways")
	assert.Error(t, err)
}
