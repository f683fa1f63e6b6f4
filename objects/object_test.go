// ABOUTME: Tests for ObjectDescriptor construction and index placement
// ABOUTME: Covers identity validation and lazy creation of the index block
package objects

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewObjectDescriptor(t *testing.T) {
	obj, err := NewObjectDescriptor("Widget__b", "Widget", "Widgets")
	require.NoError(t, err)

	assert.Equal(t, "Widget__b", obj.APIName)
	assert.Equal(t, "Widget", obj.Label)
	assert.Equal(t, "Widgets", obj.PluralLabel)
	assert.Equal(t, Deployed, obj.DeploymentStatus)
	require.NotNil(t, obj.Index)
	assert.Equal(t, "WidgetIndex", obj.Index.FullName)
	assert.Equal(t, 0, obj.Index.Len())
}

func TestNewObjectDescriptor_Invalid(t *testing.T) {
	tests := []struct {
		name               string
		api, label, plural string
	}{
		{"no api", "", "Widget", "Widgets"},
		{"not a big object", "Widget__c", "Widget", "Widgets"},
		{"no label", "Widget__b", "", "Widgets"},
		{"no plural", "Widget__b", "Widget", " "},
		{"parent directory", "../../../../escape__b", "Widget", "Widgets"},
		{"nested path", "objects/Widget__b", "Widget", "Widgets"},
		{"leading digit", "1Widget__b", "Widget", "Widgets"},
		{"inner space", "Wid get__b", "Widget", "Widgets"},
		{"suffix only", "__b", "Widget", "Widgets"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewObjectDescriptor(tt.api, tt.label, tt.plural)
			assert.True(t, errors.Is(err, ErrInvalidObjectSpec), "got %v", err)
		})
	}
}

func TestObjectDescriptor_ResolveIndexPosition(t *testing.T) {
	obj, err := NewObjectDescriptor("Widget__b", "Widget", "Widgets")
	require.NoError(t, err)
	require.NoError(t, obj.IndexField("A__c", 0, SortAscending))
	require.NoError(t, obj.IndexField("B__c", 1, SortAscending))

	p, err := obj.ResolveIndexPosition(IndexSpec{})
	require.NoError(t, err)
	assert.Equal(t, 2, p)

	p, err = obj.ResolveIndexPosition(IndexSpec{Append: true})
	require.NoError(t, err)
	assert.Equal(t, 2, p)

	p, err = obj.ResolveIndexPosition(IndexSpec{Position: Int(0)})
	require.NoError(t, err)
	assert.Equal(t, 0, p)

	p, err = obj.ResolveIndexPosition(IndexSpec{Position: Int(2)})
	require.NoError(t, err)
	assert.Equal(t, 2, p)

	_, err = obj.ResolveIndexPosition(IndexSpec{Position: Int(3)})
	assert.True(t, errors.Is(err, ErrInvalidPosition))

	_, err = obj.ResolveIndexPosition(IndexSpec{Position: Int(-1)})
	assert.True(t, errors.Is(err, ErrInvalidPosition))
}

func TestObjectDescriptor_IndexFieldCreatesBlock(t *testing.T) {
	obj := &ObjectDescriptor{
		APIName:          "Widget__b",
		Label:            "Widget",
		PluralLabel:      "Widgets",
		DeploymentStatus: Deployed,
	}

	require.NoError(t, obj.IndexField("Name__c", 0, SortDescending))
	require.NotNil(t, obj.Index)
	assert.Equal(t, "WidgetIndex", obj.Index.FullName)
	assert.Equal(t, "Widget Index", obj.Index.Label)
	assert.True(t, obj.IsIndexed("Name__c"))
	assert.False(t, obj.IsIndexed("Other__c"))
}

func TestObjectDescriptor_IndexNamesNotRecomputed(t *testing.T) {
	obj, err := NewObjectDescriptor("Widget__b", "Widget", "Widgets")
	require.NoError(t, err)

	obj.Label = "Gadget"
	require.NoError(t, obj.IndexField("Name__c", 0, SortAscending))
	assert.Equal(t, "WidgetIndex", obj.Index.FullName)
	assert.Equal(t, "Widget Index", obj.Index.Label)
}

func TestParseDeploymentStatus(t *testing.T) {
	s, err := ParseDeploymentStatus("")
	require.NoError(t, err)
	assert.Equal(t, Deployed, s)

	s, err = ParseDeploymentStatus("InDevelopment")
	require.NoError(t, err)
	assert.Equal(t, InDevelopment, s)

	_, err = ParseDeploymentStatus("Retired")
	assert.Error(t, err)
}
