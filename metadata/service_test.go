// ABOUTME: Tests for the metadata service operations
// ABOUTME: Runs the object, field and permission set flows against file and badger stores
package metadata

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harperreed/bigmeta/codec"
	"github.com/harperreed/bigmeta/config"
	"github.com/harperreed/bigmeta/objects"
	"github.com/harperreed/bigmeta/repository"
	"github.com/harperreed/bigmeta/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	s := store.NewFileStore(t.TempDir())
	return NewService(repository.NewObjectRepository(s, config.DefaultDirectory), nil)
}

func text(name string, length int) *objects.FieldDescriptor {
	return &objects.FieldDescriptor{FullName: name, Label: name, Type: objects.FieldTypeText, Length: objects.Int(length)}
}

func TestService_CreateObject(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	obj, err := svc.CreateObject(ctx, "Widget__b", "Widget", "Widgets")
	require.NoError(t, err)

	loaded, err := svc.Repository().LoadObject(ctx, "Widget__b")
	require.NoError(t, err)
	assert.Equal(t, obj, loaded)
	assert.Equal(t, "Widget", loaded.Label)
	assert.Equal(t, "Widgets", loaded.PluralLabel)
	assert.Equal(t, 0, loaded.Index.Len())

	_, err = svc.CreateObject(ctx, "Widget__b", "Widget", "Widgets")
	assert.ErrorIs(t, err, objects.ErrAlreadyExists)

	_, err = svc.CreateObject(ctx, "Widget__c", "Widget", "Widgets")
	assert.ErrorIs(t, err, objects.ErrInvalidObjectSpec)
}

func TestService_WidgetScenario(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	_, err := svc.CreateObject(ctx, "Widget__b", "Widget", "Widgets")
	require.NoError(t, err)

	res, err := svc.AddField(ctx, "Widget__b", text("Name__c", 50), objects.IndexSpec{Append: true, Direction: objects.SortAscending})
	require.NoError(t, err)
	assert.True(t, res.Indexed)
	assert.Equal(t, 0, res.Position)

	// Singleton form after the first indexed field.
	data, err := codec.MarshalObject(res.Object)
	require.NoError(t, err)
	doc, err := codec.Unmarshal(data)
	require.NoError(t, err)
	indexes, ok := doc.Body.Child("indexes")
	require.True(t, ok)
	_, bare := indexes.Child("fields")
	assert.True(t, bare)

	res, err = svc.AddField(ctx, "Widget__b", text("Code__c", 10), objects.IndexSpec{Append: true, Direction: objects.SortDescending})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Position)

	loaded, err := svc.Repository().LoadObject(ctx, "Widget__b")
	require.NoError(t, err)
	assert.Equal(t, []objects.IndexEntry{
		{FieldName: "Name__c", SortDirection: objects.SortAscending},
		{FieldName: "Code__c", SortDirection: objects.SortDescending},
	}, loaded.Index.Entries)
	assert.Equal(t, "WidgetIndex", loaded.Index.FullName)
	assert.Equal(t, "Widget Index", loaded.Index.Label)

	data, err = codec.MarshalObject(loaded)
	require.NoError(t, err)
	doc, err = codec.Unmarshal(data)
	require.NoError(t, err)
	indexes, _ = doc.Body.Child("indexes")
	assert.Len(t, indexes.Items("fields"), 2)
}

func TestService_AddField_Position(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	_, err := svc.CreateObject(ctx, "Widget__b", "Widget", "Widgets")
	require.NoError(t, err)
	_, err = svc.AddField(ctx, "Widget__b", text("A__c", 5), objects.IndexSpec{})
	require.NoError(t, err)
	_, err = svc.AddField(ctx, "Widget__b", text("B__c", 5), objects.IndexSpec{})
	require.NoError(t, err)

	res, err := svc.AddField(ctx, "Widget__b", text("C__c", 5), objects.IndexSpec{Position: objects.Int(0)})
	require.NoError(t, err)
	assert.Equal(t, []string{"C__c", "A__c", "B__c"}, res.Object.Index.Names())

	_, err = svc.AddField(ctx, "Widget__b", text("D__c", 5), objects.IndexSpec{Position: objects.Int(4)})
	assert.ErrorIs(t, err, objects.ErrInvalidPosition)

	// An invalid directive leaves no field file behind.
	exists, err := svc.Repository().FieldExists(ctx, "Widget__b", "D__c")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = svc.AddField(ctx, "Widget__b", text("D__c", 5), objects.IndexSpec{Append: true, Position: objects.Int(0)})
	assert.ErrorIs(t, err, objects.ErrInvalidPosition)
}

func TestService_AddField_DefaultDirectionFromConfig(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultConfig()
	cfg.DefaultDirection = objects.SortDescending
	svc := NewService(repository.NewObjectRepository(store.NewFileStore(t.TempDir()), cfg.Directory), cfg)

	_, err := svc.CreateObject(ctx, "Widget__b", "Widget", "Widgets")
	require.NoError(t, err)

	res, err := svc.AddField(ctx, "Widget__b", text("A__c", 5), objects.IndexSpec{})
	require.NoError(t, err)
	assert.Equal(t, objects.SortDescending, res.Object.Index.Entries[0].SortDirection)
}

func TestService_AddField_NoIndex(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	_, err := svc.CreateObject(ctx, "Widget__b", "Widget", "Widgets")
	require.NoError(t, err)

	res, err := svc.AddField(ctx, "Widget__b", text("Note__c", 80), objects.IndexSpec{NoIndex: true})
	require.NoError(t, err)
	assert.False(t, res.Indexed)

	loaded, err := svc.Repository().LoadObject(ctx, "Widget__b")
	require.NoError(t, err)
	assert.False(t, loaded.IsIndexed("Note__c"))
	assert.Equal(t, 0, loaded.Index.Len())

	fields, err := svc.Repository().ListFields(ctx, "Widget__b")
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "Note__c", fields[0].FullName)

	_, err = svc.AddField(ctx, "Widget__b", text("Other__c", 80), objects.IndexSpec{NoIndex: true, Append: true})
	assert.ErrorIs(t, err, objects.ErrInvalidPosition)
}

func TestService_AddField_Errors(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	_, err := svc.AddField(ctx, "Missing__b", text("A__c", 5), objects.IndexSpec{})
	assert.ErrorIs(t, err, objects.ErrNotFound)

	_, err = svc.CreateObject(ctx, "Widget__b", "Widget", "Widgets")
	require.NoError(t, err)

	_, err = svc.AddField(ctx, "Widget__b", text("A__c", 5), objects.IndexSpec{})
	require.NoError(t, err)

	_, err = svc.AddField(ctx, "Widget__b", text("A__c", 5), objects.IndexSpec{NoIndex: true})
	assert.ErrorIs(t, err, objects.ErrDuplicateField)

	bad := &objects.FieldDescriptor{FullName: "N__c", Label: "N", Type: objects.FieldTypeText, Length: objects.Int(5), Precision: objects.Int(3)}
	_, err = svc.AddField(ctx, "Widget__b", bad, objects.IndexSpec{})
	assert.ErrorIs(t, err, objects.ErrInvalidFieldSpec)

	loaded, err := svc.Repository().LoadObject(ctx, "Widget__b")
	require.NoError(t, err)
	assert.Equal(t, []string{"A__c"}, loaded.Index.Names())
}

func TestService_BuildPermissionSet(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	_, err := svc.BuildPermissionSet(ctx, "P", "Widget__b")
	assert.ErrorIs(t, err, objects.ErrNotFound)

	_, err = svc.CreateObject(ctx, "Widget__b", "Widget", "Widgets")
	require.NoError(t, err)

	ps, err := svc.BuildPermissionSet(ctx, "P", "Widget__b")
	require.NoError(t, err)
	assert.Empty(t, ps.FieldPermissions)

	a := text("A__c", 5)
	a.Required = true
	_, err = svc.AddField(ctx, "Widget__b", a, objects.IndexSpec{NoIndex: true})
	require.NoError(t, err)
	_, err = svc.AddField(ctx, "Widget__b", text("B__c", 5), objects.IndexSpec{NoIndex: true})
	require.NoError(t, err)
	_, err = svc.AddField(ctx, "Widget__b", text("C__c", 5), objects.IndexSpec{Append: true})
	require.NoError(t, err)

	ps, err = svc.BuildPermissionSet(ctx, "P", "Widget__b")
	require.NoError(t, err)
	assert.Equal(t, []objects.FieldPermission{{Field: "Widget__b.B__c", Readable: true, Editable: true}}, ps.FieldPermissions)
	require.Len(t, ps.ObjectPermissions, 1)
	assert.Equal(t, "Widget__b", ps.ObjectPermissions[0].Object)

	stored, err := svc.Repository().LoadPermissionSet(ctx, "P")
	require.NoError(t, err)
	assert.Equal(t, ps, stored)

	_, err = svc.BuildPermissionSet(ctx, "", "Widget__b")
	assert.Error(t, err)
}

func TestService_DescribeObject(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	_, err := svc.CreateObject(ctx, "Widget__b", "Widget", "Widgets")
	require.NoError(t, err)
	_, err = svc.AddField(ctx, "Widget__b", text("B__c", 5), objects.IndexSpec{Direction: objects.SortDescending})
	require.NoError(t, err)
	_, err = svc.AddField(ctx, "Widget__b", text("A__c", 5), objects.IndexSpec{NoIndex: true})
	require.NoError(t, err)

	desc, err := svc.DescribeObject(ctx, "Widget__b")
	require.NoError(t, err)
	require.Len(t, desc.Fields, 2)

	assert.Equal(t, "A__c", desc.Fields[0].Field.FullName)
	assert.Equal(t, -1, desc.Fields[0].IndexPosition)
	assert.Equal(t, "B__c", desc.Fields[1].Field.FullName)
	assert.Equal(t, 0, desc.Fields[1].IndexPosition)
	assert.Equal(t, objects.SortDescending, desc.Fields[1].Direction)
}

func TestService_BadgerStore(t *testing.T) {
	ctx := context.Background()
	s, err := store.NewMemoryBadgerStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	svc := NewService(repository.NewObjectRepository(s, config.DefaultDirectory), nil)

	_, err = svc.CreateObject(ctx, "Widget__b", "Widget", "Widgets")
	require.NoError(t, err)
	_, err = svc.AddField(ctx, "Widget__b", text("Name__c", 50), objects.IndexSpec{Append: true})
	require.NoError(t, err)
	_, err = svc.AddField(ctx, "Widget__b", text("Note__c", 50), objects.IndexSpec{NoIndex: true})
	require.NoError(t, err)

	ps, err := svc.BuildPermissionSet(ctx, "WidgetAccess", "Widget__b")
	require.NoError(t, err)
	assert.Equal(t, []objects.FieldPermission{{Field: "Widget__b.Note__c", Readable: true, Editable: true}}, ps.FieldPermissions)
}

// failingStore rejects writes to files with the given suffix.
type failingStore struct {
	store.Store
	suffix string
}

func (s *failingStore) Write(ctx context.Context, p string, data []byte) error {
	if strings.HasSuffix(p, s.suffix) {
		return errors.New("disk full")
	}
	return s.Store.Write(ctx, p, data)
}

func TestService_AddField_WriteOrdering(t *testing.T) {
	ctx := context.Background()
	base := store.NewFileStore(t.TempDir())
	ok := NewService(repository.NewObjectRepository(base, config.DefaultDirectory), nil)

	_, err := ok.CreateObject(ctx, "Widget__b", "Widget", "Widgets")
	require.NoError(t, err)
	_, err = ok.AddField(ctx, "Widget__b", text("A__c", 5), objects.IndexSpec{Append: true})
	require.NoError(t, err)

	// A failed field write leaves the index as it was.
	fieldFails := NewService(repository.NewObjectRepository(&failingStore{Store: base, suffix: repository.FieldSuffix}, config.DefaultDirectory), nil)
	_, err = fieldFails.AddField(ctx, "Widget__b", text("B__c", 5), objects.IndexSpec{Append: true})
	require.Error(t, err)

	loaded, err := ok.Repository().LoadObject(ctx, "Widget__b")
	require.NoError(t, err)
	assert.Equal(t, []string{"A__c"}, loaded.Index.Names())
	exists, err := ok.Repository().FieldExists(ctx, "Widget__b", "B__c")
	require.NoError(t, err)
	assert.False(t, exists)

	// A failed descriptor rewrite keeps the field file that was written first.
	objectFails := NewService(repository.NewObjectRepository(&failingStore{Store: base, suffix: repository.ObjectSuffix}, config.DefaultDirectory), nil)
	_, err = objectFails.AddField(ctx, "Widget__b", text("C__c", 5), objects.IndexSpec{Position: objects.Int(0)})
	require.Error(t, err)

	loaded, err = ok.Repository().LoadObject(ctx, "Widget__b")
	require.NoError(t, err)
	assert.Equal(t, []string{"A__c"}, loaded.Index.Names())
	exists, err = ok.Repository().FieldExists(ctx, "Widget__b", "C__c")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestService_RejectsNamesOutsideTheLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	svc := NewService(repository.NewObjectRepository(store.NewFileStore(dir), config.DefaultDirectory), nil)

	for _, name := range []string{"../../../../escape__b", "a/b__b", "1Widget__b", "Wid get__b", "__b"} {
		_, err := svc.CreateObject(ctx, name, "Esc", "Escs")
		assert.ErrorIs(t, err, objects.ErrInvalidObjectSpec, name)
	}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = svc.CreateObject(ctx, "Widget__b", "Widget", "Widgets")
	require.NoError(t, err)

	for _, name := range []string{"../../x__c", "a/b__c", "_x__c"} {
		_, err = svc.AddField(ctx, "Widget__b", text(name, 5), objects.IndexSpec{NoIndex: true})
		assert.ErrorIs(t, err, objects.ErrInvalidFieldSpec, name)
	}

	_, err = svc.AddField(ctx, "../Widget__b", text("A__c", 5), objects.IndexSpec{})
	assert.ErrorIs(t, err, objects.ErrInvalidObjectSpec)

	_, err = svc.BuildPermissionSet(ctx, "../../P", "Widget__b")
	assert.ErrorIs(t, err, objects.ErrInvalidObjectSpec)

	fields, err := svc.Repository().ListFields(ctx, "Widget__b")
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestService_AddField_CanonicalDirectionFromConfigFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("default_direction: desc\n"), 0600))

	cfg, err := config.LoadFrom(configPath, "")
	require.NoError(t, err)
	s := store.NewFileStore(dir)
	svc := NewService(repository.NewObjectRepository(s, cfg.Directory), cfg)

	_, err = svc.CreateObject(ctx, "Widget__b", "Widget", "Widgets")
	require.NoError(t, err)
	_, err = svc.AddField(ctx, "Widget__b", text("A__c", 5), objects.IndexSpec{})
	require.NoError(t, err)

	data, err := s.Read(ctx, svc.Repository().ObjectPath("Widget__b"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<sortDirection>DESC</sortDirection>")

	// A config built in code is normalized the same way.
	lower := config.DefaultConfig()
	lower.DefaultDirection = "desc"
	svc = NewService(repository.NewObjectRepository(s, cfg.Directory), lower)
	res, err := svc.AddField(ctx, "Widget__b", text("B__c", 5), objects.IndexSpec{})
	require.NoError(t, err)
	assert.Equal(t, objects.SortDescending, res.Object.Index.Entries[1].SortDirection)
}
