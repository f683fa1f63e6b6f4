// ABOUTME: This file provides the repository for big object metadata files.
// ABOUTME: It maps descriptors onto the source directory layout through a Store and the codec.

package repository

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/harperreed/bigmeta/codec"
	"github.com/harperreed/bigmeta/objects"
	"github.com/harperreed/bigmeta/store"
)

// File suffixes of the source layout.
const (
	ObjectSuffix        = ".object-meta.xml"
	FieldSuffix         = ".field-meta.xml"
	PermissionSetSuffix = ".permissionset-meta.xml"
)

// ObjectRepository loads and saves big object metadata below a root
// directory:
//
//	<root>/objects/<ApiName>/<ApiName>.object-meta.xml
//	<root>/objects/<ApiName>/fields/<FieldApiName>.field-meta.xml
//	<root>/permissionsets/<PermSetName>.permissionset-meta.xml
type ObjectRepository struct {
	store store.Store
	root  string
}

// NewObjectRepository creates a repository rooted at root inside s.
func NewObjectRepository(s store.Store, root string) *ObjectRepository {
	return &ObjectRepository{store: s, root: root}
}

// Root returns the metadata root directory.
func (r *ObjectRepository) Root() string {
	return r.root
}

// ObjectPath is the location of the object descriptor file.
func (r *ObjectRepository) ObjectPath(apiName string) string {
	return path.Join(r.root, "objects", apiName, apiName+ObjectSuffix)
}

// FieldsDir is the directory holding the object's field files.
func (r *ObjectRepository) FieldsDir(apiName string) string {
	return path.Join(r.root, "objects", apiName, "fields")
}

// FieldPath is the location of one field descriptor file.
func (r *ObjectRepository) FieldPath(apiName, fieldName string) string {
	return path.Join(r.FieldsDir(apiName), fieldName+FieldSuffix)
}

// PermissionSetPath is the location of a permission set file.
func (r *ObjectRepository) PermissionSetPath(name string) string {
	return path.Join(r.root, "permissionsets", name+PermissionSetSuffix)
}

// CreateObject writes a new descriptor and its empty fields directory.
func (r *ObjectRepository) CreateObject(ctx context.Context, obj *objects.ObjectDescriptor) error {
	if obj == nil {
		return objects.ErrInvalidObjectSpec
	}
	if err := objects.ValidateObjectName(obj.APIName); err != nil {
		return err
	}

	exists, err := r.store.Exists(ctx, r.ObjectPath(obj.APIName))
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("object %s: %w", obj.APIName, objects.ErrAlreadyExists)
	}

	if err := r.SaveObject(ctx, obj); err != nil {
		return err
	}
	return r.store.EnsureDir(ctx, r.FieldsDir(obj.APIName))
}

// LoadObject reads the descriptor. A missing or unreadable descriptor is
// reported as not found; an unreadable one also matches ErrMalformedDescriptor.
func (r *ObjectRepository) LoadObject(ctx context.Context, apiName string) (*objects.ObjectDescriptor, error) {
	if err := objects.ValidateObjectName(apiName); err != nil {
		return nil, err
	}
	data, err := r.store.Read(ctx, r.ObjectPath(apiName))
	if errors.Is(err, store.ErrNotExist) {
		return nil, fmt.Errorf("object %s: %w", apiName, objects.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	obj, err := codec.UnmarshalObject(apiName, data)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w: %w", apiName, objects.ErrNotFound, err)
	}
	return obj, nil
}

// SaveObject overwrites the descriptor file.
func (r *ObjectRepository) SaveObject(ctx context.Context, obj *objects.ObjectDescriptor) error {
	if err := objects.ValidateObjectName(obj.APIName); err != nil {
		return err
	}
	data, err := codec.MarshalObject(obj)
	if err != nil {
		return err
	}
	return r.store.Write(ctx, r.ObjectPath(obj.APIName), data)
}

// FieldExists reports whether the object already has a field file by that name.
func (r *ObjectRepository) FieldExists(ctx context.Context, apiName, fieldName string) (bool, error) {
	if err := validateFieldLocation(apiName, fieldName); err != nil {
		return false, err
	}
	return r.store.Exists(ctx, r.FieldPath(apiName, fieldName))
}

// SaveField writes a field descriptor file.
func (r *ObjectRepository) SaveField(ctx context.Context, apiName string, f *objects.FieldDescriptor) error {
	if err := validateFieldLocation(apiName, f.FullName); err != nil {
		return err
	}
	data, err := codec.MarshalField(f)
	if err != nil {
		return err
	}
	return r.store.Write(ctx, r.FieldPath(apiName, f.FullName), data)
}

// ListFields reads every field file of the object in discovery order. An
// object without a fields directory has no fields.
func (r *ObjectRepository) ListFields(ctx context.Context, apiName string) ([]*objects.FieldDescriptor, error) {
	if err := objects.ValidateObjectName(apiName); err != nil {
		return nil, err
	}
	names, err := r.store.List(ctx, r.FieldsDir(apiName))
	if errors.Is(err, store.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var fields []*objects.FieldDescriptor
	for _, name := range names {
		if !strings.HasSuffix(name, FieldSuffix) {
			continue
		}
		p := path.Join(r.FieldsDir(apiName), name)
		data, err := r.store.Read(ctx, p)
		if err != nil {
			return nil, err
		}
		f, err := codec.UnmarshalField(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// SavePermissionSet writes the permission set, replacing any existing file.
func (r *ObjectRepository) SavePermissionSet(ctx context.Context, ps *objects.PermissionSet) error {
	if err := objects.ValidatePermissionSetName(ps.Name); err != nil {
		return err
	}
	data, err := codec.MarshalPermissionSet(ps)
	if err != nil {
		return err
	}
	return r.store.Write(ctx, r.PermissionSetPath(ps.Name), data)
}

// LoadPermissionSet reads a permission set file.
func (r *ObjectRepository) LoadPermissionSet(ctx context.Context, name string) (*objects.PermissionSet, error) {
	if err := objects.ValidatePermissionSetName(name); err != nil {
		return nil, err
	}
	data, err := r.store.Read(ctx, r.PermissionSetPath(name))
	if errors.Is(err, store.ErrNotExist) {
		return nil, fmt.Errorf("permission set %s: %w", name, objects.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return codec.UnmarshalPermissionSet(name, data)
}

// Names become path segments, so they are checked before any store access.
func validateFieldLocation(apiName, fieldName string) error {
	if err := objects.ValidateObjectName(apiName); err != nil {
		return err
	}
	return objects.ValidateFieldName(fieldName)
}
