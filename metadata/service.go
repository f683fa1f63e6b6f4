// ABOUTME: Big object metadata operations: create object, add field, build permission set
// ABOUTME: Each call is one load-mutate-save cycle against the repository
package metadata

import (
	"context"
	"fmt"

	"github.com/harperreed/bigmeta/config"
	"github.com/harperreed/bigmeta/objects"
	"github.com/harperreed/bigmeta/repository"
)

// Service runs metadata operations against one repository with an explicit
// configuration.
type Service struct {
	repo *repository.ObjectRepository
	cfg  *config.Config
}

// NewService creates a service; a nil cfg means defaults.
func NewService(repo *repository.ObjectRepository, cfg *config.Config) *Service {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Service{repo: repo, cfg: cfg}
}

// Repository exposes the underlying repository.
func (s *Service) Repository() *repository.ObjectRepository {
	return s.repo
}

// CreateObject writes a new big object descriptor with an empty index.
func (s *Service) CreateObject(ctx context.Context, apiName, label, pluralLabel string) (*objects.ObjectDescriptor, error) {
	obj, err := objects.NewObjectDescriptor(apiName, label, pluralLabel)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateObject(ctx, obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// AddFieldResult reports what a field-creation call changed.
type AddFieldResult struct {
	Object  *objects.ObjectDescriptor
	Field   *objects.FieldDescriptor
	Indexed bool
	// Position is the field's place in the index when Indexed
	Position int
}

// AddField validates and writes a new field, then places it in the object's
// index unless idx.NoIndex is set. The field file is written before the
// object descriptor so the index never names a field that does not exist.
func (s *Service) AddField(ctx context.Context, objectAPIName string, field *objects.FieldDescriptor, idx objects.IndexSpec) (*AddFieldResult, error) {
	obj, err := s.repo.LoadObject(ctx, objectAPIName)
	if err != nil {
		return nil, err
	}

	field.Normalize()
	if err := field.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.FieldExists(ctx, obj.APIName, field.FullName)
	if err != nil {
		return nil, err
	}
	if exists || obj.IsIndexed(field.FullName) {
		return nil, fmt.Errorf("%w: %s already exists on %s", objects.ErrDuplicateField, field.FullName, obj.APIName)
	}

	var (
		position  int
		direction objects.SortDirection
	)
	if !idx.NoIndex {
		if position, err = obj.ResolveIndexPosition(idx); err != nil {
			return nil, err
		}
		direction = idx.Direction
		if direction == "" {
			direction = s.cfg.DefaultDirection
		}
		if direction, err = objects.ParseSortDirection(string(direction)); err != nil {
			return nil, err
		}
	} else if err := idx.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.SaveField(ctx, obj.APIName, field); err != nil {
		return nil, fmt.Errorf("failed to write field %s: %w", field.FullName, err)
	}

	result := &AddFieldResult{Object: obj, Field: field}
	if idx.NoIndex {
		return result, nil
	}

	if err := obj.IndexField(field.FullName, position, direction); err != nil {
		return nil, err
	}
	if err := s.repo.SaveObject(ctx, obj); err != nil {
		return nil, fmt.Errorf("failed to update object %s: %w", obj.APIName, err)
	}

	result.Indexed = true
	result.Position = position
	return result, nil
}

// BuildPermissionSet derives a permission set for the object from its field
// files and writes it, replacing any permission set of the same name.
func (s *Service) BuildPermissionSet(ctx context.Context, name, objectAPIName string) (*objects.PermissionSet, error) {
	if err := objects.ValidatePermissionSetName(name); err != nil {
		return nil, err
	}

	obj, err := s.repo.LoadObject(ctx, objectAPIName)
	if err != nil {
		return nil, err
	}

	fields, err := s.repo.ListFields(ctx, obj.APIName)
	if err != nil {
		return nil, err
	}

	ps := objects.SynthesizePermissionSet(name, obj, fields)
	if err := s.repo.SavePermissionSet(ctx, ps); err != nil {
		return nil, err
	}
	return ps, nil
}

// FieldSummary is a field together with its derived index placement.
type FieldSummary struct {
	Field *objects.FieldDescriptor
	// IndexPosition is -1 for fields outside the index
	IndexPosition int
	Direction     objects.SortDirection
}

// Description is an object with all of its fields.
type Description struct {
	Object *objects.ObjectDescriptor
	Fields []FieldSummary
}

// DescribeObject loads the object and its fields, marking indexed ones.
func (s *Service) DescribeObject(ctx context.Context, objectAPIName string) (*Description, error) {
	obj, err := s.repo.LoadObject(ctx, objectAPIName)
	if err != nil {
		return nil, err
	}

	fields, err := s.repo.ListFields(ctx, obj.APIName)
	if err != nil {
		return nil, err
	}

	desc := &Description{Object: obj}
	for _, f := range fields {
		summary := FieldSummary{Field: f, IndexPosition: -1}
		if obj.Index != nil {
			for i, e := range obj.Index.Entries {
				if e.FieldName == f.FullName {
					summary.IndexPosition = i
					summary.Direction = e.SortDirection
				}
			}
		}
		desc.Fields = append(desc.Fields, summary)
	}
	return desc, nil
}
