// ABOUTME: Big object MCP tool handlers
// ABOUTME: Implements create_big_object, add_big_object_field, build_permission_set and describe_big_object
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/bigmeta/metadata"
	"github.com/harperreed/bigmeta/objects"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type BigObjectHandlers struct {
	svc *metadata.Service
}

func NewBigObjectHandlers(svc *metadata.Service) *BigObjectHandlers {
	return &BigObjectHandlers{svc: svc}
}

type CreateBigObjectInput struct {
	APIName     string `json:"api_name" jsonschema:"Big object API name ending in __b (required)"`
	Label       string `json:"label" jsonschema:"Object label (required)"`
	PluralLabel string `json:"plural_label" jsonschema:"Plural label (required)"`
}

type IndexEntryOutput struct {
	Field         string `json:"field"`
	SortDirection string `json:"sort_direction"`
}

type BigObjectOutput struct {
	APIName          string             `json:"api_name"`
	Label            string             `json:"label"`
	PluralLabel      string             `json:"plural_label"`
	DeploymentStatus string             `json:"deployment_status"`
	IndexFullName    string             `json:"index_full_name,omitempty"`
	IndexLabel       string             `json:"index_label,omitempty"`
	Index            []IndexEntryOutput `json:"index"`
}

func (h *BigObjectHandlers) CreateBigObject(ctx context.Context, request *mcp.CallToolRequest, input CreateBigObjectInput) (*mcp.CallToolResult, BigObjectOutput, error) {
	obj, err := h.svc.CreateObject(ctx, input.APIName, input.Label, input.PluralLabel)
	if err != nil {
		return nil, BigObjectOutput{}, fmt.Errorf("failed to create big object: %w", err)
	}
	return nil, objectToOutput(obj), nil
}

type AddBigObjectFieldInput struct {
	Object           string `json:"object" jsonschema:"Big object API name (required)"`
	APIName          string `json:"api_name" jsonschema:"Field API name ending in __c (required)"`
	Label            string `json:"label" jsonschema:"Field label (required)"`
	Type             string `json:"type" jsonschema:"Field type: Text, Number, Checkbox, LongTextArea, DateTime or Lookup"`
	Required         bool   `json:"required,omitempty" jsonschema:"Whether the field is required"`
	Length           *int   `json:"length,omitempty" jsonschema:"Length for Text (1-255) and LongTextArea (256-131072)"`
	Precision        *int   `json:"precision,omitempty" jsonschema:"Precision for Number (1-18)"`
	Scale            *int   `json:"scale,omitempty" jsonschema:"Scale for Number (0-precision)"`
	VisibleLines     *int   `json:"visible_lines,omitempty" jsonschema:"Visible lines for LongTextArea"`
	ReferenceTo      string `json:"reference_to,omitempty" jsonschema:"Referenced object for Lookup"`
	RelationshipName string `json:"relationship_name,omitempty" jsonschema:"Relationship name for Lookup"`
	DefaultValue     *bool  `json:"default_value,omitempty" jsonschema:"Default value for Checkbox"`
	NoIndex          bool   `json:"no_index,omitempty" jsonschema:"Leave the field out of the index"`
	IndexAppend      bool   `json:"index_append,omitempty" jsonschema:"Append the field to the end of the index"`
	IndexPosition    *int   `json:"index_position,omitempty" jsonschema:"Zero-based index position; entries at and after it shift right"`
	IndexDirection   string `json:"index_direction,omitempty" jsonschema:"Index sort direction ASC or DESC"`
}

type FieldOutput struct {
	APIName          string `json:"api_name"`
	Label            string `json:"label"`
	Type             string `json:"type"`
	Required         bool   `json:"required"`
	Length           *int   `json:"length,omitempty"`
	Precision        *int   `json:"precision,omitempty"`
	Scale            *int   `json:"scale,omitempty"`
	VisibleLines     *int   `json:"visible_lines,omitempty"`
	ReferenceTo      string `json:"reference_to,omitempty"`
	RelationshipName string `json:"relationship_name,omitempty"`
	DefaultValue     *bool  `json:"default_value,omitempty"`
	// IndexPosition is -1 when the field is not indexed
	IndexPosition int    `json:"index_position"`
	SortDirection string `json:"sort_direction,omitempty"`
}

type AddBigObjectFieldOutput struct {
	Object BigObjectOutput `json:"object"`
	Field  FieldOutput     `json:"field"`
}

func (h *BigObjectHandlers) AddBigObjectField(ctx context.Context, request *mcp.CallToolRequest, input AddBigObjectFieldInput) (*mcp.CallToolResult, AddBigObjectFieldOutput, error) {
	fieldType, err := objects.ParseFieldType(input.Type)
	if err != nil {
		return nil, AddBigObjectFieldOutput{}, err
	}

	field := &objects.FieldDescriptor{
		FullName:         input.APIName,
		Label:            input.Label,
		Type:             fieldType,
		Required:         input.Required,
		Length:           input.Length,
		Precision:        input.Precision,
		Scale:            input.Scale,
		VisibleLines:     input.VisibleLines,
		ReferenceTo:      input.ReferenceTo,
		RelationshipName: input.RelationshipName,
		DefaultValue:     input.DefaultValue,
	}

	spec := objects.IndexSpec{
		NoIndex:  input.NoIndex,
		Append:   input.IndexAppend,
		Position: input.IndexPosition,
	}
	if input.IndexDirection != "" {
		if spec.Direction, err = objects.ParseSortDirection(input.IndexDirection); err != nil {
			return nil, AddBigObjectFieldOutput{}, err
		}
	}

	res, err := h.svc.AddField(ctx, input.Object, field, spec)
	if err != nil {
		return nil, AddBigObjectFieldOutput{}, fmt.Errorf("failed to add field: %w", err)
	}

	out := AddBigObjectFieldOutput{
		Object: objectToOutput(res.Object),
		Field:  fieldToOutput(res.Field, -1, ""),
	}
	if res.Indexed {
		out.Field.IndexPosition = res.Position
		out.Field.SortDirection = string(res.Object.Index.Entries[res.Position].SortDirection)
	}
	return nil, out, nil
}

type BuildPermissionSetInput struct {
	Name   string `json:"name" jsonschema:"Permission set name (required)"`
	Object string `json:"object" jsonschema:"Big object API name (required)"`
}

type PermissionSetOutput struct {
	Name             string   `json:"name"`
	Label            string   `json:"label"`
	Object           string   `json:"object"`
	FieldPermissions []string `json:"field_permissions"`
}

func (h *BigObjectHandlers) BuildPermissionSet(ctx context.Context, request *mcp.CallToolRequest, input BuildPermissionSetInput) (*mcp.CallToolResult, PermissionSetOutput, error) {
	ps, err := h.svc.BuildPermissionSet(ctx, input.Name, input.Object)
	if err != nil {
		return nil, PermissionSetOutput{}, fmt.Errorf("failed to build permission set: %w", err)
	}

	out := PermissionSetOutput{
		Name:             ps.Name,
		Label:            ps.Label,
		Object:           input.Object,
		FieldPermissions: make([]string, 0, len(ps.FieldPermissions)),
	}
	for _, fp := range ps.FieldPermissions {
		out.FieldPermissions = append(out.FieldPermissions, fp.Field)
	}
	return nil, out, nil
}

type DescribeBigObjectInput struct {
	APIName string `json:"api_name" jsonschema:"Big object API name (required)"`
}

type DescribeBigObjectOutput struct {
	Object BigObjectOutput `json:"object"`
	Fields []FieldOutput   `json:"fields"`
}

func (h *BigObjectHandlers) DescribeBigObject(ctx context.Context, request *mcp.CallToolRequest, input DescribeBigObjectInput) (*mcp.CallToolResult, DescribeBigObjectOutput, error) {
	out, err := h.describe(ctx, input.APIName)
	if err != nil {
		return nil, DescribeBigObjectOutput{}, err
	}
	return nil, out, nil
}

func (h *BigObjectHandlers) describe(ctx context.Context, apiName string) (DescribeBigObjectOutput, error) {
	desc, err := h.svc.DescribeObject(ctx, apiName)
	if err != nil {
		return DescribeBigObjectOutput{}, fmt.Errorf("failed to describe big object: %w", err)
	}

	out := DescribeBigObjectOutput{
		Object: objectToOutput(desc.Object),
		Fields: make([]FieldOutput, 0, len(desc.Fields)),
	}
	for _, fs := range desc.Fields {
		out.Fields = append(out.Fields, fieldToOutput(fs.Field, fs.IndexPosition, fs.Direction))
	}
	return out, nil
}

func objectToOutput(obj *objects.ObjectDescriptor) BigObjectOutput {
	out := BigObjectOutput{
		APIName:          obj.APIName,
		Label:            obj.Label,
		PluralLabel:      obj.PluralLabel,
		DeploymentStatus: string(obj.DeploymentStatus),
		Index:            []IndexEntryOutput{},
	}
	if obj.Index != nil {
		out.IndexFullName = obj.Index.FullName
		out.IndexLabel = obj.Index.Label
		for _, e := range obj.Index.Entries {
			out.Index = append(out.Index, IndexEntryOutput{Field: e.FieldName, SortDirection: string(e.SortDirection)})
		}
	}
	return out
}

func fieldToOutput(f *objects.FieldDescriptor, position int, direction objects.SortDirection) FieldOutput {
	return FieldOutput{
		APIName:          f.FullName,
		Label:            f.Label,
		Type:             string(f.Type),
		Required:         f.Required,
		Length:           f.Length,
		Precision:        f.Precision,
		Scale:            f.Scale,
		VisibleLines:     f.VisibleLines,
		ReferenceTo:      f.ReferenceTo,
		RelationshipName: f.RelationshipName,
		DefaultValue:     f.DefaultValue,
		IndexPosition:    position,
		SortDirection:    string(direction),
	}
}
