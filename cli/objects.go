// ABOUTME: Big object CLI commands
// ABOUTME: object create, object field and object describe
package cli

import (
	"fmt"
	"strconv"

	"github.com/harperreed/bigmeta/metadata"
	"github.com/harperreed/bigmeta/objects"
	"github.com/spf13/cobra"
)

func newObjectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "object",
		Short: "Create and modify big objects",
	}
	cmd.AddCommand(
		newObjectCreateCmd(a),
		newObjectFieldCmd(a),
		newObjectDescribeCmd(a),
		newObjectGraphCmd(a),
	)
	return cmd
}

func newObjectCreateCmd(a *app) *cobra.Command {
	var api, label, plural string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a big object with an empty index",
		Args:  cobra.NoArgs,
		RunE: a.withService(func(cmd *cobra.Command, args []string, svc *metadata.Service) error {
			obj, err := svc.CreateObject(cmd.Context(), api, label, plural)
			if err != nil {
				return fmt.Errorf("failed to create object: %w", err)
			}

			p := newPrinter(cmd.OutOrStdout())
			p.Success("Big object created: %s", obj.APIName)
			p.Detail("Label", obj.Label)
			p.Detail("Plural", obj.PluralLabel)
			p.Detail("Path", svc.Repository().ObjectPath(obj.APIName))
			a.logger.Debug("object created", "api", obj.APIName, "index", obj.Index.FullName)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&api, "api", "a", "", "API name ending in __b (required)")
	cmd.Flags().StringVarP(&label, "label", "l", "", "Label (required)")
	cmd.Flags().StringVarP(&plural, "plural", "p", "", "Plural label (required)")
	_ = cmd.MarkFlagRequired("api")
	_ = cmd.MarkFlagRequired("label")
	_ = cmd.MarkFlagRequired("plural")
	return cmd
}

// fieldFlags mirror the field descriptor constraints; unset numeric flags
// stay out of the descriptor.
type fieldFlags struct {
	object           string
	api              string
	label            string
	fieldType        string
	required         bool
	length           int
	precision        int
	scale            int
	visibleLines     int
	referenceTo      string
	relationshipName string
	defaultValue     bool

	noIndex        bool
	indexAppend    bool
	indexPosition  int
	indexDirection string
}

func (f *fieldFlags) descriptor(cmd *cobra.Command) (*objects.FieldDescriptor, error) {
	fieldType, err := objects.ParseFieldType(f.fieldType)
	if err != nil {
		return nil, err
	}

	d := &objects.FieldDescriptor{
		FullName:         f.api,
		Label:            f.label,
		Type:             fieldType,
		Required:         f.required,
		ReferenceTo:      f.referenceTo,
		RelationshipName: f.relationshipName,
	}

	changed := cmd.Flags().Changed
	if changed("length") {
		d.Length = objects.Int(f.length)
	}
	if changed("precision") {
		d.Precision = objects.Int(f.precision)
	}
	if changed("scale") {
		d.Scale = objects.Int(f.scale)
	}
	if changed("visibleLines") {
		d.VisibleLines = objects.Int(f.visibleLines)
	}
	if changed("defaultValue") {
		d.DefaultValue = objects.Bool(f.defaultValue)
	}
	return d, nil
}

func (f *fieldFlags) indexSpec(cmd *cobra.Command) (objects.IndexSpec, error) {
	spec := objects.IndexSpec{
		NoIndex: f.noIndex,
		Append:  f.indexAppend,
	}
	if cmd.Flags().Changed("indexPosition") {
		spec.Position = objects.Int(f.indexPosition)
	}
	if f.indexDirection != "" {
		dir, err := objects.ParseSortDirection(f.indexDirection)
		if err != nil {
			return spec, err
		}
		spec.Direction = dir
	}
	return spec, spec.Validate()
}

func newObjectFieldCmd(a *app) *cobra.Command {
	f := &fieldFlags{}

	cmd := &cobra.Command{
		Use:   "field",
		Short: "Add a field to a big object and place it in the index",
		Args:  cobra.NoArgs,
		RunE: a.withService(func(cmd *cobra.Command, args []string, svc *metadata.Service) error {
			field, err := f.descriptor(cmd)
			if err != nil {
				return err
			}
			spec, err := f.indexSpec(cmd)
			if err != nil {
				return err
			}

			res, err := svc.AddField(cmd.Context(), f.object, field, spec)
			if err != nil {
				return fmt.Errorf("failed to add field: %w", err)
			}

			p := newPrinter(cmd.OutOrStdout())
			p.Success("Field created: %s.%s", res.Object.APIName, res.Field.FullName)
			p.Detail("Type", string(res.Field.Type))
			p.Detail("Path", svc.Repository().FieldPath(res.Object.APIName, res.Field.FullName))
			if res.Indexed {
				entry := res.Object.Index.Entries[res.Position]
				p.Detail("Index", fmt.Sprintf("position %d of %d, %s", res.Position, res.Object.Index.Len(), entry.SortDirection))
			} else {
				p.Note("  not indexed")
			}
			return nil
		}),
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.object, "object", "o", "", "Big object API name (required)")
	fl.StringVarP(&f.api, "api", "a", "", "Field API name ending in __c (required)")
	fl.StringVarP(&f.label, "name", "n", "", "Field label (required)")
	fl.StringVarP(&f.fieldType, "type", "t", "", fmt.Sprintf("Field type: %v", objects.FieldTypes()))
	fl.BoolVarP(&f.required, "required", "r", false, "Field is required")
	fl.IntVarP(&f.length, "length", "l", 0, "Length for Text and LongTextArea")
	fl.IntVar(&f.precision, "precision", 0, "Precision for Number")
	fl.IntVar(&f.scale, "scale", 0, "Scale for Number")
	fl.IntVar(&f.visibleLines, "visibleLines", 0, "Visible lines for LongTextArea")
	fl.StringVar(&f.referenceTo, "referenceTo", "", "Referenced object for Lookup")
	fl.StringVar(&f.relationshipName, "relationshipName", "", "Relationship name for Lookup")
	fl.BoolVar(&f.defaultValue, "defaultValue", false, "Default value for Checkbox")
	fl.BoolVar(&f.noIndex, "noIndex", false, "Do not add the field to the index")
	fl.BoolVar(&f.indexAppend, "indexAppend", false, "Append the field to the end of the index")
	fl.IntVar(&f.indexPosition, "indexPosition", 0, "Zero-based index position for the field")
	fl.StringVar(&f.indexDirection, "indexDirection", "", "Index sort direction: ASC or DESC")
	_ = cmd.MarkFlagRequired("object")
	_ = cmd.MarkFlagRequired("api")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("type")
	cmd.MarkFlagsMutuallyExclusive("indexAppend", "indexPosition")
	cmd.MarkFlagsMutuallyExclusive("noIndex", "indexAppend")
	cmd.MarkFlagsMutuallyExclusive("noIndex", "indexPosition")
	return cmd
}

func newObjectDescribeCmd(a *app) *cobra.Command {
	var api string

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Show a big object with its fields and index",
		Args:  cobra.NoArgs,
		RunE: a.withService(func(cmd *cobra.Command, args []string, svc *metadata.Service) error {
			desc, err := svc.DescribeObject(cmd.Context(), api)
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			obj := desc.Object
			p.Success("%s (%s / %s)", obj.APIName, obj.Label, obj.PluralLabel)
			p.Detail("Status", string(obj.DeploymentStatus))
			if obj.Index != nil {
				p.Detail("Index", fmt.Sprintf("%s (%s)", obj.Index.FullName, obj.Index.Label))
			}

			if len(desc.Fields) == 0 {
				p.Note("No fields")
				return nil
			}

			rows := make([][]string, 0, len(desc.Fields))
			for _, fs := range desc.Fields {
				rows = append(rows, fieldRow(fs))
			}
			p.Table([]string{"FIELD", "LABEL", "TYPE", "REQUIRED", "INDEX", "DIRECTION"}, rows)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&api, "api", "a", "", "Big object API name (required)")
	_ = cmd.MarkFlagRequired("api")
	return cmd
}

func fieldRow(fs metadata.FieldSummary) []string {
	index, direction := "-", "-"
	if fs.IndexPosition >= 0 {
		index = strconv.Itoa(fs.IndexPosition)
		direction = string(fs.Direction)
	}
	return []string{
		fs.Field.FullName,
		fs.Field.Label,
		string(fs.Field.Type),
		strconv.FormatBool(fs.Field.Required),
		index,
		direction,
	}
}
