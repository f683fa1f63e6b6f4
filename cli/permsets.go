// ABOUTME: Permission set CLI command
// ABOUTME: permset create builds a permission set from a big object's fields
package cli

import (
	"fmt"

	"github.com/harperreed/bigmeta/metadata"
	"github.com/spf13/cobra"
)

func newPermsetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "permset",
		Short: "Build permission sets",
	}
	cmd.AddCommand(newPermsetCreateCmd(a))
	return cmd
}

func newPermsetCreateCmd(a *app) *cobra.Command {
	var name, object string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create or replace a permission set granting access to a big object",
		Long: `Create or replace a permission set granting access to a big object.

Every field of the object gets read and edit access except required fields
and fields that are part of the object's index.`,
		Args: cobra.NoArgs,
		RunE: a.withService(func(cmd *cobra.Command, args []string, svc *metadata.Service) error {
			ps, err := svc.BuildPermissionSet(cmd.Context(), name, object)
			if err != nil {
				return fmt.Errorf("failed to build permission set: %w", err)
			}

			p := newPrinter(cmd.OutOrStdout())
			p.Success("Permission set written: %s", ps.Name)
			p.Detail("Object", object)
			p.Detail("Path", svc.Repository().PermissionSetPath(ps.Name))
			p.Detail("Fields", fmt.Sprintf("%d", len(ps.FieldPermissions)))
			for _, fp := range ps.FieldPermissions {
				p.Note("    %s", fp.Field)
			}
			return nil
		}),
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Permission set name (required)")
	cmd.Flags().StringVarP(&object, "object", "o", "", "Big object API name (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("object")
	return cmd
}
