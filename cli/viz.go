// ABOUTME: Visualization CLI command
// ABOUTME: object graph renders a big object's fields and index with graphviz
package cli

import (
	"os"

	"github.com/harperreed/bigmeta/metadata"
	"github.com/harperreed/bigmeta/viz"
	"github.com/spf13/cobra"
)

func newObjectGraphCmd(a *app) *cobra.Command {
	var api, format, output string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render a big object's fields and index as a graph",
		Args:  cobra.NoArgs,
		RunE: a.withService(func(cmd *cobra.Command, args []string, svc *metadata.Service) error {
			f, err := viz.ParseFormat(format)
			if err != nil {
				return err
			}

			desc, err := svc.DescribeObject(cmd.Context(), api)
			if err != nil {
				return err
			}

			data, err := viz.NewGraphGenerator(f).GenerateObjectGraph(cmd.Context(), desc)
			if err != nil {
				return err
			}

			if output != "" {
				return os.WriteFile(output, data, 0644)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}),
	}

	cmd.Flags().StringVarP(&api, "api", "a", "", "Big object API name (required)")
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "Output format: dot, svg or png")
	cmd.Flags().StringVarP(&output, "output", "O", "", "Output file (default: stdout)")
	_ = cmd.MarkFlagRequired("api")
	return cmd
}
