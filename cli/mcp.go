// ABOUTME: MCP server subcommand
// ABOUTME: Serves the big object tools, resources and prompts over stdio
package cli

import (
	"github.com/harperreed/bigmeta/handlers"
	"github.com/harperreed/bigmeta/metadata"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: a.withService(func(cmd *cobra.Command, args []string, svc *metadata.Service) error {
			a.logger.Info("Starting bigmeta MCP server", "directory", a.cfg.Directory, "store", a.cfg.Store.Driver)
			server := NewMCPServer(svc, a.version)
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		}),
	}
}

// NewMCPServer registers every tool, resource template and prompt.
func NewMCPServer(svc *metadata.Service, version string) *mcp.Server {
	objectHandlers := handlers.NewBigObjectHandlers(svc)
	resourceHandlers := handlers.NewResourceHandlers(svc)
	promptHandlers := handlers.NewPromptHandlers(svc)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "bigmeta",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_big_object",
		Description: "Create a big object descriptor with an empty index",
	}, objectHandlers.CreateBigObject)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_big_object_field",
		Description: "Add a field to a big object and place it in the composite index unless no_index is set",
	}, objectHandlers.AddBigObjectField)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "build_permission_set",
		Description: "Create or replace a permission set granting access to a big object's non-required, non-indexed fields",
	}, objectHandlers.BuildPermissionSet)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "describe_big_object",
		Description: "Show a big object with its fields and index columns",
	}, objectHandlers.DescribeBigObject)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		Name:        "big_object",
		URITemplate: handlers.ObjectResourceTemplate,
		MIMEType:    "application/json",
		Description: "Big object description with fields and index",
	}, resourceHandlers.ReadResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		Name:        "permission_set",
		URITemplate: handlers.PermissionResourceTemplate,
		MIMEType:    "application/xml",
		Description: "Permission set metadata file",
	}, resourceHandlers.ReadResource)

	for _, prompt := range promptHandlers.Prompts() {
		server.AddPrompt(prompt, promptHandlers.GetPrompt)
	}

	return server
}
