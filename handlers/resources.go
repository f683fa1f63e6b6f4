// ABOUTME: MCP resource handlers for exposing big object metadata
// ABOUTME: Provides read-only access to object descriptions and permission set XML via URI
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harperreed/bigmeta/codec"
	"github.com/harperreed/bigmeta/metadata"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// URI scheme and templates served by ReadResource.
const (
	ResourceScheme             = "bigmeta://"
	ObjectResourceTemplate     = ResourceScheme + "objects/{api_name}"
	PermissionResourceTemplate = ResourceScheme + "permissionsets/{name}"
)

type ResourceHandlers struct {
	svc     *metadata.Service
	objects *BigObjectHandlers
}

func NewResourceHandlers(svc *metadata.Service) *ResourceHandlers {
	return &ResourceHandlers{svc: svc, objects: NewBigObjectHandlers(svc)}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, ResourceScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", ResourceScheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, ResourceScheme), "/")
	if len(parts) != 2 || parts[1] == "" {
		return nil, fmt.Errorf("unknown resource: %s", uri)
	}

	switch parts[0] {
	case "objects":
		return h.readObject(ctx, uri, parts[1])
	case "permissionsets":
		return h.readPermissionSet(ctx, uri, parts[1])
	default:
		return nil, fmt.Errorf("unknown resource: %s", uri)
	}
}

func (h *ResourceHandlers) readObject(ctx context.Context, uri, apiName string) (*mcp.ReadResourceResult, error) {
	desc, err := h.objects.describe(ctx, apiName)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal object: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}

func (h *ResourceHandlers) readPermissionSet(ctx context.Context, uri, name string) (*mcp.ReadResourceResult, error) {
	ps, err := h.svc.Repository().LoadPermissionSet(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load permission set: %w", err)
	}

	data, err := codec.MarshalPermissionSet(ps)
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/xml",
			Text:     string(data),
		},
	}}, nil
}
