// ABOUTME: MCP prompt handlers for big object design workflows
// ABOUTME: Provides prompts that ground the model in an object's current fields and index
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/bigmeta/metadata"
	"github.com/harperreed/bigmeta/objects"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Prompt names served by GetPrompt.
const (
	PromptIndexReview  = "index-review"
	PromptAccessReview = "access-review"
)

type PromptHandlers struct {
	svc *metadata.Service
}

func NewPromptHandlers(svc *metadata.Service) *PromptHandlers {
	return &PromptHandlers{svc: svc}
}

// Prompts lists the prompt definitions for registration.
func (h *PromptHandlers) Prompts() []*mcp.Prompt {
	arg := []*mcp.PromptArgument{{
		Name:        "object",
		Description: "Big object API name",
		Required:    true,
	}}
	return []*mcp.Prompt{
		{
			Name:        PromptIndexReview,
			Description: "Review a big object's composite index against its fields and suggest a column order",
			Arguments:   arg,
		},
		{
			Name:        PromptAccessReview,
			Description: "Explain which fields a generated permission set would grant and why",
			Arguments:   arg,
		},
	}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	object, ok := request.Params.Arguments["object"]
	if !ok || object == "" {
		return nil, fmt.Errorf("object is required")
	}

	desc, err := h.svc.DescribeObject(ctx, object)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch big object: %w", err)
	}

	switch request.Params.Name {
	case PromptIndexReview:
		return h.indexReviewPrompt(desc), nil
	case PromptAccessReview:
		return h.accessReviewPrompt(desc), nil
	default:
		return nil, fmt.Errorf("unknown prompt: %s", request.Params.Name)
	}
}

func writeFields(b *strings.Builder, desc *metadata.Description) {
	if len(desc.Fields) == 0 {
		b.WriteString("The object has no fields yet.\n")
		return
	}
	b.WriteString("Fields:\n")
	for _, fs := range desc.Fields {
		fmt.Fprintf(b, "- %s (%s, label %q", fs.Field.FullName, fs.Field.Type, fs.Field.Label)
		if fs.Field.Required {
			b.WriteString(", required")
		}
		if fs.IndexPosition >= 0 {
			fmt.Fprintf(b, ", index column %d %s", fs.IndexPosition, fs.Direction)
		}
		b.WriteString(")\n")
	}
}

func userPrompt(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: text},
			},
		},
	}
}

func (h *PromptHandlers) indexReviewPrompt(desc *metadata.Description) *mcp.GetPromptResult {
	var b strings.Builder
	obj := desc.Object
	fmt.Fprintf(&b, "Please review the composite index of the big object %s (%s).\n\n", obj.APIName, obj.Label)

	if obj.Index.Len() == 0 {
		b.WriteString("The index has no columns yet.\n")
	} else {
		b.WriteString("Current index column order:\n")
		for i, e := range obj.Index.Entries {
			fmt.Fprintf(&b, "%d. %s %s\n", i, e.FieldName, e.SortDirection)
		}
	}
	b.WriteString("\n")
	writeFields(&b, desc)

	b.WriteString("\nQueries against a big object must filter on index columns in order, starting with the first. ")
	b.WriteString("Suggest a column order and sort directions for the expected query patterns, ")
	b.WriteString("and list any fields that should be added to or kept out of the index. ")
	b.WriteString("New columns can be placed with add_big_object_field using index_position or index_append.")

	return userPrompt(fmt.Sprintf("Index review for %s", obj.APIName), b.String())
}

func (h *PromptHandlers) accessReviewPrompt(desc *metadata.Description) *mcp.GetPromptResult {
	var b strings.Builder
	obj := desc.Object
	fmt.Fprintf(&b, "Please explain the field access a permission set for %s would grant.\n\n", obj.APIName)
	writeFields(&b, desc)

	var granted, excluded []string
	for _, fs := range desc.Fields {
		if objects.ExcludedFromPermissions(obj, fs.Field) {
			excluded = append(excluded, fs.Field.FullName)
		} else {
			granted = append(granted, fs.Field.FullName)
		}
	}

	fmt.Fprintf(&b, "\nGranted read and edit: %s\n", joinOrNone(granted))
	fmt.Fprintf(&b, "Left out (required or indexed): %s\n", joinOrNone(excluded))
	b.WriteString("\nConfirm this matches the intended access and point out fields whose required or indexed status looks wrong.")

	return userPrompt(fmt.Sprintf("Access review for %s", obj.APIName), b.String())
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}
