// ABOUTME: CustomField encoding for field descriptors
// ABOUTME: Writes only the constraints present and required only when true
package codec

import (
	"fmt"
	"strconv"

	"github.com/harperreed/bigmeta/objects"
)

// RootCustomField is the root element of a field descriptor file.
const RootCustomField = "CustomField"

// EncodeField builds the document tree for a field descriptor.
func EncodeField(f *objects.FieldDescriptor) Document {
	body := NewNode()
	body.Set("fullName", f.FullName)
	if f.DefaultValue != nil {
		body.Set("defaultValue", strconv.FormatBool(*f.DefaultValue))
	}
	body.Set("label", f.Label)
	if f.Length != nil {
		body.Set("length", strconv.Itoa(*f.Length))
	}
	if f.Precision != nil {
		body.Set("precision", strconv.Itoa(*f.Precision))
	}
	if f.ReferenceTo != "" {
		body.Set("referenceTo", f.ReferenceTo)
	}
	if f.RelationshipName != "" {
		body.Set("relationshipName", f.RelationshipName)
	}
	if f.Required {
		body.Set("required", "true")
	}
	if f.Scale != nil {
		body.Set("scale", strconv.Itoa(*f.Scale))
	}
	body.Set("type", string(f.Type))
	if f.VisibleLines != nil {
		body.Set("visibleLines", strconv.Itoa(*f.VisibleLines))
	}

	return Document{Root: RootCustomField, Body: body}
}

// DecodeField rebuilds a field descriptor.
func DecodeField(doc Document) (*objects.FieldDescriptor, error) {
	if doc.Root != RootCustomField {
		return nil, malformed("expected %s root, got %s", RootCustomField, doc.Root)
	}
	body := doc.Body

	f := &objects.FieldDescriptor{
		FullName:         body.Text("fullName"),
		Label:            body.Text("label"),
		Type:             objects.FieldType(body.Text("type")),
		ReferenceTo:      body.Text("referenceTo"),
		RelationshipName: body.Text("relationshipName"),
	}
	if f.FullName == "" {
		return nil, malformed("field without fullName")
	}

	var err error
	if f.Required, err = optionalBool(body, "required", false); err != nil {
		return nil, err
	}
	if _, ok := body.Get("defaultValue"); ok {
		v, err := optionalBool(body, "defaultValue", false)
		if err != nil {
			return nil, err
		}
		f.DefaultValue = &v
	}
	for key, dst := range map[string]**int{
		"length":       &f.Length,
		"precision":    &f.Precision,
		"scale":        &f.Scale,
		"visibleLines": &f.VisibleLines,
	} {
		if *dst, err = optionalInt(body, key); err != nil {
			return nil, err
		}
	}

	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", objects.ErrMalformedDescriptor, err)
	}
	return f, nil
}

func optionalInt(n *Node, key string) (*int, error) {
	if _, ok := n.Get(key); !ok {
		return nil, nil
	}
	v, err := strconv.Atoi(n.Text(key))
	if err != nil {
		return nil, malformed("%s: %v", key, err)
	}
	return &v, nil
}

func optionalBool(n *Node, key string, fallback bool) (bool, error) {
	if _, ok := n.Get(key); !ok {
		return fallback, nil
	}
	v, err := strconv.ParseBool(n.Text(key))
	if err != nil {
		return false, malformed("%s: %v", key, err)
	}
	return v, nil
}
