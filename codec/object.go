// ABOUTME: CustomObject encoding for big object descriptors
// ABOUTME: Index fields collapse to a bare element when there is exactly one
package codec

import (
	"fmt"

	"github.com/harperreed/bigmeta/objects"
)

// RootCustomObject is the root element of an object descriptor file.
const RootCustomObject = "CustomObject"

// EncodeObject builds the document tree for an object descriptor.
func EncodeObject(obj *objects.ObjectDescriptor) Document {
	body := NewNode()
	status := obj.DeploymentStatus
	if status == "" {
		status = objects.Deployed
	}
	body.Set("deploymentStatus", string(status))

	if obj.Index != nil {
		idx := NewNode()
		idx.Set("fullName", obj.Index.FullName)

		entries := make([]any, 0, len(obj.Index.Entries))
		for _, e := range obj.Index.Entries {
			entries = append(entries, NewNode().
				Set("name", e.FieldName).
				Set("sortDirection", string(e.SortDirection)))
		}
		// The format writes a single index column as a bare element and
		// two or more as an ordered list.
		switch len(entries) {
		case 0:
		case 1:
			idx.Set("fields", entries[0])
		default:
			idx.Set("fields", entries)
		}

		idx.Set("label", obj.Index.Label)
		body.Set("indexes", idx)
	}

	body.Set("label", obj.Label)
	body.Set("pluralLabel", obj.PluralLabel)

	return Document{Root: RootCustomObject, Body: body}
}

// DecodeObject rebuilds an object descriptor; apiName comes from the file
// location since the descriptor does not carry it.
func DecodeObject(apiName string, doc Document) (*objects.ObjectDescriptor, error) {
	if doc.Root != RootCustomObject {
		return nil, malformed("expected %s root, got %s", RootCustomObject, doc.Root)
	}
	body := doc.Body

	status, err := objects.ParseDeploymentStatus(body.Text("deploymentStatus"))
	if err != nil {
		return nil, malformed("%v", err)
	}

	obj := &objects.ObjectDescriptor{
		APIName:          apiName,
		Label:            body.Text("label"),
		PluralLabel:      body.Text("pluralLabel"),
		DeploymentStatus: status,
	}

	if raw, ok := body.Get("indexes"); ok {
		idx, ok := raw.(*Node)
		if !ok {
			return nil, malformed("indexes must be a single element")
		}
		obj.Index = &objects.IndexList{
			FullName: idx.Text("fullName"),
			Label:    idx.Text("label"),
		}
		for _, item := range idx.Items("fields") {
			entry, err := decodeIndexEntry(item)
			if err != nil {
				return nil, err
			}
			if obj.Index.Contains(entry.FieldName) {
				return nil, malformed("index field %s listed twice", entry.FieldName)
			}
			obj.Index.Entries = append(obj.Index.Entries, entry)
		}
	}

	return obj, nil
}

func decodeIndexEntry(item any) (objects.IndexEntry, error) {
	n, ok := item.(*Node)
	if !ok {
		return objects.IndexEntry{}, malformed("index field must have name and sortDirection")
	}
	name := n.Text("name")
	if name == "" {
		return objects.IndexEntry{}, malformed("index field without name")
	}
	dir, err := objects.ParseSortDirection(n.Text("sortDirection"))
	if err != nil {
		return objects.IndexEntry{}, malformed("index field %s: %v", name, err)
	}
	return objects.IndexEntry{FieldName: name, SortDirection: dir}, nil
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", objects.ErrMalformedDescriptor, fmt.Sprintf(format, args...))
}
