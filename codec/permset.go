// ABOUTME: PermissionSet encoding
// ABOUTME: Field and object permissions are always written as lists, even with one entry
package codec

import (
	"strconv"

	"github.com/harperreed/bigmeta/objects"
)

// RootPermissionSet is the root element of a permission set file.
const RootPermissionSet = "PermissionSet"

// EncodePermissionSet builds the document tree for a permission set.
func EncodePermissionSet(ps *objects.PermissionSet) Document {
	body := NewNode()

	fields := make([]any, 0, len(ps.FieldPermissions))
	for _, fp := range ps.FieldPermissions {
		fields = append(fields, NewNode().
			Set("editable", strconv.FormatBool(fp.Editable)).
			Set("field", fp.Field).
			Set("readable", strconv.FormatBool(fp.Readable)))
	}
	if len(fields) > 0 {
		body.Set("fieldPermissions", fields)
	}

	body.Set("hasActivationRequired", strconv.FormatBool(ps.HasActivationRequired))
	body.Set("label", ps.Label)

	perms := make([]any, 0, len(ps.ObjectPermissions))
	for _, op := range ps.ObjectPermissions {
		perms = append(perms, NewNode().
			Set("allowCreate", strconv.FormatBool(op.AllowCreate)).
			Set("allowDelete", strconv.FormatBool(op.AllowDelete)).
			Set("allowEdit", strconv.FormatBool(op.AllowEdit)).
			Set("allowRead", strconv.FormatBool(op.AllowRead)).
			Set("modifyAllRecords", strconv.FormatBool(op.ModifyAllRecords)).
			Set("object", op.Object).
			Set("viewAllRecords", strconv.FormatBool(op.ViewAllRecords)))
	}
	if len(perms) > 0 {
		body.Set("objectPermissions", perms)
	}

	return Document{Root: RootPermissionSet, Body: body}
}

// DecodePermissionSet rebuilds a permission set; name comes from the file
// location.
func DecodePermissionSet(name string, doc Document) (*objects.PermissionSet, error) {
	if doc.Root != RootPermissionSet {
		return nil, malformed("expected %s root, got %s", RootPermissionSet, doc.Root)
	}
	body := doc.Body

	ps := &objects.PermissionSet{
		Name:              name,
		Label:             body.Text("label"),
		FieldPermissions:  []objects.FieldPermission{},
		ObjectPermissions: []objects.ObjectPermission{},
	}

	var err error
	if ps.HasActivationRequired, err = optionalBool(body, "hasActivationRequired", false); err != nil {
		return nil, err
	}

	for _, item := range body.Items("fieldPermissions") {
		n, ok := item.(*Node)
		if !ok {
			return nil, malformed("fieldPermissions entry must be an element")
		}
		fp := objects.FieldPermission{Field: n.Text("field")}
		if fp.Readable, err = optionalBool(n, "readable", false); err != nil {
			return nil, err
		}
		if fp.Editable, err = optionalBool(n, "editable", false); err != nil {
			return nil, err
		}
		ps.FieldPermissions = append(ps.FieldPermissions, fp)
	}

	for _, item := range body.Items("objectPermissions") {
		n, ok := item.(*Node)
		if !ok {
			return nil, malformed("objectPermissions entry must be an element")
		}
		op := objects.ObjectPermission{Object: n.Text("object")}
		for key, dst := range map[string]*bool{
			"allowCreate":      &op.AllowCreate,
			"allowDelete":      &op.AllowDelete,
			"allowEdit":        &op.AllowEdit,
			"allowRead":        &op.AllowRead,
			"modifyAllRecords": &op.ModifyAllRecords,
			"viewAllRecords":   &op.ViewAllRecords,
		} {
			if *dst, err = optionalBool(n, key, false); err != nil {
				return nil, err
			}
		}
		ps.ObjectPermissions = append(ps.ObjectPermissions, op)
	}

	return ps, nil
}
