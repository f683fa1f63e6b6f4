// ABOUTME: PermissionSet descriptor and the field permission synthesis policy
// ABOUTME: Required and indexed fields are left out; every other field is granted read and edit
package objects

// ObjectPermission grants access to one object.
type ObjectPermission struct {
	Object           string
	AllowCreate      bool
	AllowRead        bool
	AllowEdit        bool
	AllowDelete      bool
	ViewAllRecords   bool
	ModifyAllRecords bool
}

// FieldPermission grants access to one field, named "<Object>.<Field>".
type FieldPermission struct {
	Field    string
	Readable bool
	Editable bool
}

// PermissionSet is an access-control descriptor.
type PermissionSet struct {
	Name                  string
	Label                 string
	HasActivationRequired bool
	ObjectPermissions     []ObjectPermission
	FieldPermissions      []FieldPermission
}

// ExcludedFromPermissions reports whether the field needs no grant: required
// fields are always accessible and indexed fields are structurally guaranteed.
func ExcludedFromPermissions(obj *ObjectDescriptor, f *FieldDescriptor) bool {
	return f.Required || obj.IsIndexed(f.FullName)
}

// SynthesizePermissionSet derives a permission set for the object from its
// fields, keeping the order the fields were given in.
func SynthesizePermissionSet(name string, obj *ObjectDescriptor, fields []*FieldDescriptor) *PermissionSet {
	ps := &PermissionSet{
		Name:  name,
		Label: name,
		ObjectPermissions: []ObjectPermission{{
			Object:      obj.APIName,
			AllowCreate: true,
			AllowRead:   true,
			AllowEdit:   true,
			AllowDelete: true,
		}},
		FieldPermissions: []FieldPermission{},
	}

	for _, f := range fields {
		if ExcludedFromPermissions(obj, f) {
			continue
		}
		ps.FieldPermissions = append(ps.FieldPermissions, FieldPermission{
			Field:    obj.APIName + "." + f.FullName,
			Readable: true,
			Editable: true,
		})
	}

	return ps
}
