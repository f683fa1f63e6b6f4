// ABOUTME: Byte-level entry points of the metadata codec
// ABOUTME: Combines the descriptor mappings with XML marshalling
package codec

import "github.com/harperreed/bigmeta/objects"

// MarshalObject renders an object descriptor file.
func MarshalObject(obj *objects.ObjectDescriptor) ([]byte, error) {
	return Marshal(EncodeObject(obj))
}

// UnmarshalObject parses an object descriptor file.
func UnmarshalObject(apiName string, data []byte) (*objects.ObjectDescriptor, error) {
	doc, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return DecodeObject(apiName, doc)
}

// MarshalField renders a field descriptor file.
func MarshalField(f *objects.FieldDescriptor) ([]byte, error) {
	return Marshal(EncodeField(f))
}

// UnmarshalField parses a field descriptor file.
func UnmarshalField(data []byte) (*objects.FieldDescriptor, error) {
	doc, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return DecodeField(doc)
}

// MarshalPermissionSet renders a permission set file.
func MarshalPermissionSet(ps *objects.PermissionSet) ([]byte, error) {
	return Marshal(EncodePermissionSet(ps))
}

// UnmarshalPermissionSet parses a permission set file.
func UnmarshalPermissionSet(name string, data []byte) (*objects.PermissionSet, error) {
	doc, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return DecodePermissionSet(name, doc)
}
