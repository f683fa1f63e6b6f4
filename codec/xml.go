// ABOUTME: Reads and writes metadata XML documents to and from the Node tree
// ABOUTME: Output uses the platform namespace, UTF-8 header and four-space indentation
package codec

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/harperreed/bigmeta/objects"
)

// Namespace of every metadata document.
const Namespace = "http://soap.sforce.com/2006/04/metadata"

const indentSpaces = 4

// Document is a parsed metadata file.
type Document struct {
	Root string
	Body *Node
}

// Marshal renders the document as XML.
func Marshal(doc Document) ([]byte, error) {
	out := etree.NewDocument()
	out.WriteSettings.CanonicalEndTags = true
	out.WriteSettings.CanonicalText = true
	out.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := out.CreateElement(doc.Root)
	root.CreateAttr("xmlns", Namespace)
	if doc.Body != nil {
		if err := encodeNode(root, doc.Body); err != nil {
			return nil, err
		}
	}

	out.Indent(indentSpaces)
	data, err := out.WriteToBytes()
	if err != nil {
		return nil, err
	}
	return append(bytes.TrimRight(data, "\n"), '\n'), nil
}

func encodeNode(parent *etree.Element, n *Node) error {
	for _, key := range n.keys {
		if err := encodeValue(parent, key, n.values[key]); err != nil {
			return err
		}
	}
	return nil
}

func encodeValue(parent *etree.Element, key string, value any) error {
	switch v := value.(type) {
	case string:
		parent.CreateElement(key).SetText(v)
		return nil
	case *Node:
		return encodeNode(parent.CreateElement(key), v)
	case []any:
		for _, item := range v {
			if err := encodeValue(parent, key, item); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("element %s: unsupported value %T", key, value)
	}
}

// Unmarshal parses XML into the collapsed tree view. Any parse failure is
// reported as a malformed descriptor.
func Unmarshal(data []byte) (Document, error) {
	in := etree.NewDocument()
	in.ReadSettings.ValidateInput = true
	if err := in.ReadFromBytes(data); err != nil {
		return Document{}, fmt.Errorf("%w: %v", objects.ErrMalformedDescriptor, err)
	}

	roots := in.ChildElements()
	switch len(roots) {
	case 0:
		return Document{}, fmt.Errorf("%w: no root element", objects.ErrMalformedDescriptor)
	case 1:
	default:
		return Document{}, fmt.Errorf("%w: more than one root element", objects.ErrMalformedDescriptor)
	}

	return Document{Root: roots[0].Tag, Body: decodeElement(roots[0])}, nil
}

// decodeElement collapses an element's children: a leaf becomes its text,
// anything with child elements becomes a nested node.
func decodeElement(e *etree.Element) *Node {
	n := NewNode()
	for _, child := range e.ChildElements() {
		if len(child.ChildElements()) > 0 {
			n.add(child.Tag, decodeElement(child))
			continue
		}
		text := child.Text()
		if strings.TrimSpace(text) == "" {
			text = ""
		}
		n.add(child.Tag, text)
	}
	return n
}
