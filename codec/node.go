// ABOUTME: Document tree for metadata files, as metadata tooling sees them after parsing
// ABOUTME: A repeated child is a list, a single child is a bare value or node
package codec

// Node is an element body: ordered members whose values are a string, a
// *Node, or a []any of strings and *Nodes for repeated elements.
type Node struct {
	keys   []string
	values map[string]any
}

// NewNode returns an empty node.
func NewNode() *Node {
	return &Node{values: make(map[string]any)}
}

// Set stores a member, keeping the position of an existing key.
func (n *Node) Set(key string, value any) *Node {
	if _, ok := n.values[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.values[key] = value
	return n
}

// add appends a parsed child, promoting a second occurrence to a list.
func (n *Node) add(key string, value any) {
	existing, ok := n.values[key]
	if !ok {
		n.Set(key, value)
		return
	}
	if list, ok := existing.([]any); ok {
		n.values[key] = append(list, value)
		return
	}
	n.values[key] = []any{existing, value}
}

// Get returns the raw member value.
func (n *Node) Get(key string) (any, bool) {
	v, ok := n.values[key]
	return v, ok
}

// Keys returns member names in document order.
func (n *Node) Keys() []string {
	return append([]string(nil), n.keys...)
}

// Len returns the number of members.
func (n *Node) Len() int {
	return len(n.keys)
}

// Text returns a string member, or "" when absent or not text.
func (n *Node) Text(key string) string {
	s, _ := n.values[key].(string)
	return s
}

// Child returns a member that is a single nested node.
func (n *Node) Child(key string) (*Node, bool) {
	c, ok := n.values[key].(*Node)
	return c, ok
}

// Items normalises a member to a slice whatever its shape: absent is nil,
// a bare value is a one-element slice, a list is returned as is.
func (n *Node) Items(key string) []any {
	v, ok := n.values[key]
	if !ok {
		return nil
	}
	if list, ok := v.([]any); ok {
		return list
	}
	return []any{v}
}
