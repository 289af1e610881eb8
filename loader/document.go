package loader

import (
	"time"

	"go.yaml.in/yaml/v4"
)

// Document is an immutable, already-parsed specification document: a generic
// tree of mappings, sequences, and scalars. It is the single shared read-only
// resource for the lifetime of a loaded server instance.
//
// # Immutability
//
// While Go does not enforce immutability, callers must treat the tree
// returned by Root() as read-only. Query and resolution operations never
// mutate it; the resolver deep-copies before expanding.
//
// Concurrent reads from multiple goroutines are safe without locking.
type Document struct {
	// SourcePath is the file path or URL the document was read from.
	// For reader/bytes input it is a synthetic name ending in ".yaml" or
	// ".json" based on the detected format.
	SourcePath string
	// SourceFormat is the detected format of the source (JSON or YAML)
	SourceFormat SourceFormat
	// SourceSize is the size of the source data in bytes
	SourceSize int64
	// LoadTime is the time taken to load the source data (file, URL, etc.)
	LoadTime time.Duration

	root map[string]any
	// node is the root mapping node of the source document. It preserves
	// the key order of the source, which Go maps do not.
	node *yaml.Node
}

// Root returns the document's root mapping. The returned map must be
// treated as read-only.
func (d *Document) Root() map[string]any {
	if d == nil {
		return nil
	}
	return d.root
}

// Lookup walks the given mapping keys from the document root and returns
// the value found there. The second return is false when any segment is
// absent or the value at an intermediate segment is not a mapping.
func (d *Document) Lookup(segments ...string) (any, bool) {
	if d == nil || d.root == nil {
		return nil, false
	}
	current := any(d.root)
	for _, seg := range segments {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		next, ok := m[seg]
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// KeysAt returns the mapping keys at the given path in source-document
// order. It returns nil when the path does not exist or the value there is
// not a mapping. With no segments it returns the root mapping's keys.
func (d *Document) KeysAt(segments ...string) []string {
	if d == nil {
		return nil
	}
	node := d.node
	for _, seg := range segments {
		node = childNode(node, seg)
		if node == nil {
			return nil
		}
	}
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	keys := make([]string, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys = append(keys, node.Content[i].Value)
	}
	return keys
}

// childNode returns the value node for key within a mapping node, or nil.
func childNode(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return resolveAlias(node.Content[i+1])
		}
	}
	return nil
}

// resolveAlias follows a YAML alias node to its anchor target.
func resolveAlias(node *yaml.Node) *yaml.Node {
	if node != nil && node.Kind == yaml.AliasNode && node.Alias != nil {
		return node.Alias
	}
	return node
}
