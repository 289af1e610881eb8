package index

import (
	"fmt"
	"strings"

	"github.com/specdex/specdex/docerrors"
	"github.com/specdex/specdex/resolver"
)

// Canonical pointer prefixes for the two supported dialects.
const (
	oas3SchemaPrefix          = "#/components/schemas/"
	swagger2DefinitionsPrefix = "#/definitions/"
)

// SchemaSummary is one named schema definition as returned by SearchSchemas.
type SchemaSummary struct {
	Name        string `json:"name"`
	Ref         string `json:"ref"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// SchemaResult is a schema definition with every internal reference
// expanded into a self-contained tree.
type SchemaResult struct {
	Name   string `json:"name"`
	Ref    string `json:"ref"`
	Schema any    `json:"schema"`
}

// schemaContainer is the result of the dialect probe: the reusable-schema
// mapping, its canonical pointer prefix, and its keys in document order.
type schemaContainer struct {
	prefix  string
	schemas map[string]any
	keys    []string
}

// probeContainer locates the dialect-appropriate schema container,
// checking the OpenAPI 3 shape before the Swagger 2 shape. The explicit
// three-way result is: OpenAPI 3 container, Swagger 2 container, or no
// container (ok == false).
func (ix *Index) probeContainer() (schemaContainer, bool) {
	if v, found := ix.doc.Lookup("components", "schemas"); found {
		if m, isMap := v.(map[string]any); isMap {
			return schemaContainer{
				prefix:  oas3SchemaPrefix,
				schemas: m,
				keys:    ix.doc.KeysAt("components", "schemas"),
			}, true
		}
	}
	if v, found := ix.doc.Lookup("definitions"); found {
		if m, isMap := v.(map[string]any); isMap {
			return schemaContainer{
				prefix:  swagger2DefinitionsPrefix,
				schemas: m,
				keys:    ix.doc.KeysAt("definitions"),
			}, true
		}
	}
	return schemaContainer{}, false
}

// SearchSchemas returns every schema definition whose name contains the
// query under case folding. Only names are matched, not descriptions.
// Results appear in document order. If neither dialect's container exists,
// the result is empty.
func (ix *Index) SearchSchemas(query string) []SchemaSummary {
	container, ok := ix.probeContainer()
	if !ok {
		return nil
	}

	folded := foldQuery(query)
	var results []SchemaSummary
	for _, name := range container.keys {
		if !containsFold(name, folded) {
			continue
		}
		results = append(results, SchemaSummary{
			Name:        name,
			Ref:         container.prefix + name,
			Description: schemaDescription(container.schemas[name]),
			Type:        schemaType(container.schemas[name]),
		})
	}
	return results
}

// GetSchemaDetails builds the canonical pointer for name in whichever
// container holds it and returns the schema with all references expanded.
//
// A name absent from both containers returns a docerrors.NotFoundError;
// an absent document returns docerrors.ErrNoDocument.
func (ix *Index) GetSchemaDetails(name string) (*SchemaResult, error) {
	if !ix.HasDocument() {
		return nil, docerrors.ErrNoDocument
	}

	ref, ok := ix.canonicalRef(name)
	if !ok {
		return nil, &docerrors.NotFoundError{Name: name}
	}

	schema, err := ix.res.Resolve(ref)
	if err != nil {
		// Top-level resolution failures still produce a result envelope;
		// the error becomes the schema value, matching the inline error
		// convention used for nested failures.
		schema = resolver.ErrorValue(err)
	}

	return &SchemaResult{Name: name, Ref: ref, Schema: schema}, nil
}

// canonicalRef returns the pointer string for a named schema in whichever
// container holds it, OpenAPI 3 checked first.
func (ix *Index) canonicalRef(name string) (string, bool) {
	if v, found := ix.doc.Lookup("components", "schemas"); found {
		if m, isMap := v.(map[string]any); isMap {
			if _, has := m[name]; has {
				return oas3SchemaPrefix + name, true
			}
		}
	}
	if v, found := ix.doc.Lookup("definitions"); found {
		if m, isMap := v.(map[string]any); isMap {
			if _, has := m[name]; has {
				return swagger2DefinitionsPrefix + name, true
			}
		}
	}
	return "", false
}

// schemaDescription returns a schema's description, falling back to its
// title, then empty. Non-mapping schema definitions have no description.
func schemaDescription(def any) string {
	m, ok := def.(map[string]any)
	if !ok {
		return ""
	}
	if desc := stringField(m, "description"); desc != "" {
		return desc
	}
	return stringField(m, "title")
}

// schemaType returns a display string for a schema's type field: the type
// when present, "object" when absent, and "unknown" when the schema
// definition is not itself a mapping. OAS 3.1 type arrays are joined.
func schemaType(def any) string {
	m, ok := def.(map[string]any)
	if !ok {
		return "unknown"
	}
	switch t := m["type"].(type) {
	case nil:
		return "object"
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, s := range t {
			parts = append(parts, fmt.Sprintf("%v", s))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", t)
	}
}
