// Package index answers read-only structural queries over a loaded
// specification document: enumerate and search endpoints, enumerate and
// search named schema definitions, and fetch schemas with all internal
// $ref pointers expanded.
//
// Both OpenAPI 3 (components/schemas) and Swagger 2 (definitions) dialects
// are supported. The dialect is probed per operation rather than declared
// once, since malformed documents may have neither container.
//
// The document is read-only after load, so an Index is safe for concurrent
// use without locking.
package index

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/specdex/specdex/loader"
	"github.com/specdex/specdex/resolver"
)

// recognizedMethods is the set of HTTP methods treated as endpoint
// operations. Keys under a path item outside this set (parameters,
// servers, extensions) are not endpoints.
var recognizedMethods = map[string]bool{
	"get":    true,
	"post":   true,
	"put":    true,
	"delete": true,
	"patch":  true,
}

// fold performs Unicode case folding for the case-insensitive substring
// matching used by the search operations.
var fold = cases.Fold()

// Index provides structural queries over one specification document.
// A nil or absent document degrades every query to an empty result or a
// no-document error; it never fails the process.
type Index struct {
	doc *loader.Document
	res *resolver.Resolver
}

// New creates an Index over the given document. doc may be nil, which
// represents the "no document loaded" state.
func New(doc *loader.Document) *Index {
	return &Index{doc: doc, res: resolver.New(doc.Root())}
}

// HasDocument reports whether a specification document is loaded.
func (ix *Index) HasDocument() bool {
	return ix.doc.Root() != nil
}

// Document returns the underlying document, which may be nil.
func (ix *Index) Document() *loader.Document {
	return ix.doc
}

// Resolver returns the reference resolver bound to this document.
func (ix *Index) Resolver() *resolver.Resolver {
	return ix.res
}

// containsFold reports whether s contains substr under Unicode case
// folding. substr is expected to be pre-folded via foldQuery.
func containsFold(s, foldedSubstr string) bool {
	return strings.Contains(fold.String(s), foldedSubstr)
}

// foldQuery case-folds a search query once per operation.
func foldQuery(q string) string {
	return fold.String(q)
}
