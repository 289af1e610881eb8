// Package resolver materializes $ref pointers in a specification document
// into fully expanded, self-contained value trees.
//
// Resolution is a depth-first walk over a pointer graph that may contain
// cycles: self-referential or mutually-referential schemas are legal
// OpenAPI. Each branch of the walk carries its own visited set, so a path
// that revisits itself is reported as a cycle while a document that merely
// references the same schema from two unrelated branches is not.
//
// Failures inside a tree (malformed pointer, missing target, cycle, depth
// limit) are embedded as {"error": "..."} values at the point of failure,
// so partially-resolvable schemas still return maximal useful information.
package resolver

import (
	"fmt"
	"strings"

	"github.com/specdex/specdex/docerrors"
)

// MaxRefDepth is the default maximum number of pointer hops allowed during
// resolution. Cycle detection bounds revisits but not first-time depth, so
// a long non-cyclic reference chain is cut off here instead of overflowing
// the stack.
const MaxRefDepth = 100

// Resolver expands $ref pointers against a single document root.
// A Resolver is stateless between calls and safe for concurrent use:
// the document is never mutated and every call deep-copies the nodes it
// returns.
type Resolver struct {
	// MaxDepth overrides the maximum pointer-hop depth (0 means MaxRefDepth)
	MaxDepth int

	root map[string]any
}

// New creates a Resolver over the given document root. A nil root is
// allowed; every Resolve call will then report docerrors.ErrNoDocument.
func New(root map[string]any) *Resolver {
	return &Resolver{root: root}
}

func (r *Resolver) maxDepth() int {
	if r.MaxDepth > 0 {
		return r.MaxDepth
	}
	return MaxRefDepth
}

// Resolve expands the pointer to a fully materialized value tree with no
// remaining $ref nodes. The returned tree never aliases the source
// document.
//
// A top-level failure (no document, malformed pointer, missing target)
// is returned as a typed error from the docerrors package. Failures on
// nested branches do not fail the call: they are embedded inline as
// {"error": "..."} values and sibling branches resolve normally.
func (r *Resolver) Resolve(ref string) (any, error) {
	if r.root == nil {
		return nil, docerrors.ErrNoDocument
	}
	return r.resolve(ref, map[string]bool{}, 0)
}

// resolve performs steps 1-6 of the resolution contract for one pointer:
// syntax check, cycle check, per-branch visited bookkeeping, segment walk,
// deep copy, and recursive expansion of the copied subtree.
func (r *Resolver) resolve(ref string, visited map[string]bool, depth int) (any, error) {
	if depth > r.maxDepth() {
		return nil, &docerrors.ResourceLimitError{
			ResourceType: "ref_depth",
			Limit:        r.maxDepth(),
			Actual:       depth,
			Ref:          ref,
		}
	}
	if !strings.HasPrefix(ref, "#/") {
		return nil, &docerrors.ReferenceError{Ref: ref, IsInvalid: true}
	}
	if visited[ref] {
		return nil, &docerrors.ReferenceError{Ref: ref, IsCircular: true}
	}

	// Each branch gets its own copy of the visited set: siblings in the
	// same fan-out must not see each other's resolution paths.
	visited = cloneVisited(visited)
	visited[ref] = true

	target, ok := r.lookup(ref)
	if !ok {
		return nil, &docerrors.ReferenceError{Ref: ref, IsMissing: true}
	}

	return r.expand(deepCopyValue(target), visited, depth), nil
}

// lookup walks the pointer's path segments from the document root, one
// mapping-key lookup per segment.
func (r *Resolver) lookup(ref string) (any, bool) {
	segments := strings.Split(strings.TrimPrefix(ref, "#/"), "/")
	current := any(r.root)
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

// expand recursively replaces every nested pointer node in an
// already-copied subtree. Mappings and sequences are recursed into
// positionally; scalars pass through unchanged.
func (r *Resolver) expand(v any, visited map[string]bool, depth int) any {
	switch t := v.(type) {
	case map[string]any:
		if rawRef, hasRef := t["$ref"]; hasRef {
			refStr, ok := rawRef.(string)
			if !ok {
				return ErrorValue(&docerrors.ReferenceError{Ref: fmt.Sprintf("%v", rawRef), IsInvalid: true})
			}
			resolved, err := r.resolve(refStr, visited, depth+1)
			if err != nil {
				return ErrorValue(err)
			}
			return r.mergeSiblings(t, resolved, visited, depth)
		}
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = r.expand(val, visited, depth)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = r.expand(item, visited, depth)
		}
		return out
	default:
		return v
	}
}

// mergeSiblings applies the OpenAPI sibling-key convention: keys declared
// alongside $ref are merged into the resolved target for keys the target
// does not already define. The target's own keys win.
func (r *Resolver) mergeSiblings(node map[string]any, resolved any, visited map[string]bool, depth int) any {
	resolvedMap, ok := resolved.(map[string]any)
	if !ok {
		// Target is not a mapping; there is nothing to merge into.
		return resolved
	}
	for k, val := range node {
		if k == "$ref" {
			continue
		}
		if _, exists := resolvedMap[k]; !exists {
			resolvedMap[k] = r.expand(val, visited, depth)
		}
	}
	return resolvedMap
}

// ErrorValue renders a resolution error as the inline error object embedded
// in result trees in place of the value that failed to resolve.
func ErrorValue(err error) map[string]any {
	return map[string]any{"error": err.Error()}
}

// cloneVisited copies a visited set so sibling branches keep independent
// cycle-detection horizons.
func cloneVisited(visited map[string]bool) map[string]bool {
	cp := make(map[string]bool, len(visited)+1)
	for k := range visited {
		cp[k] = true
	}
	return cp
}
