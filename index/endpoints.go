package index

import (
	"strings"

	"github.com/specdex/specdex/docerrors"
)

// EndpointSummary is one (path, method) operation entry as returned by the
// search and list operations. Tags is never nil so the record always
// serializes with an explicit tags array.
type EndpointSummary struct {
	Path    string   `json:"path"`
	Method  string   `json:"method"`
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
}

// EndpointDetail is the full definition of one endpoint.
type EndpointDetail struct {
	Path    string         `json:"path"`
	Method  string         `json:"method"`
	Details map[string]any `json:"details"`
}

// SearchEndpoints returns every endpoint whose path, summary, description,
// or any tag contains the query under case folding. An empty query matches
// everything. Results appear in document order; an endpoint matching on
// multiple fields appears once. An empty or absent document yields an
// empty sequence, not an error.
func (ix *Index) SearchEndpoints(query string) []EndpointSummary {
	folded := foldQuery(query)
	var results []EndpointSummary
	ix.eachEndpoint(func(path, method string, details map[string]any) {
		if !endpointMatches(folded, path, details) {
			return
		}
		results = append(results, summarize(path, method, details))
	})
	return results
}

// ListEndpoints returns every endpoint in document order.
func (ix *Index) ListEndpoints() []EndpointSummary {
	var results []EndpointSummary
	ix.eachEndpoint(func(path, method string, details map[string]any) {
		results = append(results, summarize(path, method, details))
	})
	return results
}

// GetEndpoint returns the full definition of one endpoint by exact path
// lookup and case-insensitive method lookup. The path must match a
// document key verbatim: no template-parameter normalization, no
// trailing-slash tolerance.
//
// A miss returns a docerrors.NotFoundError naming the requested path and
// method; an absent document returns docerrors.ErrNoDocument.
func (ix *Index) GetEndpoint(path, method string) (*EndpointDetail, error) {
	upperMethod := strings.ToUpper(method)

	paths, ok := ix.pathsMap()
	if !ok {
		return nil, docerrors.ErrNoDocument
	}

	pathItem, ok := paths[path].(map[string]any)
	if !ok {
		return nil, &docerrors.NotFoundError{Path: path, Method: upperMethod}
	}

	want := strings.ToLower(method)
	for key, value := range pathItem {
		if strings.ToLower(key) != want {
			continue
		}
		details, ok := value.(map[string]any)
		if !ok {
			break
		}
		return &EndpointDetail{Path: path, Method: upperMethod, Details: details}, nil
	}
	return nil, &docerrors.NotFoundError{Path: path, Method: upperMethod}
}

// pathsMap returns the document's paths mapping, or false when the
// document is absent or has no paths key.
func (ix *Index) pathsMap() (map[string]any, bool) {
	if !ix.HasDocument() {
		return nil, false
	}
	v, ok := ix.doc.Lookup("paths")
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

// eachEndpoint visits every (path, method) pair whose method is recognized,
// in document order. Non-conforming entries (path items or operations that
// are not mappings) are silently skipped rather than aborting the walk.
func (ix *Index) eachEndpoint(visit func(path, method string, details map[string]any)) {
	paths, ok := ix.pathsMap()
	if !ok {
		return
	}
	for _, path := range ix.doc.KeysAt("paths") {
		pathItem, ok := paths[path].(map[string]any)
		if !ok {
			continue
		}
		for _, key := range ix.doc.KeysAt("paths", path) {
			method := strings.ToLower(key)
			if !recognizedMethods[method] {
				continue
			}
			details, ok := pathItem[key].(map[string]any)
			if !ok {
				continue
			}
			visit(path, method, details)
		}
	}
}

// endpointMatches checks the query against path, summary, description, and
// tags. folded is the pre-folded query.
func endpointMatches(folded, path string, details map[string]any) bool {
	if containsFold(path, folded) {
		return true
	}
	if containsFold(stringField(details, "summary"), folded) {
		return true
	}
	if containsFold(stringField(details, "description"), folded) {
		return true
	}
	for _, tag := range tagsField(details) {
		if containsFold(tag, folded) {
			return true
		}
	}
	return false
}

func summarize(path, method string, details map[string]any) EndpointSummary {
	return EndpointSummary{
		Path:    path,
		Method:  strings.ToUpper(method),
		Summary: stringField(details, "summary"),
		Tags:    tagsField(details),
	}
}

// stringField returns a string-valued field, defaulting to empty.
func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// tagsField returns the endpoint's tags as a non-nil string slice,
// skipping non-string entries.
func tagsField(m map[string]any) []string {
	tags := []string{}
	raw, ok := m["tags"].([]any)
	if !ok {
		return tags
	}
	for _, t := range raw {
		if s, ok := t.(string); ok {
			tags = append(tags, s)
		}
	}
	return tags
}
