package mcpserver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specdex/specdex/docerrors"
	"github.com/specdex/specdex/index"
	"github.com/specdex/specdex/loader"
)

const testDoc = `openapi: 3.0.0
info:
  title: Petstore
  version: 1.0.0
paths:
  /pets:
    get:
      summary: List all pets
      tags: [pets]
    post:
      summary: Create a pet
      tags: [pets]
  /pets/{petId}:
    get:
      summary: Get a pet by ID
      tags: [pets]
  /orders:
    get:
      summary: List orders
components:
  schemas:
    Pet:
      type: object
      properties:
        name:
          type: string
        category:
          $ref: '#/components/schemas/Category'
    Category:
      type: object
    Order:
      type: object
`

// installTestIndex loads a document, installs it as the active index, and
// restores the previous index (and an empty cache) when the test ends.
func installTestIndex(t *testing.T, yamlDoc string) {
	t.Helper()

	var ix *index.Index
	if yamlDoc == "" {
		ix = index.New(nil)
	} else {
		doc, err := loader.New().LoadBytes([]byte(yamlDoc))
		require.NoError(t, err)
		ix = index.New(doc)
	}

	prev := current.Load()
	setIndex(ix)
	schemaCache.reset()
	t.Cleanup(func() {
		current.Store(prev)
		schemaCache.reset()
	})
}

func TestHandleSearchEndpoints(t *testing.T) {
	installTestIndex(t, testDoc)

	_, out, err := handleSearchEndpoints(context.Background(), nil, searchEndpointsInput{Query: "pets"})
	require.NoError(t, err)

	assert.Equal(t, 4, out.Total)
	assert.Equal(t, 3, out.Matched)
	assert.Equal(t, 3, out.Returned)
	require.Len(t, out.Endpoints, 3)
	assert.Equal(t, "/pets", out.Endpoints[0].Path)
	assert.Equal(t, "GET", out.Endpoints[0].Method)
}

func TestHandleSearchEndpoints_NoMatch(t *testing.T) {
	installTestIndex(t, testDoc)

	_, out, err := handleSearchEndpoints(context.Background(), nil, searchEndpointsInput{Query: "zzz"})
	require.NoError(t, err)

	assert.Equal(t, 0, out.Matched)
	assert.NotNil(t, out.Endpoints, "endpoints must serialize as [], not null")
	assert.Empty(t, out.Endpoints)
}

func TestHandleSearchEndpoints_NoDocument(t *testing.T) {
	installTestIndex(t, "")

	_, out, err := handleSearchEndpoints(context.Background(), nil, searchEndpointsInput{})
	require.NoError(t, err)

	assert.Equal(t, 0, out.Total)
	assert.Empty(t, out.Endpoints)
}

func TestHandleListAllEndpoints_Pagination(t *testing.T) {
	installTestIndex(t, testDoc)

	_, out, err := handleListAllEndpoints(context.Background(), nil, listAllEndpointsInput{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, out.Total)
	assert.Equal(t, 2, out.Returned)
	assert.Equal(t, "/pets", out.Endpoints[0].Path)

	_, out, err = handleListAllEndpoints(context.Background(), nil, listAllEndpointsInput{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Returned)
	assert.Equal(t, "/pets/{petId}", out.Endpoints[0].Path)

	_, out, err = handleListAllEndpoints(context.Background(), nil, listAllEndpointsInput{Offset: 99})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Returned)
	assert.NotNil(t, out.Endpoints)
}

func TestHandleGetEndpoint(t *testing.T) {
	installTestIndex(t, testDoc)

	_, out, err := handleGetEndpoint(context.Background(), nil, getEndpointInput{Path: "/pets", Method: "get"})
	require.NoError(t, err)

	assert.Empty(t, out.Error)
	assert.Equal(t, "/pets", out.Path)
	assert.Equal(t, "GET", out.Method)
	assert.Equal(t, "List all pets", out.Details["summary"])
}

func TestHandleGetEndpoint_NotFound(t *testing.T) {
	installTestIndex(t, testDoc)

	_, out, err := handleGetEndpoint(context.Background(), nil, getEndpointInput{Path: "/missing", Method: "get"})
	require.NoError(t, err, "a miss is a result value, not a handler error")

	assert.Equal(t, "Endpoint GET /missing not found", out.Error)
	assert.Empty(t, out.Path)
}

func TestHandleGetEndpoint_NoDocument(t *testing.T) {
	installTestIndex(t, "")

	_, out, err := handleGetEndpoint(context.Background(), nil, getEndpointInput{Path: "/pets", Method: "get"})
	require.NoError(t, err)
	assert.Equal(t, "No spec loaded", out.Error)
}

func TestHandleSearchSchemas(t *testing.T) {
	installTestIndex(t, testDoc)

	_, out, err := handleSearchSchemas(context.Background(), nil, searchSchemasInput{Query: "pet"})
	require.NoError(t, err)

	assert.Equal(t, 3, out.Total, "total counts the whole container")
	assert.Equal(t, 1, out.Matched)
	require.Len(t, out.Schemas, 1)
	assert.Equal(t, "Pet", out.Schemas[0].Name)
	assert.Equal(t, "#/components/schemas/Pet", out.Schemas[0].Ref)
}

func TestHandleSearchSchemas_EmptyQuery(t *testing.T) {
	installTestIndex(t, testDoc)

	_, out, err := handleSearchSchemas(context.Background(), nil, searchSchemasInput{})
	require.NoError(t, err)

	assert.Equal(t, 3, out.Total)
	assert.Equal(t, 3, out.Matched)
	assert.Equal(t, 3, out.Returned)
}

func TestHandleGetSchema(t *testing.T) {
	installTestIndex(t, testDoc)

	_, out, err := handleGetSchema(context.Background(), nil, getSchemaInput{SchemaName: "Pet"})
	require.NoError(t, err)

	assert.Empty(t, out.Error)
	assert.Equal(t, "Pet", out.Name)
	assert.Equal(t, "#/components/schemas/Pet", out.Ref)

	schema, ok := out.Schema.(map[string]any)
	require.True(t, ok)
	category := schema["properties"].(map[string]any)["category"].(map[string]any)
	assert.NotContains(t, category, "$ref", "references are fully expanded")
}

func TestHandleGetSchema_CachesResult(t *testing.T) {
	installTestIndex(t, testDoc)

	_, first, err := handleGetSchema(context.Background(), nil, getSchemaInput{SchemaName: "Order"})
	require.NoError(t, err)
	assert.Equal(t, 1, schemaCache.size())

	_, second, err := handleGetSchema(context.Background(), nil, getSchemaInput{SchemaName: "Order"})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, schemaCache.size())
}

func TestHandleGetSchema_NotFound(t *testing.T) {
	installTestIndex(t, testDoc)

	_, out, err := handleGetSchema(context.Background(), nil, getSchemaInput{SchemaName: "Missing"})
	require.NoError(t, err)
	assert.Equal(t, "Schema 'Missing' not found", out.Error)
	assert.Equal(t, 0, schemaCache.size(), "misses are not cached")
}

func TestHandleGetSchema_NoDocument(t *testing.T) {
	installTestIndex(t, "")

	_, out, err := handleGetSchema(context.Background(), nil, getSchemaInput{SchemaName: "Pet"})
	require.NoError(t, err)
	assert.Equal(t, "No spec loaded", out.Error)
}

func TestCurrentIndex_Uninstalled(t *testing.T) {
	prev := current.Load()
	current.Store(nil)
	t.Cleanup(func() { current.Store(prev) })

	ix := currentIndex()
	require.NotNil(t, ix)
	assert.False(t, ix.HasDocument())
}

func TestErrText(t *testing.T) {
	assert.Equal(t, "No spec loaded", errText(docerrors.ErrNoDocument))
	assert.Equal(t, "Schema 'X' not found", errText(&docerrors.NotFoundError{Name: "X"}))
	assert.Equal(t, "boom", errText(errors.New("boom")))
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	tests := []struct {
		name   string
		offset int
		limit  int
		want   []int
	}{
		{"default limit covers all", 0, 0, []int{1, 2, 3, 4, 5}},
		{"limit", 0, 2, []int{1, 2}},
		{"offset", 3, 0, []int{4, 5}},
		{"offset and limit", 1, 2, []int{2, 3}},
		{"offset past end", 9, 0, nil},
		{"negative offset", -1, 0, nil},
		{"limit past end", 4, 10, []int{5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paginate(items, tt.offset, tt.limit))
		})
	}
}

func TestPaginate_CapsAtMaxLimit(t *testing.T) {
	items := make([]int, cfg.MaxLimit+10)
	got := paginate(items, 0, cfg.MaxLimit+5)
	assert.Len(t, got, cfg.MaxLimit)
}
