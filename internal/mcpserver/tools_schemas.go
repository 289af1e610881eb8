package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/specdex/specdex/index"
)

type searchSchemasInput struct {
	Query  string `json:"query"            jsonschema:"Search term matched against schema names (case-insensitive substring)"`
	Limit  int    `json:"limit,omitempty"  jsonschema:"Maximum results (default 100)"`
	Offset int    `json:"offset,omitempty" jsonschema:"Skip the first N results (for pagination)"`
}

type getSchemaInput struct {
	SchemaName string `json:"schema_name" jsonschema:"Name of the schema to retrieve"`
}

type searchSchemasOutput struct {
	Total    int                   `json:"total"`
	Matched  int                   `json:"matched"`
	Returned int                   `json:"returned"`
	Schemas  []index.SchemaSummary `json:"schemas"`
}

type getSchemaOutput struct {
	Error  string `json:"error,omitempty"`
	Name   string `json:"name,omitempty"`
	Ref    string `json:"ref,omitempty"`
	Schema any    `json:"schema,omitempty"`
}

func handleSearchSchemas(_ context.Context, _ *mcp.CallToolRequest, input searchSchemasInput) (*mcp.CallToolResult, searchSchemasOutput, error) {
	ix := currentIndex()

	matched := ix.SearchSchemas(input.Query)
	total := len(matched)
	if input.Query != "" {
		// The empty query matches every schema, so this counts the container.
		total = len(ix.SearchSchemas(""))
	}

	returned := paginate(matched, input.Offset, input.Limit)
	if returned == nil {
		returned = []index.SchemaSummary{}
	}

	return nil, searchSchemasOutput{
		Total:    total,
		Matched:  len(matched),
		Returned: len(returned),
		Schemas:  returned,
	}, nil
}

func handleGetSchema(_ context.Context, _ *mcp.CallToolRequest, input getSchemaInput) (*mcp.CallToolResult, getSchemaOutput, error) {
	if cfg.SchemaCacheEnabled {
		if cached := schemaCache.get(input.SchemaName); cached != nil {
			return nil, getSchemaOutput{Name: cached.Name, Ref: cached.Ref, Schema: cached.Schema}, nil
		}
	}

	result, err := currentIndex().GetSchemaDetails(input.SchemaName)
	if err != nil {
		// Not-found and no-document are ordinary result values.
		return nil, getSchemaOutput{Error: errText(err)}, nil
	}

	if cfg.SchemaCacheEnabled {
		schemaCache.put(input.SchemaName, result)
	}

	return nil, getSchemaOutput{Name: result.Name, Ref: result.Ref, Schema: result.Schema}, nil
}
