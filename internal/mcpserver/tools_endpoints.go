package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/specdex/specdex/index"
)

type searchEndpointsInput struct {
	Query  string `json:"query"            jsonschema:"Search term matched against endpoint path\\, summary\\, description\\, and tags (case-insensitive substring)"`
	Limit  int    `json:"limit,omitempty"  jsonschema:"Maximum results (default 100)"`
	Offset int    `json:"offset,omitempty" jsonschema:"Skip the first N results (for pagination)"`
}

type listAllEndpointsInput struct {
	Limit  int `json:"limit,omitempty"  jsonschema:"Maximum results (default 100)"`
	Offset int `json:"offset,omitempty" jsonschema:"Skip the first N results (for pagination)"`
}

type getEndpointInput struct {
	Path   string `json:"path"   jsonschema:"Endpoint path template exactly as it appears in the document (e.g. /pets/{petId})"`
	Method string `json:"method" jsonschema:"HTTP method (get\\, post\\, put\\, delete\\, patch; case-insensitive)"`
}

type endpointListOutput struct {
	Total     int                     `json:"total"`
	Matched   int                     `json:"matched"`
	Returned  int                     `json:"returned"`
	Endpoints []index.EndpointSummary `json:"endpoints"`
}

type getEndpointOutput struct {
	Error   string         `json:"error,omitempty"`
	Path    string         `json:"path,omitempty"`
	Method  string         `json:"method,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func handleSearchEndpoints(_ context.Context, _ *mcp.CallToolRequest, input searchEndpointsInput) (*mcp.CallToolResult, endpointListOutput, error) {
	ix := currentIndex()

	matched := ix.SearchEndpoints(input.Query)
	returned := paginate(matched, input.Offset, input.Limit)
	if returned == nil {
		returned = []index.EndpointSummary{}
	}

	return nil, endpointListOutput{
		Total:     len(ix.ListEndpoints()),
		Matched:   len(matched),
		Returned:  len(returned),
		Endpoints: returned,
	}, nil
}

func handleListAllEndpoints(_ context.Context, _ *mcp.CallToolRequest, input listAllEndpointsInput) (*mcp.CallToolResult, endpointListOutput, error) {
	ix := currentIndex()

	all := ix.ListEndpoints()
	returned := paginate(all, input.Offset, input.Limit)
	if returned == nil {
		returned = []index.EndpointSummary{}
	}

	return nil, endpointListOutput{
		Total:     len(all),
		Matched:   len(all),
		Returned:  len(returned),
		Endpoints: returned,
	}, nil
}

func handleGetEndpoint(_ context.Context, _ *mcp.CallToolRequest, input getEndpointInput) (*mcp.CallToolResult, getEndpointOutput, error) {
	detail, err := currentIndex().GetEndpoint(input.Path, input.Method)
	if err != nil {
		// Not-found and no-document are ordinary result values.
		return nil, getEndpointOutput{Error: errText(err)}, nil
	}

	return nil, getEndpointOutput{
		Path:    detail.Path,
		Method:  detail.Method,
		Details: detail.Details,
	}, nil
}
