// Package mcpserver implements an MCP (Model Context Protocol) server
// that answers structured queries over one OpenAPI document as MCP tools
// over stdio.
package mcpserver

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/specdex/specdex"
	"github.com/specdex/specdex/docerrors"
	"github.com/specdex/specdex/index"
	"github.com/specdex/specdex/loader"
)

const serverInstructions = `specdex MCP server — answers structured queries over one OpenAPI (v2/v3) document.

The document is loaded once at startup from the file path or URL given on the command line and is read-only afterwards. Explore it with search_endpoints / list_all_endpoints, drill into one operation with get_endpoint, and use search_schemas / get_schema for reusable schema definitions. get_schema expands every internal $ref into a self-contained tree; circular references appear as inline {"error": ...} values at the position of the cycle.

Configuration: defaults are configurable via SPECDEX_* environment variables set in your MCP client config:
- SPECDEX_RESULT_LIMIT (default: 100) — default result limit for search/list tools
- SPECDEX_MAX_LIMIT (default: 1000) — hard cap on any requested limit
- SPECDEX_SCHEMA_CACHE_ENABLED (default: true) — cache resolved schemas per session
- SPECDEX_SCHEMA_CACHE_MAX_SIZE (default: 100) — resolved-schema cache capacity
- SPECDEX_SCHEMA_CACHE_TTL (default: 15m) — resolved-schema cache TTL
- SPECDEX_SCHEMA_CACHE_SWEEP_INTERVAL (default: 60s) — background sweep interval
- SPECDEX_ALLOW_PRIVATE_IPS (default: false) — allow loading the spec from private/loopback URLs`

// noSpecMessage is the wire text reported by single-item lookups when no
// document is loaded.
const noSpecMessage = "No spec loaded"

// current holds the index over the loaded document. It is set once before
// the server starts serving; tools only read it.
var current atomic.Pointer[index.Index]

// setIndex installs the index the tool handlers query.
func setIndex(ix *index.Index) {
	current.Store(ix)
}

// currentIndex returns the installed index, or an empty no-document index
// when none was installed.
func currentIndex() *index.Index {
	if ix := current.Load(); ix != nil {
		return ix
	}
	return index.New(nil)
}

// Run loads the specification document from source (a file path or URL),
// then serves the query tools over stdio until the client disconnects or
// the context is cancelled.
//
// A document that fails to load does not fail the server: every query
// then degrades to an empty result or a "no spec loaded" value.
func Run(ctx context.Context, source string) error {
	setIndex(index.New(loadDocument(source)))

	if cfg.SchemaCacheEnabled {
		schemaCache.startSweeper(ctx, cfg.SchemaCacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "specdex", Version: specdex.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

// loadDocument reads the document from a file path or URL. Load failures
// are logged and yield a nil document rather than terminating the process.
func loadDocument(source string) *loader.Document {
	l := loader.New()
	l.Logger = loader.NewSlogAdapter(slog.Default())
	if isURL(source) && !cfg.AllowPrivateIPs {
		l.HTTPClient = newSafeHTTPClient()
	}

	doc, err := l.Load(source)
	if err != nil {
		slog.Error("failed to load specification document", "source", source, "error", err)
		return nil
	}
	return doc
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_endpoints",
		Description: "Search API endpoints by keyword. The query is matched case-insensitively against each endpoint's path, summary, description, and tags. An empty query returns every endpoint. Use limit/offset to paginate; the default limit is configurable via SPECDEX_RESULT_LIMIT.",
	}, handleSearchEndpoints)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_endpoint",
		Description: "Get the full definition of a specific endpoint. The path must match the document verbatim (including template parameters, e.g. /pets/{petId}); the method is case-insensitive. A miss returns an {\"error\": ...} object, not a protocol fault.",
	}, handleGetEndpoint)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_all_endpoints",
		Description: "List all available API endpoints in document order with path, method, summary, and tags. Use limit/offset to paginate through large APIs.",
	}, handleListAllEndpoints)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_schemas",
		Description: "Search schema definitions by name. The query is matched case-insensitively against schema names only (not descriptions), in components/schemas (OpenAPI 3) or definitions (Swagger 2). Each match includes the canonical $ref pointer to pass around.",
	}, handleSearchSchemas)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_schema",
		Description: "Get a specific schema definition with all $ref references resolved into a self-contained tree. Circular references are reported as inline {\"error\": ...} values at the position of the cycle; sibling branches still resolve. Results are cached per session (SPECDEX_SCHEMA_CACHE_* env vars).",
	}, handleGetSchema)
}

// errText converts a query error into the wire error text. Not-found and
// no-document conditions are ordinary result values, never MCP faults.
func errText(err error) string {
	if errors.Is(err, docerrors.ErrNoDocument) {
		return noSpecMessage
	}
	return err.Error()
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.ResultLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.ResultLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}
