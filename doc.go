// Package specdex answers structured queries over OpenAPI (v2/v3) documents.
//
// specdex loads a specification once, indexes it, and exposes five query
// operations designed for agents and tool-calling clients that need to
// explore a large API description without reading the raw document:
//
//   - search endpoints by keyword (path, summary, description, tags)
//   - fetch one endpoint's full definition
//   - enumerate all endpoints
//   - search schema definitions by name
//   - fetch a schema with every internal $ref expanded into a
//     self-contained, cycle-safe tree
//
// The module is organized into focused packages:
//
//   - loader: reads a document from a file, URL, reader, or bytes and
//     produces an immutable generic tree (JSON and YAML input)
//   - index: read-only structural queries over the loaded document,
//     supporting both OpenAPI 3 (components/schemas) and Swagger 2
//     (definitions) dialects
//   - resolver: recursive $ref expansion with cycle detection,
//     sibling-key merging, and a bounded resolution depth
//   - docerrors: structured error types for programmatic handling
//
// The cmd/specdex binary serves the query operations as MCP tools over
// stdio and also exposes them directly as CLI subcommands.
package specdex
