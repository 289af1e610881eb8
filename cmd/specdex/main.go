package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/specdex/specdex"
	"github.com/specdex/specdex/index"
	"github.com/specdex/specdex/internal/mcpserver"
	"github.com/specdex/specdex/loader"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("specdex v%s\n", specdex.Version())
	case "help", "-h", "--help":
		printUsage()
	case "serve":
		if err := handleServe(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "endpoints":
		if err := handleEndpoints(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "endpoint":
		if err := handleEndpoint(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "schemas":
		if err := handleSchemas(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "schema":
		if err := handleSchema(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`specdex - structured queries over OpenAPI (v2/v3) documents

Usage:
  specdex <command> [flags] <file|url>

Commands:
  serve      Serve the query tools as an MCP server over stdio
  endpoints  List or search endpoints
  endpoint   Get the full definition of one endpoint
  schemas    Search schema definitions by name
  schema     Get a schema with all $ref references resolved
  version    Print version information
  help       Show this help

Run 'specdex <command> -h' for command-specific flags.`)
}

// serveFlags contains flags for the serve command
type serveFlags struct {
	logLevel string
}

func setupServeFlags() (*flag.FlagSet, *serveFlags) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	flags := &serveFlags{}

	fs.StringVar(&flags.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: specdex serve [flags] <file|url>\n\n")
		_, _ = fmt.Fprintf(output, "Serve the five query tools as an MCP server over stdio.\n\n")
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(output, "\nExamples:\n")
		_, _ = fmt.Fprintf(output, "  specdex serve openapi.yaml\n")
		_, _ = fmt.Fprintf(output, "  specdex serve --log-level debug https://example.com/api/openapi.json\n")
	}

	return fs, flags
}

func handleServe(args []string) error {
	fs, flags := setupServeFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("serve command requires exactly one file path or URL")
	}

	level, err := parseLogLevel(flags.logLevel)
	if err != nil {
		return err
	}
	// stdout carries the MCP protocol; logs go to stderr.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting specdex MCP server", "version", specdex.Version(), "source", fs.Arg(0))
	return mcpserver.Run(ctx, fs.Arg(0))
}

func parseLogLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q (valid: debug, info, warn, error)", s)
	}
}

// endpointsFlags contains flags for the endpoints command
type endpointsFlags struct {
	query string
}

func setupEndpointsFlags() (*flag.FlagSet, *endpointsFlags) {
	fs := flag.NewFlagSet("endpoints", flag.ContinueOnError)
	flags := &endpointsFlags{}

	fs.StringVar(&flags.query, "query", "", "filter endpoints by keyword (path, summary, description, tags)")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: specdex endpoints [flags] <file|url>\n\n")
		_, _ = fmt.Fprintf(output, "List all endpoints, or search them with --query.\n\n")
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(output, "\nExamples:\n")
		_, _ = fmt.Fprintf(output, "  specdex endpoints openapi.yaml\n")
		_, _ = fmt.Fprintf(output, "  specdex endpoints --query pets openapi.yaml\n")
	}

	return fs, flags
}

func handleEndpoints(args []string) error {
	fs, flags := setupEndpointsFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	ix, err := loadIndex(fs)
	if err != nil {
		return err
	}

	results := ix.SearchEndpoints(flags.query)
	if results == nil {
		results = []index.EndpointSummary{}
	}
	return printJSON(results)
}

// endpointFlags contains flags for the endpoint command
type endpointFlags struct {
	path   string
	method string
}

func setupEndpointFlags() (*flag.FlagSet, *endpointFlags) {
	fs := flag.NewFlagSet("endpoint", flag.ContinueOnError)
	flags := &endpointFlags{}

	fs.StringVar(&flags.path, "path", "", "endpoint path template, exactly as in the document")
	fs.StringVar(&flags.method, "method", "", "HTTP method (case-insensitive)")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: specdex endpoint --path <path> --method <method> <file|url>\n\n")
		_, _ = fmt.Fprintf(output, "Get the full definition of one endpoint.\n\n")
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(output, "\nExamples:\n")
		_, _ = fmt.Fprintf(output, "  specdex endpoint --path /pets/{petId} --method get openapi.yaml\n")
	}

	return fs, flags
}

func handleEndpoint(args []string) error {
	fs, flags := setupEndpointFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if flags.path == "" || flags.method == "" {
		fs.Usage()
		return fmt.Errorf("endpoint command requires --path and --method")
	}

	ix, err := loadIndex(fs)
	if err != nil {
		return err
	}

	detail, err := ix.GetEndpoint(flags.path, flags.method)
	if err != nil {
		return printJSON(map[string]string{"error": err.Error()})
	}
	return printJSON(detail)
}

// schemasFlags contains flags for the schemas command
type schemasFlags struct {
	query string
}

func setupSchemasFlags() (*flag.FlagSet, *schemasFlags) {
	fs := flag.NewFlagSet("schemas", flag.ContinueOnError)
	flags := &schemasFlags{}

	fs.StringVar(&flags.query, "query", "", "filter schemas by name keyword")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: specdex schemas [flags] <file|url>\n\n")
		_, _ = fmt.Fprintf(output, "Search schema definitions by name. An empty query lists all.\n\n")
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(output, "\nExamples:\n")
		_, _ = fmt.Fprintf(output, "  specdex schemas openapi.yaml\n")
		_, _ = fmt.Fprintf(output, "  specdex schemas --query pet openapi.yaml\n")
	}

	return fs, flags
}

func handleSchemas(args []string) error {
	fs, flags := setupSchemasFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	ix, err := loadIndex(fs)
	if err != nil {
		return err
	}

	results := ix.SearchSchemas(flags.query)
	if results == nil {
		results = []index.SchemaSummary{}
	}
	return printJSON(results)
}

// schemaFlags contains flags for the schema command
type schemaFlags struct {
	name string
}

func setupSchemaFlags() (*flag.FlagSet, *schemaFlags) {
	fs := flag.NewFlagSet("schema", flag.ContinueOnError)
	flags := &schemaFlags{}

	fs.StringVar(&flags.name, "name", "", "name of the schema to retrieve")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: specdex schema --name <name> <file|url>\n\n")
		_, _ = fmt.Fprintf(output, "Get a schema definition with all $ref references resolved.\n\n")
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(output, "\nExamples:\n")
		_, _ = fmt.Fprintf(output, "  specdex schema --name Pet openapi.yaml\n")
	}

	return fs, flags
}

func handleSchema(args []string) error {
	fs, flags := setupSchemaFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if flags.name == "" {
		fs.Usage()
		return fmt.Errorf("schema command requires --name")
	}

	ix, err := loadIndex(fs)
	if err != nil {
		return err
	}

	result, err := ix.GetSchemaDetails(flags.name)
	if err != nil {
		return printJSON(map[string]string{"error": err.Error()})
	}
	return printJSON(result)
}

// loadIndex loads the document named by the single positional argument and
// builds an index over it.
func loadIndex(fs *flag.FlagSet) (*index.Index, error) {
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, fmt.Errorf("%s command requires exactly one file path or URL", fs.Name())
	}

	doc, err := loader.LoadWithOptions(loader.WithSource(fs.Arg(0)))
	if err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}
	return index.New(doc), nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling to JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
