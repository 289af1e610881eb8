// Package loader reads OpenAPI specification documents from local files,
// URLs, readers, or raw bytes and produces the immutable generic tree that
// the index and resolver packages operate on.
//
// Both JSON and YAML input are supported. The format is selected by file
// extension (or URL path / Content-Type), with content sniffing as a
// fallback when undetermined.
package loader

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.yaml.in/yaml/v4"
)

// MaxDocumentSize is the default maximum size (in bytes) for a loaded
// document. This prevents resource exhaustion from arbitrarily large
// sources. Set to 10MB which is sufficient for most OpenAPI documents.
const MaxDocumentSize = 10 * 1024 * 1024 // 10MB

// Loader reads and parses specification documents
type Loader struct {
	// UserAgent is the User-Agent string used when fetching URLs
	// Defaults to "specdex/vX.Y.Z" if not set
	UserAgent string
	// HTTPClient is the HTTP client used for fetching URLs.
	// If nil, a default client with 30-second timeout is created.
	HTTPClient *http.Client
	// Logger is the structured logger for debug output
	// If nil, logging is disabled (default)
	Logger Logger
	// MaxSize is the maximum document size in bytes (0 means MaxDocumentSize)
	MaxSize int64
}

// New creates a new Loader instance with default settings
func New() *Loader {
	return &Loader{}
}

// log returns the configured logger, or a no-op logger if none is set.
func (l *Loader) log() Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return NopLogger{}
}

func (l *Loader) maxSize() int64 {
	if l.MaxSize > 0 {
		return l.MaxSize
	}
	return MaxDocumentSize
}

// Load loads a specification document from a file path or URL.
// For URLs (http:// or https://), the content is fetched and parsed.
// For local files, the file is read and parsed.
func (l *Loader) Load(source string) (*Document, error) {
	var data []byte
	var err error
	var format SourceFormat
	var loadTime time.Duration

	if isURL(source) {
		var contentType string
		loadStart := time.Now()
		data, contentType, err = l.fetchURL(source)
		loadTime = time.Since(loadStart)
		if err != nil {
			return nil, err
		}
		format = detectFormatFromURL(source, contentType)
	} else {
		loadStart := time.Now()
		data, err = os.ReadFile(source)
		loadTime = time.Since(loadStart)
		if err != nil {
			return nil, fmt.Errorf("loader: failed to read file: %w", err)
		}
		format = detectFormatFromPath(source)
	}

	doc, err := l.parseBytes(data, format)
	if err != nil {
		return nil, err
	}
	doc.SourcePath = source
	doc.LoadTime = loadTime

	l.log().Info("loaded specification document",
		"source", source, "format", string(doc.SourceFormat), "bytes", doc.SourceSize)
	return doc, nil
}

// LoadReader loads a specification document from an io.Reader.
// The format is detected by sniffing the content.
func (l *Loader) LoadReader(r io.Reader) (*Document, error) {
	loadStart := time.Now()
	data, err := io.ReadAll(io.LimitReader(r, l.maxSize()+1))
	loadTime := time.Since(loadStart)
	if err != nil {
		return nil, fmt.Errorf("loader: failed to read input: %w", err)
	}

	doc, err := l.parseBytes(data, SourceFormatUnknown)
	if err != nil {
		return nil, err
	}
	doc.SourcePath = "LoadReader." + string(doc.SourceFormat)
	doc.LoadTime = loadTime
	return doc, nil
}

// LoadBytes loads a specification document from a byte slice.
// The format is detected by sniffing the content.
func (l *Loader) LoadBytes(data []byte) (*Document, error) {
	doc, err := l.parseBytes(data, SourceFormatUnknown)
	if err != nil {
		return nil, err
	}
	doc.SourcePath = "LoadBytes." + string(doc.SourceFormat)
	return doc, nil
}

// parseBytes parses document bytes into a Document. The YAML parser handles
// both YAML and JSON input; format only records what the source looked like.
func (l *Loader) parseBytes(data []byte, format SourceFormat) (*Document, error) {
	if int64(len(data)) > l.maxSize() {
		return nil, fmt.Errorf("loader: document exceeds maximum size limit (%d bytes): input is %d bytes",
			l.maxSize(), len(data))
	}

	if format == SourceFormatUnknown {
		format = detectFormatFromContent(data)
		if format == SourceFormatUnknown {
			return nil, fmt.Errorf("loader: empty document")
		}
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("loader: failed to parse document: %w", err)
	}

	rootNode := &node
	if rootNode.Kind == yaml.DocumentNode {
		if len(rootNode.Content) == 0 {
			return nil, fmt.Errorf("loader: empty document")
		}
		rootNode = resolveAlias(rootNode.Content[0])
	}
	if rootNode.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("loader: document root must be a mapping, got %s", kindString(rootNode.Kind))
	}

	var root map[string]any
	if err := rootNode.Decode(&root); err != nil {
		return nil, fmt.Errorf("loader: failed to decode document: %w", err)
	}

	return &Document{
		SourceFormat: format,
		SourceSize:   int64(len(data)),
		root:         root,
		node:         rootNode,
	}, nil
}

// kindString names a yaml.Kind for error messages.
func kindString(kind yaml.Kind) string {
	switch kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
