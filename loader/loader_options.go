package loader

import (
	"fmt"
	"io"
	"net/http"

	"github.com/specdex/specdex/internal/options"
)

// Option is a function that configures a load operation
type Option func(*loadConfig) error

// loadConfig holds configuration for a load operation
type loadConfig struct {
	// Input source (exactly one must be set)
	source *string
	reader io.Reader
	bytes  []byte

	// Configuration options
	userAgent  string
	httpClient *http.Client
	logger     Logger
	maxSize    int64

	// Source identification
	sourceName *string
}

// LoadWithOptions loads a specification document using functional options.
//
// Example:
//
//	doc, err := loader.LoadWithOptions(
//	    loader.WithSource("openapi.yaml"),
//	    loader.WithLogger(loader.NewSlogAdapter(slog.Default())),
//	)
func LoadWithOptions(opts ...Option) (*Document, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("loader: invalid options: %w", err)
	}

	l := &Loader{
		UserAgent:  cfg.userAgent,
		HTTPClient: cfg.httpClient,
		Logger:     cfg.logger,
		MaxSize:    cfg.maxSize,
	}

	var doc *Document
	var loadErr error
	switch {
	case cfg.source != nil:
		doc, loadErr = l.Load(*cfg.source)
	case cfg.reader != nil:
		doc, loadErr = l.LoadReader(cfg.reader)
	case cfg.bytes != nil:
		doc, loadErr = l.LoadBytes(cfg.bytes)
	default:
		// Unreachable due to validation in applyOptions
		return nil, fmt.Errorf("loader: no input source specified")
	}
	if loadErr != nil {
		return nil, loadErr
	}

	if cfg.sourceName != nil {
		doc.SourcePath = *cfg.sourceName
	}
	return doc, nil
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*loadConfig, error) {
	cfg := &loadConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.ValidateSingleInputSource(
		"loader: must specify an input source (use WithSource, WithReader, or WithBytes)",
		"loader: must specify exactly one input source",
		cfg.source != nil, cfg.reader != nil, cfg.bytes != nil,
	); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithSource specifies a file path or URL as the input source
func WithSource(source string) Option {
	return func(cfg *loadConfig) error {
		cfg.source = &source
		return nil
	}
}

// WithReader specifies an io.Reader as the input source
func WithReader(r io.Reader) Option {
	return func(cfg *loadConfig) error {
		if r == nil {
			return fmt.Errorf("loader: reader cannot be nil")
		}
		cfg.reader = r
		return nil
	}
}

// WithBytes specifies a byte slice as the input source
func WithBytes(data []byte) Option {
	return func(cfg *loadConfig) error {
		if data == nil {
			return fmt.Errorf("loader: bytes cannot be nil")
		}
		cfg.bytes = data
		return nil
	}
}

// WithUserAgent sets the User-Agent string for HTTP requests
// Default: "specdex/vX.Y.Z"
func WithUserAgent(ua string) Option {
	return func(cfg *loadConfig) error {
		cfg.userAgent = ua
		return nil
	}
}

// WithHTTPClient sets a custom HTTP client for fetching URLs.
// If the client is nil, this option has no effect (default client is used).
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *loadConfig) error {
		cfg.httpClient = client
		return nil
	}
}

// WithLogger sets a structured logger for output during loading.
// By default, no logging is performed (nil logger).
// Use NewSlogAdapter to wrap a *slog.Logger.
func WithLogger(l Logger) Option {
	return func(cfg *loadConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithMaxSize sets the maximum document size in bytes.
// A value of 0 means use the default (10MB).
// Returns an error if size is negative.
func WithMaxSize(size int64) Option {
	return func(cfg *loadConfig) error {
		if size < 0 {
			return fmt.Errorf("loader: maxSize cannot be negative")
		}
		cfg.maxSize = size
		return nil
	}
}

// WithSourceName specifies a meaningful name for the source document.
// This is useful when loading from bytes or reader, where the default names
// ("LoadBytes.yaml", "LoadReader.yaml") are not descriptive.
func WithSourceName(name string) Option {
	return func(cfg *loadConfig) error {
		if name == "" {
			return fmt.Errorf("loader: source name cannot be empty")
		}
		cfg.sourceName = &name
		return nil
	}
}
