// Package loader reads OpenAPI documents from files or URLs into the domain tree.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/GabrielNunesIT/openapi-domaingen/internal/domain"
	"github.com/getkin/kin-openapi/openapi3"
)

// DefaultTimeout bounds a remote fetch.
const DefaultTimeout = 30 * time.Second

// StdinSource reads the document from standard input.
const StdinSource = "-"

var (
	// ErrNotOpenAPI is returned when the document root is not an OpenAPI 3.x object.
	ErrNotOpenAPI = errors.New("document is not an OpenAPI 3.x specification")

	// ErrTooDeep is returned when schema nesting or alias chains exceed the supported depth.
	ErrTooDeep = errors.New("document nesting too deep")
)

// Loader fetches and parses OpenAPI documents.
type Loader struct {
	client   *http.Client
	timeout  time.Duration
	validate bool
	stdin    io.Reader
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient sets the client used for remote sources.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) {
		l.client = client
	}
}

// WithTimeout bounds remote fetches.
func WithTimeout(timeout time.Duration) Option {
	return func(l *Loader) {
		l.timeout = timeout
	}
}

// WithValidation enables kin-openapi validation of the raw document before parsing.
func WithValidation(enabled bool) Option {
	return func(l *Loader) {
		l.validate = enabled
	}
}

// WithStdin sets the reader used for the "-" source.
func WithStdin(r io.Reader) Option {
	return func(l *Loader) {
		l.stdin = r
	}
}

// New creates a new Loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		client:  http.DefaultClient,
		timeout: DefaultTimeout,
		stdin:   os.Stdin,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load reads source (a path, an http(s) URL or "-") and parses it.
func (l *Loader) Load(ctx context.Context, source string) (*domain.OpenAPIDocument, error) {
	data, err := l.Read(ctx, source)
	if err != nil {
		return nil, err
	}

	if l.validate {
		if err := Validate(ctx, data); err != nil {
			return nil, err
		}
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", source, err)
	}

	return doc, nil
}

// Read returns the raw bytes of source.
func (l *Loader) Read(ctx context.Context, source string) ([]byte, error) {
	switch {
	case source == StdinSource:
		data, err := io.ReadAll(l.stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	case IsRemote(source):
		return l.fetch(ctx, source)
	default:
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to read OpenAPI file: %w", err)
		}
		return data, nil
	}
}

// IsRemote reports whether source is an http(s) URL.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}

	return data, nil
}

// Validate checks data against the OpenAPI 3 schema rules.
func Validate(ctx context.Context, data []byte) error {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	spec, err := loader.LoadFromData(data)
	if err != nil {
		return fmt.Errorf("failed to load OpenAPI document for validation: %w", err)
	}

	if err := spec.Validate(ctx); err != nil {
		return fmt.Errorf("invalid OpenAPI document: %w", err)
	}

	return nil
}
