// Package renderers provides the text artifacts generated for every domain package.
package renderers

import (
	"embed"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/GabrielNunesIT/openapi-domaingen/internal/domain"
	"github.com/GabrielNunesIT/openapi-domaingen/internal/extractor"
)

// Artifact file names.
const (
	SchemasFile   = "schemas.ts"
	TypesFile     = "types.ts"
	APIFile       = "api.ts"
	IndexFile     = "index.ts"
	RequestsFile  = "requests.http"
	MigrationFile = "migration.sql"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.tmpl"))

var templateFuncs = template.FuncMap{
	"quote":  strconv.Quote,
	"join":   strings.Join,
	"marker": func() string { return domain.GeneratedMarker },
}

// Default returns the text renderers in the order their files are written.
func Default(baseURL string) []domain.Renderer {
	return []domain.Renderer{
		NewSchemasRenderer(),
		NewTypesRenderer(),
		NewAPIRenderer(baseURL),
		NewIndexRenderer(),
		NewRequestsRenderer(baseURL),
		NewMigrationRenderer(),
	}
}

func execute(output io.Writer, name string, data any) error {
	if err := templates.ExecuteTemplate(output, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}

	return nil
}

func checkGroup(group *domain.DomainGroup) error {
	if group == nil {
		return domain.ErrNilGroup
	}

	return nil
}

// pathParams returns the parameter names of an OpenAPI ({id}) or colon (:id) style path.
func pathParams(path string) []string {
	var params []string

	for _, segment := range strings.Split(path, "/") {
		switch {
		case strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}"):
			params = append(params, segment[1:len(segment)-1])
		case strings.HasPrefix(segment, ":") && len(segment) > 1:
			params = append(params, segment[1:])
		}
	}

	return params
}

// rewritePath replaces every path parameter with the result of fn.
func rewritePath(path string, fn func(param string) string) string {
	segments := strings.Split(path, "/")

	for i, segment := range segments {
		switch {
		case strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}"):
			segments[i] = fn(segment[1 : len(segment)-1])
		case strings.HasPrefix(segment, ":") && len(segment) > 1:
			segments[i] = fn(segment[1:])
		}
	}

	return strings.Join(segments, "/")
}

// identifier turns a parameter name into a JS identifier.
func identifier(name string) string {
	id := extractor.ToCamelCase(name)
	if id == "" {
		return "param"
	}

	return id
}
