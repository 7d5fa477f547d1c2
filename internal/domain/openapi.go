// Package domain provides core business models and interfaces for the domain generator.
package domain

// OpenAPIDocument represents a parsed OpenAPI specification.
// Paths, operations and schema properties keep the order they have in the source document.
type OpenAPIDocument struct {
	Title       string
	Version     string
	Description string
	Servers     []Server
	Tags        []Tag
	Paths       []Path
	Components  map[string]*Schema // Schema components (key is schema name)
}

// Server represents an API server.
type Server struct {
	URL         string
	Description string
}

// Tag represents an OpenAPI tag.
type Tag struct {
	Name        string
	Description string
}

// Path represents an API endpoint path.
type Path struct {
	Path       string
	Operations []Operation
}

// Operation represents an HTTP operation on a path.
type Operation struct {
	Method      string
	Summary     string
	Description string
	OperationID string
	Tags        []string
	Parameters  []Parameter
	RequestBody *RequestBody
	Responses   []Response
}

// Parameter represents a request parameter.
type Parameter struct {
	Name        string
	In          string // query, path, header, cookie
	Description string
	Required    bool
	Schema      *Schema
}

// RequestBody represents a request body.
type RequestBody struct {
	Description string
	Required    bool
	Content     []MediaType
}

// MediaType represents the content type and schema.
type MediaType struct {
	ContentType string
	Schema      *Schema
}

// Response represents an API response.
type Response struct {
	StatusCode  string
	Description string
	Content     []MediaType
}

// SchemaKind discriminates the node shapes a Schema can take.
type SchemaKind int

// Schema node kinds.
const (
	SchemaEmpty SchemaKind = iota
	SchemaRef
	SchemaObject
	SchemaArray
	SchemaComposite
	SchemaScalar
)

// Schema represents a JSON schema for request/response bodies.
type Schema struct {
	Ref         string
	Type        string
	Format      string
	Description string
	Enum        []string
	Nullable    bool
	ReadOnly    bool
	MinLength   *int
	MaxLength   *int
	Minimum     *float64
	Maximum     *float64
	Pattern     string
	Properties  []Property
	Required    []string
	Items       *Schema
	AllOf       []*Schema
	OneOf       []*Schema
	AnyOf       []*Schema
	Example     any

	// Origin is the component name a resolved node was inlined from.
	Origin string
}

// Property is a named member of an object schema.
type Property struct {
	Name   string
	Schema *Schema
}

// Kind reports which node shape the schema has.
// A ref always wins: the remaining fields of a ref node are ignored.
func (s *Schema) Kind() SchemaKind {
	switch {
	case s == nil:
		return SchemaEmpty
	case s.Ref != "":
		return SchemaRef
	case s.Type == "array" || (s.Type == "" && s.Items != nil):
		return SchemaArray
	case len(s.AllOf) > 0 || len(s.OneOf) > 0 || len(s.AnyOf) > 0:
		return SchemaComposite
	case s.Type == "object" || len(s.Properties) > 0:
		return SchemaObject
	case s.Type == "" && len(s.Enum) == 0:
		return SchemaEmpty
	default:
		return SchemaScalar
	}
}

// Property returns the named property schema, or nil.
func (s *Schema) Property(name string) *Schema {
	if s == nil {
		return nil
	}

	for _, p := range s.Properties {
		if p.Name == name {
			return p.Schema
		}
	}

	return nil
}

// IsRequired reports whether name is listed in the schema's required set.
func (s *Schema) IsRequired(name string) bool {
	if s == nil {
		return false
	}

	for _, r := range s.Required {
		if r == name {
			return true
		}
	}

	return false
}
