package extractor

import (
	"strings"

	"github.com/GabrielNunesIT/openapi-domaingen/internal/domain"
)

// pathShape is the CRUD reading of a path template.
type pathShape struct {
	collection string // path without the trailing item parameter
	segment    string // last literal segment of the collection path
	itemParam  string // trailing parameter name for item paths
	parent     *domain.ParentRef
}

func isParam(segment string) bool {
	return strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}")
}

func paramName(segment string) string {
	return strings.TrimSuffix(strings.TrimPrefix(segment, "{"), "}")
}

// parsePath splits a path such as /parents/{parentId}/children/{id} into its
// collection, item parameter and parent reference.
func parsePath(path string) (pathShape, bool) {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}

	var shape pathShape

	if n := len(segments); n > 0 && isParam(segments[n-1]) {
		shape.itemParam = paramName(segments[n-1])
		segments = segments[:n-1]
	}

	n := len(segments)
	if n == 0 || isParam(segments[n-1]) {
		return pathShape{}, false
	}

	shape.segment = segments[n-1]
	shape.collection = "/" + strings.Join(segments, "/")

	if n >= 3 && isParam(segments[n-2]) {
		shape.parent = &domain.ParentRef{
			Param: paramName(segments[n-2]),
			Path:  "/" + strings.Join(segments[:n-2], "/"),
		}
	}

	return shape, true
}

// unwrapCollection returns the element schema of a list response: array items, or the
// items of an envelope property such as {"data": [...]}.
func unwrapCollection(schema *domain.Schema) *domain.Schema {
	switch schema.Kind() {
	case domain.SchemaArray:
		return schema.Items
	case domain.SchemaObject:
		for _, name := range envelopeProperties {
			if prop := schema.Property(name); prop.Kind() == domain.SchemaArray {
				return prop.Items
			}
		}
	}

	return schema
}

// flatten merges allOf members into a single object schema and picks the first
// member of oneOf/anyOf.
func flatten(schema *domain.Schema) *domain.Schema {
	if schema.Kind() != domain.SchemaComposite {
		return schema
	}

	if len(schema.AllOf) == 0 {
		members := schema.OneOf
		if len(members) == 0 {
			members = schema.AnyOf
		}
		return flatten(members[0])
	}

	merged := &domain.Schema{
		Type:     domain.TypeObject,
		Nullable: schema.Nullable,
		Origin:   schema.Origin,
	}

	parts := append([]*domain.Schema{}, schema.AllOf...)
	if len(schema.Properties) > 0 {
		parts = append(parts, &domain.Schema{Properties: schema.Properties, Required: schema.Required})
	}

	for _, part := range parts {
		part = flatten(part)
		if part == nil {
			continue
		}

		for _, prop := range part.Properties {
			if merged.Property(prop.Name) == nil {
				merged.Properties = append(merged.Properties, prop)
			}
		}
		merged.Required = appendUnique(merged.Required, part.Required...)
	}

	return merged
}

// fieldsFromSchema reads an object schema's properties into fields, in property order.
// Names of readOnly properties are recorded in readOnly.
func fieldsFromSchema(schema *domain.Schema, readOnly map[string]bool) []domain.Field {
	schema = flatten(schema)
	if schema.Kind() != domain.SchemaObject {
		return nil
	}

	fields := make([]domain.Field, 0, len(schema.Properties))

	for _, prop := range schema.Properties {
		if prop.Schema != nil && prop.Schema.ReadOnly {
			readOnly[prop.Name] = true
		}
		fields = append(fields, fieldFromSchema(prop.Name, prop.Schema, schema.IsRequired(prop.Name)))
	}

	return fields
}

// fieldFromSchema maps one property schema to a field.
func fieldFromSchema(name string, schema *domain.Schema, required bool) domain.Field {
	field := domain.Field{Name: name, Required: required}

	if schema == nil {
		field.Type = domain.TypeObject
		return field
	}

	field.Nullable = schema.Nullable

	switch schema.Kind() {
	case domain.SchemaRef, domain.SchemaEmpty, domain.SchemaObject:
		field.Type = domain.TypeObject
	case domain.SchemaComposite:
		if len(schema.AllOf) == 1 && len(schema.Properties) == 0 {
			inner := fieldFromSchema(name, schema.AllOf[0], required)
			inner.Nullable = inner.Nullable || schema.Nullable
			return inner
		}
		field.Type = domain.TypeObject
	case domain.SchemaArray:
		field.Type = domain.TypeArray
		if schema.Items != nil {
			items := fieldFromSchema("", schema.Items, true)
			field.Items = &items
			field.ItemsType = items.Type
		}
		field.MinLength = schema.MinLength
		field.MaxLength = schema.MaxLength
	case domain.SchemaScalar:
		field.Type = schema.Type
		if field.Type == "" {
			field.Type = domain.TypeString
		}
		field.Format = schema.Format
		field.EnumValues = append([]string(nil), schema.Enum...)
		field.MinLength = schema.MinLength
		field.MaxLength = schema.MaxLength
		field.Minimum = schema.Minimum
		field.Maximum = schema.Maximum
		field.Pattern = schema.Pattern
	}

	return field
}

// queryFields converts the query parameters of an operation to fields.
func queryFields(params []domain.Parameter) []domain.Field {
	fields := []domain.Field{}

	for _, param := range params {
		if param.In != "query" {
			continue
		}
		if param.Schema == nil {
			fields = append(fields, domain.Field{Name: param.Name, Type: domain.TypeString, Required: param.Required})
			continue
		}
		fields = append(fields, fieldFromSchema(param.Name, param.Schema, param.Required))
	}

	return fields
}
