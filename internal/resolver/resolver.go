// Package resolver inlines $ref pointers in an OpenAPI document.
package resolver

import (
	"strings"

	"github.com/GabrielNunesIT/openapi-domaingen/internal/domain"
)

// SchemaRefPrefix is the only ref namespace the resolver expands.
const SchemaRefPrefix = "#/components/schemas/"

// refResolver expands refs against a fixed set of components.
type refResolver struct {
	components map[string]*domain.Schema
	// expanding holds the refs on the current expansion stack.
	expanding map[string]bool
}

// ResolveRefs returns a copy of doc in which every schema $ref pointing at
// #/components/schemas/<Name> is replaced by a deep copy of its target.
// Unknown refs and refs that would re-enter themselves are kept as ref nodes.
// The input document is never modified.
func ResolveRefs(doc *domain.OpenAPIDocument) *domain.OpenAPIDocument {
	if doc == nil {
		return nil
	}

	r := &refResolver{
		components: doc.Components,
		expanding:  make(map[string]bool),
	}

	out := &domain.OpenAPIDocument{
		Title:       doc.Title,
		Version:     doc.Version,
		Description: doc.Description,
		Servers:     append([]domain.Server(nil), doc.Servers...),
		Tags:        append([]domain.Tag(nil), doc.Tags...),
	}

	for _, path := range doc.Paths {
		out.Paths = append(out.Paths, r.resolvePath(path))
	}

	if doc.Components != nil {
		out.Components = make(map[string]*domain.Schema, len(doc.Components))

		for name, schema := range doc.Components {
			ref := SchemaRefPrefix + name
			r.expanding[ref] = true
			out.Components[name] = r.resolveSchema(schema)
			delete(r.expanding, ref)
		}
	}

	return out
}

func (r *refResolver) resolvePath(path domain.Path) domain.Path {
	out := domain.Path{Path: path.Path}

	for _, op := range path.Operations {
		out.Operations = append(out.Operations, r.resolveOperation(op))
	}

	return out
}

func (r *refResolver) resolveOperation(op domain.Operation) domain.Operation {
	out := op
	out.Tags = append([]string(nil), op.Tags...)
	out.Parameters = nil
	out.Responses = nil

	for _, param := range op.Parameters {
		param.Schema = r.resolveSchema(param.Schema)
		out.Parameters = append(out.Parameters, param)
	}

	if op.RequestBody != nil {
		body := *op.RequestBody
		body.Content = r.resolveContent(op.RequestBody.Content)
		out.RequestBody = &body
	}

	for _, resp := range op.Responses {
		resp.Content = r.resolveContent(resp.Content)
		out.Responses = append(out.Responses, resp)
	}

	return out
}

func (r *refResolver) resolveContent(content []domain.MediaType) []domain.MediaType {
	if content == nil {
		return nil
	}

	out := make([]domain.MediaType, len(content))
	for i, media := range content {
		out[i] = domain.MediaType{
			ContentType: media.ContentType,
			Schema:      r.resolveSchema(media.Schema),
		}
	}

	return out
}

func (r *refResolver) resolveSchema(schema *domain.Schema) *domain.Schema {
	switch schema.Kind() {
	case domain.SchemaEmpty:
		if schema == nil {
			return nil
		}
		return copyScalar(schema)
	case domain.SchemaRef:
		return r.resolveRef(schema)
	default:
		out := copyScalar(schema)

		for _, prop := range schema.Properties {
			out.Properties = append(out.Properties, domain.Property{
				Name:   prop.Name,
				Schema: r.resolveSchema(prop.Schema),
			})
		}

		out.Items = r.resolveSchema(schema.Items)
		out.AllOf = r.resolveList(schema.AllOf)
		out.OneOf = r.resolveList(schema.OneOf)
		out.AnyOf = r.resolveList(schema.AnyOf)

		return out
	}
}

func (r *refResolver) resolveRef(schema *domain.Schema) *domain.Schema {
	ref := schema.Ref
	unresolved := &domain.Schema{Ref: ref}

	name, ok := strings.CutPrefix(ref, SchemaRefPrefix)
	if !ok {
		return unresolved
	}

	target, ok := r.components[name]
	if !ok || r.expanding[ref] {
		return unresolved
	}

	r.expanding[ref] = true
	defer delete(r.expanding, ref)

	out := r.resolveSchema(target)
	if out != nil {
		out.Origin = name
	}

	return out
}

func (r *refResolver) resolveList(schemas []*domain.Schema) []*domain.Schema {
	if schemas == nil {
		return nil
	}

	out := make([]*domain.Schema, len(schemas))
	for i, s := range schemas {
		out[i] = r.resolveSchema(s)
	}

	return out
}

// copyScalar copies the leaf attributes of a schema, leaving nested schemas unset.
func copyScalar(s *domain.Schema) *domain.Schema {
	out := &domain.Schema{
		Type:        s.Type,
		Format:      s.Format,
		Description: s.Description,
		Enum:        append([]string(nil), s.Enum...),
		Nullable:    s.Nullable,
		ReadOnly:    s.ReadOnly,
		Pattern:     s.Pattern,
		Required:    append([]string(nil), s.Required...),
		Example:     s.Example,
		Origin:      s.Origin,
	}

	if s.MinLength != nil {
		v := *s.MinLength
		out.MinLength = &v
	}
	if s.MaxLength != nil {
		v := *s.MaxLength
		out.MaxLength = &v
	}
	if s.Minimum != nil {
		v := *s.Minimum
		out.Minimum = &v
	}
	if s.Maximum != nil {
		v := *s.Maximum
		out.Maximum = &v
	}

	return out
}
