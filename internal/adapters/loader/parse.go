package loader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/GabrielNunesIT/openapi-domaingen/internal/domain"
	yaml "go.yaml.in/yaml/v4"
)

const (
	maxDepth      = 256
	maxAliasChain = 32
)

// Operation keys of a path item, as they may appear in the document.
var httpMethods = map[string]string{
	"get":     "GET",
	"put":     "PUT",
	"post":    "POST",
	"delete":  "DELETE",
	"options": "OPTIONS",
	"head":    "HEAD",
	"patch":   "PATCH",
	"trace":   "TRACE",
}

// Parse decodes a JSON or YAML OpenAPI 3.x document. Map order in the source is kept
// for paths, operations, responses, media types and schema properties. Refs to
// components other than schemas (parameters, request bodies, responses) are inlined;
// one that points nowhere is dropped.
func Parse(data []byte) (*domain.OpenAPIDocument, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}

	p := &parser{}

	top, err := p.deref(&root)
	if err != nil {
		return nil, err
	}
	if top.Kind == yaml.DocumentNode && len(top.Content) > 0 {
		if top, err = p.deref(top.Content[0]); err != nil {
			return nil, err
		}
	}
	if top.Kind != yaml.MappingNode {
		return nil, ErrNotOpenAPI
	}

	p.root = top

	version := p.str(top, "openapi")
	if !strings.HasPrefix(version, "3.") {
		return nil, fmt.Errorf("%w (openapi: %q)", ErrNotOpenAPI, version)
	}

	return p.document(top)
}

type parser struct {
	root *yaml.Node
}

// deref follows alias nodes.
func (p *parser) deref(n *yaml.Node) (*yaml.Node, error) {
	for i := 0; n != nil && n.Kind == yaml.AliasNode; i++ {
		if i >= maxAliasChain {
			return nil, ErrTooDeep
		}
		n = n.Alias
	}

	return n, nil
}

// get returns the value of key in mapping n, or nil.
func (p *parser) get(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			v, err := p.deref(n.Content[i+1])
			if err != nil {
				return nil
			}
			return v
		}
	}

	return nil
}

// each calls fn for every key/value pair of mapping n in document order.
func (p *parser) each(n *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		v, err := p.deref(n.Content[i+1])
		if err != nil {
			return err
		}
		if err := fn(n.Content[i].Value, v); err != nil {
			return err
		}
	}

	return nil
}

// items returns the dereferenced elements of sequence n.
func (p *parser) items(n *yaml.Node) ([]*yaml.Node, error) {
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil, nil
	}

	out := make([]*yaml.Node, 0, len(n.Content))
	for _, c := range n.Content {
		v, err := p.deref(c)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	return out, nil
}

func (p *parser) str(n *yaml.Node, key string) string {
	v := p.get(n, key)
	if v == nil || v.Kind != yaml.ScalarNode {
		return ""
	}

	return v.Value
}

func (p *parser) boolean(n *yaml.Node, key string) bool {
	b, err := strconv.ParseBool(p.str(n, key))
	return err == nil && b
}

func (p *parser) stringList(n *yaml.Node) []string {
	nodes, _ := p.items(n)

	var out []string
	for _, v := range nodes {
		if v.Kind == yaml.ScalarNode {
			out = append(out, v.Value)
		}
	}

	return out
}

// intPtr returns nil for absent or non-numeric values.
func (p *parser) intPtr(n *yaml.Node, key string) *int {
	v, err := strconv.Atoi(p.str(n, key))
	if err != nil {
		return nil
	}

	return &v
}

func (p *parser) floatPtr(n *yaml.Node, key string) *float64 {
	v, err := strconv.ParseFloat(p.str(n, key), 64)
	if err != nil {
		return nil
	}

	return &v
}

// component follows a local ref such as #/components/parameters/Page. A ref that
// points nowhere yields a nil node so the caller can skip it.
func (p *parser) component(n *yaml.Node) (*yaml.Node, error) {
	for i := 0; ; i++ {
		ref := p.str(n, "$ref")
		if ref == "" {
			return n, nil
		}
		if i >= maxAliasChain {
			return nil, ErrTooDeep
		}

		if n = p.pointer(ref); n == nil {
			return nil, nil
		}
	}
}

func (p *parser) pointer(ref string) *yaml.Node {
	if !strings.HasPrefix(ref, "#/") {
		return nil
	}

	n := p.root
	for _, part := range strings.Split(strings.TrimPrefix(ref, "#/"), "/") {
		part = strings.ReplaceAll(strings.ReplaceAll(part, "~1", "/"), "~0", "~")
		if n = p.get(n, part); n == nil {
			return nil
		}
	}

	return n
}

func (p *parser) document(top *yaml.Node) (*domain.OpenAPIDocument, error) {
	info := p.get(top, "info")

	doc := &domain.OpenAPIDocument{
		Title:       p.str(info, "title"),
		Version:     p.str(info, "version"),
		Description: p.str(info, "description"),
		Components:  make(map[string]*domain.Schema),
	}

	servers, err := p.items(p.get(top, "servers"))
	if err != nil {
		return nil, err
	}
	for _, s := range servers {
		doc.Servers = append(doc.Servers, domain.Server{
			URL:         p.str(s, "url"),
			Description: p.str(s, "description"),
		})
	}

	tags, err := p.items(p.get(top, "tags"))
	if err != nil {
		return nil, err
	}
	for _, t := range tags {
		doc.Tags = append(doc.Tags, domain.Tag{
			Name:        p.str(t, "name"),
			Description: p.str(t, "description"),
		})
	}

	err = p.each(p.get(top, "paths"), func(path string, item *yaml.Node) error {
		ops, err := p.operations(item)
		if err != nil {
			return fmt.Errorf("path %s: %w", path, err)
		}

		doc.Paths = append(doc.Paths, domain.Path{Path: path, Operations: ops})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = p.each(p.get(p.get(top, "components"), "schemas"), func(name string, node *yaml.Node) error {
		schema, err := p.schema(node, 0)
		if err != nil {
			return fmt.Errorf("schema %s: %w", name, err)
		}

		doc.Components[name] = schema
		return nil
	})
	if err != nil {
		return nil, err
	}

	return doc, nil
}

func (p *parser) operations(item *yaml.Node) ([]domain.Operation, error) {
	item, err := p.component(item)
	if err != nil || item == nil {
		return nil, err
	}

	shared, err := p.parameters(p.get(item, "parameters"))
	if err != nil {
		return nil, err
	}

	var operations []domain.Operation

	err = p.each(item, func(key string, node *yaml.Node) error {
		method, ok := httpMethods[strings.ToLower(key)]
		if !ok {
			return nil
		}

		op := domain.Operation{
			Method:      method,
			Summary:     p.str(node, "summary"),
			Description: p.str(node, "description"),
			OperationID: p.str(node, "operationId"),
			Tags:        p.stringList(p.get(node, "tags")),
		}

		own, err := p.parameters(p.get(node, "parameters"))
		if err != nil {
			return fmt.Errorf("%s parameters: %w", method, err)
		}
		op.Parameters = mergeParameters(shared, own)

		if body := p.get(node, "requestBody"); body != nil {
			// nil when the body ref is unresolved
			if op.RequestBody, err = p.requestBody(body); err != nil {
				return fmt.Errorf("%s requestBody: %w", method, err)
			}
		}

		err = p.each(p.get(node, "responses"), func(status string, resp *yaml.Node) error {
			r, err := p.response(status, resp)
			if err != nil || r == nil {
				return err
			}

			op.Responses = append(op.Responses, *r)
			return nil
		})
		if err != nil {
			return fmt.Errorf("%s responses: %w", method, err)
		}

		operations = append(operations, op)
		return nil
	})

	return operations, err
}

// mergeParameters overlays operation parameters on path-level ones; name and location
// identify a parameter.
func mergeParameters(shared, own []domain.Parameter) []domain.Parameter {
	if len(shared) == 0 {
		return own
	}

	merged := make([]domain.Parameter, 0, len(shared)+len(own))

	for _, s := range shared {
		overridden := false
		for _, o := range own {
			if o.Name == s.Name && o.In == s.In {
				overridden = true
				break
			}
		}
		if !overridden {
			merged = append(merged, s)
		}
	}

	return append(merged, own...)
}

func (p *parser) parameters(n *yaml.Node) ([]domain.Parameter, error) {
	nodes, err := p.items(n)
	if err != nil {
		return nil, err
	}

	var params []domain.Parameter

	for _, node := range nodes {
		node, err := p.component(node)
		if err != nil {
			return nil, err
		}
		if node == nil {
			continue
		}

		schema, err := p.schema(p.get(node, "schema"), 0)
		if err != nil {
			return nil, err
		}

		params = append(params, domain.Parameter{
			Name:        p.str(node, "name"),
			In:          p.str(node, "in"),
			Description: p.str(node, "description"),
			Required:    p.boolean(node, "required"),
			Schema:      schema,
		})
	}

	return params, nil
}

func (p *parser) requestBody(n *yaml.Node) (*domain.RequestBody, error) {
	n, err := p.component(n)
	if err != nil || n == nil {
		return nil, err
	}

	content, err := p.content(p.get(n, "content"))
	if err != nil {
		return nil, err
	}

	return &domain.RequestBody{
		Description: p.str(n, "description"),
		Required:    p.boolean(n, "required"),
		Content:     content,
	}, nil
}

func (p *parser) response(status string, n *yaml.Node) (*domain.Response, error) {
	n, err := p.component(n)
	if err != nil || n == nil {
		return nil, err
	}

	content, err := p.content(p.get(n, "content"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", status, err)
	}

	return &domain.Response{
		StatusCode:  status,
		Description: p.str(n, "description"),
		Content:     content,
	}, nil
}

func (p *parser) content(n *yaml.Node) ([]domain.MediaType, error) {
	var out []domain.MediaType

	err := p.each(n, func(contentType string, media *yaml.Node) error {
		schema, err := p.schema(p.get(media, "schema"), 0)
		if err != nil {
			return err
		}

		out = append(out, domain.MediaType{ContentType: contentType, Schema: schema})
		return nil
	})

	return out, err
}

func (p *parser) schema(n *yaml.Node, depth int) (*domain.Schema, error) {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, nil
	}
	if depth > maxDepth {
		return nil, ErrTooDeep
	}

	s := &domain.Schema{
		Ref:         p.str(n, "$ref"),
		Format:      p.str(n, "format"),
		Description: p.str(n, "description"),
		Nullable:    p.boolean(n, "nullable"),
		ReadOnly:    p.boolean(n, "readOnly"),
		MinLength:   p.intPtr(n, "minLength"),
		MaxLength:   p.intPtr(n, "maxLength"),
		Minimum:     p.floatPtr(n, "minimum"),
		Maximum:     p.floatPtr(n, "maximum"),
		Pattern:     p.str(n, "pattern"),
		Required:    p.stringList(p.get(n, "required")),
	}

	// 3.1 allows a list of types; "null" in it means nullable.
	switch t := p.get(n, "type"); {
	case t == nil:
	case t.Kind == yaml.ScalarNode:
		s.Type = t.Value
	case t.Kind == yaml.SequenceNode:
		for _, v := range p.stringList(t) {
			if v == "null" {
				s.Nullable = true
			} else if s.Type == "" {
				s.Type = v
			}
		}
	}

	enum, err := p.items(p.get(n, "enum"))
	if err != nil {
		return nil, err
	}
	for _, v := range enum {
		if v.Kind != yaml.ScalarNode {
			continue
		}
		if v.ShortTag() == "!!null" {
			s.Nullable = true
			continue
		}
		s.Enum = append(s.Enum, v.Value)
	}

	if ex := p.get(n, "example"); ex != nil {
		var example any
		if err := ex.Decode(&example); err == nil {
			s.Example = example
		}
	}

	err = p.each(p.get(n, "properties"), func(name string, prop *yaml.Node) error {
		child, err := p.schema(prop, depth+1)
		if err != nil {
			return err
		}

		s.Properties = append(s.Properties, domain.Property{Name: name, Schema: child})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.Items, err = p.schema(p.get(n, "items"), depth+1); err != nil {
		return nil, err
	}

	for key, dst := range map[string]*[]*domain.Schema{"allOf": &s.AllOf, "oneOf": &s.OneOf, "anyOf": &s.AnyOf} {
		members, err := p.items(p.get(n, key))
		if err != nil {
			return nil, err
		}

		for _, m := range members {
			child, err := p.schema(m, depth+1)
			if err != nil {
				return nil, err
			}
			if child != nil {
				*dst = append(*dst, child)
			}
		}
	}

	return s, nil
}
