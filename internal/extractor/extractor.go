// Package extractor infers CRUD entities from the paths of a resolved OpenAPI document.
package extractor

import (
	"strings"

	"github.com/GabrielNunesIT/openapi-domaingen/internal/domain"
)

const (
	defaultContentType = "application/json"
)

// serverManagedFields are never part of create or update inputs.
var serverManagedFields = map[string]bool{
	"id":         true,
	"createdAt":  true,
	"updatedAt":  true,
	"created_at": true,
	"updated_at": true,
}

// envelopeProperties are the list wrapper properties unwrapped one level.
var envelopeProperties = []string{"data", "items", "results"}

// CrudDetectionConfig overrides how request and response schemas are located.
type CrudDetectionConfig struct {
	// ContentTypes are searched in order; the first declared content type is the fallback.
	ContentTypes []string
	// ResponseStatuses are searched in order for read-model schemas.
	ResponseStatuses []string
	// BodySchemas maps "<entity>.<create|update>" to a component schema used as the request body.
	BodySchemas map[string]string
}

// DefaultCrudDetectionConfig returns the detection rules used when no override is given.
func DefaultCrudDetectionConfig() *CrudDetectionConfig {
	return &CrudDetectionConfig{
		ContentTypes:     []string{defaultContentType},
		ResponseStatuses: []string{"200", "201"},
	}
}

// candidate accumulates the operations grouped under one collection path.
type candidate struct {
	entity      *domain.Entity
	itemParam   string
	hasItemPath bool
	sources     map[domain.CrudRole]*domain.Operation
	custom      []customSource
}

type customSource struct {
	path string
	op   *domain.Operation
}

type extraction struct {
	doc        *domain.OpenAPIDocument
	cfg        *CrudDetectionConfig
	names      map[string]entityName
	order      []string
	candidates map[string]*candidate
}

// ExtractEntities groups the document's operations into entities.
// The document is expected to be ref-resolved; unresolved refs simply yield no fields.
// Output order follows the first appearance of each collection path.
func ExtractEntities(doc *domain.OpenAPIDocument, cfg *CrudDetectionConfig) []*domain.Entity {
	if doc == nil {
		return nil
	}

	x := &extraction{
		doc:        doc,
		cfg:        withDefaults(cfg),
		names:      planNames(doc.Paths),
		candidates: make(map[string]*candidate),
	}

	for i := range doc.Paths {
		x.addPath(&doc.Paths[i])
	}

	x.foldActions()

	var entities []*domain.Entity

	for _, key := range x.order {
		c := x.candidates[key]
		if c == nil || (len(c.sources) == 0 && len(c.custom) == 0) {
			continue
		}

		entities = append(entities, x.build(c))
	}

	return entities
}

func withDefaults(cfg *CrudDetectionConfig) *CrudDetectionConfig {
	defaults := DefaultCrudDetectionConfig()
	if cfg == nil {
		return defaults
	}

	out := *cfg
	if len(out.ContentTypes) == 0 {
		out.ContentTypes = defaults.ContentTypes
	}
	if len(out.ResponseStatuses) == 0 {
		out.ResponseStatuses = defaults.ResponseStatuses
	}

	return &out
}

func (x *extraction) addPath(path *domain.Path) {
	shape, ok := parsePath(path.Path)
	if !ok || len(path.Operations) == 0 {
		return
	}

	c, exists := x.candidates[shape.collection]
	if !exists {
		names := x.names[shape.collection]
		c = &candidate{
			entity: &domain.Entity{
				Name:       names.name,
				PascalName: names.pascal,
				PluralName: names.plural,
				Path:       shape.collection,
				Parent:     shape.parent,
			},
			sources: make(map[domain.CrudRole]*domain.Operation),
		}
		x.candidates[shape.collection] = c
		x.order = append(x.order, shape.collection)
	}

	if shape.itemParam != "" {
		c.hasItemPath = true
		if c.itemParam == "" {
			c.itemParam = shape.itemParam
		}
	}

	for i := range path.Operations {
		op := &path.Operations[i]
		role := detectRole(op.Method, shape.itemParam != "")

		if role != domain.RoleCustom && c.sources[role] == nil {
			c.sources[role] = op
			x.recordOperation(c, role, path.Path, op)
			continue
		}

		c.custom = append(c.custom, customSource{path: path.Path, op: op})
		x.recordOperation(c, domain.RoleCustom, path.Path, op)
	}
}

// foldActions turns action sub-paths such as /widgets/{id}/activate into custom
// operations of the enclosing entity.
func (x *extraction) foldActions() {
	for _, key := range x.order {
		c := x.candidates[key]
		if c == nil || c.entity.Parent == nil || c.hasItemPath || c.sources[domain.RoleList] != nil {
			continue
		}

		parent := c.entity.Parent
		owner := x.candidates[parent.Path]
		if owner == nil || (owner.itemParam != "" && owner.itemParam != parent.Param) {
			continue
		}

		for _, op := range c.entity.Operations {
			source := x.sourceFor(c, op)
			op.Role = domain.RoleCustom
			op.Name = customOperationName(op.Method, op.Path, source)
			owner.entity.Operations = append(owner.entity.Operations, op)
		}
		owner.entity.Tags = appendUnique(owner.entity.Tags, c.entity.Tags...)
		owner.custom = append(owner.custom, c.custom...)

		x.candidates[key] = nil
	}
}

func (x *extraction) sourceFor(c *candidate, op domain.EntityOperation) *domain.Operation {
	if op.Role != domain.RoleCustom {
		return c.sources[op.Role]
	}

	for _, src := range c.custom {
		if src.path == op.Path && strings.EqualFold(src.op.Method, op.Method) {
			return src.op
		}
	}

	return nil
}

func (x *extraction) recordOperation(c *candidate, role domain.CrudRole, path string, op *domain.Operation) {
	e := c.entity

	entityOp := domain.EntityOperation{
		Method:      strings.ToUpper(op.Method),
		Path:        path,
		Role:        role,
		QueryParams: queryFields(op.Parameters),
	}

	if role == domain.RoleCustom {
		entityOp.Name = customOperationName(entityOp.Method, path, op)
	} else {
		entityOp.Name = OperationName(role, e.PascalName, e.PluralName)
	}

	if body, contentType := x.requestSchema(e, role, op); body != nil {
		entityOp.HasInput = true
		entityOp.BodySchema = body.Origin
		entityOp.ContentType = contentType
	}

	e.Operations = append(e.Operations, entityOp)
	e.Tags = appendUnique(e.Tags, op.Tags...)
}

func (x *extraction) build(c *candidate) *domain.Entity {
	e := c.entity

	readOnly := make(map[string]bool)
	e.Fields = x.readFields(c, readOnly)

	e.CreateFields = x.inputFields(c, domain.RoleCreate, readOnly)
	e.UpdateFields = x.inputFields(c, domain.RoleUpdate, readOnly)

	if list := c.sources[domain.RoleList]; list != nil {
		e.QueryParams = queryFields(list.Parameters)
	}

	if e.Fields == nil {
		e.Fields = []domain.Field{}
	}
	if e.CreateFields == nil {
		e.CreateFields = []domain.Field{}
	}
	if e.UpdateFields == nil {
		e.UpdateFields = []domain.Field{}
	}
	if e.QueryParams == nil {
		e.QueryParams = []domain.Field{}
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}

	return e
}

// readFields derives the read model from the list response, falling back to get.
func (x *extraction) readFields(c *candidate, readOnly map[string]bool) []domain.Field {
	if list := c.sources[domain.RoleList]; list != nil {
		schema := unwrapCollection(x.responseSchema(list))
		if fields := fieldsFromSchema(schema, readOnly); len(fields) > 0 {
			return fields
		}
	}

	if get := c.sources[domain.RoleGet]; get != nil {
		return fieldsFromSchema(x.responseSchema(get), readOnly)
	}

	return nil
}

// inputFields derives create or update inputs from the request body, independently of
// the read model. Without a request body the read model minus server-managed fields is used.
func (x *extraction) inputFields(c *candidate, role domain.CrudRole, readOnly map[string]bool) []domain.Field {
	op := c.sources[role]
	if op == nil {
		return nil
	}

	source := c.entity.Fields

	if body, _ := x.requestSchema(c.entity, role, op); body != nil {
		bodyReadOnly := make(map[string]bool)
		source = fieldsFromSchema(body, bodyReadOnly)
		readOnly = bodyReadOnly
	}

	var fields []domain.Field

	for _, f := range source {
		if serverManagedFields[f.Name] || readOnly[f.Name] {
			continue
		}
		fields = append(fields, f)
	}

	return fields
}

func (x *extraction) responseSchema(op *domain.Operation) *domain.Schema {
	for _, status := range x.cfg.ResponseStatuses {
		for _, resp := range op.Responses {
			if resp.StatusCode != status {
				continue
			}
			if schema, _ := x.pickContent(resp.Content); schema != nil {
				return schema
			}
		}
	}

	return nil
}

func (x *extraction) requestSchema(e *domain.Entity, role domain.CrudRole, op *domain.Operation) (*domain.Schema, string) {
	if name, ok := x.cfg.BodySchemas[e.Name+"."+string(role)]; ok {
		if schema, found := x.doc.Components[name]; found {
			override := *schema
			override.Origin = name
			return &override, defaultContentType
		}
	}

	if op.RequestBody == nil {
		return nil, ""
	}

	return x.pickContent(op.RequestBody.Content)
}

// pickContent returns the schema of the first configured content type present,
// or of the first declared content type.
func (x *extraction) pickContent(content []domain.MediaType) (*domain.Schema, string) {
	for _, contentType := range x.cfg.ContentTypes {
		for _, media := range content {
			if media.ContentType == contentType && media.Schema != nil {
				return media.Schema, media.ContentType
			}
		}
	}

	for _, media := range content {
		if media.Schema != nil {
			return media.Schema, media.ContentType
		}
	}

	return nil, ""
}

func detectRole(method string, isItem bool) domain.CrudRole {
	switch strings.ToUpper(method) {
	case "GET":
		if isItem {
			return domain.RoleGet
		}
		return domain.RoleList
	case "POST":
		if !isItem {
			return domain.RoleCreate
		}
	case "PATCH", "PUT":
		if isItem {
			return domain.RoleUpdate
		}
	case "DELETE":
		if isItem {
			return domain.RoleDelete
		}
	}

	return domain.RoleCustom
}

// customOperationName prefers the operationId; otherwise it joins the method with the
// literal path segments, e.g. POST /widgets/{id}/activate -> postWidgetsActivate.
func customOperationName(method, path string, op *domain.Operation) string {
	if op != nil && op.OperationID != "" {
		return ToCamelCase(op.OperationID)
	}

	parts := []string{strings.ToLower(method)}
	for _, segment := range strings.Split(path, "/") {
		if segment != "" && !isParam(segment) {
			parts = append(parts, segment)
		}
	}

	return ToCamelCase(strings.Join(parts, " "))
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, existing := range dst {
			if existing == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}

	return dst
}
