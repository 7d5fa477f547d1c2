package renderers

import (
	"io"
	"strconv"
	"strings"

	"github.com/GabrielNunesIT/openapi-domaingen/internal/codegen"
	"github.com/GabrielNunesIT/openapi-domaingen/internal/domain"
	"github.com/GabrielNunesIT/openapi-domaingen/internal/extractor"
)

type tsField struct {
	Key      string
	Type     string
	Optional bool
}

type tsOperation struct {
	Name       string
	Method     string
	Path       string
	Signature  string
	Prelude    string
	Call       string
	Result     string
	Return     string
	QueryType  string
	QueryShape []tsField
}

type tsEntity struct {
	Entity     *domain.Entity
	Names      codegen.SchemaNames
	Operations []tsOperation
}

type tsModule struct {
	Domain    string
	BaseURL   string
	Entities  []tsEntity
	UsesTypes bool
}

// TSType maps a field to a TypeScript type expression.
func TSType(f domain.Field) string {
	var t string

	switch {
	case len(f.EnumValues) > 0:
		values := make([]string, len(f.EnumValues))
		for i, v := range f.EnumValues {
			values[i] = strconv.Quote(v)
		}
		t = strings.Join(values, " | ")
	case f.Type == domain.TypeString:
		t = "string"
	case f.Type == domain.TypeInteger, f.Type == domain.TypeNumber:
		t = "number"
	case f.Type == domain.TypeBoolean:
		t = "boolean"
	case f.Type == domain.TypeArray && f.Items != nil:
		t = "Array<" + TSType(*f.Items) + ">"
	case f.Type == domain.TypeArray && f.ItemsType != "":
		t = "Array<" + TSType(domain.Field{Type: f.ItemsType}) + ">"
	case f.Type == domain.TypeArray:
		t = "unknown[]"
	case f.Type == domain.TypeObject:
		t = "Record<string, unknown>"
	default:
		t = "string"
	}

	if f.Nullable {
		t += " | null"
	}

	return t
}

func newTSModule(group *domain.DomainGroup, baseURL string) tsModule {
	module := tsModule{Domain: group.DomainName, BaseURL: baseURL}

	for _, e := range group.Entities {
		te := tsEntity{Entity: e, Names: codegen.NamesFor(e)}
		for _, op := range e.Operations {
			tsOp := newTSOperation(e, te.Names, op)
			module.UsesTypes = module.UsesTypes || tsOp.QueryType != ""
			te.Operations = append(te.Operations, tsOp)
		}
		module.Entities = append(module.Entities, te)
	}

	return module
}

func newTSOperation(e *domain.Entity, names codegen.SchemaNames, op domain.EntityOperation) tsOperation {
	out := tsOperation{
		Name:   op.Name,
		Method: op.Method,
		Path:   op.Path,
	}

	var args []string
	for _, p := range pathParams(op.Path) {
		args = append(args, identifier(p)+": string")
	}

	input := ""
	if op.HasInput {
		inputType, inputSchema := "unknown", ""
		switch {
		case op.Role == domain.RoleCreate && len(e.CreateFields) > 0:
			inputType, inputSchema = "schemas."+names.CreateType, names.CreateSchema
		case op.Role == domain.RoleUpdate && len(e.UpdateFields) > 0:
			inputType, inputSchema = "schemas."+names.UpdateType, names.UpdateSchema
		}

		args = append(args, "input: "+inputType)
		input = "input"
		if inputSchema != "" {
			out.Prelude = "const body = schemas." + inputSchema + ".parse(input);"
			input = "body"
		}
	}

	query := ""
	if len(op.QueryParams) > 0 {
		out.QueryType = extractor.ToPascalCase(op.Name) + "Params"
		for _, q := range op.QueryParams {
			out.QueryShape = append(out.QueryShape, tsField{Key: codegen.PropertyKey(q.Name), Type: TSType(q), Optional: !q.Required})
		}
		args = append(args, "params: types."+out.QueryType+" = {}")
		query = "params"
	}

	args = append(args, "options: RequestOptions = {}")
	out.Signature = strings.Join(args, ", ")

	callArgs := []string{strconv.Quote(op.Method), "`" + rewritePath(op.Path, func(p string) string { return "${encodeURIComponent(" + identifier(p) + ")}" }) + "`", "options"}
	switch {
	case input != "" && query != "":
		callArgs = append(callArgs, input, query)
	case input != "":
		callArgs = append(callArgs, input)
	case query != "":
		callArgs = append(callArgs, "undefined", query)
	}
	out.Call = "request(" + strings.Join(callArgs, ", ") + ")"

	switch op.Role {
	case domain.RoleList:
		out.Result = "schemas." + names.Type + "[]"
		out.Return = "schemas." + names.Schema + ".array().parse(data)"
	case domain.RoleGet, domain.RoleCreate, domain.RoleUpdate:
		out.Result = "schemas." + names.Type
		out.Return = "schemas." + names.Schema + ".parse(data)"
	case domain.RoleDelete:
		out.Result = "void"
	default:
		out.Result = "unknown"
		out.Return = "data"
	}

	return out
}

// TypesRenderer writes request contracts: query parameter types and the operation table.
type TypesRenderer struct{}

// NewTypesRenderer creates a new types renderer.
func NewTypesRenderer() *TypesRenderer {
	return &TypesRenderer{}
}

// FileName returns the artifact file name.
func (r *TypesRenderer) FileName() string {
	return TypesFile
}

// Render writes types.ts.
func (r *TypesRenderer) Render(group *domain.DomainGroup, output io.Writer) error {
	if err := checkGroup(group); err != nil {
		return err
	}

	return execute(output, "types.ts.tmpl", newTSModule(group, ""))
}

// APIRenderer writes the CRUD data-access functions.
type APIRenderer struct {
	baseURL string
}

// NewAPIRenderer creates a new API renderer whose functions default to baseURL.
func NewAPIRenderer(baseURL string) *APIRenderer {
	return &APIRenderer{baseURL: baseURL}
}

// FileName returns the artifact file name.
func (r *APIRenderer) FileName() string {
	return APIFile
}

// Render writes api.ts.
func (r *APIRenderer) Render(group *domain.DomainGroup, output io.Writer) error {
	if err := checkGroup(group); err != nil {
		return err
	}

	return execute(output, "api.ts.tmpl", newTSModule(group, r.baseURL))
}

// IndexRenderer writes the package entry point. The file is meant to be edited by hand
// once created, so it carries no generated marker.
type IndexRenderer struct{}

// NewIndexRenderer creates a new index renderer.
func NewIndexRenderer() *IndexRenderer {
	return &IndexRenderer{}
}

// FileName returns the artifact file name.
func (r *IndexRenderer) FileName() string {
	return IndexFile
}

// Render writes index.ts.
func (r *IndexRenderer) Render(group *domain.DomainGroup, output io.Writer) error {
	if err := checkGroup(group); err != nil {
		return err
	}

	return execute(output, "index.ts.tmpl", newTSModule(group, ""))
}
