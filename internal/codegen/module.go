package codegen

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/GabrielNunesIT/openapi-domaingen/internal/domain"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// SchemaNames holds the identifiers generated for one entity.
type SchemaNames struct {
	Schema       string // userSchema
	CreateSchema string // createUserSchema
	UpdateSchema string // updateUserSchema
	Type         string // User
	CreateType   string // CreateUserInput
	UpdateType   string // UpdateUserInput
}

// NamesFor returns the schema and type identifiers for an entity.
func NamesFor(e *domain.Entity) SchemaNames {
	return SchemaNames{
		Schema:       e.Name + "Schema",
		CreateSchema: "create" + e.PascalName + "Schema",
		UpdateSchema: "update" + e.PascalName + "Schema",
		Type:         e.PascalName,
		CreateType:   "Create" + e.PascalName + "Input",
		UpdateType:   "Update" + e.PascalName + "Input",
	}
}

// PropertyKey renders name as an object key, quoting it when it is not an identifier.
func PropertyKey(name string) string {
	if identifierPattern.MatchString(name) {
		return name
	}

	return strconv.Quote(name)
}

// GenerateSchemaModule assembles the zod module for a list of entities.
// The output only depends on its input.
func GenerateSchemaModule(entities []*domain.Entity) string {
	var b strings.Builder

	b.WriteString("// " + domain.GeneratedMarker + "\n")
	b.WriteString("import { z } from \"zod\";\n")

	for _, e := range entities {
		names := NamesFor(e)

		type declared struct{ schema, typ string }
		decls := []declared{{names.Schema, names.Type}}

		b.WriteString("\n")
		writeObjectSchema(&b, names.Schema, e.Fields)

		if len(e.CreateFields) > 0 {
			b.WriteString("\n")
			writeObjectSchema(&b, names.CreateSchema, e.CreateFields)
			decls = append(decls, declared{names.CreateSchema, names.CreateType})
		}

		if len(e.UpdateFields) > 0 {
			b.WriteString("\n")
			writeObjectSchema(&b, names.UpdateSchema, e.UpdateFields)
			decls = append(decls, declared{names.UpdateSchema, names.UpdateType})
		}

		b.WriteString("\n")
		for _, d := range decls {
			fmt.Fprintf(&b, "export type %s = z.infer<typeof %s>;\n", d.typ, d.schema)
		}
	}

	return b.String()
}

func writeObjectSchema(b *strings.Builder, name string, fields []domain.Field) {
	if len(fields) == 0 {
		fmt.Fprintf(b, "export const %s = z.object({});\n", name)
		return
	}

	fmt.Fprintf(b, "export const %s = z.object({\n", name)

	for _, f := range fields {
		expr := FieldToValidationExprWithPrefix(f, ZodNamespace)
		if !f.Required {
			expr += ".optional()"
		}
		fmt.Fprintf(b, "  %s: %s,\n", PropertyKey(f.Name), expr)
	}

	b.WriteString("});\n")
}
