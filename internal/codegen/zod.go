// Package codegen translates extracted fields into validation expressions, SQL column
// types and zod schema modules.
package codegen

import (
	"strconv"
	"strings"

	"github.com/GabrielNunesIT/openapi-domaingen/internal/domain"
)

// ZodNamespace is the prefix used for builder calls inside generated modules.
const ZodNamespace = "z."

// FieldToValidationExpr maps a field to a bare validation expression, e.g. string().uuid().
func FieldToValidationExpr(field domain.Field) string {
	return FieldToValidationExprWithPrefix(field, "")
}

// FieldToValidationExprWithPrefix maps a field to a validation expression whose builder
// calls carry prefix, e.g. z.array(z.string()).
//
// Modifiers are appended in a fixed order: base type, format refinement, enum,
// nullable, length and range bounds, regex.
func FieldToValidationExprWithPrefix(field domain.Field, prefix string) string {
	var b strings.Builder

	if len(field.EnumValues) > 0 {
		b.WriteString(prefix + "enum(" + quoteList(field.EnumValues) + ")")
	} else {
		b.WriteString(baseExpr(field, prefix))
		b.WriteString(formatRefinement(field))
	}

	if field.Nullable {
		b.WriteString(".nullable()")
	}

	if field.MinLength != nil {
		b.WriteString(".min(" + strconv.Itoa(*field.MinLength) + ")")
	}
	if field.MaxLength != nil {
		b.WriteString(".max(" + strconv.Itoa(*field.MaxLength) + ")")
	}
	if field.Minimum != nil {
		b.WriteString(".min(" + formatNumber(*field.Minimum) + ")")
	}
	if field.Maximum != nil {
		b.WriteString(".max(" + formatNumber(*field.Maximum) + ")")
	}

	if field.Pattern != "" {
		b.WriteString(".regex(/" + field.Pattern + "/)")
	}

	return b.String()
}

func baseExpr(field domain.Field, prefix string) string {
	switch field.Type {
	case domain.TypeString:
		return prefix + "string()"
	case domain.TypeInteger:
		return prefix + "number().int()"
	case domain.TypeNumber:
		return prefix + "number()"
	case domain.TypeBoolean:
		return prefix + "boolean()"
	case domain.TypeArray:
		if field.Items != nil {
			return prefix + "array(" + FieldToValidationExprWithPrefix(*field.Items, prefix) + ")"
		}
		if field.ItemsType != "" {
			return prefix + "array(" + baseExpr(domain.Field{Type: field.ItemsType}, prefix) + ")"
		}
		return prefix + "string()"
	default:
		// object, untyped and itemless array fields fall back to string().
		return prefix + "string()"
	}
}

func formatRefinement(field domain.Field) string {
	if field.Type != domain.TypeString {
		return ""
	}

	switch field.Format {
	case "uuid":
		return ".uuid()"
	case "email":
		return ".email()"
	case "date-time":
		return ".datetime()"
	default:
		return ""
	}
}

// quoteList renders ["a", "b"].
func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}

	return "[" + strings.Join(quoted, ", ") + "]"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
