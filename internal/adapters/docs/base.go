// Package docs provides entity reference documents (PDF, Word, Confluence) for a domain.
package docs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/GabrielNunesIT/openapi-domaingen/internal/domain"
)

// Document formats.
const (
	FormatPDF        = "pdf"
	FormatDocx       = "docx"
	FormatConfluence = "confluence"
)

// ForFormat returns the reference renderer for format.
func ForFormat(format string) (domain.Renderer, error) {
	switch strings.ToLower(format) {
	case FormatPDF:
		return NewPDFRenderer(), nil
	case FormatDocx, "word":
		return NewDocxRenderer(), nil
	case FormatConfluence, "adf":
		return NewADFRenderer(), nil
	default:
		return nil, fmt.Errorf("unsupported docs format: %s (supported: pdf, docx, confluence)", format)
	}
}

func title(group *domain.DomainGroup) string {
	return fmt.Sprintf("%s domain reference", group.DomainName)
}

// fieldType returns a readable type, e.g. "string (uuid)", "array<integer>", "enum(a, b)".
func fieldType(f domain.Field) string {
	switch {
	case len(f.EnumValues) > 0:
		return "enum(" + strings.Join(f.EnumValues, ", ") + ")"
	case f.Type == domain.TypeArray && f.Items != nil:
		return "array<" + fieldType(*f.Items) + ">"
	case f.Type == domain.TypeArray && f.ItemsType != "":
		return "array<" + f.ItemsType + ">"
	case f.Format != "":
		return f.Type + " (" + f.Format + ")"
	default:
		return f.Type
	}
}

// constraints lists the validation bounds of a field.
func constraints(f domain.Field) string {
	var parts []string

	if f.MinLength != nil {
		parts = append(parts, "min length "+strconv.Itoa(*f.MinLength))
	}
	if f.MaxLength != nil {
		parts = append(parts, "max length "+strconv.Itoa(*f.MaxLength))
	}
	if f.Minimum != nil {
		parts = append(parts, "min "+strconv.FormatFloat(*f.Minimum, 'f', -1, 64))
	}
	if f.Maximum != nil {
		parts = append(parts, "max "+strconv.FormatFloat(*f.Maximum, 'f', -1, 64))
	}
	if f.Pattern != "" {
		parts = append(parts, "pattern "+f.Pattern)
	}

	return strings.Join(parts, ", ")
}

// formatField renders one field as a single line.
func formatField(f domain.Field) string {
	var flags []string
	if f.Required {
		flags = append(flags, "required")
	}
	if f.Nullable {
		flags = append(flags, "nullable")
	}
	if c := constraints(f); c != "" {
		flags = append(flags, c)
	}

	line := fmt.Sprintf("%s: %s", f.Name, fieldType(f))
	if len(flags) > 0 {
		line += " (" + strings.Join(flags, "; ") + ")"
	}

	return line
}

// formatOperation renders one operation as a single line.
func formatOperation(op domain.EntityOperation) string {
	return fmt.Sprintf("%s %s - %s [%s]", strings.ToUpper(op.Method), op.Path, op.Name, op.Role)
}

func fieldNames(fields []domain.Field) string {
	if len(fields) == 0 {
		return "None"
	}

	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}

	return strings.Join(names, ", ")
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}

	return "no"
}
