package renderers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/GabrielNunesIT/openapi-domaingen/internal/domain"
)

const placeholderBaseURL = "http://localhost:3000"

type httpRequest struct {
	Name        string
	Method      string
	Target      string
	ContentType string
	Body        string
}

type httpFile struct {
	BaseURL   string
	Variables []string
	Requests  []httpRequest
}

// RequestsRenderer writes example requests in the .http format understood by editor
// REST clients.
type RequestsRenderer struct {
	baseURL string
}

// NewRequestsRenderer creates a new requests renderer targeting baseURL.
func NewRequestsRenderer(baseURL string) *RequestsRenderer {
	return &RequestsRenderer{baseURL: baseURL}
}

// FileName returns the artifact file name.
func (r *RequestsRenderer) FileName() string {
	return RequestsFile
}

// Render writes requests.http with one example request per operation.
func (r *RequestsRenderer) Render(group *domain.DomainGroup, output io.Writer) error {
	if err := checkGroup(group); err != nil {
		return err
	}

	file := httpFile{BaseURL: r.baseURL}
	if file.BaseURL == "" {
		file.BaseURL = placeholderBaseURL
	}

	seen := make(map[string]bool)

	for _, e := range group.Entities {
		for _, op := range e.Operations {
			for _, p := range pathParams(op.Path) {
				if !seen[p] {
					seen[p] = true
					file.Variables = append(file.Variables, p)
				}
			}

			req := httpRequest{
				Name:   op.Name,
				Method: op.Method,
				Target: "{{baseUrl}}" + rewritePath(op.Path, func(p string) string { return "{{" + p + "}}" }) + sampleQuery(op.QueryParams),
			}

			if op.HasInput {
				req.ContentType = op.ContentType
				if req.ContentType == "" {
					req.ContentType = "application/json"
				}
				req.Body = sampleBody(inputFieldsFor(e, op))
			}

			file.Requests = append(file.Requests, req)
		}
	}

	return execute(output, "requests.http.tmpl", file)
}

func inputFieldsFor(e *domain.Entity, op domain.EntityOperation) []domain.Field {
	switch op.Role {
	case domain.RoleCreate:
		return e.CreateFields
	case domain.RoleUpdate:
		return e.UpdateFields
	default:
		return nil
	}
}

// sampleQuery renders the required query parameters with sample values.
func sampleQuery(params []domain.Field) string {
	var parts []string

	for _, p := range params {
		if p.Required {
			parts = append(parts, url.QueryEscape(p.Name)+"="+url.QueryEscape(fmt.Sprint(SampleValue(p))))
		}
	}

	if len(parts) == 0 {
		return ""
	}

	return "?" + strings.Join(parts, "&")
}

// sampleBody renders fields as an indented JSON object in field order.
func sampleBody(fields []domain.Field) string {
	if len(fields) == 0 {
		return "{}"
	}

	var b strings.Builder
	b.WriteString("{\n")

	for i, f := range fields {
		value, _ := json.Marshal(SampleValue(f))
		b.WriteString("  " + strconv.Quote(f.Name) + ": " + string(value))
		if i < len(fields)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}

	b.WriteString("}")

	return b.String()
}

// SampleValue returns a plausible example value for a field.
func SampleValue(f domain.Field) any {
	if len(f.EnumValues) > 0 {
		return f.EnumValues[0]
	}

	switch f.Type {
	case domain.TypeString:
		switch f.Format {
		case "uuid":
			return "00000000-0000-0000-0000-000000000000"
		case "email":
			return "user@example.com"
		case "date-time":
			return "2024-01-01T00:00:00Z"
		case "date":
			return "2024-01-01"
		case "uri", "url":
			return "https://example.com"
		default:
			return "string"
		}
	case domain.TypeInteger:
		if f.Minimum != nil {
			return int64(*f.Minimum)
		}
		return 0
	case domain.TypeNumber:
		if f.Minimum != nil {
			return *f.Minimum
		}
		return 0
	case domain.TypeBoolean:
		return false
	case domain.TypeArray:
		if f.Items != nil {
			return []any{SampleValue(*f.Items)}
		}
		if f.ItemsType != "" {
			return []any{SampleValue(domain.Field{Type: f.ItemsType})}
		}
		return []any{}
	case domain.TypeObject:
		return map[string]any{}
	default:
		return "string"
	}
}
