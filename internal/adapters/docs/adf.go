package docs

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/GabrielNunesIT/openapi-domaingen/internal/domain"
)

// ADFRenderer renders the entity reference as Atlassian Document Format (ADF) for Confluence.
type ADFRenderer struct{}

// NewADFRenderer creates a new ADF renderer.
func NewADFRenderer() *ADFRenderer {
	return &ADFRenderer{}
}

// FileName returns the artifact file name.
func (r *ADFRenderer) FileName() string {
	return "reference.adf.json"
}

// ADF node types.
type adfDocument struct {
	Version int       `json:"version"`
	Type    string    `json:"type"`
	Content []adfNode `json:"content"`
}

type adfNode struct {
	Type    string    `json:"type"`
	Attrs   *adfAttrs `json:"attrs,omitempty"`
	Content []adfNode `json:"content,omitempty"`
	Text    string    `json:"text,omitempty"`
	Marks   []adfMark `json:"marks,omitempty"`
}

type adfAttrs struct {
	Level int `json:"level,omitempty"`
}

type adfMark struct {
	Type string `json:"type"`
}

// Render writes the ADF JSON document for group.
func (r *ADFRenderer) Render(group *domain.DomainGroup, output io.Writer) error {
	if group == nil {
		return domain.ErrNilGroup
	}

	adf := &adfDocument{
		Version: 1,
		Type:    "doc",
		Content: []adfNode{
			r.heading(title(group), 1),
			r.paragraph(r.text(fmt.Sprintf("%d entities", len(group.Entities)))),
		},
	}

	for _, e := range group.Entities {
		adf.Content = append(adf.Content, r.entityNodes(e)...)
	}

	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(adf); err != nil {
		return fmt.Errorf("failed to encode ADF: %w", err)
	}

	return nil
}

func (r *ADFRenderer) entityNodes(e *domain.Entity) []adfNode {
	nodes := []adfNode{
		r.heading(e.PascalName, 2),
		r.paragraph(r.text("Path: "), r.code(e.Path)),
	}

	if len(e.Tags) > 0 {
		nodes = append(nodes, r.paragraph(r.text("Tags: "+strings.Join(e.Tags, ", "))))
	}

	if e.Parent != nil {
		nodes = append(nodes, r.paragraph(r.text("Nested under "), r.code(e.Parent.Path), r.text(" by "), r.code(e.Parent.Param)))
	}

	if len(e.Operations) > 0 {
		nodes = append(nodes, r.heading("Operations", 3))

		items := make([]adfNode, 0, len(e.Operations))
		for _, op := range e.Operations {
			items = append(items, r.listItem(
				r.strong(strings.ToUpper(op.Method)),
				r.text(" "),
				r.code(op.Path),
				r.text(fmt.Sprintf(" %s (%s)", op.Name, op.Role)),
			))
		}
		nodes = append(nodes, adfNode{Type: "bulletList", Content: items})
	}

	if len(e.Fields) > 0 {
		nodes = append(nodes, r.heading("Fields", 3))

		items := make([]adfNode, 0, len(e.Fields))
		for _, f := range e.Fields {
			detail := ": " + fieldType(f)
			if f.Required {
				detail += " (required)"
			}
			if f.Nullable {
				detail += " (nullable)"
			}
			if c := constraints(f); c != "" {
				detail += " [" + c + "]"
			}
			items = append(items, r.listItem(r.code(f.Name), r.text(detail)))
		}
		nodes = append(nodes, adfNode{Type: "bulletList", Content: items})
	}

	nodes = append(nodes,
		r.paragraph(r.strong("Create input: "), r.text(fieldNames(e.CreateFields))),
		r.paragraph(r.strong("Update input: "), r.text(fieldNames(e.UpdateFields))),
	)

	if len(e.QueryParams) > 0 {
		nodes = append(nodes, r.paragraph(r.strong("List query: "), r.text(fieldNames(e.QueryParams))))
	}

	// Divider between entities
	nodes = append(nodes, adfNode{Type: "rule"})

	return nodes
}

func (r *ADFRenderer) heading(text string, level int) adfNode {
	return adfNode{
		Type:    "heading",
		Attrs:   &adfAttrs{Level: level},
		Content: []adfNode{r.text(text)},
	}
}

func (r *ADFRenderer) paragraph(content ...adfNode) adfNode {
	return adfNode{Type: "paragraph", Content: content}
}

func (r *ADFRenderer) listItem(content ...adfNode) adfNode {
	return adfNode{Type: "listItem", Content: []adfNode{r.paragraph(content...)}}
}

func (r *ADFRenderer) text(text string) adfNode {
	return adfNode{Type: "text", Text: text}
}

func (r *ADFRenderer) strong(text string) adfNode {
	return adfNode{Type: "text", Text: text, Marks: []adfMark{{Type: "strong"}}}
}

func (r *ADFRenderer) code(text string) adfNode {
	return adfNode{Type: "text", Text: text, Marks: []adfMark{{Type: "code"}}}
}
