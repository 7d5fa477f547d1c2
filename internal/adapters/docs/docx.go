package docs

import (
	"fmt"
	"io"
	"strings"

	"github.com/GabrielNunesIT/openapi-domaingen/internal/domain"
	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

// DocxRenderer renders the entity reference as a Word (DOCX) document.
type DocxRenderer struct{}

// NewDocxRenderer creates a new DOCX renderer.
func NewDocxRenderer() *DocxRenderer {
	return &DocxRenderer{}
}

// FileName returns the artifact file name.
func (r *DocxRenderer) FileName() string {
	return "reference.docx"
}

// Render writes the DOCX document for group.
func (r *DocxRenderer) Render(group *domain.DomainGroup, output io.Writer) error {
	if group == nil {
		return domain.ErrNilGroup
	}

	document, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	_, _ = document.AddHeading(title(group), 0) // Level 0 = Title style
	document.AddParagraph(fmt.Sprintf("Entities: %d", len(group.Entities)))
	document.AddEmptyParagraph()

	for _, e := range group.Entities {
		r.addEntity(document, e)
	}

	if err := document.Write(output); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	return nil
}

func (r *DocxRenderer) addEntity(document *docx.RootDoc, e *domain.Entity) {
	_, _ = document.AddHeading(e.PascalName, 1)
	document.AddParagraph(fmt.Sprintf("Path: %s", e.Path))

	if len(e.Tags) > 0 {
		document.AddParagraph(fmt.Sprintf("Tags: %s", strings.Join(e.Tags, ", ")))
	}

	if e.Parent != nil {
		document.AddParagraph(fmt.Sprintf("Nested under %s by %s", e.Parent.Path, e.Parent.Param))
	}

	if len(e.Operations) > 0 {
		_, _ = document.AddHeading("Operations", 2)

		for _, op := range e.Operations {
			document.AddParagraph(fmt.Sprintf("• %s", formatOperation(op)))
		}
	}

	if len(e.Fields) > 0 {
		_, _ = document.AddHeading("Fields", 2)

		for _, f := range e.Fields {
			document.AddParagraph(fmt.Sprintf("• %s", formatField(f)))
		}
	}

	_, _ = document.AddHeading("Inputs", 2)
	document.AddParagraph(fmt.Sprintf("Create: %s", fieldNames(e.CreateFields)))
	document.AddParagraph(fmt.Sprintf("Update: %s", fieldNames(e.UpdateFields)))

	if len(e.QueryParams) > 0 {
		document.AddParagraph(fmt.Sprintf("List query: %s", fieldNames(e.QueryParams)))
	}

	document.AddEmptyParagraph()
}
