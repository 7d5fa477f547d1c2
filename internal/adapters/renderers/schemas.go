package renderers

import (
	"fmt"
	"io"

	"github.com/GabrielNunesIT/openapi-domaingen/internal/codegen"
	"github.com/GabrielNunesIT/openapi-domaingen/internal/domain"
)

// SchemasRenderer writes the zod schema module.
type SchemasRenderer struct{}

// NewSchemasRenderer creates a new schemas renderer.
func NewSchemasRenderer() *SchemasRenderer {
	return &SchemasRenderer{}
}

// FileName returns the artifact file name.
func (r *SchemasRenderer) FileName() string {
	return SchemasFile
}

// Render writes the schema module for the group's entities.
func (r *SchemasRenderer) Render(group *domain.DomainGroup, output io.Writer) error {
	if err := checkGroup(group); err != nil {
		return err
	}

	if _, err := io.WriteString(output, codegen.GenerateSchemaModule(group.Entities)); err != nil {
		return fmt.Errorf("failed to write %s: %w", SchemasFile, err)
	}

	return nil
}
