package renderers

import (
	"io"

	"github.com/GabrielNunesIT/openapi-domaingen/internal/codegen"
	"github.com/GabrielNunesIT/openapi-domaingen/internal/domain"
	"github.com/GabrielNunesIT/openapi-domaingen/internal/extractor"
)

type sqlColumn struct {
	Name       string
	Type       string
	NotNull    bool
	PrimaryKey bool
}

type sqlTable struct {
	Entity  string
	Name    string
	Columns []sqlColumn
}

// MigrationRenderer writes a PostgreSQL migration with one table per entity.
type MigrationRenderer struct{}

// NewMigrationRenderer creates a new migration renderer.
func NewMigrationRenderer() *MigrationRenderer {
	return &MigrationRenderer{}
}

// FileName returns the artifact file name.
func (r *MigrationRenderer) FileName() string {
	return MigrationFile
}

// Render writes migration.sql. Entities without fields get no table.
func (r *MigrationRenderer) Render(group *domain.DomainGroup, output io.Writer) error {
	if err := checkGroup(group); err != nil {
		return err
	}

	var tables []sqlTable

	for _, e := range group.Entities {
		if len(e.Fields) == 0 {
			continue
		}

		table := sqlTable{Entity: e.PascalName, Name: extractor.ToSnakeCase(e.PluralName)}
		for _, f := range e.Fields {
			table.Columns = append(table.Columns, sqlColumn{
				Name:       extractor.ToSnakeCase(f.Name),
				Type:       codegen.FieldToSQLType(f),
				NotNull:    f.Required && !f.Nullable,
				PrimaryKey: f.Name == "id",
			})
		}

		tables = append(tables, table)
	}

	return execute(output, "migration.sql.tmpl", tables)
}
