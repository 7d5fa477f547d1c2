package differ

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/GabrielNunesIT/openapi-domaingen/internal/domain"
	"github.com/GabrielNunesIT/openapi-domaingen/internal/extractor"
)

// ErrUnsupportedSnapshot is returned for snapshots whose version cannot be migrated or
// whose content cannot be decoded.
var ErrUnsupportedSnapshot = errors.New("unsupported snapshot")

type legacyTemplate struct {
	method   string
	item     bool
	hasInput bool
}

var legacyTemplates = map[domain.CrudRole]legacyTemplate{
	domain.RoleList:   {method: http.MethodGet},
	domain.RoleGet:    {method: http.MethodGet, item: true},
	domain.RoleCreate: {method: http.MethodPost, hasInput: true},
	domain.RoleUpdate: {method: http.MethodPatch, item: true, hasInput: true},
	domain.RoleDelete: {method: http.MethodDelete, item: true},
}

// MigrateSnapshot returns s in the current snapshot format. A current snapshot is
// returned as is; a version 1 (or unversioned) snapshot yields a new snapshot whose
// operation flags are replaced by canonical operations. Only the version and the
// entities' operations differ from the input.
func MigrateSnapshot(s *domain.Snapshot) (*domain.Snapshot, error) {
	if s == nil {
		return nil, domain.ErrNilSnapshot
	}

	switch s.Version {
	case domain.SnapshotV2:
		return s, nil
	case 0, domain.SnapshotV1:
	default:
		return nil, fmt.Errorf("%w: version %d", ErrUnsupportedSnapshot, s.Version)
	}

	migrated := &domain.Snapshot{
		Version:     domain.SnapshotV2,
		GeneratedAt: s.GeneratedAt,
		SpecSource:  s.SpecSource,
		Entities:    make([]*domain.Entity, 0, len(s.Entities)),
	}

	for _, e := range s.Entities {
		if e == nil {
			continue
		}
		migrated.Entities = append(migrated.Entities, migrateEntity(e))
	}

	return migrated, nil
}

func migrateEntity(e *domain.Entity) *domain.Entity {
	out := *e
	out.LegacyOperations = nil

	if e.LegacyOperations == nil {
		return &out
	}

	out.Operations = make([]domain.EntityOperation, 0, len(e.LegacyOperations))

	for _, role := range domain.CrudRoles {
		if !e.LegacyOperations[string(role)] {
			continue
		}

		tmpl := legacyTemplates[role]
		path := e.Path
		if tmpl.item {
			path += "/:id"
		}

		op := domain.EntityOperation{
			Name:        extractor.OperationName(role, e.PascalName, e.PluralName),
			Method:      tmpl.method,
			Path:        path,
			Role:        role,
			HasInput:    tmpl.hasInput,
			QueryParams: []domain.Field{},
		}
		if role == domain.RoleList {
			op.QueryParams = e.QueryParams
		}

		out.Operations = append(out.Operations, op)
	}

	return &out
}
