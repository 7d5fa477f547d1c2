// Package differ compares a persisted entity snapshot with a freshly extracted entity
// list and migrates older snapshot formats.
package differ

import (
	"errors"
	"fmt"

	"github.com/GabrielNunesIT/openapi-domaingen/internal/domain"
)

// ComputeDiff reports the entities added, removed and modified in current relative to
// previous. Entities are matched by name; fields are matched by name and compared on
// type, format, required and nullable. previous is migrated before comparison; a
// snapshot of an unknown version is compared as if it were empty.
func ComputeDiff(previous *domain.Snapshot, current []*domain.Entity) (*domain.Diff, error) {
	if previous == nil {
		return nil, domain.ErrNilSnapshot
	}

	migrated, err := MigrateSnapshot(previous)
	if errors.Is(err, ErrUnsupportedSnapshot) {
		migrated = &domain.Snapshot{Version: domain.SnapshotV2}
	} else if err != nil {
		return nil, fmt.Errorf("failed to migrate snapshot: %w", err)
	}

	before := indexEntities(migrated.Entities)
	after := indexEntities(current)

	diff := &domain.Diff{
		Added:    []*domain.Entity{},
		Removed:  []*domain.Entity{},
		Modified: []domain.ModifiedEntity{},
	}

	for _, e := range current {
		if e == nil {
			continue
		}

		prev, ok := before[e.Name]
		if !ok {
			diff.Added = append(diff.Added, e)
			continue
		}

		if mod, changed := diffFields(e.Name, prev.Fields, e.Fields); changed {
			diff.Modified = append(diff.Modified, mod)
		}
	}

	for _, e := range migrated.Entities {
		if e == nil {
			continue
		}
		if _, ok := after[e.Name]; !ok {
			diff.Removed = append(diff.Removed, e)
		}
	}

	diff.HasChanges = len(diff.Added) > 0 || len(diff.Removed) > 0 || len(diff.Modified) > 0

	return diff, nil
}

func indexEntities(entities []*domain.Entity) map[string]*domain.Entity {
	index := make(map[string]*domain.Entity, len(entities))

	for _, e := range entities {
		if e == nil {
			continue
		}
		if _, seen := index[e.Name]; !seen {
			index[e.Name] = e
		}
	}

	return index
}

func diffFields(name string, before, after []domain.Field) (domain.ModifiedEntity, bool) {
	mod := domain.ModifiedEntity{
		Name:          name,
		AddedFields:   []domain.Field{},
		RemovedFields: []domain.Field{},
		ChangedFields: []domain.ChangedField{},
	}

	prev := make(map[string]domain.Field, len(before))
	for _, f := range before {
		prev[f.Name] = f
	}

	next := make(map[string]bool, len(after))

	for _, f := range after {
		next[f.Name] = true

		old, ok := prev[f.Name]
		if !ok {
			mod.AddedFields = append(mod.AddedFields, f)
			continue
		}

		if fieldChanged(old, f) {
			mod.ChangedFields = append(mod.ChangedFields, domain.ChangedField{Name: f.Name, From: old, To: f})
		}
	}

	for _, f := range before {
		if !next[f.Name] {
			mod.RemovedFields = append(mod.RemovedFields, f)
		}
	}

	changed := len(mod.AddedFields) > 0 || len(mod.RemovedFields) > 0 || len(mod.ChangedFields) > 0

	return mod, changed
}

func fieldChanged(a, b domain.Field) bool {
	return a.Type != b.Type ||
		a.Format != b.Format ||
		a.Required != b.Required ||
		a.Nullable != b.Nullable
}
