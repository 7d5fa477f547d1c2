package differ

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/GabrielNunesIT/openapi-domaingen/internal/domain"
)

// SnapshotFileName is the name of the snapshot file kept in every domain directory.
const SnapshotFileName = ".domaingen.snapshot.json"

// NewSnapshot builds a current-version snapshot of entities.
func NewSnapshot(entities []*domain.Entity, specSource string, now time.Time) *domain.Snapshot {
	if entities == nil {
		entities = []*domain.Entity{}
	}

	return &domain.Snapshot{
		Version:     domain.SnapshotV2,
		GeneratedAt: now.UTC().Format(time.RFC3339),
		SpecSource:  specSource,
		Entities:    entities,
	}
}

// ReadSnapshot decodes a snapshot. Corrupt content and unknown versions are reported
// as ErrUnsupportedSnapshot.
func ReadSnapshot(r io.Reader) (*domain.Snapshot, error) {
	var s domain.Snapshot

	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedSnapshot, err)
	}

	switch s.Version {
	case 0, domain.SnapshotV1, domain.SnapshotV2:
		return &s, nil
	default:
		return nil, fmt.Errorf("%w: version %d", ErrUnsupportedSnapshot, s.Version)
	}
}

// WriteSnapshot encodes s as indented JSON.
func WriteSnapshot(w io.Writer, s *domain.Snapshot) error {
	if s == nil {
		return domain.ErrNilSnapshot
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	return nil
}
