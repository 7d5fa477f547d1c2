// Package writer writes generated files to disk without clobbering hand-written ones.
package writer

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/GabrielNunesIT/openapi-domaingen/internal/domain"
)

// markerWindow is how much of an existing file is searched for the generated marker.
const markerWindow = 1024

// Policy decides whether an existing file may be overwritten.
type Policy int

const (
	// PolicyManaged overwrites files that carry the generated marker and preserves the rest.
	PolicyManaged Policy = iota
	// PolicyCreateOnly writes a file once and never overwrites it.
	PolicyCreateOnly
	// PolicyAlways overwrites unconditionally; used for binary artifacts.
	PolicyAlways
)

// Status is the outcome of writing one file.
type Status string

// Write outcomes.
const (
	StatusCreated   Status = "created"
	StatusUpdated   Status = "updated"
	StatusUnchanged Status = "unchanged"
	StatusPreserved Status = "preserved"
)

// GeneratedFile is a file to be written.
type GeneratedFile struct {
	Path    string
	Content []byte
	Policy  Policy
}

// Result reports what happened to one file.
type Result struct {
	Path   string
	Status Status
}

// Writer writes generated files. In dry-run mode it reports outcomes without touching disk.
type Writer struct {
	dryRun bool
}

// New creates a new Writer.
func New(dryRun bool) *Writer {
	return &Writer{dryRun: dryRun}
}

// DryRun reports whether the writer leaves the disk untouched.
func (w *Writer) DryRun() bool {
	return w.dryRun
}

// WriteAll writes files in order and stops at the first error.
func (w *Writer) WriteAll(files []GeneratedFile) ([]Result, error) {
	results := make([]Result, 0, len(files))

	for _, f := range files {
		res, err := w.Write(f)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}

	return results, nil
}

// Write writes one file according to its policy.
func (w *Writer) Write(f GeneratedFile) (Result, error) {
	res := Result{Path: f.Path}

	existing, err := os.ReadFile(f.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		res.Status = StatusCreated
	case err != nil:
		return res, fmt.Errorf("failed to read %s: %w", f.Path, err)
	case bytes.Equal(existing, f.Content):
		res.Status = StatusUnchanged
		return res, nil
	default:
		res.Status = decide(f.Policy, existing)
	}

	if res.Status == StatusPreserved || w.dryRun {
		return res, nil
	}

	if err := writeAtomic(f.Path, f.Content); err != nil {
		return res, err
	}

	return res, nil
}

func decide(policy Policy, existing []byte) Status {
	switch policy {
	case PolicyAlways:
		return StatusUpdated
	case PolicyCreateOnly:
		return StatusPreserved
	default:
		if IsGenerated(existing) {
			return StatusUpdated
		}
		return StatusPreserved
	}
}

// IsGenerated reports whether content carries the generated marker near its top.
func IsGenerated(content []byte) bool {
	if len(content) > markerWindow {
		content = content[:markerWindow]
	}

	return bytes.Contains(content, []byte(domain.GeneratedMarker))
}

// writeAtomic writes content next to path and renames it into place.
func writeAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}

	return nil
}

// Count returns how many results have status.
func Count(results []Result, status Status) int {
	n := 0
	for _, r := range results {
		if r.Status == status {
			n++
		}
	}

	return n
}
