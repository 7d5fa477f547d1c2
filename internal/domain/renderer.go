package domain

import "io"

// Renderer defines the interface for artifact renderers.
type Renderer interface {
	// Render writes the artifact for a group of entities.
	Render(group *DomainGroup, output io.Writer) error

	// FileName returns the name of the file the artifact is written to (e.g., "schemas.ts").
	FileName() string
}

// GeneratedMarker identifies files owned by the generator. Files without it are
// treated as hand-written and never overwritten.
const GeneratedMarker = "Code generated by openapi-domaingen. DO NOT EDIT."
