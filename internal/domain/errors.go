package domain

import "errors"

var (
	// ErrNoEntities is returned when a specification yields no extractable entities.
	ErrNoEntities = errors.New("no entities found")

	// ErrNilGroup is returned when a renderer is given no domain group.
	ErrNilGroup = errors.New("nil domain group")

	// ErrNilSnapshot is returned when a diff is requested without a previous snapshot.
	ErrNilSnapshot = errors.New("previous snapshot is nil")
)
