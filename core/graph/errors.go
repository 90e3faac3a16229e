package graph

import "errors"

var (
	// ErrDuplicateArea is returned when adding an area whose name is taken.
	ErrDuplicateArea = errors.New("area already exists")
	// ErrUnknownArea is returned when an operation references a missing area.
	ErrUnknownArea = errors.New("unknown area")
	// ErrInvalidArea is returned for an empty name or a negative severity.
	ErrInvalidArea = errors.New("invalid area")
	// ErrInvalidWeight is returned when connecting areas with a non-positive distance.
	ErrInvalidWeight = errors.New("distance must be positive")
	// ErrSelfLoop is returned when connecting an area to itself.
	ErrSelfLoop = errors.New("cannot connect an area to itself")
	// ErrBaseSeverity is returned when trying to give the depot a severity.
	ErrBaseSeverity = errors.New("base severity must stay 0")
)
