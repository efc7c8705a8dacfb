package xlsx

import (
	errors "gopkg.in/src-d/go-errors.v1"
)

var (
	// ErrNotFound is returned when an input path does not exist.
	ErrNotFound = errors.NewKind("spreadsheet not found: %s")
	// ErrFormat covers malformed documents, duplicate sheet names and
	// unparsable merge ranges.
	ErrFormat = errors.NewKind("format error: %s")
	// ErrIO is returned when the destination cannot be written.
	ErrIO = errors.NewKind("cannot write %s")
	// ErrUnsupportedFeature is recorded as a warning for document parts this
	// package does not model. The part is skipped, the rest is kept.
	ErrUnsupportedFeature = errors.NewKind("sheet %q: unsupported feature %s skipped")
	// ErrStageOrder is returned when a sheet write step runs out of order.
	ErrStageOrder = errors.NewKind("sheet %q: cannot %s in stage %s")
	// ErrCoordinate is returned for a malformed cell, row, column or range
	// reference.
	ErrCoordinate = errors.NewKind("invalid reference %q: %s")
	// ErrStyleField is returned for an unknown style field path or a value of
	// the wrong type for that field.
	ErrStyleField = errors.NewKind("style field %q: %s")
)
