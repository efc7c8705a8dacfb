package report

import (
	errors "gopkg.in/src-d/go-errors.v1"
)

var (
	// ErrLayout is returned for an unreadable or inconsistent layout file.
	ErrLayout = errors.NewKind("invalid layout: %s")
	// ErrSamples is returned when the sample table cannot be used.
	ErrSamples = errors.NewKind("sample table %s: %s")
)
