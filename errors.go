package gerberview

import "github.com/SohaibAli9/gerberview/geometry"

// Error is the fatal-error type returned by every conversion entry point.
// It is an alias of geometry.Error: the geometry package owns the taxonomy
// since every tessellator and parser constructs these errors directly, and
// the root package re-exports it for host-facing ergonomics.
type Error = geometry.Error

// ErrorKind classifies a fatal conversion failure so callers can branch on
// it without parsing message text.
type ErrorKind = geometry.ErrorKind

const (
	ErrInvalidAperture    = geometry.ErrInvalidAperture
	ErrDegenerateGeometry = geometry.ErrDegenerateGeometry
	ErrUnsupportedFeature = geometry.ErrUnsupportedFeature
	ErrArc                = geometry.ErrArc
	ErrRegion             = geometry.ErrRegion
	ErrMacro              = geometry.ErrMacro
	ErrParse              = geometry.ErrParse
)
