package geometry

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies a fatal conversion failure so callers can branch on it
// without parsing message text. Mirrors the taxonomy every tessellator in
// this package can raise.
type ErrorKind int

const (
	ErrInvalidAperture ErrorKind = iota
	ErrDegenerateGeometry
	ErrUnsupportedFeature
	ErrArc
	ErrRegion
	ErrMacro
	ErrParse
)

func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidAperture:
		return "invalid aperture"
	case ErrDegenerateGeometry:
		return "degenerate geometry"
	case ErrUnsupportedFeature:
		return "unsupported feature"
	case ErrArc:
		return "arc error"
	case ErrRegion:
		return "region error"
	case ErrMacro:
		return "macro error"
	case ErrParse:
		return "parse error"
	default:
		return "error"
	}
}

// Error is the fatal-error type returned by every tessellator and parser in
// this module. Kind lets a caller errors.As into this type and switch on it
// without string matching.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// NewError constructs an *Error wrapped with a stack trace via
// github.com/pkg/errors, attached at the point of failure.
func NewError(kind ErrorKind, format string, args ...any) error {
	return errors.WithStack(&Error{Kind: kind, Msg: fmt.Sprintf(format, args...)})
}
