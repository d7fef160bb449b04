package geometry

import (
	"math"

	"github.com/SohaibAli9/gerberview/gerber"
)

const circleEndcapSegments = 16

// DrawLinear widens a D01 linear stroke from `from` to `to` into a quad body,
// adding circular end caps when the aperture is a circle.
func DrawLinear(b *Builder, from, to Point, ap gerber.Aperture) error {
	width, err := resolveStrokeWidth(ap)
	if err != nil {
		return err
	}
	if width <= 0 {
		b.Warn("stroke aperture has zero width; skipping segment")
		return nil
	}

	dx := to.X - from.X
	dy := to.Y - from.Y
	length := math.Hypot(dx, dy)

	if length <= machineEpsilon {
		return handleZeroLengthSegment(b, from, ap, width)
	}

	nx := -dy / length
	ny := dx / length
	half := width / 2.0

	pushSegmentBody(b, from, to, nx, ny, half)

	if ap.Kind == gerber.ApertureCircle {
		startAngle := math.Atan2(ny, nx)
		pushSemiCircle(b, from, half, startAngle, startAngle+math.Pi, circleEndcapSegments)
		pushSemiCircle(b, to, half, startAngle+math.Pi, startAngle+2*math.Pi, circleEndcapSegments)
	}

	return nil
}

func pushSegmentBody(b *Builder, from, to Point, nx, ny, half float64) {
	a := b.PushVertex(from.X+nx*half, from.Y+ny*half)
	c := b.PushVertex(to.X+nx*half, to.Y+ny*half)
	d := b.PushVertex(to.X-nx*half, to.Y-ny*half)
	e := b.PushVertex(from.X-nx*half, from.Y-ny*half)
	b.PushQuad(a, c, d, e)
}

func handleZeroLengthSegment(b *Builder, at Point, ap gerber.Aperture, width float64) error {
	if ap.Kind == gerber.ApertureCircle {
		b.PushNgon(at.X, at.Y, width/2.0, circleSegments)
		return nil
	}
	b.Warn("zero-length stroke segment with non-circular aperture; skipping")
	return nil
}

// resolveStrokeWidth reduces an aperture to the single width used to widen a
// stroke: circle uses its diameter, rectangle/obround use the smaller of
// width/height, polygon uses its diameter, and macros are unsupported.
func resolveStrokeWidth(ap gerber.Aperture) (float64, error) {
	switch ap.Kind {
	case gerber.ApertureCircle:
		return normalizeStrokeDimension(modifier(ap.Modifiers, 0))
	case gerber.ApertureRectangle, gerber.ApertureObround:
		return normalizeRectLikeWidth(ap.Modifiers)
	case gerber.AperturePolygon:
		vertices := int(modifier(ap.Modifiers, 1))
		if vertices < 3 {
			return 0, NewError(ErrInvalidAperture, "polygon aperture has %d vertices; expected at least 3", vertices)
		}
		return normalizeStrokeDimension(modifier(ap.Modifiers, 0))
	case gerber.ApertureMacro:
		return 0, NewError(ErrUnsupportedFeature, "aperture macro %q cannot be used as a stroke aperture", ap.MacroName)
	default:
		return 0, NewError(ErrInvalidAperture, "unknown aperture kind %d", ap.Kind)
	}
}

func normalizeRectLikeWidth(mods []float64) (float64, error) {
	width := modifier(mods, 0)
	height := modifier(mods, 1)
	if math.IsInf(width, 0) || math.IsNaN(width) || math.IsInf(height, 0) || math.IsNaN(height) {
		return 0, NewError(ErrInvalidAperture, "rectangle/obround dimensions must be finite")
	}
	return math.Min(math.Abs(width), math.Abs(height)), nil
}

func normalizeStrokeDimension(value float64) (float64, error) {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, NewError(ErrInvalidAperture, "stroke dimension must be finite, got %v", value)
	}
	return math.Abs(value), nil
}
