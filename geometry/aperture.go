package geometry

import (
	"math"

	"github.com/SohaibAli9/gerberview/gerber"
)

const (
	circleSegments        = 32
	obroundEndcapSegments = 16
)

// FlashAperture expands a D03 aperture flash at position into triangles.
//
// Supports the four standard Gerber apertures: circle, rectangle, obround,
// and polygon. Aperture macros are not handled here — the interpreter
// dispatches those to EvaluateMacro instead.
func FlashAperture(b *Builder, ap gerber.Aperture, position Point) error {
	switch ap.Kind {
	case gerber.ApertureCircle:
		return flashCircle(b, ap.Modifiers, position)
	case gerber.ApertureRectangle:
		return flashRectangle(b, ap.Modifiers, position)
	case gerber.ApertureObround:
		return flashObround(b, ap.Modifiers, position)
	case gerber.AperturePolygon:
		return flashPolygon(b, ap.Modifiers, position)
	case gerber.ApertureMacro:
		return NewError(ErrUnsupportedFeature, "aperture macro %q is not supported by FlashAperture", ap.MacroName)
	default:
		return NewError(ErrInvalidAperture, "unknown aperture kind %d", ap.Kind)
	}
}

func normalizeDimension(b *Builder, value float64, label string) (float64, bool, error) {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, false, NewError(ErrInvalidAperture, "%s must be finite, got %v", label, value)
	}

	normalized := value
	if normalized < 0 {
		b.Warn(label + " is negative; using absolute value")
		normalized = -normalized
	}

	if normalized <= machineEpsilon {
		b.Warn(label + " is zero; skipping aperture flash")
		return 0, false, nil
	}

	return normalized, true, nil
}

func flashCircle(b *Builder, mods []float64, position Point) error {
	diameter := modifier(mods, 0)
	d, ok, err := normalizeDimension(b, diameter, "circle diameter")
	if err != nil || !ok {
		return err
	}
	b.PushNgon(position.X, position.Y, d/2.0, circleSegments)
	return nil
}

func flashRectangle(b *Builder, mods []float64, position Point) error {
	width, ok, err := normalizeDimension(b, modifier(mods, 0), "rectangle width")
	if err != nil || !ok {
		return err
	}
	height, ok, err := normalizeDimension(b, modifier(mods, 1), "rectangle height")
	if err != nil || !ok {
		return err
	}
	pushCenteredRectangle(b, position, width, height)
	return nil
}

func flashObround(b *Builder, mods []float64, position Point) error {
	width, ok, err := normalizeDimension(b, modifier(mods, 0), "obround width")
	if err != nil || !ok {
		return err
	}
	height, ok, err := normalizeDimension(b, modifier(mods, 1), "obround height")
	if err != nil || !ok {
		return err
	}

	if math.Abs(width-height) <= machineEpsilon {
		b.PushNgon(position.X, position.Y, width/2.0, circleSegments)
		return nil
	}

	if width > height {
		radius := height / 2.0
		bodyWidth := width - height
		halfBody := bodyWidth / 2.0

		if bodyWidth > machineEpsilon {
			pushCenteredRectangle(b, position, bodyWidth, height)
		}

		pushSemiCircle(b, Point{X: position.X - halfBody, Y: position.Y}, radius, math.Pi/2, 3*math.Pi/2, obroundEndcapSegments)
		pushSemiCircle(b, Point{X: position.X + halfBody, Y: position.Y}, radius, -math.Pi/2, math.Pi/2, obroundEndcapSegments)
	} else {
		radius := width / 2.0
		bodyHeight := height - width
		halfBody := bodyHeight / 2.0

		if bodyHeight > machineEpsilon {
			pushCenteredRectangle(b, position, width, bodyHeight)
		}

		pushSemiCircle(b, Point{X: position.X, Y: position.Y + halfBody}, radius, 0, math.Pi, obroundEndcapSegments)
		pushSemiCircle(b, Point{X: position.X, Y: position.Y - halfBody}, radius, math.Pi, 2*math.Pi, obroundEndcapSegments)
	}

	return nil
}

func flashPolygon(b *Builder, mods []float64, position Point) error {
	diameter, ok, err := normalizeDimension(b, modifier(mods, 0), "polygon diameter")
	if err != nil || !ok {
		return err
	}

	vertices := int(modifier(mods, 1))
	if vertices < 3 {
		return NewError(ErrInvalidAperture, "polygon has %d vertices; expected at least 3", vertices)
	}

	rotationDegrees := modifier(mods, 2)
	if math.IsInf(rotationDegrees, 0) || math.IsNaN(rotationDegrees) {
		return NewError(ErrInvalidAperture, "polygon rotation must be finite, got %v", rotationDegrees)
	}

	sides := uint32(vertices)
	radius := diameter / 2.0
	rotation := rotationDegrees * math.Pi / 180.0

	var first uint32
	for i := uint32(0); i < sides; i++ {
		angle := rotation + 2*math.Pi*float64(i)/float64(sides)
		x := position.X + radius*math.Cos(angle)
		y := position.Y + radius*math.Sin(angle)
		idx := b.PushVertex(x, y)
		if i == 0 {
			first = idx
		}
	}

	for i := uint32(1); i+1 < sides; i++ {
		b.PushTriangle(first, first+i, first+i+1)
	}

	return nil
}

// modifier returns mods[i], or 0 when the aperture definition omitted it
// (e.g. a polygon with no explicit rotation).
func modifier(mods []float64, i int) float64 {
	if i < 0 || i >= len(mods) {
		return 0
	}
	return mods[i]
}

func pushCenteredRectangle(b *Builder, center Point, width, height float64) {
	halfW := width / 2.0
	halfH := height / 2.0

	a := b.PushVertex(center.X-halfW, center.Y-halfH)
	c := b.PushVertex(center.X+halfW, center.Y-halfH)
	d := b.PushVertex(center.X+halfW, center.Y+halfH)
	e := b.PushVertex(center.X-halfW, center.Y+halfH)
	b.PushQuad(a, c, d, e)
}

func pushSemiCircle(b *Builder, center Point, radius, startAngle, endAngle float64, segments uint32) {
	centerIndex := b.PushVertex(center.X, center.Y)
	segmentCount := segments
	if segmentCount < 1 {
		segmentCount = 1
	}
	step := (endAngle - startAngle) / float64(segmentCount)

	var previous uint32
	havePrevious := false
	for i := uint32(0); i <= segmentCount; i++ {
		angle := startAngle + step*float64(i)
		x := center.X + radius*math.Cos(angle)
		y := center.Y + radius*math.Sin(angle)
		idx := b.PushVertex(x, y)
		if havePrevious {
			b.PushTriangle(centerIndex, previous, idx)
		}
		previous = idx
		havePrevious = true
	}
}
