package geometry

import (
	"math"

	"github.com/SohaibAli9/gerberview/gerber"
)

const (
	minArcSegments           = 16
	minSegmentLengthFloor    = 0.01
	radiusMismatchTolerance  = 1e-4
	pointEqualityEpsilon     = 1e-9
	strokeSegmentLengthRatio = 0.25

	// DefaultRegionArcSegmentLength is the centerline segment length used
	// when tessellating an arc that forms part of a region boundary rather
	// than a stroked segment (no stroke width to derive a length from).
	DefaultRegionArcSegmentLength = 0.1
)

// DrawArc widens a G02/G03 arc from `from` to `to`, centered at
// `from + centerOffset`, into a stroked polyline. SingleQuadrant mode arcs
// are not resolvable without an explicit sweep direction per quadrant, so
// they are skipped with a warning, matching RS-274X multi-quadrant-only
// adoption in modern files.
func DrawArc(b *Builder, from, to, centerOffset Point, direction InterpolationMode, quadrant gerber.QuadrantMode, ap gerber.Aperture) error {
	width, err := resolveStrokeWidth(ap)
	if err != nil {
		return err
	}

	maxSegmentLength := math.Max(width*strokeSegmentLengthRatio, minSegmentLengthFloor)

	points, err := arcCenterlinePoints(b, from, to, centerOffset, direction, quadrant, maxSegmentLength)
	if err != nil {
		return err
	}
	if points == nil {
		return nil
	}

	return emitStrokedPolyline(b, points, ap)
}

// TessellateRegionArc expands a G02/G03 arc into centerline points using
// DefaultRegionArcSegmentLength, for appending to an open region boundary
// (spec §4.6: arcs inside a region are pre-tessellated to line segments by
// the interpreter before being appended to the boundary, since region fill
// operates on a polygon of straight edges). The returned slice includes both
// endpoints; the caller should drop the first point when appending to an
// existing boundary to avoid a duplicate vertex.
func TessellateRegionArc(b *Builder, from, to, centerOffset Point, direction InterpolationMode, quadrant gerber.QuadrantMode) ([]Point, error) {
	return arcCenterlinePoints(b, from, to, centerOffset, direction, quadrant, DefaultRegionArcSegmentLength)
}

func emitStrokedPolyline(b *Builder, points []Point, ap gerber.Aperture) error {
	for i := 0; i+1 < len(points); i++ {
		if err := DrawLinear(b, points[i], points[i+1], ap); err != nil {
			return err
		}
	}
	return nil
}

func pointsApproxEqual(a, c Point) bool {
	return math.Abs(a.X-c.X) < pointEqualityEpsilon && math.Abs(a.Y-c.Y) < pointEqualityEpsilon
}

func arcCenterlinePoints(b *Builder, from, to, centerOffset Point, direction InterpolationMode, quadrant gerber.QuadrantMode, maxSegmentLength float64) ([]Point, error) {
	if quadrant == gerber.SingleQuadrant {
		b.Warn("single-quadrant arc mode is not supported; skipping arc")
		return nil, nil
	}

	center := Point{X: from.X + centerOffset.X, Y: from.Y + centerOffset.Y}
	radius := math.Hypot(from.X-center.X, from.Y-center.Y)

	if radius <= machineEpsilon {
		b.Warn("arc has zero radius; skipping")
		return nil, nil
	}

	hasOffset := math.Abs(centerOffset.X) > pointEqualityEpsilon || math.Abs(centerOffset.Y) > pointEqualityEpsilon

	var sweep float64
	if pointsApproxEqual(from, to) {
		if !hasOffset {
			b.Warn("arc start and end coincide with no center offset; skipping")
			return nil, nil
		}
		if direction == ClockwiseArc {
			sweep = -2 * math.Pi
		} else {
			sweep = 2 * math.Pi
		}
	} else {
		radiusEnd := math.Hypot(to.X-center.X, to.Y-center.Y)
		resolvedRadius := resolveRadius(b, radius, radiusEnd)
		radius = resolvedRadius

		startAngle := math.Atan2(from.Y-center.Y, from.X-center.X)
		endAngle := math.Atan2(to.Y-center.Y, to.X-center.X)
		sweep = computeSweep(startAngle, endAngle, direction)
	}

	startAngle := math.Atan2(from.Y-center.Y, from.X-center.X)
	segmentCount := segmentCountForArc(radius, sweep, maxSegmentLength)

	return tessellateCenterline(center, radius, startAngle, sweep, segmentCount), nil
}

func resolveRadius(b *Builder, radiusStart, radiusEnd float64) float64 {
	if math.Abs(radiusStart-radiusEnd) > radiusMismatchTolerance {
		b.Warn("arc start and end radii differ; averaging")
		return (radiusStart + radiusEnd) / 2.0
	}
	return radiusStart
}

func computeSweep(startAngle, endAngle float64, direction InterpolationMode) float64 {
	delta := endAngle - startAngle

	if direction == ClockwiseArc {
		if delta >= 0 {
			return delta - 2*math.Pi
		}
		return delta
	}

	if delta <= 0 {
		return delta + 2*math.Pi
	}
	return delta
}

func segmentCountForArc(radius, sweep, maxSegmentLength float64) int {
	arcLength := math.Abs(sweep) * radius
	count := int(math.Ceil(arcLength / maxSegmentLength))
	if count < minArcSegments {
		count = minArcSegments
	}
	return count
}

func tessellateCenterline(center Point, radius, startAngle, sweep float64, segments int) []Point {
	points := make([]Point, 0, segments+1)
	for i := 0; i <= segments; i++ {
		angle := startAngle + sweep*float64(i)/float64(segments)
		points = append(points, Point{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
		})
	}
	return points
}
