package geometry

import "fmt"

// FillRegion triangulates a G36/G37 region boundary and records its
// triangles on the builder. The boundary is auto-closed if the first and
// last point don't already coincide, and boundaries with fewer than three
// points are skipped with a warning rather than treated as fatal, since a
// malformed region shouldn't abort an otherwise-valid layer.
func FillRegion(b *Builder, boundary []Point) error {
	if len(boundary) < 3 {
		b.Warn(fmt.Sprintf("region boundary has too few points; need at least 3, got %d point(s)", len(boundary)))
		return nil
	}

	points := boundary
	first := boundary[0]
	last := boundary[len(boundary)-1]
	if !pointsApproxEqual(first, last) {
		b.Warn("region boundary is not closed; auto-closing by appending first point")
		points = append(append([]Point(nil), boundary...), first)
	}

	flat := make([]float64, 0, len(points)*2)
	for _, p := range points {
		flat = append(flat, p.X, p.Y)
	}

	triangles := earclipTriangulate(flat)
	if len(triangles) == 0 {
		b.Warn("region triangulation produced no triangles; skipping")
		return nil
	}

	base := make([]uint32, len(points))
	for i, p := range points {
		base[i] = b.PushVertex(p.X, p.Y)
	}

	for i := 0; i+2 < len(triangles); i += 3 {
		a := base[triangles[i]]
		c := base[triangles[i+1]]
		d := base[triangles[i+2]]
		b.PushTriangle(a, c, d)
	}

	return nil
}
