package geometry

import (
	"testing"

	"github.com/SohaibAli9/gerberview/gerber"
)

func TestDrawLinearWithCircleApertureAddsEndcaps(t *testing.T) {
	b := NewBuilder()
	ap := gerber.Aperture{Kind: gerber.ApertureCircle, Modifiers: []float64{1.0}}

	if err := DrawLinear(b, Point{0, 0}, Point{10, 0}, ap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Quad body (4 verts) + two endcap centers + 2*(circleEndcapSegments+1) rim
	// verts (a 16-segment half disk has 17 rim points).
	wantVerts := uint32(4) + 2 + 2*(circleEndcapSegments+1)
	if b.VertexCount() != wantVerts {
		t.Fatalf("got %d vertices; want %d", b.VertexCount(), wantVerts)
	}
}

func TestDrawLinearWithRectangleApertureHasNoEndcaps(t *testing.T) {
	b := NewBuilder()
	ap := gerber.Aperture{Kind: gerber.ApertureRectangle, Modifiers: []float64{1.0, 2.0}}

	if err := DrawLinear(b, Point{0, 0}, Point{10, 0}, ap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if b.VertexCount() != 4 {
		t.Fatalf("got %d vertices; want 4 (quad body only)", b.VertexCount())
	}
}

func TestDrawLinearZeroLengthCircleFlashesInstead(t *testing.T) {
	b := NewBuilder()
	ap := gerber.Aperture{Kind: gerber.ApertureCircle, Modifiers: []float64{2.0}}

	if err := DrawLinear(b, Point{1, 1}, Point{1, 1}, ap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.VertexCount() != circleSegments {
		t.Fatalf("got %d vertices; want a %d-vertex flash", b.VertexCount(), circleSegments)
	}
}

func TestDrawLinearZeroLengthNonCircularSkipsWithWarning(t *testing.T) {
	b := NewBuilder()
	ap := gerber.Aperture{Kind: gerber.ApertureRectangle, Modifiers: []float64{1.0, 1.0}}

	if err := DrawLinear(b, Point{1, 1}, Point{1, 1}, ap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.VertexCount() != 0 {
		t.Fatalf("expected no geometry for a zero-length non-circular stroke")
	}
	if len(b.Warnings()) != 1 {
		t.Fatalf("expected one warning, got %d", len(b.Warnings()))
	}
}

func TestDrawLinearRejectsMacroAperture(t *testing.T) {
	b := NewBuilder()
	ap := gerber.Aperture{Kind: gerber.ApertureMacro, MacroName: "CUSTOM"}

	if err := DrawLinear(b, Point{0, 0}, Point{1, 0}, ap); err == nil {
		t.Fatalf("expected an unsupported-feature error for a macro stroke aperture")
	}
}
