package gerberview

import "testing"

// This must run before any other test in the package touches lastMesh: Go
// runs a file's tests in declaration order, and this is the only test file
// for this package, so placing it first keeps it meaningful.
func TestAccessorsAreNilBeforeAnyConversion(t *testing.T) {
	lastMesh = nil
	if GetPositions() != nil {
		t.Fatalf("expected nil positions before any conversion")
	}
	if GetIndices() != nil {
		t.Fatalf("expected nil indices before any conversion")
	}
	if GetClearRanges() != nil {
		t.Fatalf("expected nil clear ranges before any conversion")
	}
}

func TestConvertGerberEndToEnd(t *testing.T) {
	src := []byte(
		"%FSLAX24Y24*%\n" +
			"%MOMM*%\n" +
			"%ADD10C,1.0*%\n" +
			"D10*\n" +
			"X0Y0D03*\n" +
			"M02*\n")

	meta, err := ConvertGerber(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.VertexCount == 0 {
		t.Fatalf("expected a flashed circle to produce vertices")
	}
	if len(GetPositions()) == 0 {
		t.Fatalf("expected GetPositions to reflect the converted mesh")
	}
	if len(GetIndices()) == 0 {
		t.Fatalf("expected GetIndices to reflect the converted mesh")
	}
}

func TestConvertExcellonEndToEnd(t *testing.T) {
	src := []byte(
		"M48\n" +
			"METRIC,LZ\n" +
			"T01C0.3000\n" +
			"%\n" +
			"T01\n" +
			"X001000Y001000\n" +
			"M30\n")

	meta, err := ConvertExcellon(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.VertexCount == 0 {
		t.Fatalf("expected a drilled hole to produce vertices")
	}
	if meta.CommandCount != 1 {
		t.Fatalf("got command count %d; want 1 hole", meta.CommandCount)
	}
	if len(GetPositions()) == 0 {
		t.Fatalf("expected GetPositions to reflect the converted mesh")
	}
}

func TestConvertGerberDrawWithNoApertureWarnsInsteadOfFailing(t *testing.T) {
	// A draw with no aperture selected is not fatal: ConvertGerber succeeds
	// and records a warning.
	src := []byte("X0Y0D02*\nX1000Y1000D01*\n")

	meta, err := ConvertGerber(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.WarningCount == 0 {
		t.Fatalf("expected a warning for drawing with no aperture selected")
	}
}

func TestGetClearRangesFlattensPairs(t *testing.T) {
	src := []byte(
		"%FSLAX24Y24*%\n" +
			"%MOMM*%\n" +
			"%ADD10C,1.0*%\n" +
			"D10*\n" +
			"X0Y0D03*\n" +
			"%LPC*%\n" +
			"X2000000Y0D03*\n" +
			"%LPD*%\n" +
			"M02*\n")

	if _, err := ConvertGerber(src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ranges := GetClearRanges()
	if len(ranges)%2 != 0 || len(ranges) == 0 {
		t.Fatalf("expected a flattened, even-length clear-range slice, got %+v", ranges)
	}
}

// BenchmarkConvertGerber tracks the original's Criterion-measured "geometry
// conversion" budget (spec §... performance notes); this is the stdlib
// testing.B equivalent since criterion has no direct analogue in the pack.
func BenchmarkConvertGerber(b *testing.B) {
	src := []byte(
		"%FSLAX24Y24*%\n" +
			"%MOMM*%\n" +
			"%ADD10C,1.0*%\n" +
			"%ADD11R,2.0X1.5*%\n" +
			"D10*\n" +
			"X0Y0D03*\n" +
			"X1000000Y0D03*\n" +
			"X2000000Y0D03*\n" +
			"D11*\n" +
			"G01*\n" +
			"X0Y1000000D02*\n" +
			"X2000000Y1000000D01*\n" +
			"G36*\n" +
			"X0Y2000000D02*\n" +
			"X2000000Y2000000D01*\n" +
			"X2000000Y3000000D01*\n" +
			"X0Y3000000D01*\n" +
			"X0Y2000000D01*\n" +
			"G37*\n" +
			"M02*\n")

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := ConvertGerber(src); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}
