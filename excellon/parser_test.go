package excellon

import "testing"

func TestParseEmptyInputIsFatal(t *testing.T) {
	if _, err := Parse(nil); err == nil {
		t.Fatalf("expected an error for empty input")
	}
}

func TestParseNonUTF8InputIsFatal(t *testing.T) {
	if _, err := Parse([]byte{0xff, 0xfe, 0xfd}); err == nil {
		t.Fatalf("expected an error for non-UTF-8 input")
	}
}

func TestParseHeaderToolTableAndDrills(t *testing.T) {
	data := []byte(
		"M48\n" +
			"METRIC,LZ\n" +
			"T01C0.3000\n" +
			"T02C0.6000\n" +
			"%\n" +
			"T01\n" +
			"X001000Y002000\n" +
			"T02\n" +
			"X003000Y004000\n" +
			"M30\n")

	result, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Units != Metric {
		t.Fatalf("got units %v; want Metric", result.Units)
	}
	if len(result.Tools) != 2 {
		t.Fatalf("got %d tools; want 2", len(result.Tools))
	}
	if len(result.Holes) != 2 {
		t.Fatalf("got %d holes; want 2: %+v", len(result.Holes), result.Holes)
	}
	if result.Holes[0].Diameter != 0.3 {
		t.Fatalf("got first hole diameter %v; want 0.3", result.Holes[0].Diameter)
	}
	if result.Holes[1].Diameter != 0.6 {
		t.Fatalf("got second hole diameter %v; want 0.6", result.Holes[1].Diameter)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %+v", result.Warnings)
	}
}

func TestParseToolSelectionOfUndefinedToolWarnsAndSkipsHole(t *testing.T) {
	data := []byte(
		"M48\n" +
			"INCH,LZ\n" +
			"T01C0.0100\n" +
			"%\n" +
			"T05\n" +
			"X001000Y002000\n" +
			"M30\n")

	result, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Holes) != 0 {
		t.Fatalf("expected no holes drilled with an undefined tool, got %+v", result.Holes)
	}
	// One warning for selecting the undefined T05, one for the coordinate
	// that then has no tool selected.
	if len(result.Warnings) != 2 {
		t.Fatalf("got %d warnings; want 2: %+v", len(result.Warnings), result.Warnings)
	}
}

func TestParseZeroDiameterToolIsSkippedWithWarning(t *testing.T) {
	data := []byte(
		"M48\n" +
			"METRIC,LZ\n" +
			"T01C0.0000\n" +
			"%\n" +
			"M30\n")

	result, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Tools) != 0 {
		t.Fatalf("expected the zero-diameter tool definition to be rejected, got %+v", result.Tools)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("got %d warnings; want 1", len(result.Warnings))
	}
}

func TestParseDuplicateToolDefinitionLastWins(t *testing.T) {
	data := []byte(
		"M48\n" +
			"METRIC,LZ\n" +
			"T01C0.3000\n" +
			"T01C0.5000\n" +
			"%\n" +
			"T01\n" +
			"X001000Y001000\n" +
			"M30\n")

	result, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("got %d warnings; want 1 duplicate-definition warning", len(result.Warnings))
	}
	if len(result.Holes) != 1 || result.Holes[0].Diameter != 0.5 {
		t.Fatalf("got holes %+v; want single hole with diameter 0.5 (last definition wins)", result.Holes)
	}
}

func TestParseRoutingCommandsAreSkippedWithoutDrilling(t *testing.T) {
	data := []byte(
		"M48\n" +
			"METRIC,LZ\n" +
			"T01C0.3000\n" +
			"%\n" +
			"T01\n" +
			"G00X001000Y001000\n" +
			"M30\n")

	result, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Holes) != 0 {
		t.Fatalf("expected a routing move to not drill a hole, got %+v", result.Holes)
	}
}

func TestParseCoordinateDigitCountShortcutTreatsShortFieldsAsLiteral(t *testing.T) {
	// With 2.4 format and trailing-zero suppression, a 2-digit field ("12")
	// is <= integerDigits and is read as the literal integer 12, not 0.0012.
	got := parseCoordinate("12", 2, 4, TrailingZeroSuppression)
	if got != 12 {
		t.Fatalf("got %v; want 12 (literal integer shortcut)", got)
	}
}

func TestParseCoordinateTrailingZeroSuppressionPadsRight(t *testing.T) {
	got := parseCoordinate("12345", 2, 4, TrailingZeroSuppression)
	want := 12.345
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("got %v; want %v", got, want)
	}
}

func TestParseCoordinateLeadingZeroSuppressionPadsLeft(t *testing.T) {
	got := parseCoordinate("12345", 2, 4, LeadingZeroSuppression)
	want := 1.2345
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("got %v; want %v", got, want)
	}
}

func TestParseCoordinateExplicitDecimalPoint(t *testing.T) {
	got := parseCoordinate("1.5000", 2, 4, LeadingZeroSuppression)
	if got != 1.5 {
		t.Fatalf("got %v; want 1.5", got)
	}
}

func TestParseMixedUnitDeclarationWarns(t *testing.T) {
	data := []byte(
		"M48\n" +
			"INCH,LZ\n" +
			"T01C0.0100\n" +
			"%\n" +
			"METRIC,LZ\n" +
			"M30\n")

	result, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("got %d warnings; want 1 mixed-units warning: %+v", len(result.Warnings), result.Warnings)
	}
	if result.Units != Metric {
		t.Fatalf("got units %v; want Metric (last declaration wins)", result.Units)
	}
}

func TestParseCommentAndBlankLinesAreIgnored(t *testing.T) {
	data := []byte(
		"M48\n" +
			"; a comment\n" +
			"\n" +
			"METRIC,LZ\n" +
			"T01C0.3000\n" +
			"%\n" +
			"T01\n" +
			"X001000Y001000\n" +
			"M30\n")

	result, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Holes) != 1 {
		t.Fatalf("got %d holes; want 1", len(result.Holes))
	}
}

// BenchmarkParseExcellon tracks the original's Criterion-measured "Gerber
// parse" budget (spec §... performance notes) for the drill-file side of the
// pipeline, using stdlib testing.B since criterion has no direct analogue in
// the pack.
func BenchmarkParseExcellon(b *testing.B) {
	data := []byte(
		"M48\n" +
			"METRIC,LZ\n" +
			"T01C0.3000\n" +
			"T02C0.6000\n" +
			"T03C1.0000\n" +
			"%\n" +
			"T01\n" +
			"X001000Y001000\n" +
			"X002000Y001000\n" +
			"X003000Y001000\n" +
			"T02\n" +
			"X001000Y002000\n" +
			"X002000Y002000\n" +
			"T03\n" +
			"X001000Y003000\n" +
			"M30\n")

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Parse(data); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}
