package gerber

import "testing"

func kindsOf(cmds []Command) []CommandKind {
	kinds := make([]CommandKind, len(cmds))
	for i, c := range cmds {
		kinds[i] = c.Kind
	}
	return kinds
}

func TestParseFormatSpecAndUnits(t *testing.T) {
	cmds := Parse([]byte("%FSLAX24Y24*%\n%MOMM*%\n"))
	if len(cmds) != 2 {
		t.Fatalf("got %d commands; want 2: %+v", len(cmds), cmds)
	}

	if cmds[0].Kind != CmdFormatSpec {
		t.Fatalf("got kind %v; want CmdFormatSpec", cmds[0].Kind)
	}
	if cmds[0].Format.IntegerX != 2 || cmds[0].Format.DecimalX != 4 {
		t.Fatalf("got format %+v; want 2.4", cmds[0].Format)
	}
	if cmds[0].ZeroOmission != LeadingZeroOmission {
		t.Fatalf("got omission %v; want leading", cmds[0].ZeroOmission)
	}

	if cmds[1].Kind != CmdUnits || cmds[1].Units != Millimeters {
		t.Fatalf("got %+v; want CmdUnits/Millimeters", cmds[1])
	}
}

func TestParseApertureDefineCircle(t *testing.T) {
	cmds := Parse([]byte("%ADD10C,1.5*%\n"))
	if len(cmds) != 1 || cmds[0].Kind != CmdApertureDefine {
		t.Fatalf("got %+v; want one CmdApertureDefine", cmds)
	}
	ap := cmds[0].Aperture
	if ap.Kind != ApertureCircle || len(ap.Modifiers) != 1 || ap.Modifiers[0] != 1.5 {
		t.Fatalf("got aperture %+v; want circle diameter 1.5", ap)
	}
	if cmds[0].ApertureNumberDef != 10 {
		t.Fatalf("got aperture number %d; want 10", cmds[0].ApertureNumberDef)
	}
}

func TestParseStandardDrawCommand(t *testing.T) {
	cmds := Parse([]byte("X1000Y2000D01*\n"))
	if len(cmds) != 1 || cmds[0].Kind != CmdDraw {
		t.Fatalf("got %+v; want one CmdDraw", cmds)
	}
	if cmds[0].RawX != "1000" || cmds[0].RawY != "2000" {
		t.Fatalf("got raw coords %q, %q; want 1000, 2000", cmds[0].RawX, cmds[0].RawY)
	}
}

func TestParseCombinedGCodeAndDrawWordEmitsBoth(t *testing.T) {
	cmds := Parse([]byte("G01X100Y200D01*\n"))

	kinds := kindsOf(cmds)
	if len(kinds) != 2 || kinds[0] != CmdSetInterpolationLinear || kinds[1] != CmdDraw {
		t.Fatalf("got kinds %v; want [CmdSetInterpolationLinear CmdDraw]", kinds)
	}
	if cmds[1].RawX != "100" || cmds[1].RawY != "200" {
		t.Fatalf("draw command lost its coordinates: %+v", cmds[1])
	}
}

func TestParseSelectApertureAndFlash(t *testing.T) {
	cmds := Parse([]byte("D10*\nX0Y0D03*\n"))
	if len(cmds) != 2 {
		t.Fatalf("got %d commands; want 2: %+v", len(cmds), cmds)
	}
	if cmds[0].Kind != CmdSelectAperture || cmds[0].ApertureNumber != 10 {
		t.Fatalf("got %+v; want CmdSelectAperture(10)", cmds[0])
	}
	if cmds[1].Kind != CmdFlash {
		t.Fatalf("got %+v; want CmdFlash", cmds[1])
	}
}

func TestParseRegionStartAndEnd(t *testing.T) {
	cmds := Parse([]byte("G36*\nX0Y0D02*\nX1Y0D01*\nX1Y1D01*\nG37*\n"))
	kinds := kindsOf(cmds)
	if kinds[0] != CmdRegionStart || kinds[len(kinds)-1] != CmdRegionEnd {
		t.Fatalf("got kinds %v", kinds)
	}
}

func TestParseStepRepeatOpenAndClose(t *testing.T) {
	cmds := Parse([]byte("%SRX2Y3I1.5J2.5*%\n%SR*%\n"))
	if len(cmds) != 2 {
		t.Fatalf("got %d commands; want 2: %+v", len(cmds), cmds)
	}
	open := cmds[0]
	if open.Kind != CmdStepRepeatOpen || open.RepeatX != 2 || open.RepeatY != 3 || open.StepX != 1.5 || open.StepY != 2.5 {
		t.Fatalf("got %+v; want SR(2,3,1.5,2.5)", open)
	}
	if cmds[1].Kind != CmdStepRepeatClose {
		t.Fatalf("got %+v; want CmdStepRepeatClose", cmds[1])
	}
}

func TestParseMacroDefinitionWithVariableAndPrimitive(t *testing.T) {
	cmds := Parse([]byte("%AMCUSTOM*\n$1=1.5*\n1,1,$1,0,0*\n%\n"))
	if len(cmds) != 1 || cmds[0].Kind != CmdMacroDefine {
		t.Fatalf("got %+v; want one CmdMacroDefine", cmds)
	}
	macro := cmds[0].MacroDef
	if macro.Name != "CUSTOM" || len(macro.Primitives) != 2 {
		t.Fatalf("got macro %+v; want name CUSTOM with 2 primitives", macro)
	}
	if macro.Primitives[0].Code != MacroVariableDefCode || macro.Primitives[0].VarNumber != 1 {
		t.Fatalf("got first primitive %+v; want variable definition $1", macro.Primitives[0])
	}
	if macro.Primitives[1].Code != MacroCircle {
		t.Fatalf("got second primitive %+v; want circle primitive", macro.Primitives[1])
	}
}

func TestParseMalformedCommandYieldsParseErrorNotAbort(t *testing.T) {
	cmds := Parse([]byte("ZZZ*\nX0Y0D02*\n"))
	if len(cmds) != 2 {
		t.Fatalf("got %d commands; want 2 (malformed + valid): %+v", len(cmds), cmds)
	}
	if cmds[0].Kind != CmdParseError {
		t.Fatalf("got %+v; want CmdParseError for the malformed word", cmds[0])
	}
	if cmds[1].Kind != CmdMove {
		t.Fatalf("got %+v; want CmdMove to still be parsed", cmds[1])
	}
}

func TestParseLoadPolarity(t *testing.T) {
	cmds := Parse([]byte("%LPC*%\n%LPD*%\n"))
	if len(cmds) != 2 {
		t.Fatalf("got %d commands; want 2", len(cmds))
	}
	if cmds[0].PolarityDark {
		t.Fatalf("expected LPC to set PolarityDark=false")
	}
	if !cmds[1].PolarityDark {
		t.Fatalf("expected LPD to set PolarityDark=true")
	}
}
