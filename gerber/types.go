// Package gerber defines the RS-274X command-stream contract and a lexer
// that produces it from raw Gerber source. It is the Go stand-in for the
// third-party Gerber lexical parser the original implementation used: no Go
// library of this kind exists in the example corpus, so this package is
// generalized from the teacher's own line-oriented regex scanner.
package gerber

// ApertureKind identifies which standard aperture shape a D-code defines.
type ApertureKind int

const (
	ApertureCircle ApertureKind = iota
	ApertureRectangle
	ApertureObround
	AperturePolygon
	ApertureMacro
)

// Aperture is a single %ADD-defined aperture.
//
// For standard shapes, Modifiers holds the shape parameters in Gerber order
// (circle: [diameter, holeDiameter?]; rect/obround: [width, height,
// holeDiameter?]; polygon: [diameter, vertices, rotation?, holeDiameter?]).
// For ApertureMacro, MacroName names the macro in the file's macro table and
// MacroArgs holds the flattened modifier list following the macro name.
type Aperture struct {
	Kind      ApertureKind
	Modifiers []float64
	MacroName string
	MacroArgs []float64
}

// MacroPrimitiveCode is the leading integer of an aperture macro primitive
// line (RS-274X §4.5). Comment (0) carries no geometry.
type MacroPrimitiveCode int

const (
	MacroComment         MacroPrimitiveCode = 0
	MacroCircle          MacroPrimitiveCode = 1
	MacroVectorLine      MacroPrimitiveCode = 20
	MacroCenterLine      MacroPrimitiveCode = 21
	MacroOutline         MacroPrimitiveCode = 4
	MacroPolygon         MacroPrimitiveCode = 5
	MacroMoire           MacroPrimitiveCode = 6
	MacroThermal         MacroPrimitiveCode = 7
	MacroVariableDefCode MacroPrimitiveCode = -1 // synthetic: "$n=expr" line
)

// MacroPrimitive is one line of an aperture macro body: either a variable
// definition ($n=expr, recorded with VarNumber set) or a primitive statement
// (Code plus its raw, comma-separated modifier expressions — each modifier
// may itself be an arithmetic expression referencing earlier $n variables).
type MacroPrimitive struct {
	Code      MacroPrimitiveCode
	VarNumber int      // valid when Code == MacroVariableDefCode
	Exprs     []string // raw modifier expressions, in source order
}

// Macro is an aperture macro definition (%AMname*...*%).
type Macro struct {
	Name       string
	Primitives []MacroPrimitive
}

// Unit is the file-wide measurement unit (%MOIN*% / %MOMM*%).
type Unit int

const (
	UnitUnset Unit = iota
	Inches
	Millimeters
)

// CoordinateFormat is the %FS-declared fixed-point format: Integer digits
// before the decimal point, Decimal digits after.
type CoordinateFormat struct {
	IntegerX, DecimalX int
	IntegerY, DecimalY int
}

// QuadrantMode is the active G74/G75 arc quadrant mode.
type QuadrantMode int

const (
	SingleQuadrant QuadrantMode = iota
	MultiQuadrant
)

// CommandKind identifies what a Command represents in the RS-274X stream.
type CommandKind int

const (
	CmdMove CommandKind = iota // D02
	CmdDraw                    // D01
	CmdFlash                   // D03
	CmdSelectAperture
	CmdSetInterpolationLinear
	CmdSetInterpolationCW
	CmdSetInterpolationCCW
	CmdSetQuadrantMode
	CmdRegionStart // G36
	CmdRegionEnd   // G37
	CmdLoadPolarity
	CmdStepRepeatOpen  // %SR...*%
	CmdStepRepeatClose // %SR*%
	CmdApertureDefine
	CmdMacroDefine
	CmdFormatSpec
	CmdUnits
	CmdComment
	CmdEndOfFile // M02/M00
	CmdParseError
)

// Command is one element of the parsed Gerber stream (spec §6: "each
// command may be a successful value or an embedded parse error", so a
// malformed line never aborts the whole parse — it surfaces as CmdParseError
// and the interpreter records it as a warning and keeps going).
type Command struct {
	Kind CommandKind

	// CmdMove / CmdDraw / CmdFlash.
	//
	// X/Y/I/J are stored as raw field text rather than pre-scaled floats:
	// whether "150000" means 150000 or 15.0000 depends on the file's %FS
	// decimal-digit count, which is stream state the lexer does not track.
	// Use gerber.DecodeCoordinate with the current format to resolve them.
	RawX, RawY string
	RawI, RawJ string
	HasX, HasY bool
	HasIJ      bool

	// CmdSelectAperture
	ApertureNumber int

	// CmdSetQuadrantMode
	Quadrant QuadrantMode

	// CmdLoadPolarity
	PolarityDark bool

	// CmdStepRepeatOpen
	RepeatX, RepeatY     int
	StepX, StepY         float64

	// CmdApertureDefine
	ApertureNumberDef int
	Aperture          Aperture

	// CmdMacroDefine
	MacroDef Macro

	// CmdFormatSpec
	Format          CoordinateFormat
	ZeroOmission    ZeroOmission
	AbsoluteCoords  bool

	// CmdUnits
	Units Unit

	// CmdComment / CmdParseError
	Text string
	Err  error
}
