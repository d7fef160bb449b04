package gerber

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// fieldRe matches a single letter+number field inside a standard command,
// e.g. "X1000", "Y-500", "D02", "G36". Generalizes the teacher's single
// coordinate-only regex to the full set of fields a command word can carry.
var fieldRe = regexp.MustCompile(`([A-Za-z])(-?[0-9]+(?:\.[0-9]+)?)`)

// formatSpecRe matches a %FSLAX..Y..*% body, already stripped of the
// surrounding '%'.
var formatSpecRe = regexp.MustCompile(`^FS([LT])([AI])X(\d)(\d)Y(\d)(\d)$`)

// apertureDefRe matches an %ADD<n><shape>,<modifiers>*% body.
var apertureDefRe = regexp.MustCompile(`^ADD(\d+)([A-Za-z_$][A-Za-z0-9_.$]*),?(.*)$`)

// Parse lexes raw Gerber source into a Command stream.
//
// Following spec §6, a malformed statement never aborts the parse: it is
// emitted as a CmdParseError command so the caller can record it as a
// warning and continue with the valid remainder of the file.
func Parse(data []byte) []Command {
	var commands []Command
	state := &macroAccum{}

	for _, block := range splitBlocks(string(data)) {
		if block.extended {
			commands = append(commands, parseExtendedBlock(block.text, state)...)
		} else if block.text != "" {
			commands = append(commands, parseStandardCommand(block.text)...)
		}
	}

	return commands
}

type rawBlock struct {
	text     string
	extended bool
}

// splitBlocks walks the raw source character by character, splitting it into
// '%...%' extended-command blocks and '*'-terminated standard command words,
// in stream order. This generalizes the teacher's per-line regex scan (which
// only handled one coordinate command per line) into a scanner that follows
// the real RS-274X block structure.
func splitBlocks(content string) []rawBlock {
	var blocks []rawBlock
	i := 0
	n := len(content)

	for i < n {
		c := content[i]
		switch {
		case c == '%':
			j := strings.IndexByte(content[i+1:], '%')
			if j < 0 {
				blocks = append(blocks, rawBlock{text: strings.TrimSpace(content[i+1:]), extended: true})
				i = n
				continue
			}
			blocks = append(blocks, rawBlock{text: content[i+1 : i+1+j], extended: true})
			i = i + 1 + j + 1
		case c == '*':
			i++
		case isGerberSpace(c):
			i++
		default:
			k := strings.IndexByte(content[i:], '*')
			if k < 0 {
				k = strings.IndexByte(content[i:], '%')
			}
			var word string
			if k < 0 {
				word = content[i:]
				i = n
			} else {
				word = content[i : i+k]
				i += k
			}
			blocks = append(blocks, rawBlock{text: strings.TrimSpace(word)})
		}
	}

	return blocks
}

func isGerberSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

type macroAccum struct{}

// parseExtendedBlock handles one '%...%' body, which may itself contain
// several '*'-terminated statements (aperture macros define their whole body
// inside one such block).
func parseExtendedBlock(body string, _ *macroAccum) []Command {
	stmts := splitStatements(body)
	if len(stmts) == 0 {
		return nil
	}

	head := stmts[0]
	switch {
	case strings.HasPrefix(head, "FS"):
		return []Command{parseFormatSpec(head)}
	case strings.HasPrefix(head, "MO"):
		return []Command{parseUnits(head)}
	case strings.HasPrefix(head, "AD"):
		return []Command{parseApertureDefine(head)}
	case strings.HasPrefix(head, "AM"):
		return []Command{parseMacroDefine(stmts)}
	case strings.HasPrefix(head, "LP"):
		return []Command{parseLoadPolarity(head)}
	case strings.HasPrefix(head, "SR"):
		return []Command{parseStepRepeat(head)}
	case head == "":
		return nil
	default:
		return []Command{{Kind: CmdComment, Text: head}}
	}
}

func splitStatements(body string) []string {
	parts := strings.Split(body, "*")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseFormatSpec(s string) Command {
	m := formatSpecRe.FindStringSubmatch(s)
	if m == nil {
		return Command{Kind: CmdParseError, Text: s, Err: parseErrorf("malformed format spec %q", s)}
	}
	ix, _ := strconv.Atoi(m[3])
	dx, _ := strconv.Atoi(m[4])
	iy, _ := strconv.Atoi(m[5])
	dy, _ := strconv.Atoi(m[6])

	omission := LeadingZeroOmission
	if m[1] == "T" {
		omission = TrailingZeroOmission
	}

	return Command{
		Kind: CmdFormatSpec,
		Format: CoordinateFormat{
			IntegerX: ix, DecimalX: dx,
			IntegerY: iy, DecimalY: dy,
		},
		ZeroOmission:   omission,
		AbsoluteCoords: m[2] == "A",
	}
}

func parseUnits(s string) Command {
	switch s {
	case "MOIN":
		return Command{Kind: CmdUnits, Units: Inches}
	case "MOMM":
		return Command{Kind: CmdUnits, Units: Millimeters}
	default:
		return Command{Kind: CmdParseError, Text: s, Err: parseErrorf("unknown unit directive %q", s)}
	}
}

func parseApertureDefine(s string) Command {
	m := apertureDefRe.FindStringSubmatch(s)
	if m == nil {
		return Command{Kind: CmdParseError, Text: s, Err: parseErrorf("malformed aperture definition %q", s)}
	}
	number, _ := strconv.Atoi(m[1])
	shape := m[2]
	modRaw := m[3]

	var mods []float64
	if modRaw != "" {
		for _, tok := range strings.Split(modRaw, "X") {
			if v, err := strconv.ParseFloat(strings.TrimSpace(tok), 64); err == nil {
				mods = append(mods, v)
			}
		}
	}

	ap := Aperture{Modifiers: mods}
	switch shape {
	case "C":
		ap.Kind = ApertureCircle
	case "R":
		ap.Kind = ApertureRectangle
	case "O":
		ap.Kind = ApertureObround
	case "P":
		ap.Kind = AperturePolygon
	default:
		ap.Kind = ApertureMacro
		ap.MacroName = shape
		ap.MacroArgs = mods
		ap.Modifiers = nil
	}

	return Command{Kind: CmdApertureDefine, ApertureNumberDef: number, Aperture: ap}
}

func parseMacroDefine(stmts []string) Command {
	name := strings.TrimPrefix(stmts[0], "AM")
	macro := Macro{Name: name}

	for _, stmt := range stmts[1:] {
		if strings.HasPrefix(stmt, "$") {
			if idx := strings.IndexByte(stmt, '='); idx > 0 {
				n, err := strconv.Atoi(stmt[1:idx])
				if err == nil {
					macro.Primitives = append(macro.Primitives, MacroPrimitive{
						Code:      MacroVariableDefCode,
						VarNumber: n,
						Exprs:     []string{strings.TrimSpace(stmt[idx+1:])},
					})
					continue
				}
			}
		}

		fields := strings.Split(stmt, ",")
		codeNum, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			continue
		}
		exprs := make([]string, 0, len(fields)-1)
		for _, f := range fields[1:] {
			exprs = append(exprs, strings.TrimSpace(f))
		}
		macro.Primitives = append(macro.Primitives, MacroPrimitive{
			Code:  MacroPrimitiveCode(codeNum),
			Exprs: exprs,
		})
	}

	return Command{Kind: CmdMacroDefine, MacroDef: macro}
}

func parseLoadPolarity(s string) Command {
	switch s {
	case "LPD":
		return Command{Kind: CmdLoadPolarity, PolarityDark: true}
	case "LPC":
		return Command{Kind: CmdLoadPolarity, PolarityDark: false}
	default:
		return Command{Kind: CmdParseError, Text: s, Err: parseErrorf("unknown polarity directive %q", s)}
	}
}

var stepRepeatRe = regexp.MustCompile(`^SRX(\d+)Y(\d+)I([0-9.]+)J([0-9.]+)$`)

func parseStepRepeat(s string) Command {
	if s == "SR" {
		return Command{Kind: CmdStepRepeatClose}
	}
	m := stepRepeatRe.FindStringSubmatch(s)
	if m == nil {
		return Command{Kind: CmdParseError, Text: s, Err: parseErrorf("malformed step-repeat directive %q", s)}
	}
	rx, _ := strconv.Atoi(m[1])
	ry, _ := strconv.Atoi(m[2])
	sx, _ := strconv.ParseFloat(m[3], 64)
	sy, _ := strconv.ParseFloat(m[4], 64)
	return Command{Kind: CmdStepRepeatOpen, RepeatX: rx, RepeatY: ry, StepX: sx, StepY: sy}
}

// parseStandardCommand handles one '*'-terminated command word outside any
// '%...%' block: coordinate operations (D01/D02/D03), aperture selection,
// interpolation-mode and quadrant-mode G-codes, region start/end, and the
// end-of-file marker.
//
// A single word may combine a mode-setting G-code with a coordinate and
// D-code, e.g. "G01X100Y200D01" — common in files that don't put G01 on its
// own line. Such a word yields the mode-setting command(s) followed by the
// coordinate operation, in the order they'd have been applied had they been
// written as separate words.
func parseStandardCommand(word string) []Command {
	if strings.HasPrefix(word, "G04") {
		return []Command{{Kind: CmdComment, Text: strings.TrimPrefix(word, "G04")}}
	}
	if word == "M02" || word == "M00" {
		return []Command{{Kind: CmdEndOfFile}}
	}

	fields := fieldRe.FindAllStringSubmatch(word, -1)
	if len(fields) == 0 {
		return []Command{{Kind: CmdParseError, Text: word, Err: parseErrorf("unrecognized command %q", word)}}
	}

	var (
		rawX, rawY, rawI, rawJ string
		hasCoordX, hasCoordY   bool
		hasIJ                  bool
		dcode                  *int
		gcodes                 []int
	)

	for _, f := range fields {
		letter := strings.ToUpper(f[1])
		switch letter {
		case "X":
			rawX = f[2]
			hasCoordX = true
		case "Y":
			rawY = f[2]
			hasCoordY = true
		case "I":
			rawI = f[2]
			hasIJ = true
		case "J":
			rawJ = f[2]
			hasIJ = true
		case "D":
			v, _ := strconv.ParseFloat(f[2], 64)
			d := int(v)
			dcode = &d
		case "G":
			v, _ := strconv.ParseFloat(f[2], 64)
			gcodes = append(gcodes, int(v))
		}
	}

	var out []Command

	for _, g := range gcodes {
		switch g {
		case 1:
			out = append(out, Command{Kind: CmdSetInterpolationLinear})
		case 2:
			out = append(out, Command{Kind: CmdSetInterpolationCW})
		case 3:
			out = append(out, Command{Kind: CmdSetInterpolationCCW})
		case 74:
			out = append(out, Command{Kind: CmdSetQuadrantMode, Quadrant: SingleQuadrant})
		case 75:
			out = append(out, Command{Kind: CmdSetQuadrantMode, Quadrant: MultiQuadrant})
		case 36:
			out = append(out, Command{Kind: CmdRegionStart})
		case 37:
			out = append(out, Command{Kind: CmdRegionEnd})
		case 70:
			out = append(out, Command{Kind: CmdUnits, Units: Inches})
		case 71:
			out = append(out, Command{Kind: CmdUnits, Units: Millimeters})
		}
	}

	coord := coordFields{rawX, rawY, rawI, rawJ, hasCoordX, hasCoordY, hasIJ}

	if dcode != nil {
		switch {
		case *dcode == 1:
			return append(out, coordCommand(CmdDraw, coord))
		case *dcode == 2:
			return append(out, coordCommand(CmdMove, coord))
		case *dcode == 3:
			return append(out, coordCommand(CmdFlash, coord))
		case *dcode >= 10:
			return append(out, Command{Kind: CmdSelectAperture, ApertureNumber: *dcode})
		}
	}

	if hasCoordX || hasCoordY {
		return append(out, coordCommand(CmdDraw, coord))
	}

	if len(out) > 0 {
		return out
	}

	return []Command{{Kind: CmdParseError, Text: word, Err: parseErrorf("command %q has no recognized operation", word)}}
}

type coordFields struct {
	rawX, rawY, rawI, rawJ string
	hasX, hasY, hasIJ      bool
}

func coordCommand(kind CommandKind, c coordFields) Command {
	return Command{
		Kind: kind,
		RawX: c.rawX, RawY: c.rawY,
		RawI: c.rawI, RawJ: c.rawJ,
		HasX: c.hasX, HasY: c.hasY, HasIJ: c.hasIJ,
	}
}

type parseError struct{ msg string }

func (e *parseError) Error() string { return e.msg }

func parseErrorf(format string, args ...any) error {
	return &parseError{msg: fmt.Sprintf(format, args...)}
}
