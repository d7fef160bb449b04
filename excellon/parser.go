package excellon

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/SohaibAli9/gerberview/geometry"
)

const (
	defaultIntegerDigits = 2
	defaultDecimalDigits = 4
)

var (
	toolDefRe    = regexp.MustCompile(`^T(\d+)C([0-9.]+)$`)
	toolSelRe    = regexp.MustCompile(`^T(\d+)$`)
	unitsRe      = regexp.MustCompile(`^(METRIC|INCH)(?:,(LZ|TZ))?`)
	xyFieldRe    = regexp.MustCompile(`([XY])(-?[0-9]*\.?[0-9]+)`)
	routingRe    = regexp.MustCompile(`^(G00|G01|G02|G03|G85)`)
)

type parserState struct {
	units         Units
	integerDigits int
	decimalDigits int
	suppression   ZeroSuppression
	tools         map[int]Tool
	currentTool   *int
	holes         []Hole
	warnings      []string
	declared      bool
	inHeader      bool
}

func newParserState() *parserState {
	return &parserState{
		units:         Imperial,
		integerDigits: defaultIntegerDigits,
		decimalDigits: defaultDecimalDigits,
		suppression:   LeadingZeroSuppression,
		tools:         make(map[int]Tool),
	}
}

// Parse reads an Excellon drill file and returns its tool table and holes.
// An empty or non-UTF-8 buffer is a fatal ParseError; everything else the
// file gets wrong (zero-diameter tools, undefined tool selections, holes
// drilled before any tool is selected, mixed unit declarations) is recorded
// as a warning and the parse continues.
func Parse(data []byte) (*Result, error) {
	if len(data) == 0 {
		return nil, geometry.NewError(geometry.ErrParse, "empty input")
	}
	if !utf8.Valid(data) {
		return nil, geometry.NewError(geometry.ErrParse, "input is not valid UTF-8")
	}

	st := newParserState()
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")

lines:
	for _, raw := range lines {
		line := strings.ToUpper(strings.TrimSpace(raw))
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}

		switch {
		case line == "M48":
			st.inHeader = true
		case line == "%":
			st.inHeader = false
		case line == "M30":
			break lines
		case st.inHeader:
			parseHeaderLine(st, line)
		default:
			parseBodyLine(st, line)
		}
	}

	return &Result{
		Holes:    st.holes,
		Tools:    toolSlice(st.tools),
		Units:    st.units,
		Warnings: st.warnings,
	}, nil
}

func toolSlice(tools map[int]Tool) []Tool {
	out := make([]Tool, 0, len(tools))
	for _, t := range tools {
		out = append(out, t)
	}
	return out
}

func warn(st *parserState, msg string) {
	st.warnings = append(st.warnings, msg)
}

func parseHeaderLine(st *parserState, line string) {
	if unitsRe.MatchString(line) {
		applyUnitsDirective(st, line)
		return
	}
	if m := toolDefRe.FindStringSubmatch(line); m != nil {
		registerTool(st, m)
		return
	}
}

func parseBodyLine(st *parserState, line string) {
	if unitsRe.MatchString(line) {
		applyUnitsDirective(st, line)
		return
	}

	if stripped := routingRe.ReplaceAllString(line, ""); stripped != line {
		return
	}

	if m := toolDefRe.FindStringSubmatch(line); m != nil {
		registerTool(st, m)
		return
	}

	if m := toolSelRe.FindStringSubmatch(line); m != nil {
		n, _ := strconv.Atoi(m[1])
		if _, found := st.tools[n]; !found {
			warn(st, "tool T"+m[1]+" selected but not defined")
			st.currentTool = nil
			return
		}
		st.currentTool = &n
		return
	}

	if xyFieldRe.MatchString(line) {
		parseXYCoordinates(st, line)
	}
}

func applyUnitsDirective(st *parserState, line string) {
	m := unitsRe.FindStringSubmatch(line)
	if m == nil {
		return
	}

	units := Imperial
	if m[1] == "METRIC" {
		units = Metric
	}

	if st.declared && units != st.units {
		warn(st, "mixed unit declarations detected; last declaration wins")
	}
	st.declared = true
	st.units = units

	switch m[2] {
	case "LZ":
		st.suppression = LeadingZeroSuppression
	case "TZ":
		st.suppression = TrailingZeroSuppression
	}
}

func registerTool(st *parserState, m []string) {
	number, _ := strconv.Atoi(m[1])
	diameter, err := strconv.ParseFloat(m[2], 64)
	if err != nil || diameter <= 0 {
		warn(st, "tool T"+m[1]+" has a zero or negative diameter; skipping definition")
		return
	}

	if _, exists := st.tools[number]; exists {
		warn(st, "duplicate definition of tool T"+m[1]+"; last definition wins")
	}

	st.tools[number] = Tool{Number: number, Diameter: diameter}
}

func parseXYCoordinates(st *parserState, line string) {
	fields := xyFieldRe.FindAllStringSubmatch(line, -1)

	var x, y float64
	for _, f := range fields {
		v := parseCoordinate(f[2], st.integerDigits, st.decimalDigits, st.suppression)
		switch f[1] {
		case "X":
			x = v
		case "Y":
			y = v
		}
	}

	if st.currentTool == nil {
		warn(st, "coordinate with no tool selected; skipping hole")
		return
	}

	tool, found := st.tools[*st.currentTool]
	if !found {
		warn(st, "selected tool is undefined; skipping hole")
		return
	}

	st.holes = append(st.holes, Hole{X: x, Y: y, Diameter: tool.Diameter})
}

// parseCoordinate decodes one Excellon coordinate field. A field with an
// explicit decimal point is parsed directly. Otherwise, if its digit count
// is at most integerDigits, it's treated as a literal integer value — this
// is the shortcut modern generators use to write plain small integers under
// trailing-zero suppression. Longer digit strings are padded out to
// integerDigits+decimalDigits (on the side zeros were omitted from) and the
// decimal point is inserted decimalDigits from the right.
func parseCoordinate(raw string, integerDigits, decimalDigits int, suppression ZeroSuppression) float64 {
	if strings.Contains(raw, ".") {
		v, _ := strconv.ParseFloat(raw, 64)
		return v
	}

	sign := 1.0
	digits := raw
	if strings.HasPrefix(digits, "-") {
		sign = -1.0
		digits = digits[1:]
	} else if strings.HasPrefix(digits, "+") {
		digits = digits[1:]
	}

	if !isAllDigits(digits) {
		v, _ := strconv.ParseFloat(raw, 64)
		return v
	}

	if len(digits) <= integerDigits {
		v, _ := strconv.ParseFloat(digits, 64)
		return sign * v
	}

	total := integerDigits + decimalDigits
	if len(digits) < total {
		if suppression == TrailingZeroSuppression {
			digits = digits + strings.Repeat("0", total-len(digits))
		} else {
			digits = strings.Repeat("0", total-len(digits)) + digits
		}
	}

	pointPos := len(digits) - decimalDigits
	withPoint := digits[:pointPos] + "." + digits[pointPos:]

	v, err := strconv.ParseFloat(withPoint, 64)
	if err != nil {
		return 0
	}
	return sign * v
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
