package geometry

import (
	"math"
	"strconv"
	"strings"

	"github.com/SohaibAli9/gerberview/gerber"
)

const (
	macroCircleSegments = 32
	maxNestWarn         = 10
	maxNestError        = 20

	// machineEpsilon matches the original's f64::EPSILON comparisons for
	// "effectively zero" checks (division guards, dimension skips).
	machineEpsilon = 2.220446049250313e-16
)

// EvaluateMacro evaluates an aperture macro body at a flash position,
// appending the geometry of every primitive statement to the builder.
// Variable definitions ($n=expr) populate a running parameter table seeded
// from args (the macro's flash-time modifiers, $1, $2, ...) before the
// primitive that references them runs.
func EvaluateMacro(b *Builder, macro gerber.Macro, args []float64, position Point) error {
	vars := make(map[int]float64, len(args))
	for i, a := range args {
		vars[i+1] = a
	}

	for _, prim := range macro.Primitives {
		switch prim.Code {
		case gerber.MacroVariableDefCode:
			if len(prim.Exprs) != 1 {
				return NewError(ErrMacro, "variable definition $%d has %d expressions; expected 1", prim.VarNumber, len(prim.Exprs))
			}
			value, err := evalExpr(b, prim.Exprs[0], vars)
			if err != nil {
				return err
			}
			vars[prim.VarNumber] = value
		case gerber.MacroComment:
			// no geometry
		case gerber.MacroCircle:
			if err := evalCircle(b, prim.Exprs, vars, position); err != nil {
				return err
			}
		case gerber.MacroVectorLine:
			if err := evalVectorLine(b, prim.Exprs, vars, position); err != nil {
				return err
			}
		case gerber.MacroCenterLine:
			if err := evalCenterLine(b, prim.Exprs, vars, position); err != nil {
				return err
			}
		case gerber.MacroOutline:
			if err := evalOutline(b, prim.Exprs, vars, position); err != nil {
				return err
			}
		case gerber.MacroPolygon:
			if err := evalPolygon(b, prim.Exprs, vars, position); err != nil {
				return err
			}
		case gerber.MacroMoire, gerber.MacroThermal:
			return NewError(ErrUnsupportedFeature, "macro primitive code %d (moire/thermal) is not supported", prim.Code)
		default:
			return NewError(ErrMacro, "unknown macro primitive code %d", prim.Code)
		}
	}

	return nil
}

func resolveField(b *Builder, exprs []string, i int, vars map[int]float64) (float64, error) {
	if i < 0 || i >= len(exprs) {
		return 0, nil
	}
	return evalExpr(b, exprs[i], vars)
}

func resolveExposure(b *Builder, exprs []string, i int, vars map[int]float64) (bool, error) {
	v, err := resolveField(b, exprs, i, vars)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

func rotatePoint(x, y, angleDegrees float64) (float64, float64) {
	rad := angleDegrees * math.Pi / 180.0
	cos := math.Cos(rad)
	sin := math.Sin(rad)
	return x*cos - y*sin, x*sin + y*cos
}

func evalCircle(b *Builder, exprs []string, vars map[int]float64, origin Point) error {
	exposure, err := resolveExposure(b, exprs, 0, vars)
	if err != nil {
		return err
	}
	diameter, err := resolveField(b, exprs, 1, vars)
	if err != nil {
		return err
	}
	cx, err := resolveField(b, exprs, 2, vars)
	if err != nil {
		return err
	}
	cy, err := resolveField(b, exprs, 3, vars)
	if err != nil {
		return err
	}
	rotation, err := resolveField(b, exprs, 4, vars)
	if err != nil {
		return err
	}

	if diameter <= 0 {
		b.Warn("macro circle primitive has a non-positive diameter; skipping")
		return nil
	}

	rx, ry := rotatePoint(cx, cy, rotation)
	start := b.IndexCount()
	b.PushNgon(origin.X+rx, origin.Y+ry, diameter/2.0, macroCircleSegments)
	end := b.IndexCount()

	if !exposure {
		b.RecordClearRange(start, end)
	}
	return nil
}

func evalVectorLine(b *Builder, exprs []string, vars map[int]float64, origin Point) error {
	exposure, err := resolveExposure(b, exprs, 0, vars)
	if err != nil {
		return err
	}
	width, err := resolveField(b, exprs, 1, vars)
	if err != nil {
		return err
	}
	sx, err := resolveField(b, exprs, 2, vars)
	if err != nil {
		return err
	}
	sy, err := resolveField(b, exprs, 3, vars)
	if err != nil {
		return err
	}
	ex, err := resolveField(b, exprs, 4, vars)
	if err != nil {
		return err
	}
	ey, err := resolveField(b, exprs, 5, vars)
	if err != nil {
		return err
	}
	rotation, err := resolveField(b, exprs, 6, vars)
	if err != nil {
		return err
	}

	if width <= 0 {
		b.Warn("macro vector line primitive has a non-positive width; skipping")
		return nil
	}

	rsx, rsy := rotatePoint(sx, sy, rotation)
	rex, rey := rotatePoint(ex, ey, rotation)

	start := b.IndexCount()
	pushLineRect(b, Point{X: origin.X + rsx, Y: origin.Y + rsy}, Point{X: origin.X + rex, Y: origin.Y + rey}, width)
	end := b.IndexCount()

	if !exposure {
		b.RecordClearRange(start, end)
	}
	return nil
}

func evalCenterLine(b *Builder, exprs []string, vars map[int]float64, origin Point) error {
	exposure, err := resolveExposure(b, exprs, 0, vars)
	if err != nil {
		return err
	}
	width, err := resolveField(b, exprs, 1, vars)
	if err != nil {
		return err
	}
	height, err := resolveField(b, exprs, 2, vars)
	if err != nil {
		return err
	}
	cx, err := resolveField(b, exprs, 3, vars)
	if err != nil {
		return err
	}
	cy, err := resolveField(b, exprs, 4, vars)
	if err != nil {
		return err
	}
	rotation, err := resolveField(b, exprs, 5, vars)
	if err != nil {
		return err
	}

	if width <= 0 || height <= 0 {
		b.Warn("macro center line primitive has a non-positive width or height; skipping")
		return nil
	}

	rcx, rcy := rotatePoint(cx, cy, rotation)

	start := b.IndexCount()
	pushCenteredRect(b, Point{X: origin.X + rcx, Y: origin.Y + rcy}, width, height, rotation)
	end := b.IndexCount()

	if !exposure {
		b.RecordClearRange(start, end)
	}
	return nil
}

func evalOutline(b *Builder, exprs []string, vars map[int]float64, origin Point) error {
	exposure, err := resolveExposure(b, exprs, 0, vars)
	if err != nil {
		return err
	}
	numVerticesF, err := resolveField(b, exprs, 1, vars)
	if err != nil {
		return err
	}
	numVertices := int(numVerticesF)
	if numVertices < 2 {
		return NewError(ErrMacro, "outline primitive has %d vertices; expected at least 2", numVertices)
	}

	rotation, err := resolveField(b, exprs, len(exprs)-1, vars)
	if err != nil {
		return err
	}

	points := make([]Point, 0, numVertices+1)
	for i := 0; i <= numVertices; i++ {
		xi := 2 + i*2
		yi := 3 + i*2
		x, err := resolveField(b, exprs, xi, vars)
		if err != nil {
			return err
		}
		y, err := resolveField(b, exprs, yi, vars)
		if err != nil {
			return err
		}
		rx, ry := rotatePoint(x, y, rotation)
		points = append(points, Point{X: origin.X + rx, Y: origin.Y + ry})
	}

	start := b.IndexCount()
	if err := FillRegion(b, points); err != nil {
		return err
	}
	end := b.IndexCount()

	if !exposure {
		b.RecordClearRange(start, end)
	}
	return nil
}

func evalPolygon(b *Builder, exprs []string, vars map[int]float64, origin Point) error {
	exposure, err := resolveExposure(b, exprs, 0, vars)
	if err != nil {
		return err
	}
	numVerticesF, err := resolveField(b, exprs, 1, vars)
	if err != nil {
		return err
	}
	numVertices := int(numVerticesF)
	if numVertices < 3 {
		return NewError(ErrMacro, "polygon primitive has %d vertices; expected at least 3", numVertices)
	}

	cx, err := resolveField(b, exprs, 2, vars)
	if err != nil {
		return err
	}
	cy, err := resolveField(b, exprs, 3, vars)
	if err != nil {
		return err
	}
	diameter, err := resolveField(b, exprs, 4, vars)
	if err != nil {
		return err
	}
	rotation, err := resolveField(b, exprs, 5, vars)
	if err != nil {
		return err
	}

	if diameter <= 0 {
		b.Warn("macro polygon primitive has a non-positive diameter; skipping")
		return nil
	}

	rcx, rcy := rotatePoint(cx, cy, rotation)

	start := b.IndexCount()
	radius := diameter / 2.0
	sides := uint32(numVertices)
	var first uint32
	for i := uint32(0); i < sides; i++ {
		angle := rotation*math.Pi/180.0 + 2*math.Pi*float64(i)/float64(sides)
		x := origin.X + rcx + radius*math.Cos(angle)
		y := origin.Y + rcy + radius*math.Sin(angle)
		idx := b.PushVertex(x, y)
		if i == 0 {
			first = idx
		}
	}
	for i := uint32(1); i+1 < sides; i++ {
		b.PushTriangle(first, first+i, first+i+1)
	}
	end := b.IndexCount()

	if !exposure {
		b.RecordClearRange(start, end)
	}
	return nil
}

func pushLineRect(b *Builder, from, to Point, width float64) {
	dx := to.X - from.X
	dy := to.Y - from.Y
	length := math.Hypot(dx, dy)
	if length <= machineEpsilon {
		return
	}
	nx := -dy / length
	ny := dx / length
	half := width / 2.0

	a := b.PushVertex(from.X+nx*half, from.Y+ny*half)
	c := b.PushVertex(to.X+nx*half, to.Y+ny*half)
	d := b.PushVertex(to.X-nx*half, to.Y-ny*half)
	e := b.PushVertex(from.X-nx*half, from.Y-ny*half)
	b.PushQuad(a, c, d, e)
}

func pushCenteredRect(b *Builder, center Point, width, height, rotationDegrees float64) {
	halfW := width / 2.0
	halfH := height / 2.0

	corners := [4][2]float64{
		{-halfW, -halfH},
		{halfW, -halfH},
		{halfW, halfH},
		{-halfW, halfH},
	}

	var idx [4]uint32
	for i, c := range corners {
		rx, ry := rotatePoint(c[0], c[1], rotationDegrees)
		idx[i] = b.PushVertex(center.X+rx, center.Y+ry)
	}
	b.PushQuad(idx[0], idx[1], idx[2], idx[3])
}

// --- expression language ---
//
// Macro modifier fields may be arithmetic expressions referencing earlier
// $n variables: digits, a leading +/-, the operators + - / and x/X
// (multiplication), and parenthesized groups. Division by zero evaluates to
// 0 with a warning rather than failing the whole macro.

type macroToken struct {
	kind  macroTokenKind
	num   float64
	op    byte
	varNo int
}

type macroTokenKind int

const (
	tokNumber macroTokenKind = iota
	tokVariable
	tokOp
	tokLParen
	tokRParen
)

func tokenizeExpr(expr string) []macroToken {
	var tokens []macroToken
	runes := []rune(strings.TrimSpace(expr))
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case r == ' ' || r == '\t':
			i++
		case r == '(':
			tokens = append(tokens, macroToken{kind: tokLParen})
			i++
		case r == ')':
			tokens = append(tokens, macroToken{kind: tokRParen})
			i++
		case r == '+' || r == '-' || r == '/' || r == '*' || r == 'x' || r == 'X':
			op := byte(r)
			if op == 'x' || op == 'X' {
				op = '*'
			}
			tokens = append(tokens, macroToken{kind: tokOp, op: op})
			i++
		case r == '$':
			j := i + 1
			for j < len(runes) && runes[j] >= '0' && runes[j] <= '9' {
				j++
			}
			n, _ := strconv.Atoi(string(runes[i+1 : j]))
			tokens = append(tokens, macroToken{kind: tokVariable, varNo: n})
			i = j
		default:
			j := i
			for j < len(runes) && (runes[j] == '.' || (runes[j] >= '0' && runes[j] <= '9')) {
				j++
			}
			if j == i {
				i++
				continue
			}
			v, _ := strconv.ParseFloat(string(runes[i:j]), 64)
			tokens = append(tokens, macroToken{kind: tokNumber, num: v})
			i = j
		}
	}
	return tokens
}

type exprParser struct {
	b      *Builder
	tokens []macroToken
	pos    int
	vars   map[int]float64
	depth  int
}

func evalExpr(b *Builder, expr string, vars map[int]float64) (float64, error) {
	p := &exprParser{b: b, tokens: tokenizeExpr(expr), vars: vars}
	return p.parseAdditive()
}

func (p *exprParser) peek() (macroToken, bool) {
	if p.pos >= len(p.tokens) {
		return macroToken{}, false
	}
	return p.tokens[p.pos], true
}

func (p *exprParser) parseAdditive() (float64, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return 0, err
	}
	for {
		tok, ok := p.peek()
		if !ok || tok.kind != tokOp || (tok.op != '+' && tok.op != '-') {
			return left, nil
		}
		p.pos++
		right, err := p.parseMultiplicative()
		if err != nil {
			return 0, err
		}
		if tok.op == '+' {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *exprParser) parseMultiplicative() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		tok, ok := p.peek()
		if !ok || tok.kind != tokOp || (tok.op != '*' && tok.op != '/') {
			return left, nil
		}
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if tok.op == '*' {
			left *= right
		} else {
			if math.Abs(right) < machineEpsilon {
				p.b.Warn("macro expression divides by zero; evaluating to 0")
				left = 0
			} else {
				left /= right
			}
		}
	}
}

func (p *exprParser) parseUnary() (float64, error) {
	tok, ok := p.peek()
	if ok && tok.kind == tokOp && (tok.op == '+' || tok.op == '-') {
		p.pos++
		v, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if tok.op == '-' {
			return -v, nil
		}
		return v, nil
	}
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() (float64, error) {
	tok, ok := p.peek()
	if !ok {
		return 0, NewError(ErrMacro, "unexpected end of expression")
	}

	switch tok.kind {
	case tokNumber:
		p.pos++
		return tok.num, nil
	case tokVariable:
		p.pos++
		v, ok := p.vars[tok.varNo]
		if !ok {
			return 0, NewError(ErrMacro, "undefined variable $%d", tok.varNo)
		}
		return v, nil
	case tokLParen:
		p.pos++
		p.depth++
		if p.depth > maxNestError {
			p.b.Warn("macro expression nesting is excessively deep")
		} else if p.depth > maxNestWarn {
			p.b.Warn("macro expression nesting is unusually deep")
		}
		v, err := p.parseAdditive()
		if err != nil {
			return 0, err
		}
		p.depth--
		closing, ok := p.peek()
		if !ok || closing.kind != tokRParen {
			return 0, NewError(ErrMacro, "unmatched parenthesis in macro expression")
		}
		p.pos++
		return v, nil
	default:
		return 0, NewError(ErrMacro, "unexpected token in macro expression")
	}
}
