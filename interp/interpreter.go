// Package interp walks a decoded Gerber command stream and drives the
// geometry tessellators in package geometry, maintaining the RS-274X draw
// state (current point, aperture, interpolation/quadrant mode, polarity,
// region boundary, units, coordinate format) and the step-and-repeat stack.
package interp

import (
	"github.com/SohaibAli9/gerberview/geometry"
	"github.com/SohaibAli9/gerberview/gerber"
)

// drawState is the RS-274X machine state threaded through command dispatch.
type drawState struct {
	point        geometry.Point
	aperture     *int
	mode         geometry.InterpolationMode
	quadrant     gerber.QuadrantMode
	regionMode   bool
	regionPoints []geometry.Point
	units        gerber.Unit
	format       gerber.CoordinateFormat
	omission     gerber.ZeroOmission
}

func newDrawState() drawState {
	return drawState{
		mode:     geometry.Linear,
		quadrant: gerber.MultiQuadrant,
		units:    gerber.UnitUnset,
		format:   gerber.CoordinateFormat{IntegerX: gerber.DefaultIntegerDigits, DecimalX: gerber.DefaultDecimalDigits, IntegerY: gerber.DefaultIntegerDigits, DecimalY: gerber.DefaultDecimalDigits},
		omission: gerber.LeadingZeroOmission,
	}
}

// buildCtx is one target for emitted geometry: either the root layer or an
// open step-and-repeat frame. Each has its own polarity tracker because
// clear-range index offsets are local to the builder they were recorded
// against.
type buildCtx struct {
	builder  *geometry.Builder
	polarity *geometry.PolarityTracker
}

func newBuildCtx() *buildCtx {
	return &buildCtx{builder: geometry.NewBuilder(), polarity: geometry.NewPolarityTracker()}
}

type srFrame struct {
	ctx      *buildCtx
	repeatX  int
	repeatY  int
	stepX    float64
	stepY    float64
}

// Interpreter dispatches a decoded command stream to the geometry
// tessellators, accumulating one LayerGeometry per conversion call.
type Interpreter struct {
	root         *buildCtx
	srStack      []*srFrame
	apertures    map[int]gerber.Aperture
	macros       map[string]gerber.Macro
	state        drawState
	commandCount uint32
}

// NewInterpreter returns an interpreter ready to Run a command stream.
func NewInterpreter() *Interpreter {
	return &Interpreter{
		root:      newBuildCtx(),
		apertures: make(map[int]gerber.Aperture),
		macros:    make(map[string]gerber.Macro),
		state:     newDrawState(),
	}
}

func (ip *Interpreter) current() *buildCtx {
	if len(ip.srStack) > 0 {
		return ip.srStack[len(ip.srStack)-1].ctx
	}
	return ip.root
}

// Run walks commands to completion and returns the resulting layer geometry.
// Fatal tessellator errors propagate immediately; everything else becomes a
// warning recorded on the active accumulator.
func (ip *Interpreter) Run(commands []gerber.Command) (*geometry.LayerGeometry, error) {
	for _, cmd := range commands {
		ip.commandCount++
		if err := ip.dispatch(cmd); err != nil {
			return nil, err
		}
	}

	for len(ip.srStack) > 0 {
		ip.current().builder.Warn("step-and-repeat block left open at end of stream; closing implicitly")
		if err := ip.closeStepRepeat(); err != nil {
			return nil, err
		}
	}

	ranges := ip.root.polarity.Finish(ip.root.builder)
	geom := ip.root.builder.Build()
	geometry.ApplyClearRanges(&geom, ranges)
	geom.CommandCount = ip.commandCount

	return &geom, nil
}

func (ip *Interpreter) dispatch(cmd gerber.Command) error {
	switch cmd.Kind {
	case gerber.CmdParseError:
		ip.current().builder.Warn("parse error: " + cmd.Err.Error())
		return nil
	case gerber.CmdComment:
		return nil
	case gerber.CmdEndOfFile:
		return nil

	case gerber.CmdFormatSpec:
		ip.state.format = cmd.Format
		ip.state.omission = cmd.ZeroOmission
		return nil
	case gerber.CmdUnits:
		ip.state.units = cmd.Units
		return nil

	case gerber.CmdApertureDefine:
		ip.apertures[cmd.ApertureNumberDef] = cmd.Aperture
		return nil
	case gerber.CmdMacroDefine:
		ip.macros[cmd.MacroDef.Name] = cmd.MacroDef
		return nil
	case gerber.CmdSelectAperture:
		n := cmd.ApertureNumber
		ip.state.aperture = &n
		return nil

	case gerber.CmdSetInterpolationLinear:
		ip.state.mode = geometry.Linear
		return nil
	case gerber.CmdSetInterpolationCW:
		ip.state.mode = geometry.ClockwiseArc
		return nil
	case gerber.CmdSetInterpolationCCW:
		ip.state.mode = geometry.CounterClockwiseArc
		return nil
	case gerber.CmdSetQuadrantMode:
		ip.state.quadrant = cmd.Quadrant
		return nil

	case gerber.CmdRegionStart:
		ip.state.regionMode = true
		ip.state.regionPoints = []geometry.Point{ip.state.point}
		return nil
	case gerber.CmdRegionEnd:
		ip.state.regionMode = false
		err := geometry.FillRegion(ip.current().builder, ip.state.regionPoints)
		ip.state.regionPoints = nil
		return err

	case gerber.CmdLoadPolarity:
		p := geometry.Dark
		if !cmd.PolarityDark {
			p = geometry.Clear
		}
		ctx := ip.current()
		ctx.polarity.SetPolarity(p, ctx.builder)
		return nil

	case gerber.CmdStepRepeatOpen:
		ip.srStack = append(ip.srStack, &srFrame{
			ctx:     newBuildCtx(),
			repeatX: cmd.RepeatX, repeatY: cmd.RepeatY,
			stepX: cmd.StepX, stepY: cmd.StepY,
		})
		return nil
	case gerber.CmdStepRepeatClose:
		if len(ip.srStack) == 0 {
			ip.current().builder.Warn("step-and-repeat close with no matching open")
			return nil
		}
		return ip.closeStepRepeat()

	case gerber.CmdMove:
		ip.state.point = ip.resolvePoint(cmd)
		return nil
	case gerber.CmdDraw:
		return ip.dispatchDraw(cmd)
	case gerber.CmdFlash:
		return ip.dispatchFlash(cmd)
	}

	return nil
}

func (ip *Interpreter) closeStepRepeat() error {
	n := len(ip.srStack)
	frame := ip.srStack[n-1]
	ip.srStack = ip.srStack[:n-1]

	ranges := frame.ctx.polarity.Finish(frame.ctx.builder)
	block := frame.ctx.builder.Build()
	geometry.ApplyClearRanges(&block, ranges)

	parent := ip.current().builder
	for _, w := range block.Warnings {
		parent.Warn(w)
	}
	return geometry.ApplyStepRepeat(parent, block, frame.repeatX, frame.repeatY, frame.stepX, frame.stepY)
}

func (ip *Interpreter) resolvePoint(cmd gerber.Command) geometry.Point {
	x := ip.state.point.X
	y := ip.state.point.Y
	if cmd.HasX {
		x = ip.decodeAxis(cmd.RawX)
	}
	if cmd.HasY {
		y = ip.decodeAxis(cmd.RawY)
	}
	return geometry.Point{X: x, Y: y}
}

func (ip *Interpreter) decodeAxis(raw string) float64 {
	v := gerber.DecodeCoordinate(raw, ip.state.format, ip.state.omission)
	if ip.state.units == gerber.Inches {
		v *= 25.4
	}
	return v
}

func (ip *Interpreter) dispatchDraw(cmd gerber.Command) error {
	target := ip.resolvePoint(cmd)

	if ip.state.regionMode {
		from := ip.state.point

		if ip.state.mode == geometry.Linear {
			ip.state.regionPoints = append(ip.state.regionPoints, target)
			ip.state.point = target
			return nil
		}

		offset := geometry.Point{}
		if cmd.HasIJ {
			offset = geometry.Point{X: ip.decodeAxis(cmd.RawI), Y: ip.decodeAxis(cmd.RawJ)}
		}
		arcPoints, err := geometry.TessellateRegionArc(ip.current().builder, from, target, offset, ip.state.mode, ip.state.quadrant)
		if err != nil {
			return err
		}
		if len(arcPoints) > 1 {
			ip.state.regionPoints = append(ip.state.regionPoints, arcPoints[1:]...)
		} else {
			ip.state.regionPoints = append(ip.state.regionPoints, target)
		}
		ip.state.point = target
		return nil
	}

	ap, ok := ip.selectedAperture()
	if !ok {
		ip.state.point = target
		return nil
	}

	from := ip.state.point
	ip.state.point = target

	ctx := ip.current()

	if ip.state.mode == geometry.Linear {
		return geometry.DrawLinear(ctx.builder, from, target, ap)
	}

	offset := geometry.Point{}
	if cmd.HasIJ {
		offset = geometry.Point{X: ip.decodeAxis(cmd.RawI), Y: ip.decodeAxis(cmd.RawJ)}
	}
	return geometry.DrawArc(ctx.builder, from, target, offset, ip.state.mode, ip.state.quadrant, ap)
}

func (ip *Interpreter) dispatchFlash(cmd gerber.Command) error {
	target := ip.resolvePoint(cmd)
	ip.state.point = target

	ap, ok := ip.selectedAperture()
	if !ok {
		return nil
	}

	ctx := ip.current()

	if ap.Kind != gerber.ApertureMacro {
		return geometry.FlashAperture(ctx.builder, ap, target)
	}

	macro, found := ip.macros[ap.MacroName]
	if !found {
		ctx.builder.Warn("aperture macro " + ap.MacroName + " is undefined; skipping flash")
		return nil
	}
	return geometry.EvaluateMacro(ctx.builder, macro, ap.MacroArgs, target)
}

// selectedAperture resolves the current aperture, warning and returning
// false when none is selected or the selection references an undefined
// D-code — both non-fatal per spec.
func (ip *Interpreter) selectedAperture() (gerber.Aperture, bool) {
	ctx := ip.current()

	if ip.state.aperture == nil {
		ctx.builder.Warn("no aperture selected; skipping operation")
		return gerber.Aperture{}, false
	}

	ap, found := ip.apertures[*ip.state.aperture]
	if !found {
		ctx.builder.Warn("aperture is undefined; skipping operation")
		return gerber.Aperture{}, false
	}

	return ap, true
}
