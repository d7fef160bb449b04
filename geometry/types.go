// Package geometry holds the mesh accumulator and tessellators shared by the
// Gerber interpreter and the Excellon drill parser.
package geometry

import "math"

// Point is a 2D point in board coordinate space.
type Point struct {
	X, Y float64
}

// BoundingBox is an axis-aligned bounding box.
type BoundingBox struct {
	MinX, MinY, MaxX, MaxY float64
}

// NewBoundingBox returns an empty box that expands with the first Update call.
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		MinX: math.Inf(1),
		MinY: math.Inf(1),
		MaxX: math.Inf(-1),
		MaxY: math.Inf(-1),
	}
}

// Update expands the box to include (x, y).
func (b *BoundingBox) Update(x, y float64) {
	b.MinX = math.Min(b.MinX, x)
	b.MinY = math.Min(b.MinY, y)
	b.MaxX = math.Max(b.MaxX, x)
	b.MaxY = math.Max(b.MaxY, y)
}

// Polarity is dark (additive) or clear (subtractive) exposure.
type Polarity int

const (
	Dark Polarity = iota
	Clear
)

// InterpolationMode is the active draw mode for D01 commands.
type InterpolationMode int

const (
	Linear InterpolationMode = iota
	ClockwiseArc
	CounterClockwiseArc
)

// ClearRange is a half-open index range [Start, End) of clear-polarity
// geometry in the triangle index buffer, used by the renderer to mask
// subtractive geometry against the background color.
type ClearRange struct {
	Start, End uint32
}

// LayerMeta is the metadata summary returned to a host alongside a mesh.
type LayerMeta struct {
	Bounds        BoundingBox
	VertexCount   uint32
	IndexCount    uint32
	CommandCount  uint32
	WarningCount  uint32
	Warnings      []string
}

// LayerGeometry is the output of the geometry pipeline for a single layer.
//
// Positions are interleaved [x0, y0, x1, y1, ...] as float32 for GPU upload.
// Indices form a triangle list referencing Positions.
type LayerGeometry struct {
	Positions    []float32
	Indices      []uint32
	Bounds       BoundingBox
	CommandCount uint32
	VertexCount  uint32
	Warnings     []string
	ClearRanges  []ClearRange
}

// Meta reduces a LayerGeometry to the summary a host typically wants without
// copying the vertex/index buffers.
func (g *LayerGeometry) Meta() LayerMeta {
	return LayerMeta{
		Bounds:       g.Bounds,
		VertexCount:  g.VertexCount,
		IndexCount:   uint32(len(g.Indices)),
		CommandCount: g.CommandCount,
		WarningCount: uint32(len(g.Warnings)),
		Warnings:     g.Warnings,
	}
}

// Builder accumulates vertices, indices, warnings and clear ranges for a
// single layer. It is the single mutable collaborator threaded through every
// tessellator (flash, stroke, arc, region, macro).
type Builder struct {
	positions   []float32
	indices     []uint32
	bounds      BoundingBox
	warnings    []string
	clearRanges []ClearRange
}

// NewBuilder returns an empty accumulator.
func NewBuilder() *Builder {
	return &Builder{bounds: NewBoundingBox()}
}

// PushVertex adds a vertex and returns its index.
func (b *Builder) PushVertex(x, y float64) uint32 {
	idx := uint32(len(b.positions) / 2)
	b.positions = append(b.positions, float32(x), float32(y))
	b.bounds.Update(x, y)
	return idx
}

// PushTriangle adds a triangle from three vertex indices.
func (b *Builder) PushTriangle(a, c, d uint32) {
	b.indices = append(b.indices, a, c, d)
}

// PushQuad adds a quad as two triangles (a, c1, c2) and (a, c2, d).
func (b *Builder) PushQuad(a, c1, c2, d uint32) {
	b.PushTriangle(a, c1, c2)
	b.PushTriangle(a, c2, d)
}

// PushNgon adds a regular n-gon centered at (cx, cy) with the given radius,
// fan-triangulated from its first vertex. segments should be >= 3.
func (b *Builder) PushNgon(cx, cy, radius float64, segments uint32) uint32 {
	first := b.PushVertex(cx+radius, cy)

	for i := uint32(1); i < segments; i++ {
		angle := 2.0 * math.Pi * float64(i) / float64(segments)
		b.PushVertex(cx+radius*math.Cos(angle), cy+radius*math.Sin(angle))
	}

	for i := uint32(1); i+1 < segments; i++ {
		b.PushTriangle(first, first+i, first+i+1)
	}

	return first
}

// Warn records a non-fatal warning message.
func (b *Builder) Warn(msg string) {
	b.warnings = append(b.warnings, msg)
}

// RecordClearRange records an index range as clear-polarity geometry. Used
// directly by the macro evaluator when a primitive has exposure off.
func (b *Builder) RecordClearRange(start, end uint32) {
	if end > start {
		b.clearRanges = append(b.clearRanges, ClearRange{Start: start, End: end})
	}
}

// IndexCount returns the current number of triangle indices.
func (b *Builder) IndexCount() uint32 { return uint32(len(b.indices)) }

// VertexCount returns the current number of vertices.
func (b *Builder) VertexCount() uint32 { return uint32(len(b.positions) / 2) }

// Warnings returns the warnings recorded so far.
func (b *Builder) Warnings() []string { return b.warnings }

// Build produces a LayerGeometry that shares the builder's buffers; the
// builder stays usable afterwards. CommandCount is left at 0; callers (the
// interpreter, ConvertExcellon) set it.
func (b *Builder) Build() LayerGeometry {
	return LayerGeometry{
		Positions:   b.positions,
		Indices:     b.indices,
		Bounds:      b.bounds,
		VertexCount: b.VertexCount(),
		Warnings:    b.warnings,
		ClearRanges: b.clearRanges,
	}
}
