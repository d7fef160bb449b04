// Package gerberview converts Gerber RS-274X image files and Excellon NC
// drill files into GPU-ready triangle meshes for a PCB 2D viewer.
//
// The package is organized the way the pipeline runs: gerber holds the
// RS-274X lexer and command model, excellon holds the drill-file parser,
// geometry holds the mesh accumulator and every tessellator (flash, stroke,
// arc, region, macro, step-and-repeat), and interp holds the Gerber
// interpreter that drives geometry from a decoded command stream. This file
// is the host-facing surface: ConvertGerber/ConvertExcellon plus the
// accessor functions a binding layer calls against the last produced mesh.
package gerberview

import (
	"github.com/SohaibAli9/gerberview/excellon"
	"github.com/SohaibAli9/gerberview/geometry"
	"github.com/SohaibAli9/gerberview/gerber"
	"github.com/SohaibAli9/gerberview/interp"
)

// Meta is the summary a host typically wants without copying the vertex and
// index buffers themselves.
type Meta = geometry.LayerMeta

// lastMesh is the single-slot cache described in spec §6: a host binding
// layer may retrieve the most recently produced mesh in a second call
// without re-threading the buffers through the conversion call itself. The
// core is single-threaded and synchronous (§5), so this package-level slot
// is not guarded by a mutex.
var lastMesh *geometry.LayerGeometry

// ConvertGerber lexes and interprets an RS-274X image file, producing a
// triangle mesh and caching it as the last-produced mesh.
func ConvertGerber(data []byte) (Meta, error) {
	commands := gerber.Parse(data)

	ip := interp.NewInterpreter()
	geom, err := ip.Run(commands)
	if err != nil {
		return Meta{}, err
	}

	lastMesh = geom
	return geom.Meta(), nil
}

// ConvertExcellon parses an Excellon NC drill file and flashes each hole as
// a circle, producing a triangle mesh in millimetres (imperial files are
// scaled by 25.4) and caching it as the last-produced mesh.
func ConvertExcellon(data []byte) (Meta, error) {
	result, err := excellon.Parse(data)
	if err != nil {
		return Meta{}, err
	}

	scale := 1.0
	if result.Units == excellon.Imperial {
		scale = 25.4
	}

	b := geometry.NewBuilder()
	for _, h := range result.Holes {
		b.PushNgon(h.X*scale, h.Y*scale, h.Diameter*scale/2.0, 32)
	}
	for _, w := range result.Warnings {
		b.Warn(w)
	}

	geom := b.Build()
	geom.CommandCount = uint32(len(result.Holes))
	lastMesh = &geom

	return geom.Meta(), nil
}

// GetPositions returns the interleaved [x0,y0,x1,y1,...] vertex buffer of
// the last produced mesh, or nil if no conversion has run yet.
func GetPositions() []float32 {
	if lastMesh == nil {
		return nil
	}
	return lastMesh.Positions
}

// GetIndices returns the triangle index buffer of the last produced mesh,
// or nil if no conversion has run yet.
func GetIndices() []uint32 {
	if lastMesh == nil {
		return nil
	}
	return lastMesh.Indices
}

// GetClearRanges returns the last produced mesh's clear-polarity index
// ranges flattened as [start0,end0,start1,end1,...], the form a host
// binding layer typically wants to pass across an FFI boundary.
func GetClearRanges() []uint32 {
	if lastMesh == nil {
		return nil
	}
	flat := make([]uint32, 0, len(lastMesh.ClearRanges)*2)
	for _, r := range lastMesh.ClearRanges {
		flat = append(flat, r.Start, r.End)
	}
	return flat
}
