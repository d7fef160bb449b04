package geometry

// ApplyStepRepeat duplicates a step-and-repeat block's geometry across a
// repeatX x repeatY grid, offsetting each copy by (ix*stepX, iy*stepY), and
// appends every copy to the builder. A zero or negative repeat count is
// warned about and treated as a no-op rather than a fatal error, since an
// %SR with RepeatX=0 is malformed but shouldn't abort the rest of the layer.
func ApplyStepRepeat(b *Builder, block LayerGeometry, repeatX, repeatY int, stepX, stepY float64) error {
	if repeatX <= 0 || repeatY <= 0 {
		b.Warn("step-and-repeat has a zero or negative repeat count; skipping block")
		return nil
	}

	vertexCount := uint32(len(block.Positions) / 2)

	for iy := 0; iy < repeatY; iy++ {
		for ix := 0; ix < repeatX; ix++ {
			offsetX := float32(float64(ix) * stepX)
			offsetY := float32(float64(iy) * stepY)

			base := b.VertexCount()
			indexBase := b.IndexCount()

			for i := 0; i+1 < len(block.Positions); i += 2 {
				b.PushVertex(float64(block.Positions[i]+offsetX), float64(block.Positions[i+1]+offsetY))
			}

			for _, idx := range block.Indices {
				if idx >= vertexCount {
					return NewError(ErrDegenerateGeometry, "step-and-repeat block index %d out of range for %d vertices", idx, vertexCount)
				}
				b.indices = append(b.indices, base+idx)
			}

			for _, r := range block.ClearRanges {
				b.RecordClearRange(indexBase+r.Start, indexBase+r.End)
			}
		}
	}

	return nil
}
