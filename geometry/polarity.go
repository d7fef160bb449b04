package geometry

// PolarityTracker tracks dark/clear polarity across a layer and records the
// index ranges produced while clear polarity was active, so the renderer can
// mask them against the background color.
type PolarityTracker struct {
	polarity   Polarity
	clearStart *uint32
	ranges     []ClearRange
}

// NewPolarityTracker returns a tracker starting in dark polarity.
func NewPolarityTracker() *PolarityTracker {
	return &PolarityTracker{polarity: Dark}
}

// Current returns the current polarity.
func (t *PolarityTracker) Current() Polarity { return t.polarity }

// SetPolarity updates polarity. Switching to Clear records the current index
// count as a range start; switching back to Dark closes it.
func (t *PolarityTracker) SetPolarity(p Polarity, b *Builder) {
	if p == t.polarity {
		return
	}

	idx := b.IndexCount()

	if p == Clear {
		start := idx
		t.clearStart = &start
	} else if t.clearStart != nil {
		start := *t.clearStart
		t.clearStart = nil
		if idx > start {
			t.ranges = append(t.ranges, ClearRange{Start: start, End: idx})
		}
	}

	t.polarity = p
}

// Finish closes any open clear range and returns all ranges recorded.
func (t *PolarityTracker) Finish(b *Builder) []ClearRange {
	if t.polarity == Clear && t.clearStart != nil {
		start := *t.clearStart
		t.clearStart = nil
		idx := b.IndexCount()
		if idx > start {
			t.ranges = append(t.ranges, ClearRange{Start: start, End: idx})
		}
	}
	return t.ranges
}

// ApplyClearRanges merges tracker-recorded ranges into a built LayerGeometry,
// in addition to any ranges the macro evaluator already recorded on the
// builder directly.
func ApplyClearRanges(geom *LayerGeometry, ranges []ClearRange) {
	geom.ClearRanges = append(geom.ClearRanges, ranges...)
}
