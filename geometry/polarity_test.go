package geometry

import "testing"

func TestPolarityTrackerRecordsClearRangeOnRoundTrip(t *testing.T) {
	b := NewBuilder()
	b.PushTriangle(0, 1, 2) // 3 dark indices before the switch

	tracker := NewPolarityTracker()
	tracker.SetPolarity(Clear, b)
	b.PushTriangle(0, 1, 2) // 3 clear indices

	tracker.SetPolarity(Dark, b)
	ranges := tracker.Finish(b)

	if len(ranges) != 1 || ranges[0] != (ClearRange{Start: 3, End: 6}) {
		t.Fatalf("got ranges %+v; want [{3 6}]", ranges)
	}
}

func TestPolarityTrackerNoOpOnUnchangedPolarity(t *testing.T) {
	b := NewBuilder()
	tracker := NewPolarityTracker()
	tracker.SetPolarity(Dark, b)
	if ranges := tracker.Finish(b); len(ranges) != 0 {
		t.Fatalf("expected no ranges when polarity never changes, got %+v", ranges)
	}
}

func TestPolarityTrackerFinishClosesOpenRange(t *testing.T) {
	b := NewBuilder()
	tracker := NewPolarityTracker()
	tracker.SetPolarity(Clear, b)
	b.PushTriangle(0, 1, 2)

	ranges := tracker.Finish(b)
	if len(ranges) != 1 || ranges[0] != (ClearRange{Start: 0, End: 3}) {
		t.Fatalf("got ranges %+v; want [{0 3}]", ranges)
	}
}

func TestApplyClearRangesMergesIntoGeometry(t *testing.T) {
	geom := &LayerGeometry{ClearRanges: []ClearRange{{Start: 0, End: 3}}}
	ApplyClearRanges(geom, []ClearRange{{Start: 6, End: 9}})

	if len(geom.ClearRanges) != 2 {
		t.Fatalf("got %d ranges; want 2", len(geom.ClearRanges))
	}
}
