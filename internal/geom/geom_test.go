package geom

import (
	"math"
	"testing"
)

func TestDistance2D(t *testing.T) {
	d := Distance2D(Coordinate{X: 0, Y: 0}, Coordinate{X: 3, Y: 4})
	if math.Abs(d-5) > 1e-9 {
		t.Fatalf("expected 5, got %v", d)
	}
}

func TestDistance3DIncludesZ(t *testing.T) {
	d := Distance3D(Coordinate{X: 0, Y: 0, Z: 0}, Coordinate{X: 3, Y: 4, Z: 12})
	if math.Abs(d-13) > 1e-9 {
		t.Fatalf("expected 13, got %v", d)
	}
}

func TestLerpInterpolatesZ(t *testing.T) {
	a := Coordinate{X: 0, Y: 0, Z: 0}
	b := Coordinate{X: 10, Y: 0, Z: 10}
	mid := Lerp(a, b, 0.5)
	if mid.X != 5 || mid.Z != 5 {
		t.Fatalf("expected midpoint (5,0,5), got %+v", mid)
	}
}

func TestParamOnSegment2D(t *testing.T) {
	a := Coordinate{X: 0, Y: 0}
	b := Coordinate{X: 10, Y: 0}
	p := Coordinate{X: 2.5, Y: 0}
	tt := ParamOnSegment2D(a, b, p)
	if math.Abs(tt-0.25) > 1e-9 {
		t.Fatalf("expected t=0.25, got %v", tt)
	}
}

func TestEnvelopeIntersects(t *testing.T) {
	a := Envelope{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	b := Envelope{MinX: 10, MinY: 10, MaxX: 20, MaxY: 20}
	if !a.Intersects(b) {
		t.Fatalf("touching envelopes should intersect")
	}
	c := Envelope{MinX: 11, MinY: 11, MaxX: 20, MaxY: 20}
	if a.Intersects(c) {
		t.Fatalf("disjoint envelopes should not intersect")
	}
}

func TestSignedArea2DOrientation(t *testing.T) {
	ccw := []Coordinate{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	if SignedArea2D(ccw) <= 0 {
		t.Fatalf("expected positive signed area for CCW ring")
	}
	cw := []Coordinate{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0}}
	if SignedArea2D(cw) >= 0 {
		t.Fatalf("expected negative signed area for CW ring")
	}
}

func TestEnsureCCWFlipsClockwiseRing(t *testing.T) {
	cw := []Coordinate{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0}}
	out := EnsureCCW(cw)
	if !IsCCW(out) {
		t.Fatalf("expected EnsureCCW to produce a CCW ring")
	}
}

func TestWideAngleCornersSquareHasAllFourCorners(t *testing.T) {
	// A rectangle's ordinary 90-degree corners sweep 270 degrees on the
	// polygon's exterior side, which lies inside the default wide-angle
	// bounds: every salient building corner is a diffraction candidate.
	square := []Coordinate{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	idx := WideAngleCorners(square, DefaultWideAngleMin, DefaultWideAngleMax)
	if len(idx) != 4 {
		t.Fatalf("expected all 4 rectangle corners to qualify as wide-angle, got %v", idx)
	}
}

func TestWideAngleCornersExcludesNearlyStraightEdge(t *testing.T) {
	// A vertex sitting on (near) a straight run between its neighbours
	// sweeps close to 180 degrees on the exterior side and is excluded:
	// it is not really a corner.
	ring := []Coordinate{{X: 0, Y: 0}, {X: 5, Y: 0.0000001}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	idx := WideAngleCorners(ring, DefaultWideAngleMin, DefaultWideAngleMax)
	for _, i := range idx {
		if i == 1 {
			t.Fatalf("the nearly-collinear midpoint should not qualify as a wide-angle corner")
		}
	}
}

func TestConvexHull2DTriangle(t *testing.T) {
	pts := []Coordinate{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 2, Y: 4}, {X: 2, Y: 1}}
	hull := ConvexHull2D(pts)
	if len(hull) != 3 {
		t.Fatalf("expected interior point dropped, leaving a triangle, got %d points", len(hull))
	}
	for _, p := range hull {
		if p.Equal2D(Coordinate{X: 2, Y: 1}) {
			t.Fatalf("interior point should not appear on the hull")
		}
	}
}

func TestSegmentIntersection2DCrossing(t *testing.T) {
	p, tt, ok := SegmentIntersection2D(
		Coordinate{X: 0, Y: 0}, Coordinate{X: 10, Y: 10},
		Coordinate{X: 0, Y: 10}, Coordinate{X: 10, Y: 0},
	)
	if !ok {
		t.Fatalf("expected crossing segments to intersect")
	}
	if math.Abs(p.X-5) > 1e-9 || math.Abs(p.Y-5) > 1e-9 {
		t.Fatalf("expected intersection at (5,5), got %+v", p)
	}
	if math.Abs(tt-0.5) > 1e-9 {
		t.Fatalf("expected t=0.5, got %v", tt)
	}
}

func TestSegmentIntersection2DParallelNoHit(t *testing.T) {
	_, _, ok := SegmentIntersection2D(
		Coordinate{X: 0, Y: 0}, Coordinate{X: 10, Y: 0},
		Coordinate{X: 0, Y: 5}, Coordinate{X: 10, Y: 5},
	)
	if ok {
		t.Fatalf("parallel segments should not report an intersection")
	}
}

func TestLineSidePlaneIntersectRingClipsHalf(t *testing.T) {
	plane := LineSidePlane{A: Coordinate{X: 0, Y: -10}, B: Coordinate{X: 0, Y: 10}}
	square := []Coordinate{{X: -5, Y: -5}, {X: 5, Y: -5}, {X: 5, Y: 5}, {X: -5, Y: 5}}
	clipped := plane.IntersectRing(square)
	for _, p := range clipped {
		if plane.Side(p) < -1e-9 {
			t.Fatalf("clipped ring should only retain points on the non-negative side, got %+v", p)
		}
	}
}
