package source

import (
	"math"
	"testing"

	"github.com/banshee-data/soundpath/internal/geom"
)

func TestDiscretizePointSourceReturnsItself(t *testing.T) {
	s := &Source{ID: "p1", Kind: KindPoint, Lines: [][]geom.Coordinate{{{X: 5, Y: 5}}}, Power: []float64{90}}
	pts := Discretize(s, geom.Coordinate{X: 0, Y: 0})
	if len(pts) != 1 {
		t.Fatalf("expected a single point source, got %d", len(pts))
	}
	if pts[0].Li != 1 {
		t.Fatalf("expected li=1 for a point source, got %v", pts[0].Li)
	}
	if pts[0].Power[0] != 90 {
		t.Fatalf("expected unscaled power for a point source, got %v", pts[0].Power[0])
	}
}

func TestDiscretizeLineStringSpansFullLength(t *testing.T) {
	s := &Source{
		ID:   "l1",
		Kind: KindLineString,
		Lines: [][]geom.Coordinate{{
			{X: 0, Y: 0}, {X: 100, Y: 0},
		}},
		Power: []float64{100},
	}
	rcv := geom.Coordinate{X: 50, Y: 10}
	pts := Discretize(s, rcv)
	if len(pts) < 2 {
		t.Fatalf("expected a 100m line to be split into multiple points, got %d", len(pts))
	}
	for _, p := range pts {
		if p.Coord.X < -1e-6 || p.Coord.X > 100+1e-6 {
			t.Fatalf("discretized point %v falls outside the source line's extent", p.Coord)
		}
		if p.SourceID != "l1" {
			t.Fatalf("expected discretized points to carry the source ID")
		}
	}
}

func TestDiscretizeLineStringScalesPowerByLi(t *testing.T) {
	s := &Source{
		ID:    "l1",
		Kind:  KindLineString,
		Lines: [][]geom.Coordinate{{{X: 0, Y: 0}, {X: 20, Y: 0}}},
		Power: []float64{10},
	}
	pts := Discretize(s, geom.Coordinate{X: 10, Y: 5})
	for _, p := range pts {
		expected := 10 * p.Li
		if math.Abs(p.Power[0]-expected) > 1e-9 {
			t.Fatalf("expected power scaled by li=%v to be %v, got %v", p.Li, expected, p.Power[0])
		}
	}
}

func TestDiscretizeMultiLineStringCoversEveryLine(t *testing.T) {
	s := &Source{
		ID:   "m1",
		Kind: KindMultiLineString,
		Lines: [][]geom.Coordinate{
			{{X: 0, Y: 0}, {X: 10, Y: 0}},
			{{X: 0, Y: 20}, {X: 10, Y: 20}},
		},
		Power: []float64{5},
	}
	pts := Discretize(s, geom.Coordinate{X: 5, Y: 10})
	var sawLow, sawHigh bool
	for _, p := range pts {
		if p.Coord.Y < 5 {
			sawLow = true
		}
		if p.Coord.Y > 15 {
			sawHigh = true
		}
	}
	if !sawLow || !sawHigh {
		t.Fatalf("expected discretized points from both constituent lines")
	}
}

func TestDiscretizeUnknownKindReturnsNil(t *testing.T) {
	s := &Source{ID: "x", Kind: Kind(99)}
	if pts := Discretize(s, geom.Coordinate{}); pts != nil {
		t.Fatalf("expected nil for an unrecognized source kind, got %d points", len(pts))
	}
}

func TestWeightOfDecaysWithDistance(t *testing.T) {
	near := PointSource{Coord: geom.Coordinate{X: 1, Y: 0, Z: 0}, Power: []float64{10}}
	far := PointSource{Coord: geom.Coordinate{X: 100, Y: 0, Z: 0}, Power: []float64{10}}
	rcv := geom.Coordinate{X: 0, Y: 0, Z: 0}
	if WeightOf(near, rcv) <= WeightOf(far, rcv) {
		t.Fatalf("expected the nearer source to carry more weight")
	}
}

func TestOrderByDescendingWeightSortsHighestFirst(t *testing.T) {
	rcv := geom.Coordinate{X: 0, Y: 0}
	points := []PointSource{
		{SourceID: "far", Coord: geom.Coordinate{X: 100, Y: 0}, Power: []float64{10}},
		{SourceID: "near", Coord: geom.Coordinate{X: 1, Y: 0}, Power: []float64{10}},
	}
	ordered := OrderByDescendingWeight(points, rcv)
	if ordered[0].SourceID != "near" {
		t.Fatalf("expected the nearer, higher-weight source first, got %q", ordered[0].SourceID)
	}
}

func TestEarlyStopIndexStopsBeforeExhaustingNegligibleTail(t *testing.T) {
	rcv := geom.Coordinate{X: 0, Y: 0}
	points := []PointSource{
		{SourceID: "dominant", Coord: geom.Coordinate{X: 1, Y: 0}, Power: []float64{1000}},
		{SourceID: "tiny", Coord: geom.Coordinate{X: 1000, Y: 0}, Power: []float64{1}},
	}
	ordered := OrderByDescendingWeight(points, rcv)
	idx := EarlyStopIndex(ordered, rcv, 0.01)
	if idx != 1 {
		t.Fatalf("expected early stop after the single dominant source, got index %d", idx)
	}
}

func TestEarlyStopIndexCoversAllWhenErrorBoundIsZero(t *testing.T) {
	rcv := geom.Coordinate{X: 0, Y: 0}
	points := []PointSource{
		{SourceID: "a", Coord: geom.Coordinate{X: 1, Y: 0}, Power: []float64{10}},
		{SourceID: "b", Coord: geom.Coordinate{X: 2, Y: 0}, Power: []float64{10}},
	}
	ordered := OrderByDescendingWeight(points, rcv)
	idx := EarlyStopIndex(ordered, rcv, 0)
	if idx != len(points) {
		t.Fatalf("expected a zero error bound to require all points, got %d of %d", idx, len(points))
	}
}
