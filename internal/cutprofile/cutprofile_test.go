package cutprofile

import (
	"math"
	"testing"

	"github.com/banshee-data/soundpath/internal/geom"
)

func TestSortAndMergeOrdersByDistance(t *testing.T) {
	p := &CutProfile{
		Points: []CutPoint{
			{Kind: KindReceiver, Distance: 1},
			{Kind: KindTopography, Distance: 0.5, Coord: geom.Coordinate{X: 5}},
			{Kind: KindSource, Distance: 0},
		},
	}
	p.SortAndMerge()
	if p.Points[0].Kind != KindSource || p.Points[len(p.Points)-1].Kind != KindReceiver {
		t.Fatalf("expected SOURCE first and RECEIVER last after sort, got %+v", p.Points)
	}
}

func TestSortAndMergeCoalescesCoincidentPoints(t *testing.T) {
	p := &CutProfile{
		Points: []CutPoint{
			{Kind: KindSource, Distance: 0},
			{Kind: KindTopography, Distance: 0.3, Coord: geom.Coordinate{X: 3}},
			{Kind: KindTopography, Distance: 0.300000001, Coord: geom.Coordinate{X: 3}},
			{Kind: KindReceiver, Distance: 1},
		},
	}
	p.SortAndMerge()
	if len(p.Points) != 3 {
		t.Fatalf("expected coincident topography points merged, got %d points", len(p.Points))
	}
}

func TestIsFreeFieldRejectsTopographyAboveSightLine(t *testing.T) {
	p := &CutProfile{
		Source:   geom.Coordinate{X: 0, Y: 0, Z: 0},
		Receiver: geom.Coordinate{X: 10, Y: 0, Z: 0},
		Points: []CutPoint{
			{Kind: KindSource, Distance: 0, Coord: geom.Coordinate{X: 0, Y: 0, Z: 0}},
			{Kind: KindTopography, Distance: 0.5, Coord: geom.Coordinate{X: 5, Y: 0, Z: 5}},
			{Kind: KindReceiver, Distance: 1, Coord: geom.Coordinate{X: 10, Y: 0, Z: 0}},
		},
	}
	if p.IsFreeField() {
		t.Fatalf("a terrain ridge above the sight line must not be free-field")
	}
}

func TestIsFreeFieldAcceptsTopographyBelowSightLine(t *testing.T) {
	p := &CutProfile{
		Source:   geom.Coordinate{X: 0, Y: 0, Z: 10},
		Receiver: geom.Coordinate{X: 10, Y: 0, Z: 10},
		Points: []CutPoint{
			{Kind: KindSource, Distance: 0, Coord: geom.Coordinate{X: 0, Y: 0, Z: 10}},
			{Kind: KindTopography, Distance: 0.5, Coord: geom.Coordinate{X: 5, Y: 0, Z: 0}},
			{Kind: KindReceiver, Distance: 1, Coord: geom.Coordinate{X: 10, Y: 0, Z: 10}},
		},
	}
	if !p.IsFreeField() {
		t.Fatalf("terrain below the sight line should still be free-field")
	}
}

func TestIsFreeFieldFalseOnBuildingWall(t *testing.T) {
	p := &CutProfile{
		Points: []CutPoint{
			{Kind: KindSource}, {Kind: KindBuildingWall}, {Kind: KindReceiver},
		},
	}
	if p.IsFreeField() {
		t.Fatalf("any BUILDING_WALL point must make the profile non-free-field")
	}
}

func TestGroundFactorBetweenWeightsByLength(t *testing.T) {
	p := &CutProfile{
		Source:   geom.Coordinate{X: 0, Y: 0},
		Receiver: geom.Coordinate{X: 10, Y: 0},
		Points: []CutPoint{
			{Kind: KindSource, Distance: 0},
			{Kind: KindGroundEffect, Distance: 0.5, GBefore: 0, GAfter: 1},
			{Kind: KindReceiver, Distance: 1},
		},
	}
	g := p.GroundFactorBetween(0, 1, 0)
	// First half at G=0 (default before the crossing), second half at G=1:
	// length-weighted mean should land at 0.5.
	if math.Abs(g-0.5) > 1e-9 {
		t.Fatalf("expected length-weighted mean 0.5, got %v", g)
	}
}

func TestGroundFactorBetweenNoGroundEffectsReturnsDefault(t *testing.T) {
	p := &CutProfile{
		Source:   geom.Coordinate{X: 0, Y: 0},
		Receiver: geom.Coordinate{X: 10, Y: 0},
		Points: []CutPoint{
			{Kind: KindSource, Distance: 0},
			{Kind: KindReceiver, Distance: 1},
		},
	}
	if g := p.GroundFactorBetween(0, 1, 0.3); g != 0.3 {
		t.Fatalf("expected default ground factor 0.3 with no crossings, got %v", g)
	}
}
