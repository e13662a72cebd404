// Package model holds the propagation-path data types shared by the
// mirror, sidehull, roofhull, and pathcompose packages (spec §3:
// PropagationPath/PointPath/SegmentPath). Grounded on the teacher's
// TrackedObject-style plain data structs in
// internal/lidar/l5tracks/tracking.go — immutable value types handed to
// a sink by value, not mutated in place after construction.
package model

import "github.com/banshee-data/soundpath/internal/geom"

// PointKind classifies a PointPath entry.
type PointKind int

const (
	PointSource PointKind = iota
	PointReceiver
	PointReflection
	PointDiffractionHorizontal // DIFH: over a rooftop/ridge edge
	PointDiffractionVertical   // DIFV: around a building corner
)

func (k PointKind) String() string {
	switch k {
	case PointSource:
		return "SRCE"
	case PointReceiver:
		return "RECV"
	case PointReflection:
		return "REFL"
	case PointDiffractionHorizontal:
		return "DIFH"
	case PointDiffractionVertical:
		return "DIFV"
	default:
		return "UNKNOWN"
	}
}

// PointPath is one vertex of a PropagationPath.
type PointPath struct {
	Kind             PointKind
	Coord            geom.Coordinate
	BuildingID       string    // set for REFL points: the reflecting building
	WallID           string    // set for REFL points: the reflecting wall
	AbsorptionAlpha  []float64 // REFL: per-frequency-band absorption spectrum of the wall's building
}

// SegmentPath pairs two consecutive PointPaths with their ground factor
// and 3D direction.
type SegmentPath struct {
	G         float64 // length-weighted ground-effect factor, spec §4.1 step 5
	Direction [3]float64
	Length3D  float64
}

// PropagationPath is one fully-assembled acoustic ray path from a source
// to a receiver (spec §3).
type PropagationPath struct {
	SourceID    string
	ReceiverID  string
	Points      []PointPath
	Segments    []SegmentPath
	Favourable  bool
	ReflexionOrder int // count of REFL points in Points
}

// Validate checks the invariants of spec §8 item 1: first point SRCE,
// last point RECV, |segments| = |points|-1.
func (p *PropagationPath) Validate() error {
	if len(p.Points) < 2 {
		return errInvalidPath("fewer than 2 points")
	}
	if p.Points[0].Kind != PointSource {
		return errInvalidPath("first point is not SRCE")
	}
	if p.Points[len(p.Points)-1].Kind != PointReceiver {
		return errInvalidPath("last point is not RECV")
	}
	if len(p.Segments) != len(p.Points)-1 {
		return errInvalidPath("segment count does not match point count - 1")
	}
	return nil
}

type pathError string

func (e pathError) Error() string { return string(e) }

func errInvalidPath(reason string) error {
	return pathError("invalid propagation path: " + reason)
}

// BuildSegments derives SegmentPath entries for a point list given a
// function returning the ground factor between two 2D positions. This is
// the "pure function over the CutPoint sequence" Design Note 9.3 calls
// for: it never mutates shared state while traversing.
func BuildSegments(points []PointPath, groundFactor func(a, b geom.Coordinate) float64) []SegmentPath {
	if len(points) < 2 {
		return nil
	}
	segs := make([]SegmentPath, len(points)-1)
	for i := 0; i < len(points)-1; i++ {
		a, b := points[i].Coord, points[i+1].Coord
		length := geom.Distance3D(a, b)
		var dir [3]float64
		if length > 0 {
			dir = [3]float64{(b.X - a.X) / length, (b.Y - a.Y) / length, (b.Z - a.Z) / length}
		}
		g := 0.0
		if groundFactor != nil {
			g = groundFactor(a, b)
		}
		segs[i] = SegmentPath{G: g, Direction: dir, Length3D: length}
	}
	return segs
}

// CountReflections returns the number of REFL points in points.
func CountReflections(points []PointPath) int {
	n := 0
	for _, p := range points {
		if p.Kind == PointReflection {
			n++
		}
	}
	return n
}
