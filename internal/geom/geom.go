// Package geom provides the planar/3D vector primitives shared by every
// scene and path-search package: coordinates, segment intersection,
// polygon orientation and interior angles, and a 2D convex hull. The
// pack carries no 2D computational-geometry library (gonum has no hull or
// segment-intersection primitives, and the S2-based geometry in
// other_examples/akhenakh-geo targets spherical indexing, not a planar
// polygon kernel), so this package is built directly on "math" — the
// teacher's own SphericalToCartesian/ApplyPose helpers in
// internal/lidar/clustering.go are the closest analogue in the pack.
package geom

import "math"

// Tolerances from spec §4.1/§4.5/§9.
const (
	EpsilonCoincidence2D = 1e-7 // merging CutPoints that land within this 2D distance
	EpsilonZ             = 1e-6 // z comparisons (roof/terrain clipping, wallWallTest)
	EpsilonReflNudge     = 1e-4 // outward nudge applied to reflection points
	EpsilonRoofBump      = 1e-3 // z bump when a DIFH point coincides with a building corner
)

// Coordinate is an absolute (x, y, z) position in the scene's projected
// coordinate system. Equality is 2D except where Z interpolation is
// explicitly specified (spec §3).
type Coordinate struct {
	X, Y, Z float64
}

// Equal2D reports whether a and b coincide within EpsilonCoincidence2D.
func (a Coordinate) Equal2D(b Coordinate) bool {
	return Distance2D(a, b) <= EpsilonCoincidence2D
}

// Sub2D returns the 2D vector a-b.
func (a Coordinate) Sub2D(b Coordinate) (dx, dy float64) {
	return a.X - b.X, a.Y - b.Y
}

// Distance2D returns the 2D Euclidean distance between a and b.
func Distance2D(a, b Coordinate) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return math.Hypot(dx, dy)
}

// Distance3D returns the 3D Euclidean distance between a and b.
func Distance3D(a, b Coordinate) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Cross2D returns the z-component of the 2D cross product (o->a) x (o->b).
func Cross2D(o, a, b Coordinate) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// Dot2D returns the 2D dot product of (a-o) and (b-o).
func Dot2D(o, a, b Coordinate) float64 {
	return (a.X-o.X)*(b.X-o.X) + (a.Y-o.Y)*(b.Y-o.Y)
}

// Lerp linearly interpolates between a and b at parameter t in [0,1],
// including the Z component.
func Lerp(a, b Coordinate, t float64) Coordinate {
	return Coordinate{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
	}
}

// ParamOnSegment2D returns the parameter t such that Lerp(a,b,t) has the
// same 2D projection as p, assuming p lies on the infinite line a-b.
func ParamOnSegment2D(a, b, p Coordinate) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	denom := dx*dx + dy*dy
	if denom == 0 {
		return 0
	}
	return ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / denom
}

// InterpolateZAt returns the Z value linearly interpolated along a-b at
// parameter t (0 at a, 1 at b) (spec §3: "z values are interpolated
// from the underlying geometry").
func InterpolateZAt(a, b Coordinate, t float64) float64 {
	return a.Z + (b.Z-a.Z)*t
}

// Envelope is an axis-aligned 2D bounding box.
type Envelope struct {
	MinX, MinY, MaxX, MaxY float64
}

// EnvelopeOf returns the bounding envelope of the given points.
func EnvelopeOf(points []Coordinate) Envelope {
	if len(points) == 0 {
		return Envelope{}
	}
	e := Envelope{MinX: points[0].X, MaxX: points[0].X, MinY: points[0].Y, MaxY: points[0].Y}
	for _, p := range points[1:] {
		e = e.ExpandPoint(p)
	}
	return e
}

// ExpandPoint grows the envelope to include p.
func (e Envelope) ExpandPoint(p Coordinate) Envelope {
	if p.X < e.MinX {
		e.MinX = p.X
	}
	if p.X > e.MaxX {
		e.MaxX = p.X
	}
	if p.Y < e.MinY {
		e.MinY = p.Y
	}
	if p.Y > e.MaxY {
		e.MaxY = p.Y
	}
	return e
}

// Buffer grows the envelope by d in every direction.
func (e Envelope) Buffer(d float64) Envelope {
	return Envelope{MinX: e.MinX - d, MinY: e.MinY - d, MaxX: e.MaxX + d, MaxY: e.MaxY + d}
}

// Intersects reports whether e and o overlap (touching counts as overlap).
func (e Envelope) Intersects(o Envelope) bool {
	return e.MinX <= o.MaxX && e.MaxX >= o.MinX && e.MinY <= o.MaxY && e.MaxY >= o.MinY
}

// Contains reports whether p lies within e (inclusive).
func (e Envelope) Contains(p Coordinate) bool {
	return p.X >= e.MinX && p.X <= e.MaxX && p.Y >= e.MinY && p.Y <= e.MaxY
}

// SegmentEnvelope returns the bounding envelope of a 2D segment.
func SegmentEnvelope(a, b Coordinate) Envelope {
	return EnvelopeOf([]Coordinate{a, b})
}
