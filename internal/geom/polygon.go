package geom

import "math"

// SignedArea2D returns twice the signed area of the polygon ring (positive
// for counter-clockwise orientation).
func SignedArea2D(ring []Coordinate) float64 {
	n := len(ring)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		a := ring[i]
		b := ring[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum
}

// IsCCW reports whether the ring is wound counter-clockwise.
func IsCCW(ring []Coordinate) bool {
	return SignedArea2D(ring) > 0
}

// EnsureCCW returns the ring reordered counter-clockwise if it is not
// already (spec §3: "wall vertices are counter-clockwise around the
// building exterior").
func EnsureCCW(ring []Coordinate) []Coordinate {
	if IsCCW(ring) || len(ring) < 3 {
		return ring
	}
	out := make([]Coordinate, len(ring))
	for i, p := range ring {
		out[len(ring)-1-i] = p
	}
	return out
}

// PointInPolygon2D reports whether p lies strictly inside the ring using
// the standard ray-casting test.
func PointInPolygon2D(ring []Coordinate, p Coordinate) bool {
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			xIntersect := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < xIntersect {
				inside = !inside
			}
		}
	}
	return inside
}

// InteriorAngle returns the angle (radians, in [0, 2π)) swept at vertex b
// of the CCW-wound ring ... a, b, c ... on the polygon's exterior side
// (spec §3: building wide-angle corners use the angle "measured outside
// the polygon"). For a CCW ring, an ordinary salient building corner
// (interior angle 90°) sweeps 270° on the outside, which is what spec's
// default bounds (π·(1+1/16), π·(2−1/16)) are tuned to select; a nearly
// straight edge (interior angle near 180°) sweeps near 180° and is
// excluded, since it is not really a corner.
func InteriorAngle(a, b, c Coordinate) float64 {
	v1x, v1y := a.X-b.X, a.Y-b.Y
	v2x, v2y := c.X-b.X, c.Y-b.Y
	angle := math.Atan2(v2y, v2x) - math.Atan2(v1y, v1x)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle
}

// WideAngleCorners returns the indices of ring vertices whose exterior
// interior-angle lies in (minAngle, maxAngle), e.g. spec's default
// candidate diffraction corners (π·(1+1/16), π·(2−1/16)). ring must be
// CCW and closed implicitly (first point not repeated at the end).
func WideAngleCorners(ring []Coordinate, minAngle, maxAngle float64) []int {
	n := len(ring)
	if n < 3 {
		return nil
	}
	var out []int
	for i := 0; i < n; i++ {
		prev := ring[(i-1+n)%n]
		cur := ring[i]
		next := ring[(i+1)%n]
		angle := InteriorAngle(prev, cur, next)
		if angle > minAngle && angle < maxAngle {
			out = append(out, i)
		}
	}
	return out
}

// DefaultWideAngleMin and DefaultWideAngleMax are spec §3's default
// candidate-corner bounds: π·(1+1/16) and π·(2−1/16).
var (
	DefaultWideAngleMin = math.Pi * (1 + 1.0/16.0)
	DefaultWideAngleMax = math.Pi * (2 - 1.0/16.0)
)
