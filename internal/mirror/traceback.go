package mirror

import (
	"github.com/banshee-data/soundpath/internal/geom"
	"github.com/banshee-data/soundpath/internal/scene"
)

// ReflectionPoint is one validated point along a reflection chain, in
// src->rcv order, carrying the wall it reflects off.
type ReflectionPoint struct {
	Coord geom.Coordinate
	Wall  *scene.Wall
}

// TraceBack walks leaf node leafIdx of t back to the root, intersecting
// the line (current destination, current mirror image) with the current
// wall at each step, interpolating z on that line, and nudging the
// result outward along the wall's normal by geom.EpsilonReflNudge so a
// later visibility probe does not re-hit the generating wall (spec §4.5
// step 3). It returns the chain ordered from the wall nearest src to the
// wall nearest rcv, or ok=false if any step fails the finite-segment
// test, exceeds the wall's top altitude, or falls below terrain.
func TraceBack(sc *scene.Scene, src, rcv geom.Coordinate, t *Tree, leafIdx int) (chain []ReflectionPoint, ok bool) {
	// Destination starts at the true source and is replaced by each
	// accepted reflection point as the walk climbs from leaf to root; the
	// leaf's wall is the one nearest src, the root's wall is the one
	// nearest rcv, so each step intersects (dest, image) against the wall
	// nearest dest and points are produced directly in src->rcv order.
	var reflections []ReflectionPoint
	dest := src
	for idx := leafIdx; idx != noParent; idx = t.Nodes[idx].Parent {
		n := t.Nodes[idx]
		pt, tParam, intersects := geom.SegmentIntersection2D(dest, n.Image, n.Wall.P0, n.Wall.P1)
		if !intersects || tParam <= 1e-9 || tParam >= 1-1e-9 {
			return nil, false
		}
		z := geom.InterpolateZAt(dest, n.Image, tParam)
		if z > n.Wall.TopZ+geom.EpsilonZ {
			return nil, false
		}
		refl := geom.Coordinate{X: pt.X, Y: pt.Y, Z: z}
		if groundZ, found := sc.HeightAtPosition(refl); found && z < groundZ-geom.EpsilonZ {
			return nil, false
		}
		refl = nudgeOutward(refl, n.Wall)
		reflections = append(reflections, ReflectionPoint{Coord: refl, Wall: n.Wall})
		dest = refl
	}
	return reflections, true
}

// nudgeOutward displaces p by geom.EpsilonReflNudge along w's outward
// normal, so the reflection point clears the generating wall for
// subsequent visibility tests (spec §9 numerical-robustness note).
func nudgeOutward(p geom.Coordinate, w *scene.Wall) geom.Coordinate {
	nx, ny := w.OutwardNormal2D()
	return geom.Coordinate{X: p.X + nx*geom.EpsilonReflNudge, Y: p.Y + ny*geom.EpsilonReflNudge, Z: p.Z}
}
