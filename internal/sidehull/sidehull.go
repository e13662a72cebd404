// Package sidehull computes the vertical-edge (around-corner) diffraction
// paths via an iteratively grown 2D convex hull over building corners cut
// by the source-receiver plane (spec §4.4).
package sidehull

import (
	"github.com/banshee-data/soundpath/internal/geom"
	"github.com/banshee-data/soundpath/internal/logging"
	"github.com/banshee-data/soundpath/internal/pathfindererr"
	"github.com/banshee-data/soundpath/internal/scene"
)

// maxPerimeterRatio is the side-hull non-convergence abort threshold of
// spec §4.4 step 3b.
const maxPerimeterRatio = 4.0

// Corner is one side-hull candidate point: a building footprint corner
// (or plane-clipped substitute), tagged with the building it belongs to
// so its emitted z can be resolved to that building's roof altitude.
type Corner struct {
	Coord      geom.Coordinate
	BuildingID string
}

// Result is the pair of diffraction polylines produced by Compute: Left
// and Right each run src -> ... -> rcv, excluding the src/rcv endpoints
// themselves, in traversal order (spec §4.4 step 4).
type Result struct {
	Left, Right []Corner
	LeftOK      bool
	RightOK     bool
}

// Compute runs the iterative side-hull algorithm for the segment src-rcv
// against sc (spec §4.4). The cut plane through src-rcv splits candidate
// building corners into the two sides of the sight line (step 1); the
// left and right polylines are each grown independently against their
// own half of the plane (step 3c: "retaining the piece on the positive
// side of the plane") so that a building straddling the line contributes
// its near corners to both detours instead of only one. Compute returns
// pathfindererr.NonConvergence if either side's hull perimeter exceeds 4x
// the src-rcv baseline before converging.
func Compute(sc *scene.Scene, src, rcv geom.Coordinate) (*Result, error) {
	baseline := geom.Distance2D(src, rcv)
	if baseline == 0 {
		return &Result{}, nil
	}

	leftPlane := geom.LineSidePlane{A: src, B: rcv}
	rightPlane := geom.LineSidePlane{A: rcv, B: src} // opposite half-plane: Side(p) = -leftPlane.Side(p)

	leftCandidates, err := growSide(sc, src, rcv, baseline, leftPlane)
	if err != nil {
		return nil, err
	}
	rightCandidates, err := growSide(sc, src, rcv, baseline, rightPlane)
	if err != nil {
		return nil, err
	}

	left, leftOK := detourPolyline(leftCandidates, src, rcv, sc)
	right, rightOK := detourPolyline(rightCandidates, src, rcv, sc)
	return &Result{Left: left, Right: right, LeftOK: leftOK, RightOK: rightOK}, nil
}

// growSide runs spec §4.4 step 3 against one side of the cut plane:
// repeatedly hulling the current candidate set, finding buildings newly
// on a hull edge, and adding the portion of their wide-angle corner
// polyline on plane's positive side, until no new candidates appear.
func growSide(sc *scene.Scene, src, rcv geom.Coordinate, baseline float64, plane geom.LineSidePlane) ([]Corner, error) {
	candidates := []Corner{{Coord: src}, {Coord: rcv}}
	processed := map[string]bool{}

	for iter := 0; iter < 256; iter++ {
		points := make([]geom.Coordinate, len(candidates))
		for i, c := range candidates {
			points[i] = c.Coord
		}
		hull := geom.ConvexHull2D(points)

		perimeter := geom.Perimeter2D(hull)
		if perimeter/baseline > maxPerimeterRatio {
			return nil, &pathfindererr.NonConvergence{Perimeter: perimeter, Ratio: maxPerimeterRatio}
		}

		added := false
		n := len(hull)
		for e := 0; e < n; e++ {
			a, b := hull[e], hull[(e+1)%n]
			var newBuildings []*scene.Building
			sc.GetBuildingsOnPath(a, b, func(bld *scene.Building) scene.VisitResult {
				if !processed[bld.ID] {
					newBuildings = append(newBuildings, bld)
				}
				return scene.VisitContinue
			})
			for _, bld := range newBuildings {
				if processed[bld.ID] {
					continue
				}
				processed[bld.ID] = true
				corners := bld.DefaultWideAngleCorners()
				clipped := plane.IntersectRing(corners)
				for _, p := range clipped {
					candidates = append(candidates, Corner{Coord: p, BuildingID: bld.ID})
				}
				if len(clipped) > 0 {
					added = true
				}
			}
		}
		if !added {
			logging.Diagf("sidehull: side converged after %d iterations, %d candidates", iter+1, len(candidates))
			return candidates, nil
		}
	}
	return nil, &pathfindererr.NonConvergence{Perimeter: -1, Ratio: maxPerimeterRatio}
}

// detourPolyline extracts the one non-trivial traversal of the hull of
// candidates from src to rcv: since every candidate besides src/rcv lies
// on a single side of the sight line, src and rcv are hull-adjacent via
// the direct edge in one direction, and the other direction is the
// detour around the intervening corners (spec §4.4 step 4). Returns
// ok=false if any intermediate corner's resolved z is negative (step 5).
func detourPolyline(candidates []Corner, src, rcv geom.Coordinate, sc *scene.Scene) ([]Corner, bool) {
	if len(candidates) < 2 {
		return nil, true
	}
	points := make([]geom.Coordinate, len(candidates))
	for i, c := range candidates {
		points[i] = c.Coord
	}
	hull := geom.ConvexHull2D(points)

	srcIdx := geom.IndexOf2D(hull, src)
	rcvIdx := geom.IndexOf2D(hull, rcv)
	if srcIdx < 0 || rcvIdx < 0 || srcIdx == rcvIdx {
		return nil, true
	}

	lookup := func(p geom.Coordinate) string {
		for _, c := range candidates {
			if c.Coord.Equal2D(p) {
				return c.BuildingID
			}
		}
		return ""
	}
	resolveZ := func(p geom.Coordinate, buildingID string) (geom.Coordinate, bool) {
		roofZ, ok := sc.GetBuildingRoofZ(buildingID)
		if !ok {
			return p, false
		}
		out := geom.Coordinate{X: p.X, Y: p.Y, Z: roofZ}
		return out, out.Z >= 0
	}

	n := len(hull)
	forward := collectBetween(hull, srcIdx, rcvIdx, 1, n)
	backward := collectBetween(hull, srcIdx, rcvIdx, -1, n)

	// Exactly one of the two traversals carries the detour; the other is
	// the direct src-rcv hull edge (empty). If both are empty the side
	// contributed no obstruction. In the rare case both are non-empty,
	// prefer the shorter one as the minimal detour.
	chosen := forward
	switch {
	case len(forward) == 0:
		chosen = backward
	case len(backward) == 0:
		chosen = forward
	default:
		if polylineLen(backward, src, rcv) < polylineLen(forward, src, rcv) {
			chosen = backward
		}
	}

	out := make([]Corner, 0, len(chosen))
	ok := true
	for _, p := range chosen {
		bid := lookup(p)
		z, zok := resolveZ(p, bid)
		if !zok {
			ok = false
		}
		out = append(out, Corner{Coord: z, BuildingID: bid})
	}
	return out, ok
}

func collectBetween(hull []geom.Coordinate, srcIdx, rcvIdx, step, n int) []geom.Coordinate {
	var out []geom.Coordinate
	for i := (srcIdx + step + n) % n; i != rcvIdx; i = (i + step + n) % n {
		out = append(out, hull[i])
	}
	return out
}

func polylineLen(pts []geom.Coordinate, src, rcv geom.Coordinate) float64 {
	total := 0.0
	prev := src
	for _, p := range pts {
		total += geom.Distance2D(prev, p)
		prev = p
	}
	total += geom.Distance2D(prev, rcv)
	return total
}
