// Package roofhull computes horizontal-edge (over-rooftop) diffraction
// paths by taking the upper convex hull of a cut profile (spec §4.3).
package roofhull

import (
	"github.com/banshee-data/soundpath/internal/cutprofile"
	"github.com/banshee-data/soundpath/internal/geom"
	"github.com/banshee-data/soundpath/internal/model"
)

// Compute selects the upper convex hull of profile in (distance, z) space,
// excluding GROUND_EFFECT points, and assembles the resulting
// PropagationPath. If the hull reduces to just SOURCE and RECEIVER the
// result is equivalent to the free-field path (spec §4.3 edge case).
func Compute(profile *cutprofile.CutProfile, gs float64, srcID, rcvID string) *model.PropagationPath {
	var candidates []cutprofile.CutPoint
	for _, pt := range profile.Points {
		if pt.Kind == cutprofile.KindGroundEffect {
			continue
		}
		candidates = append(candidates, pt)
	}
	if len(candidates) < 2 {
		return nil
	}

	hullPositions := make([]geom.Coordinate, len(candidates))
	for i, pt := range candidates {
		hullPositions[i] = geom.Coordinate{X: pt.Distance, Y: pt.Coord.Z}
	}
	hullIdx := upperChain(hullPositions)

	points := make([]model.PointPath, 0, len(hullIdx))
	for i, idx := range hullIdx {
		cp := candidates[idx]
		kind := model.PointDiffractionHorizontal
		z := cp.Coord.Z
		switch {
		case i == 0:
			kind = model.PointSource
		case i == len(hullIdx)-1:
			kind = model.PointReceiver
		case cp.Kind == cutprofile.KindBuildingWall:
			// A DIFH point coincident with a building corner's top is
			// bumped up by epsilon to avoid clipping against the roof
			// plane (spec §4.3 edge case).
			z += geom.EpsilonRoofBump
		}
		points = append(points, model.PointPath{Kind: kind, Coord: geom.Coordinate{X: cp.Coord.X, Y: cp.Coord.Y, Z: z}, BuildingID: cp.BuildingID})
	}

	groundFactor := func(a, b geom.Coordinate) float64 {
		ta := geom.ParamOnSegment2D(profile.Source, profile.Receiver, a)
		tb := geom.ParamOnSegment2D(profile.Source, profile.Receiver, b)
		return profile.GroundFactorBetween(ta, tb, gs)
	}

	path := &model.PropagationPath{
		SourceID:   srcID,
		ReceiverID: rcvID,
		Points:     points,
		Segments:   model.BuildSegments(points, groundFactor),
	}
	path.ReflexionOrder = model.CountReflections(points)
	return path
}

// upperChain returns, in increasing-X order, the indices into pts forming
// the upper convex hull: every retained interior point lies strictly above
// the chord between its retained neighbours, and points on or below that
// chord are dropped (spec §4.3 steps 2-3). pts must already be sorted
// ascending by X.
func upperChain(pts []geom.Coordinate) []int {
	stack := make([]int, 0, len(pts))
	for i := range pts {
		for len(stack) >= 2 {
			a := pts[stack[len(stack)-2]]
			b := pts[stack[len(stack)-1]]
			if geom.Cross2D(a, b, pts[i]) >= 0 {
				stack = stack[:len(stack)-1]
				continue
			}
			break
		}
		stack = append(stack, i)
	}
	return stack
}
