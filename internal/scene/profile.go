package scene

import (
	"github.com/banshee-data/soundpath/internal/cutprofile"
	"github.com/banshee-data/soundpath/internal/geom"
)

// GetProfile probes the scene along the 2D segment a->b and returns the
// classified CutProfile (spec §4.1 algorithm).
func (s *Scene) GetProfile(a, b geom.Coordinate, gs float64) *cutprofile.CutProfile {
	profile := &cutprofile.CutProfile{Source: a, Receiver: b}

	// Step 1: SOURCE point.
	profile.Points = append(profile.Points, cutprofile.CutPoint{
		Kind: cutprofile.KindSource, Coord: a, Distance: 0, GAfter: gs,
	})

	// Step 2: building wall crossings.
	s.collectWallCrossings(a, b, profile)

	// Step 3: terrain crossings.
	s.collectTerrainCrossings(a, b, profile)

	// Step 4: ground-region boundary crossings.
	s.collectGroundCrossings(a, b, gs, profile)

	// Step 5: RECEIVER point, then sort + merge.
	profile.Points = append(profile.Points, cutprofile.CutPoint{
		Kind: cutprofile.KindReceiver, Coord: b, Distance: 1,
	})
	profile.SortAndMerge()
	return profile
}

func (s *Scene) collectWallCrossings(a, b geom.Coordinate, profile *cutprofile.CutProfile) {
	env := geom.SegmentEnvelope(a, b)
	baseline := geom.Distance2D(a, b)
	if baseline == 0 {
		return
	}
	for _, idx := range s.wallIdx.Query(env) {
		w := s.Walls[idx]
		pt, t, ok := geom.SegmentIntersection2D(a, b, w.P0, w.P1)
		if !ok {
			continue
		}
		profile.Points = append(profile.Points, cutprofile.CutPoint{
			Kind:       cutprofile.KindBuildingWall,
			Coord:      geom.Coordinate{X: pt.X, Y: pt.Y, Z: w.TopZ},
			Distance:   t,
			BuildingID: w.BuildingID,
			WallID:     w.ID,
		})
	}
}

func (s *Scene) collectTerrainCrossings(a, b geom.Coordinate, profile *cutprofile.CutProfile) {
	if s.Terrain == nil {
		return
	}
	for _, c := range s.Terrain.Crossings(a, b) {
		t := geom.ParamOnSegment2D(a, b, c)
		profile.Points = append(profile.Points, cutprofile.CutPoint{
			Kind: cutprofile.KindTopography, Coord: c, Distance: clamp01(t),
		})
	}
}

func (s *Scene) collectGroundCrossings(a, b geom.Coordinate, gs float64, profile *cutprofile.CutProfile) {
	env := geom.SegmentEnvelope(a, b)
	for _, idx := range s.groundIdx.Query(env) {
		region := s.GroundRegions[idx]
		n := len(region.Ring)
		for i := 0; i < n; i++ {
			p0 := region.Ring[i]
			p1 := region.Ring[(i+1)%n]
			pt, t, ok := geom.SegmentIntersection2D(a, b, p0, p1)
			if !ok {
				continue
			}
			before, after := gs, region.G
			if geom.PointInPolygon2D(region.Ring, a) {
				before, after = region.G, gs
			}
			profile.Points = append(profile.Points, cutprofile.CutPoint{
				Kind:    cutprofile.KindGroundEffect,
				Coord:   pt,
				Distance: t,
				GBefore: before,
				GAfter:  after,
			})
		}
	}
}
