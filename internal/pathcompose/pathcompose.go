// Package pathcompose is the orchestrator that, for one source/receiver
// pair, assembles the direct path, rooftop and corner diffraction paths,
// and reflection chains, validating every candidate against the scene
// before it is handed to a sink (spec §4.2).
package pathcompose

import (
	"github.com/banshee-data/soundpath/internal/config"
	"github.com/banshee-data/soundpath/internal/cutprofile"
	"github.com/banshee-data/soundpath/internal/geom"
	"github.com/banshee-data/soundpath/internal/logging"
	"github.com/banshee-data/soundpath/internal/model"
	"github.com/banshee-data/soundpath/internal/pathfindererr"
	"github.com/banshee-data/soundpath/internal/roofhull"
	"github.com/banshee-data/soundpath/internal/scene"
	"github.com/banshee-data/soundpath/internal/sidehull"
)

// Compose runs the full path-search dispatcher for one (src, rcv) pair
// and returns every validated PropagationPath (spec §4.2). favourable is
// stamped onto every emitted path; it is the caller's atmospheric
// condition flag, not inferred here (spec glossary).
func Compose(sc *scene.Scene, cfg *config.Resolved, src, rcv geom.Coordinate, srcID, rcvID string, favourable bool) []*model.PropagationPath {
	profile := sc.GetProfile(src, rcv, cfg.GS)

	var out []*model.PropagationPath
	addIfValid := func(p *model.PropagationPath) {
		if p == nil {
			return
		}
		if err := p.Validate(); err != nil {
			logging.Opsf("pathcompose: dropping malformed candidate: %v", err)
			return
		}
		if !validatePath(sc, p) {
			logging.Tracef("pathcompose: dropping candidate with z outside terrain/roof bounds for %s->%s", srcID, rcvID)
			return
		}
		p.Favourable = favourable
		out = append(out, p)
	}

	if profile.IsFreeField() {
		addIfValid(directPath(profile, cfg.GS, srcID, rcvID))
	} else {
		if cfg.ComputeVerticalDiffraction {
			addIfValid(roofhull.Compute(profile, cfg.GS, srcID, rcvID))
		}
		if cfg.ComputeHorizontalDiffraction {
			for _, p := range sidePaths(sc, profile, cfg, src, rcv, srcID, rcvID) {
				addIfValid(p)
			}
		}
	}

	if cfg.ReflexionOrder > 0 {
		for _, p := range reflectionPaths(sc, cfg, src, rcv, srcID, rcvID) {
			addIfValid(p)
		}
	}

	return out
}

func directPath(profile *cutprofile.CutProfile, gs float64, srcID, rcvID string) *model.PropagationPath {
	points := []model.PointPath{
		{Kind: model.PointSource, Coord: profile.Source},
		{Kind: model.PointReceiver, Coord: profile.Receiver},
	}
	g := profile.GroundFactorBetween(0, 1, gs)
	length := geom.Distance3D(profile.Source, profile.Receiver)
	var dir [3]float64
	if length > 0 {
		dir = [3]float64{
			(profile.Receiver.X - profile.Source.X) / length,
			(profile.Receiver.Y - profile.Source.Y) / length,
			(profile.Receiver.Z - profile.Source.Z) / length,
		}
	}
	return &model.PropagationPath{
		SourceID:   srcID,
		ReceiverID: rcvID,
		Points:     points,
		Segments:   []model.SegmentPath{{G: g, Direction: dir, Length3D: length}},
	}
}

func sidePaths(sc *scene.Scene, profile *cutprofile.CutProfile, cfg *config.Resolved, src, rcv geom.Coordinate, srcID, rcvID string) []*model.PropagationPath {
	result, err := sidehull.Compute(sc, src, rcv)
	if err != nil {
		if _, ok := err.(*pathfindererr.NonConvergence); ok {
			logging.Opsf("pathcompose: %v", err)
			return nil
		}
		logging.Opsf("pathcompose: side hull error: %v", err)
		return nil
	}

	groundFactor := func(a, b geom.Coordinate) float64 {
		sub := sc.GetProfile(a, b, cfg.GS)
		return sub.GroundFactorBetween(0, 1, cfg.GS)
	}

	var out []*model.PropagationPath
	if result.LeftOK && len(result.Left) > 0 {
		out = append(out, sidePath(result.Left, src, rcv, srcID, rcvID, groundFactor))
	}
	if result.RightOK && len(result.Right) > 0 {
		out = append(out, sidePath(result.Right, src, rcv, srcID, rcvID, groundFactor))
	}
	return out
}

func sidePath(corners []sidehull.Corner, src, rcv geom.Coordinate, srcID, rcvID string, groundFactor func(a, b geom.Coordinate) float64) *model.PropagationPath {
	points := make([]model.PointPath, 0, len(corners)+2)
	points = append(points, model.PointPath{Kind: model.PointSource, Coord: src})
	for _, c := range corners {
		points = append(points, model.PointPath{Kind: model.PointDiffractionVertical, Coord: c.Coord, BuildingID: c.BuildingID})
	}
	points = append(points, model.PointPath{Kind: model.PointReceiver, Coord: rcv})

	return &model.PropagationPath{
		SourceID:   srcID,
		ReceiverID: rcvID,
		Points:     points,
		Segments:   model.BuildSegments(points, groundFactor),
	}
}

// validatePath rejects any candidate with a point above its declared
// building's roof or below terrain at that (x,y) (spec §4.2). DIFH points
// may sit up to geom.EpsilonRoofBump above the roof, the bump roofhull
// applies to them.
func validatePath(sc *scene.Scene, p *model.PropagationPath) bool {
	for _, pt := range p.Points {
		if pt.BuildingID != "" {
			limit := geom.EpsilonZ
			if pt.Kind == model.PointDiffractionHorizontal {
				limit += geom.EpsilonRoofBump
			}
			if roofZ, ok := sc.GetBuildingRoofZ(pt.BuildingID); ok && pt.Coord.Z > roofZ+limit {
				return false
			}
		}
		if terrZ, ok := sc.HeightAtPosition(pt.Coord); ok && pt.Coord.Z < terrZ-geom.EpsilonZ {
			return false
		}
	}
	return true
}
