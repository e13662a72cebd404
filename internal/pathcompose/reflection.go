package pathcompose

import (
	"github.com/banshee-data/soundpath/internal/config"
	"github.com/banshee-data/soundpath/internal/geom"
	"github.com/banshee-data/soundpath/internal/logging"
	"github.com/banshee-data/soundpath/internal/mirror"
	"github.com/banshee-data/soundpath/internal/model"
	"github.com/banshee-data/soundpath/internal/roofhull"
	"github.com/banshee-data/soundpath/internal/scene"
)

// reflectionPaths runs the mirror-receiver search and, for every leaf
// whose trace-back succeeds, assembles a PropagationPath, inserting
// rooftop-diffraction points on any sub-segment that is not free-field
// (spec §4.5 step 4 — the more defensive of the two occlusion tests
// named in spec §9's open questions: resolve via diffraction rather than
// rejecting the chain outright).
func reflectionPaths(sc *scene.Scene, cfg *config.Resolved, src, rcv geom.Coordinate, srcID, rcvID string) []*model.PropagationPath {
	mid := geom.Lerp(src, rcv, 0.5)
	searchRadius := geom.Distance2D(src, rcv)/2 + cfg.MaxRefDist
	walls := sc.WallsInRange(mid, searchRadius)
	if len(walls) == 0 {
		return nil
	}

	tree := mirror.Build(src, rcv, walls, cfg.ReflexionOrder, cfg.MaxSrcDist)
	if len(tree.Nodes) == 0 {
		return nil
	}

	var out []*model.PropagationPath
	for _, leaf := range tree.Leaves() {
		chain, ok := mirror.TraceBack(sc, src, rcv, tree, leaf)
		if !ok {
			continue
		}
		path := assembleReflectionPath(sc, cfg, src, rcv, chain, srcID, rcvID)
		if path != nil {
			out = append(out, path)
		}
	}
	logging.Tracef("pathcompose: reflection search for %s->%s produced %d candidate chains", srcID, rcvID, len(out))
	return out
}

func assembleReflectionPath(sc *scene.Scene, cfg *config.Resolved, src, rcv geom.Coordinate, chain []mirror.ReflectionPoint, srcID, rcvID string) *model.PropagationPath {
	waypoints := make([]geom.Coordinate, 0, len(chain)+2)
	waypoints = append(waypoints, src)
	for _, r := range chain {
		waypoints = append(waypoints, r.Coord)
	}
	waypoints = append(waypoints, rcv)

	var points []model.PointPath
	points = append(points, model.PointPath{Kind: model.PointSource, Coord: src})

	for i := 0; i < len(waypoints)-1; i++ {
		a, b := waypoints[i], waypoints[i+1]
		sub := sc.GetProfile(a, b, cfg.GS)
		if !sub.IsFreeField() {
			diffracted := roofhull.Compute(sub, cfg.GS, srcID, rcvID)
			if diffracted != nil {
				for _, dp := range diffracted.Points[1 : len(diffracted.Points)-1] {
					points = append(points, dp)
				}
			}
		}
		if i < len(chain) {
			r := chain[i]
			points = append(points, model.PointPath{
				Kind:            model.PointReflection,
				Coord:           r.Coord,
				BuildingID:      r.Wall.BuildingID,
				WallID:          r.Wall.ID,
				AbsorptionAlpha: r.Wall.Absorption,
			})
		}
	}
	points = append(points, model.PointPath{Kind: model.PointReceiver, Coord: rcv})

	groundFactor := func(a, b geom.Coordinate) float64 {
		sub := sc.GetProfile(a, b, cfg.GS)
		return sub.GroundFactorBetween(0, 1, cfg.GS)
	}

	path := &model.PropagationPath{
		SourceID:   srcID,
		ReceiverID: rcvID,
		Points:     points,
		Segments:   model.BuildSegments(points, groundFactor),
	}
	path.ReflexionOrder = model.CountReflections(points)
	if path.ReflexionOrder > cfg.ReflexionOrder {
		return nil
	}
	return path
}
