package scene

import (
	"fmt"

	"github.com/banshee-data/soundpath/internal/geom"
	"github.com/banshee-data/soundpath/internal/pathfindererr"
)

// Scene is the immutable, indexed 2.5D urban scene (spec §2 component 1).
// It is constructed once via Builder.Finish and shared read-only across
// every query and every concurrent worker (spec §5: "Scene and R-trees
// are constructed once on the main task and are read-only thereafter").
type Scene struct {
	Envelope      geom.Envelope
	Buildings     []*Building
	Walls         []*Wall
	GroundRegions []*GroundRegion
	Terrain       *Terrain

	buildingsByID map[string]*Building
	buildingIdx   *gridIndex
	wallIdx       *gridIndex
	groundIdx     *gridIndex
}

// GetBuildingRoofZ returns the roof altitude of the named building.
func (s *Scene) GetBuildingRoofZ(buildingID string) (float64, bool) {
	b, ok := s.buildingsByID[buildingID]
	if !ok {
		return 0, false
	}
	return b.RoofZ, true
}

// GetBuilding looks up a building by id.
func (s *Scene) GetBuilding(buildingID string) (*Building, bool) {
	b, ok := s.buildingsByID[buildingID]
	return b, ok
}

// GetProcessedWalls returns every wall in the scene (spec §6 query
// contract), used by the reflection search to build its candidate set.
func (s *Scene) GetProcessedWalls() []*Wall {
	return s.Walls
}

// WallsInRange returns every wall whose envelope lies within radius of
// center (a coarse 2D bounding-box test, refined by callers as needed).
func (s *Scene) WallsInRange(center geom.Coordinate, radius float64) []*Wall {
	env := geom.Envelope{MinX: center.X - radius, MaxX: center.X + radius, MinY: center.Y - radius, MaxY: center.Y + radius}
	var out []*Wall
	for _, idx := range s.wallIdx.Query(env) {
		w := s.Walls[idx]
		if env.Intersects(geom.SegmentEnvelope(w.P0, w.P1)) {
			out = append(out, w)
		}
	}
	return out
}

// HeightAtPosition returns the terrain altitude at p, or false if p lies
// outside the triangulated extent.
func (s *Scene) HeightAtPosition(p geom.Coordinate) (float64, bool) {
	if s.Terrain == nil {
		return 0, false
	}
	return s.Terrain.AltitudeAt(p)
}

// GetBuildingsOnPath visits every building whose envelope intersects the
// 2D segment a->b, in index order, stopping early if visitor returns
// VisitStop (Design Note 9.2).
func (s *Scene) GetBuildingsOnPath(a, b geom.Coordinate, visitor BuildingVisitor) {
	env := geom.SegmentEnvelope(a, b)
	for _, idx := range s.buildingIdx.Query(env) {
		bld := s.Buildings[idx]
		if !env.Intersects(bld.Envelope()) {
			continue
		}
		if visitor(bld) == VisitStop {
			return
		}
	}
}

// RequireInEnvelope returns a *pathfindererr.OutOfRange error if p lies
// outside the scene envelope, identifying it as `what` (e.g. "receiver")
// with id `id` (spec §7: OutOfRange).
func (s *Scene) RequireInEnvelope(p geom.Coordinate, what, id string) error {
	if !s.Envelope.Contains(p) {
		return &pathfindererr.OutOfRange{What: what, ID: id}
	}
	return nil
}

// IsFreeField reports whether the direct line of sight a->b is
// unobstructed (spec §4.1). Symmetric in a and b (spec §8 invariant 7).
func (s *Scene) IsFreeField(a, b geom.Coordinate) bool {
	return s.GetProfile(a, b, 0).IsFreeField()
}

// String renders a short human-readable scene summary.
func (s *Scene) String() string {
	return fmt.Sprintf("scene{buildings=%d walls=%d ground_regions=%d envelope=%.0fx%.0f}",
		len(s.Buildings), len(s.Walls), len(s.GroundRegions),
		s.Envelope.MaxX-s.Envelope.MinX, s.Envelope.MaxY-s.Envelope.MinY)
}
