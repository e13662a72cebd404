package scene

import (
	"fmt"

	"github.com/banshee-data/soundpath/internal/geom"
	"github.com/banshee-data/soundpath/internal/logging"
	"github.com/banshee-data/soundpath/internal/pathfindererr"
	"github.com/google/uuid"
)

// Builder accumulates scene geometry before it is frozen into an
// immutable, indexed Scene (spec §6: "A builder accepts ... tuples ...
// After finish(envelope) the scene is immutable"). Malformed geometry is
// logged and skipped rather than aborting the whole build (spec §7:
// InvalidGeometry).
type Builder struct {
	buildings     []*Building
	groundRegions []*GroundRegion
	terrain       *Terrain
}

// NewBuilder returns an empty scene Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddBuilding adds a building footprint, roof altitude, and per-band
// absorption spectrum. Degenerate polygons (fewer than 3 vertices, or
// zero signed area) are rejected with *pathfindererr.InvalidGeometry and
// not added.
func (bld *Builder) AddBuilding(footprint []geom.Coordinate, roofZ float64, absorption []float64) (string, error) {
	if len(footprint) < 3 {
		err := &pathfindererr.InvalidGeometry{Element: "building", Reason: "footprint has fewer than 3 vertices"}
		logging.Opsf("scene: %v", err)
		return "", err
	}
	ring := geom.EnsureCCW(footprint)
	if geom.SignedArea2D(ring) == 0 {
		err := &pathfindererr.InvalidGeometry{Element: "building", Reason: "degenerate (zero-area) footprint"}
		logging.Opsf("scene: %v", err)
		return "", err
	}
	id := uuid.NewString()
	bld.buildings = append(bld.buildings, &Building{
		ID: id, Footprint: ring, RoofZ: roofZ, Absorption: absorption,
	})
	return id, nil
}

// AddGroundRegion adds a ground-absorption region polygon with class G.
func (bld *Builder) AddGroundRegion(ring []geom.Coordinate, g float64) (string, error) {
	if len(ring) < 3 {
		err := &pathfindererr.InvalidGeometry{Element: "ground region", Reason: "ring has fewer than 3 vertices"}
		logging.Opsf("scene: %v", err)
		return "", err
	}
	if g < 0 || g > 1 {
		err := &pathfindererr.InvalidGeometry{Element: "ground region", Reason: fmt.Sprintf("G=%v outside [0,1]", g)}
		logging.Opsf("scene: %v", err)
		return "", err
	}
	id := uuid.NewString()
	bld.groundRegions = append(bld.groundRegions, &GroundRegion{ID: id, Ring: geom.EnsureCCW(ring), G: g})
	return id, nil
}

// SetTerrain installs the triangulated terrain. vertices carry altitude
// in Z; triangles and neighbors are parallel per-triangle-edge arrays
// (spec §6: "vertices with altitude + triangle index triples + per-
// triangle neighbor ids").
func (bld *Builder) SetTerrain(vertices []geom.Coordinate, triangles [][3]int, neighbors [][3]int) error {
	if len(triangles) != len(neighbors) {
		return &pathfindererr.InvalidGeometry{Element: "terrain", Reason: "triangle/neighbor array length mismatch"}
	}
	tris := make([]Triangle, len(triangles))
	for i := range triangles {
		tris[i] = Triangle{V: triangles[i], Neighbor: neighbors[i]}
	}
	bld.terrain = &Terrain{Vertices: vertices, Triangles: tris}
	return nil
}

// Finish freezes the accumulated geometry into an immutable, indexed
// Scene bounded by envelope.
func (bld *Builder) Finish(envelope geom.Envelope) (*Scene, error) {
	s := &Scene{
		Envelope:      envelope,
		Buildings:     bld.buildings,
		GroundRegions: bld.groundRegions,
		Terrain:       bld.terrain,
		buildingsByID: make(map[string]*Building, len(bld.buildings)),
	}

	s.buildingIdx = newGridIndex(defaultCellSize(envelope))
	for i, b := range s.Buildings {
		s.buildingsByID[b.ID] = b
		s.buildingIdx.Insert(i, b.Envelope())
		// Precomputed here, once, so the scheduler's per-receiver worker
		// goroutines (internal/scheduler) can read DefaultWideAngleCorners
		// off a shared *Building concurrently without a lock.
		b.wideCorners = b.WideAngleCorners(geom.DefaultWideAngleMin, geom.DefaultWideAngleMax)

		ring := b.Footprint
		n := len(ring)
		for e := 0; e < n; e++ {
			s.Walls = append(s.Walls, &Wall{
				ID:         fmt.Sprintf("%s/w%d", b.ID, e),
				BuildingID: b.ID,
				P0:         ring[e],
				P1:         ring[(e+1)%n],
				TopZ:       b.RoofZ,
				Absorption: b.Absorption,
			})
		}
	}

	s.wallIdx = newGridIndex(defaultCellSize(envelope))
	for i, w := range s.Walls {
		s.wallIdx.Insert(i, geom.SegmentEnvelope(w.P0, w.P1))
	}

	s.groundIdx = newGridIndex(defaultCellSize(envelope))
	for i, g := range s.GroundRegions {
		s.groundIdx.Insert(i, g.Envelope())
	}

	return s, nil
}

func defaultCellSize(env geom.Envelope) float64 {
	width := env.MaxX - env.MinX
	height := env.MaxY - env.MinY
	span := width
	if height > span {
		span = height
	}
	if span <= 0 {
		return 50
	}
	// Aim for roughly a 32x32 cell grid, matching the teacher's
	// EstimatedPointsPerCell sizing heuristic in internal/lidar/clustering.go.
	cell := span / 32
	if cell < 1 {
		cell = 1
	}
	return cell
}
