// Package scene stores the immutable buildings, terrain, and ground
// regions of a 2.5D urban scene and exposes the cut-profile query
// contract (spec §4.1). Indexing is a cell-grid spatial index grounded
// on the teacher's internal/lidar/clustering.go SpatialIndex (a regular
// grid keyed by cell id, storing item indices per cell) — the same shape
// as an R-tree's coarse bucketing without pulling in an R-tree library
// the pack never uses.
package scene

import "github.com/banshee-data/soundpath/internal/geom"

// Wall is an oriented vertical segment bounding a Building, spec §3.
// Vertices are wound counter-clockwise around the building exterior so
// that the "outside" of the wall is consistently determined.
type Wall struct {
	ID         string
	BuildingID string
	P0, P1     geom.Coordinate // 2D footprint edge endpoints (Z ignored)
	TopZ       float64
	Absorption []float64
}

// OutwardNormal2D returns the unit outward-facing 2D normal of the wall
// (to the right of P0->P1, consistent with a CCW-wound exterior ring).
func (w Wall) OutwardNormal2D() (nx, ny float64) {
	dx, dy := w.P1.X-w.P0.X, w.P1.Y-w.P0.Y
	length := geom.Distance2D(w.P0, w.P1)
	if length == 0 {
		return 0, 0
	}
	// Right-hand perpendicular of (dx,dy) is (dy,-dx); for a CCW ring
	// this points outward.
	return dy / length, -dx / length
}

// Building is a footprint polygon with a roof altitude and an absorption
// spectrum (spec §3). Footprint is CCW-wound.
type Building struct {
	ID         string
	Footprint  []geom.Coordinate
	RoofZ      float64
	Absorption []float64

	wideCorners []geom.Coordinate // default-angle wide corners, set once by Builder.Finish
}

// WideAngleCorners returns the footprint vertices whose exterior interior
// angle lies in (minAngle, maxAngle) — candidate vertical-edge diffraction
// corners (spec §3).
func (b *Building) WideAngleCorners(minAngle, maxAngle float64) []geom.Coordinate {
	idx := geom.WideAngleCorners(b.Footprint, minAngle, maxAngle)
	out := make([]geom.Coordinate, len(idx))
	for i, ix := range idx {
		out[i] = b.Footprint[ix]
	}
	return out
}

// DefaultWideAngleCorners returns WideAngleCorners using spec §3's
// default bounds. The result is precomputed once by Builder.Finish before
// the Scene is handed to concurrent readers, so this is a plain field
// read with no lazy-init write (scene data is immutable once built).
func (b *Building) DefaultWideAngleCorners() []geom.Coordinate {
	return b.wideCorners
}

// Envelope returns the building footprint's bounding envelope.
func (b *Building) Envelope() geom.Envelope {
	return geom.EnvelopeOf(b.Footprint)
}

// GroundRegion is a polygon with an absorption class G in [0,1] (spec §3).
type GroundRegion struct {
	ID   string
	Ring []geom.Coordinate
	G    float64
}

func (g *GroundRegion) Envelope() geom.Envelope {
	return geom.EnvelopeOf(g.Ring)
}

// Triangle is one terrain facet: three vertex indices and, per edge, the
// index of the neighboring triangle sharing that edge (-1 at the terrain
// boundary).
type Triangle struct {
	V        [3]int
	Neighbor [3]int
}

// Terrain is a Delaunay triangulation with per-vertex altitude.
type Terrain struct {
	Vertices  []geom.Coordinate // Z holds altitude
	Triangles []Triangle
}
