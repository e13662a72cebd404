// Package cutprofile defines the CutProfile data model (spec §3, §4.1):
// the ordered sequence of classified intersection points a 2D probe
// segment collects as it crosses the scene. The types here are pure data
// — the query algorithm that populates them lives in package scene,
// which is the only thing that can walk the building/terrain/ground
// indices. Keeping the two separate avoids an import cycle and mirrors
// the teacher's separation of point-cloud value types (l4perception)
// from the stages that produce them (pipeline).
package cutprofile

import (
	"sort"

	"github.com/banshee-data/soundpath/internal/geom"
	"gonum.org/v1/gonum/stat"
)

// Kind classifies a CutPoint.
type Kind int

const (
	KindSource Kind = iota
	KindReceiver
	KindBuildingWall
	KindTopography
	KindGroundEffect
)

// CutPoint is one classified intersection along a source->receiver probe.
type CutPoint struct {
	Kind       Kind
	Coord      geom.Coordinate
	Distance   float64 // parametric distance from source, in [0,1]
	BuildingID string  // set for KindBuildingWall
	WallID     string  // set for KindBuildingWall
	GBefore    float64 // set for KindGroundEffect: ground factor on the source side
	GAfter     float64 // set for KindGroundEffect: ground factor on the receiver side
}

// CutProfile is the ordered list of CutPoints between a source and a
// receiver (spec §3). Invariant: first point is KindSource, last is
// KindReceiver, sorted by Distance.
type CutProfile struct {
	Source   geom.Coordinate
	Receiver geom.Coordinate
	Points   []CutPoint
}

// SortAndMerge sorts points by parametric Distance and merges adjacent
// entries of the same Kind that coincide within geom.EpsilonCoincidence2D
// (spec §4.1 step 3 tie-break), keeping the earlier point's metadata.
// Coincident points of different kinds are all kept.
func (p *CutProfile) SortAndMerge() {
	sort.SliceStable(p.Points, func(i, j int) bool {
		return p.Points[i].Distance < p.Points[j].Distance
	})
	if len(p.Points) < 2 {
		return
	}
	merged := p.Points[:1]
	for _, cur := range p.Points[1:] {
		last := &merged[len(merged)-1]
		if cur.Coord.Equal2D(last.Coord) && cur.Kind == last.Kind {
			continue
		}
		merged = append(merged, cur)
	}
	p.Points = merged
}

// HasBuildingWall reports whether the profile crosses any wall.
func (p *CutProfile) HasBuildingWall() bool {
	for _, pt := range p.Points {
		if pt.Kind == KindBuildingWall {
			return true
		}
	}
	return false
}

// IsFreeField reports whether the profile contains no BUILDING_WALL point
// and every TOPOGRAPHY point lies at or below the straight sight line
// from source to receiver at its parameter (spec §4.1).
func (p *CutProfile) IsFreeField() bool {
	if p.HasBuildingWall() {
		return false
	}
	for _, pt := range p.Points {
		if pt.Kind != KindTopography {
			continue
		}
		sightZ := geom.InterpolateZAt(p.Source, p.Receiver, pt.Distance)
		if pt.Coord.Z > sightZ+geom.EpsilonZ {
			return false
		}
	}
	return true
}

// GroundFactorBetween returns the 2D-length-weighted ground factor of
// the sub-segment [a,b] (both given as parametric distances in the same
// [0,1] frame as the profile), derived from the GROUND_EFFECT crossings
// that fall within that range (spec §4.1 step 5, §4.3: "segment G equals
// the 2D-length-weighted ground factor"). Uses gonum/stat for the
// weighted mean, mirroring internal/db/db.go's gonum.org/v1/gonum/stat
// usage in the teacher.
func (p *CutProfile) GroundFactorBetween(tFrom, tTo, defaultG float64) float64 {
	if tTo < tFrom {
		tFrom, tTo = tTo, tFrom
	}
	total := geom.Distance2D(p.Source, p.Receiver) * (tTo - tFrom)
	if total <= 0 {
		return defaultG
	}

	type span struct {
		g      float64
		length float64
	}
	var spans []span
	cursor := tFrom
	currentG := defaultG

	for _, pt := range p.Points {
		if pt.Kind != KindGroundEffect {
			continue
		}
		if pt.Distance <= tFrom || pt.Distance >= tTo {
			if pt.Distance <= tFrom {
				currentG = pt.GAfter
			}
			continue
		}
		segLen := geom.Distance2D(p.Source, p.Receiver) * (pt.Distance - cursor)
		spans = append(spans, span{g: currentG, length: segLen})
		currentG = pt.GAfter
		cursor = pt.Distance
	}
	segLen := geom.Distance2D(p.Source, p.Receiver) * (tTo - cursor)
	spans = append(spans, span{g: currentG, length: segLen})

	if len(spans) == 1 {
		return spans[0].g
	}
	values := make([]float64, len(spans))
	weights := make([]float64, len(spans))
	for i, s := range spans {
		values[i] = s.g
		weights[i] = s.length
	}
	return stat.Mean(values, weights)
}
