package source

import (
	"fmt"
	"sort"

	"github.com/banshee-data/soundpath/internal/geom"
	"github.com/banshee-data/soundpath/internal/logging"
	"github.com/banshee-data/soundpath/internal/pathfindererr"
)

// Discretize expands s into the point sources used by the path search:
// a Point source yields itself with li=1; a LineString or
// MultiLineString is split at spacing delta <= max(1, d_rcv/2), the
// first emitted point being the projected nearest point on the line to
// rcv, with li the mean inter-point spacing used to scale each point's
// power (spec §4.6).
func Discretize(s *Source, rcv geom.Coordinate) []PointSource {
	switch s.Kind {
	case KindPoint:
		if len(s.Lines) == 0 || len(s.Lines[0]) == 0 {
			return nil
		}
		return []PointSource{{SourceID: s.ID, Coord: s.Lines[0][0], Power: s.Power, Li: 1}}
	case KindLineString:
		if len(s.Lines) == 0 {
			return nil
		}
		return discretizeLine(s, s.Lines[0], rcv)
	case KindMultiLineString:
		var out []PointSource
		for _, line := range s.Lines {
			out = append(out, discretizeLine(s, line, rcv)...)
		}
		return out
	default:
		err := &pathfindererr.InvalidGeometry{Element: "source " + s.ID, Reason: fmt.Sprintf("unsupported kind %d", s.Kind)}
		logging.Opsf("source: %v", err)
		return nil
	}
}

func discretizeLine(s *Source, line []geom.Coordinate, rcv geom.Coordinate) []PointSource {
	if len(line) < 2 {
		return nil
	}
	total := polylineLength(line)
	if total == 0 {
		return []PointSource{{SourceID: s.ID, Coord: line[0], Power: s.Power, Li: 1}}
	}

	_, nearestDist := nearestPointOnPolyline(line, rcv)
	dRcv := geom.Distance3D(rcv, pointAtDistance(line, nearestDist))
	delta := dRcv / 2
	if delta < 1 {
		delta = 1
	}

	positions := []float64{nearestDist}
	for d := nearestDist - delta; d > 0; d -= delta {
		positions = append(positions, d)
	}
	for d := nearestDist + delta; d < total; d += delta {
		positions = append(positions, d)
	}

	li := total / float64(len(positions))
	points := make([]PointSource, 0, len(positions))
	for _, d := range positions {
		scaled := make([]float64, len(s.Power))
		for i, p := range s.Power {
			scaled[i] = p * li
		}
		points = append(points, PointSource{SourceID: s.ID, Coord: pointAtDistance(line, d), Power: scaled, Li: li})
	}
	return points
}

func polylineLength(line []geom.Coordinate) float64 {
	total := 0.0
	for i := 0; i+1 < len(line); i++ {
		total += geom.Distance3D(line[i], line[i+1])
	}
	return total
}

// nearestPointOnPolyline returns the closest point on the polyline to p
// (2D projection, as the line lies on the ground) and its distance along
// the line from line[0].
func nearestPointOnPolyline(line []geom.Coordinate, p geom.Coordinate) (geom.Coordinate, float64) {
	bestDist2D := -1.0
	var bestCoord geom.Coordinate
	bestAlong := 0.0
	cursor := 0.0

	for i := 0; i+1 < len(line); i++ {
		a, b := line[i], line[i+1]
		segLen := geom.Distance3D(a, b)
		t := geom.ParamOnSegment2D(a, b, p)
		if t < 0 {
			t = 0
		}
		if t > 1 {
			t = 1
		}
		proj := geom.Lerp(a, b, t)
		d := geom.Distance2D(proj, p)
		if bestDist2D < 0 || d < bestDist2D {
			bestDist2D = d
			bestCoord = proj
			bestAlong = cursor + t*segLen
		}
		cursor += segLen
	}
	return bestCoord, bestAlong
}

// pointAtDistance returns the point at arc-length distance d along line
// (clamped to [0, total length]), interpolating Z.
func pointAtDistance(line []geom.Coordinate, d float64) geom.Coordinate {
	if d <= 0 {
		return line[0]
	}
	cursor := 0.0
	for i := 0; i+1 < len(line); i++ {
		a, b := line[i], line[i+1]
		segLen := geom.Distance3D(a, b)
		if d <= cursor+segLen || i+2 == len(line) {
			if segLen == 0 {
				return a
			}
			t := (d - cursor) / segLen
			if t > 1 {
				t = 1
			}
			if t < 0 {
				t = 0
			}
			return geom.Lerp(a, b, t)
		}
		cursor += segLen
	}
	return line[len(line)-1]
}

// WeightOf approximates a point source's contribution to the receiver as
// its total band power attenuated by spherical geometric divergence
// (1/d²), the ordering criterion spec §4.6 sorts by.
func WeightOf(ps PointSource, rcv geom.Coordinate) float64 {
	d := geom.Distance3D(ps.Coord, rcv)
	if d < 1 {
		d = 1
	}
	total := 0.0
	for _, p := range ps.Power {
		total += p
	}
	return total / (d * d)
}

// OrderByDescendingWeight sorts points by descending WeightOf, the order
// required before applying EarlyStopIndex (spec §4.6, §5 "for one
// receiver, sources are visited in descending power order").
func OrderByDescendingWeight(points []PointSource, rcv geom.Coordinate) []PointSource {
	sort.SliceStable(points, func(i, j int) bool {
		return WeightOf(points[i], rcv) > WeightOf(points[j], rcv)
	})
	return points
}

// EarlyStopIndex returns the count of leading (highest-weight) points
// that must be processed before the remaining cumulative weight share
// drops below maximumError, given points already sorted by descending
// weight (spec §4.6: "sorted by descending weight to allow early
// stopping when a cumulative remaining-power bound falls below the
// configured maximumError threshold").
func EarlyStopIndex(points []PointSource, rcv geom.Coordinate, maximumError float64) int {
	if len(points) == 0 {
		return 0
	}
	weights := make([]float64, len(points))
	total := 0.0
	for i, p := range points {
		weights[i] = WeightOf(p, rcv)
		total += weights[i]
	}
	if total <= 0 {
		return len(points)
	}
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		remaining := total - cumulative
		if remaining/total < maximumError {
			return i + 1
		}
	}
	return len(points)
}
