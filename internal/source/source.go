// Package source holds the noise-source catalog and the per-receiver
// source iteration of spec §4.6: search-envelope lookup, line-source
// discretization into weighted point sources, and descending-power
// ordering for early stopping.
package source

import "github.com/banshee-data/soundpath/internal/geom"

// Kind distinguishes the three supported source geometry types (spec §7:
// "source type not in {Point, LineString, MultiLineString}" is rejected
// as InvalidGeometry).
type Kind int

const (
	KindPoint Kind = iota
	KindLineString
	KindMultiLineString
)

// Source is one noise-emitting geometry with a per-frequency-band power
// spectrum. For KindPoint, Lines holds a single one-element slice; for
// KindLineString a single multi-point slice; for KindMultiLineString one
// slice per constituent line.
type Source struct {
	ID    string
	Kind  Kind
	Lines [][]geom.Coordinate
	Power []float64 // per freq_lvl band, total emitted power
}

// Envelope returns the 2D bounding envelope of every vertex in the source.
func (s *Source) Envelope() geom.Envelope {
	var pts []geom.Coordinate
	for _, line := range s.Lines {
		pts = append(pts, line...)
	}
	return geom.EnvelopeOf(pts)
}

// PointSource is one discretized emission point ready for path search: a
// position, its scaled power spectrum, and the line-density coefficient
// li used to scale it (spec §4.6; li = 1 for a true Point source).
type PointSource struct {
	SourceID string
	Coord    geom.Coordinate
	Power    []float64
	Li       float64
}
