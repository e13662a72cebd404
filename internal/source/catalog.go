package source

import "github.com/banshee-data/soundpath/internal/geom"

// Catalog is the immutable, indexed set of noise sources, queried once
// per receiver against a ± maxSrcDist search envelope (spec §4.6).
// Indexing follows the same cell-grid pattern as internal/scene's
// gridIndex, grounded on the teacher's internal/lidar/clustering.go
// SpatialIndex.
type Catalog struct {
	Sources []*Source

	cellSize float64
	cells    map[int64][]int
}

// NewCatalog builds a Catalog over sources, bucketed by a cell size
// derived from the combined envelope of every source.
func NewCatalog(sources []*Source) *Catalog {
	c := &Catalog{Sources: sources, cells: make(map[int64][]int)}

	var env geom.Envelope
	first := true
	for _, s := range sources {
		e := s.Envelope()
		if first {
			env = e
			first = false
			continue
		}
		env = env.ExpandPoint(geom.Coordinate{X: e.MinX, Y: e.MinY}).ExpandPoint(geom.Coordinate{X: e.MaxX, Y: e.MaxY})
	}
	c.cellSize = cellSizeFor(env)

	for i, s := range sources {
		c.insert(i, s.Envelope())
	}
	return c
}

func cellSizeFor(env geom.Envelope) float64 {
	span := env.MaxX - env.MinX
	if h := env.MaxY - env.MinY; h > span {
		span = h
	}
	if span <= 0 {
		return 50
	}
	cell := span / 32
	if cell < 1 {
		cell = 1
	}
	return cell
}

func (c *Catalog) cellCoord(x, y float64) (int64, int64) {
	return int64(x / c.cellSize), int64(y / c.cellSize)
}

func (c *Catalog) cellKey(cx, cy int64) int64 {
	return (cx << 32) ^ (cy & 0xffffffff)
}

func (c *Catalog) insert(idx int, env geom.Envelope) {
	minCX, minCY := c.cellCoord(env.MinX, env.MinY)
	maxCX, maxCY := c.cellCoord(env.MaxX, env.MaxY)
	for cx := minCX; cx <= maxCX; cx++ {
		for cy := minCY; cy <= maxCY; cy++ {
			key := c.cellKey(cx, cy)
			c.cells[key] = append(c.cells[key], idx)
		}
	}
}

// Near returns every source whose envelope intersects the square search
// envelope of half-width maxSrcDist centered on rcv (spec §4.6).
func (c *Catalog) Near(rcv geom.Coordinate, maxSrcDist float64) []*Source {
	env := geom.Envelope{
		MinX: rcv.X - maxSrcDist, MaxX: rcv.X + maxSrcDist,
		MinY: rcv.Y - maxSrcDist, MaxY: rcv.Y + maxSrcDist,
	}
	minCX, minCY := c.cellCoord(env.MinX, env.MinY)
	maxCX, maxCY := c.cellCoord(env.MaxX, env.MaxY)

	seen := make(map[int]struct{})
	var out []*Source
	for cx := minCX; cx <= maxCX; cx++ {
		for cy := minCY; cy <= maxCY; cy++ {
			for _, idx := range c.cells[c.cellKey(cx, cy)] {
				if _, ok := seen[idx]; ok {
					continue
				}
				seen[idx] = struct{}{}
				s := c.Sources[idx]
				if env.Intersects(s.Envelope()) {
					out = append(out, s)
				}
			}
		}
	}
	return out
}
