package scene

import "github.com/banshee-data/soundpath/internal/geom"

// gridIndex is a regular-grid spatial index over bounding envelopes,
// grounded directly on the teacher's SpatialIndex in
// internal/lidar/clustering.go ("Grid map[int64][]int // Cell ID -> point
// indices"). It stands in for the R-tree spec §2 describes: both give
// sub-linear candidate filtering by bucketing on an axis-aligned key, and
// the pack carries no R-tree library to ground one on instead.
type gridIndex struct {
	cellSize float64
	cells    map[int64][]int
}

func newGridIndex(cellSize float64) *gridIndex {
	if cellSize <= 0 {
		cellSize = 50
	}
	return &gridIndex{cellSize: cellSize, cells: make(map[int64][]int)}
}

func (g *gridIndex) cellCoord(x, y float64) (int64, int64) {
	return int64(x / g.cellSize), int64(y / g.cellSize)
}

func cellKey(cx, cy int64) int64 {
	// Pack into 64 bits; scenes are bounded well within int32 cell range.
	return (cx << 32) ^ (cy & 0xffffffff)
}

func (g *gridIndex) Insert(id int, env geom.Envelope) {
	minCX, minCY := g.cellCoord(env.MinX, env.MinY)
	maxCX, maxCY := g.cellCoord(env.MaxX, env.MaxY)
	for cx := minCX; cx <= maxCX; cx++ {
		for cy := minCY; cy <= maxCY; cy++ {
			key := cellKey(cx, cy)
			g.cells[key] = append(g.cells[key], id)
		}
	}
}

// Query returns the distinct item ids whose inserted envelope's cells
// overlap env. Callers must still intersection-test the candidates.
func (g *gridIndex) Query(env geom.Envelope) []int {
	minCX, minCY := g.cellCoord(env.MinX, env.MinY)
	maxCX, maxCY := g.cellCoord(env.MaxX, env.MaxY)

	seen := make(map[int]struct{})
	var out []int
	for cx := minCX; cx <= maxCX; cx++ {
		for cy := minCY; cy <= maxCY; cy++ {
			for _, id := range g.cells[cellKey(cx, cy)] {
				if _, ok := seen[id]; ok {
					continue
				}
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
	}
	return out
}
