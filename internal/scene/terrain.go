package scene

import "github.com/banshee-data/soundpath/internal/geom"

// AltitudeAt returns the terrain altitude at (x,y) by locating the
// containing triangle and interpolating barycentrically, or false if the
// point lies outside the triangulated extent.
func (t *Terrain) AltitudeAt(p geom.Coordinate) (float64, bool) {
	idx := t.locate(p)
	if idx < 0 {
		return 0, false
	}
	tri := t.Triangles[idx]
	z, ok := t.barycentricZ(tri, p)
	return z, ok
}

func (t *Terrain) locate(p geom.Coordinate) int {
	for i, tri := range t.Triangles {
		if t.contains(tri, p) {
			return i
		}
	}
	return -1
}

func (t *Terrain) contains(tri Triangle, p geom.Coordinate) bool {
	a, b, c := t.Vertices[tri.V[0]], t.Vertices[tri.V[1]], t.Vertices[tri.V[2]]
	d1 := geom.Cross2D(a, b, p)
	d2 := geom.Cross2D(b, c, p)
	d3 := geom.Cross2D(c, a, p)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

func (t *Terrain) barycentricZ(tri Triangle, p geom.Coordinate) (float64, bool) {
	a, b, c := t.Vertices[tri.V[0]], t.Vertices[tri.V[1]], t.Vertices[tri.V[2]]
	denom := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	if denom == 0 {
		return 0, false
	}
	w1 := ((b.Y-c.Y)*(p.X-c.X) + (c.X-b.X)*(p.Y-c.Y)) / denom
	w2 := ((c.Y-a.Y)*(p.X-c.X) + (a.X-c.X)*(p.Y-c.Y)) / denom
	w3 := 1 - w1 - w2
	return w1*a.Z + w2*b.Z + w3*c.Z, true
}

// edgeVerts returns the two vertex coordinates bounding edge index e
// (0: V0-V1, 1: V1-V2, 2: V2-V0) of tri.
func (t *Terrain) edgeVerts(tri Triangle, e int) (geom.Coordinate, geom.Coordinate) {
	i0, i1 := e, (e+1)%3
	return t.Vertices[tri.V[i0]], t.Vertices[tri.V[i1]]
}

// Crossings walks the triangle neighbor links from the triangle
// containing a to the one containing b, returning the ordered list of
// edge crossings with Z interpolated on the crossed edge (spec §4.1 step
// 3: "walk triangle edges crossed by the segment using neighbor links").
// If the segment exits the triangulated extent the walk stops there;
// there is no terrain contribution beyond the boundary.
func (t *Terrain) Crossings(a, b geom.Coordinate) []geom.Coordinate {
	if len(t.Triangles) == 0 {
		return nil
	}
	start := t.locate(a)
	if start < 0 {
		return nil
	}

	var out []geom.Coordinate
	current := start
	enteredEdge := -1
	visited := make(map[int]bool)

	for steps := 0; steps < len(t.Triangles)+1; steps++ {
		if visited[current] {
			break // defensive: a well-formed triangulation never revisits on a straight walk
		}
		visited[current] = true
		tri := t.Triangles[current]

		if t.contains(tri, b) {
			break
		}

		crossedEdge := -1
		var crossPoint geom.Coordinate
		bestT := -1.0
		for e := 0; e < 3; e++ {
			if e == enteredEdge {
				continue
			}
			ev0, ev1 := t.edgeVerts(tri, e)
			pt, segT, ok := geom.SegmentIntersection2D(a, b, ev0, ev1)
			if !ok {
				continue
			}
			if segT <= bestT {
				continue
			}
			// Interpolate Z on the crossed terrain edge, not on a-b.
			edgeT := geom.ParamOnSegment2D(ev0, ev1, pt)
			z := geom.InterpolateZAt(ev0, ev1, clamp01(edgeT))
			crossedEdge = e
			crossPoint = geom.Coordinate{X: pt.X, Y: pt.Y, Z: z}
			bestT = segT
		}
		if crossedEdge < 0 {
			break
		}
		out = append(out, crossPoint)

		next := tri.Neighbor[crossedEdge]
		if next < 0 {
			break // left the triangulated extent
		}
		// Figure out which edge of `next` corresponds to the shared edge
		// so we don't immediately re-cross it.
		enteredEdge = sharedEdgeIndex(t.Triangles[next], tri.V[crossedEdge], tri.V[(crossedEdge+1)%3])
		current = next
	}
	return out
}

func sharedEdgeIndex(tri Triangle, v0, v1 int) int {
	for e := 0; e < 3; e++ {
		a, b := tri.V[e], tri.V[(e+1)%3]
		if (a == v0 && b == v1) || (a == v1 && b == v0) {
			return e
		}
	}
	return -1
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
