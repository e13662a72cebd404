package geom

import "sort"

// ConvexHull2D returns the 2D convex hull of the given points using
// Andrew's monotone chain algorithm, wound counter-clockwise, with
// collinear boundary points removed. Points are compared by (X, Y) only.
func ConvexHull2D(points []Coordinate) []Coordinate {
	pts := uniqueSorted(points)
	n := len(pts)
	if n < 3 {
		return pts
	}

	hull := make([]Coordinate, 0, 2*n)

	// Lower hull.
	for _, p := range pts {
		for len(hull) >= 2 && Cross2D(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	// Upper hull.
	lower := len(hull) + 1
	for i := n - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && Cross2D(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	return hull[:len(hull)-1]
}

func uniqueSorted(points []Coordinate) []Coordinate {
	pts := make([]Coordinate, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})
	out := pts[:0:0]
	for i, p := range pts {
		if i > 0 && p.Equal2D(pts[i-1]) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Perimeter2D returns the total 2D length of the closed polyline hull.
func Perimeter2D(hull []Coordinate) float64 {
	n := len(hull)
	if n < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i < n; i++ {
		total += Distance2D(hull[i], hull[(i+1)%n])
	}
	return total
}

// IndexOf2D returns the index of the first point in hull that coincides
// with p within EpsilonCoincidence2D, or -1.
func IndexOf2D(hull []Coordinate, p Coordinate) int {
	for i, h := range hull {
		if h.Equal2D(p) {
			return i
		}
	}
	return -1
}
