// Package mirror builds and validates the tree of image receivers
// produced by successive reflections off building walls (spec §4.5).
// Grounded on the teacher's arena-of-nodes pattern in
// internal/lidar/l5tracks/tracking.go (a flat slice of track nodes
// addressed by index rather than a pointer graph), per Design Note 9.1.
package mirror

import (
	"github.com/banshee-data/soundpath/internal/geom"
	"github.com/banshee-data/soundpath/internal/logging"
	"github.com/banshee-data/soundpath/internal/scene"
)

// noParent marks the root sentinel in a MirrorReceiver arena.
const noParent = -1

// Node is one MirrorReceiver in the arena: an image position produced by
// mirroring across Wall, with Parent an index back into the owning
// Tree.Nodes (noParent at the root). Depth is the reflection order of
// this image.
type Node struct {
	Image  geom.Coordinate
	Parent int
	Wall   *scene.Wall
	Depth  int
}

// Tree is the arena of MirrorReceiver nodes rooted at the true receiver.
// Design Note 9.1: index links instead of a pointer graph, giving cheap
// depth computation and avoiding per-node heap churn.
type Tree struct {
	Nodes []Node
}

// Leaves returns the indices of nodes with no children, i.e. every node
// at the tree's maximum reached depth or with no valid extension. A node
// that has at least one child is not returned, so its shorter chain is
// not traced back by callers that iterate Leaves.
func (t *Tree) Leaves() []int {
	hasChild := make(map[int]bool, len(t.Nodes))
	for i, n := range t.Nodes {
		if n.Parent != noParent {
			hasChild[n.Parent] = true
		}
		_ = i
	}
	var out []int
	for i := range t.Nodes {
		if !hasChild[i] {
			out = append(out, i)
		}
	}
	return out
}

// Build enumerates the mirror-receiver tree for rcv against the wall set
// walls, up to order reflexionOrder, pruning images beyond maxSrcDist of
// src and walls that do not face their parent wall (spec §4.5 steps 1-2).
func Build(src, rcv geom.Coordinate, walls []*scene.Wall, reflexionOrder int, maxSrcDist float64) *Tree {
	t := &Tree{}
	if reflexionOrder <= 0 {
		return t
	}

	// Order 1: mirror rcv across every candidate wall.
	type frontierEntry struct {
		nodeIdx int
		wall    *scene.Wall
	}
	var frontier []frontierEntry

	for _, w := range walls {
		img := mirrorAcrossLine(rcv, w.P0, w.P1)
		if geom.Distance2D(src, img) > maxSrcDist {
			continue
		}
		if !hitsFiniteWall(src, img, w) {
			continue
		}
		t.Nodes = append(t.Nodes, Node{Image: img, Parent: noParent, Wall: w, Depth: 1})
		frontier = append(frontier, frontierEntry{nodeIdx: len(t.Nodes) - 1, wall: w})
	}

	for order := 2; order <= reflexionOrder; order++ {
		var next []frontierEntry
		for _, f := range frontier {
			parentNode := t.Nodes[f.nodeIdx]
			for _, w2 := range walls {
				if w2 == f.wall {
					continue
				}
				if !wallWallTest(f.wall, w2) {
					continue
				}
				img := mirrorAcrossLine(parentNode.Image, w2.P0, w2.P1)
				if geom.Distance2D(src, img) > maxSrcDist {
					continue
				}
				t.Nodes = append(t.Nodes, Node{Image: img, Parent: f.nodeIdx, Wall: w2, Depth: order})
				next = append(next, frontierEntry{nodeIdx: len(t.Nodes) - 1, wall: w2})
			}
		}
		if len(next) == 0 {
			break
		}
		frontier = next
	}

	logging.Tracef("mirror: built tree of %d nodes (order<=%d) for rcv=%v", len(t.Nodes), reflexionOrder, rcv)
	return t
}

// mirrorAcrossLine reflects p across the infinite 2D line a-b, preserving
// p's Z (the mirror operates only in the horizontal plane; z is resolved
// later during trace-back interpolation).
func mirrorAcrossLine(p, a, b geom.Coordinate) geom.Coordinate {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p
	}
	apx, apy := p.X-a.X, p.Y-a.Y
	t := (apx*dx + apy*dy) / lenSq
	projX, projY := a.X+t*dx, a.Y+t*dy
	return geom.Coordinate{X: 2*projX - p.X, Y: 2*projY - p.Y, Z: p.Z}
}

// hitsFiniteWall reports whether the 2D segment a-b crosses w's finite
// extent (as opposed to only its supporting infinite line).
func hitsFiniteWall(a, b geom.Coordinate, w *scene.Wall) bool {
	_, _, ok := geom.SegmentIntersection2D(a, b, w.P0, w.P1)
	return ok
}

// wallWallTest reports whether wall b faces wall a: every endpoint of b
// lies in a's outward half-plane and vice versa (spec §8 invariant 6,
// symmetric). This is the "facing wall" pruning condition of spec §4.5
// step 2.
func wallWallTest(a, b *scene.Wall) bool {
	return facesOutward(a, b) && facesOutward(b, a)
}

func facesOutward(a, b *scene.Wall) bool {
	nx, ny := a.OutwardNormal2D()
	// A point lies on a's outward side iff (p - a.P0) . outwardNormal > 0.
	side := func(p geom.Coordinate) float64 {
		return (p.X-a.P0.X)*nx + (p.Y-a.P0.Y)*ny
	}
	return side(b.P0) > -geom.EpsilonZ && side(b.P1) > -geom.EpsilonZ
}
