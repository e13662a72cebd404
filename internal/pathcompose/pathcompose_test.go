package pathcompose

import (
	"testing"

	"github.com/banshee-data/soundpath/internal/config"
	"github.com/banshee-data/soundpath/internal/geom"
	"github.com/banshee-data/soundpath/internal/scene"
)

func resolvedConfig(t *testing.T) *config.Resolved {
	t.Helper()
	r, err := config.Defaults().Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return r
}

func flatScene(t *testing.T) *scene.Scene {
	t.Helper()
	b := scene.NewBuilder()
	sc, err := b.Finish(geom.Envelope{MinX: -50, MinY: -50, MaxX: 50, MaxY: 50})
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	return sc
}

// S1: no obstacle, zero reflection/diffraction search - exactly one direct
// SOURCE->RECEIVER path.
func TestComposeNoObstacleReturnsDirectPathOnly(t *testing.T) {
	sc := flatScene(t)
	cfg := resolvedConfig(t)
	cfg.ReflexionOrder = 0
	src := geom.Coordinate{X: 0, Y: 0, Z: 1}
	rcv := geom.Coordinate{X: 30, Y: 0, Z: 1}

	paths := Compose(sc, cfg, src, rcv, "s1", "r1", true)
	if len(paths) != 1 {
		t.Fatalf("expected exactly 1 direct path, got %d", len(paths))
	}
	p := paths[0]
	if p.ReflexionOrder != 0 {
		t.Fatalf("direct path should have zero reflections")
	}
	if len(p.Points) != 2 {
		t.Fatalf("direct path should have exactly SOURCE and RECEIVER, got %d points", len(p.Points))
	}
	if !p.Favourable {
		t.Fatalf("expected the favourable flag to be stamped onto the emitted path")
	}
}

func singleWallScene(t *testing.T) *scene.Scene {
	t.Helper()
	b := scene.NewBuilder()
	if _, err := b.AddBuilding([]geom.Coordinate{
		{X: 10, Y: -5}, {X: 20, Y: -5}, {X: 20, Y: 5}, {X: 10, Y: 5},
	}, 8, []float64{0.1, 0.1, 0.1, 0.1}); err != nil {
		t.Fatalf("AddBuilding: %v", err)
	}
	sc, err := b.Finish(geom.Envelope{MinX: -20, MinY: -20, MaxX: 50, MaxY: 20})
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	return sc
}

// S2/S5: an obstructed sight line with both diffraction modes enabled and
// reflection search disabled should produce at least one diffraction path,
// and every emitted path must be internally valid.
func TestComposeObstructedSightLineProducesValidDiffractionPaths(t *testing.T) {
	sc := singleWallScene(t)
	cfg := resolvedConfig(t)
	cfg.ReflexionOrder = 0
	src := geom.Coordinate{X: 0, Y: 0, Z: 1}
	rcv := geom.Coordinate{X: 30, Y: 0, Z: 1}

	paths := Compose(sc, cfg, src, rcv, "s1", "r1", false)
	if len(paths) == 0 {
		t.Fatalf("expected at least one diffraction path around/over the building")
	}
	for _, p := range paths {
		if err := p.Validate(); err != nil {
			t.Fatalf("every emitted path must validate: %v", err)
		}
		if p.Favourable {
			t.Fatalf("expected the favourable flag false as passed in")
		}
	}
}

func TestComposeDisablingDiffractionModesSuppressesThem(t *testing.T) {
	sc := singleWallScene(t)
	cfg := resolvedConfig(t)
	cfg.ReflexionOrder = 0
	cfg.ComputeHorizontalDiffraction = false
	cfg.ComputeVerticalDiffraction = false
	src := geom.Coordinate{X: 0, Y: 0, Z: 1}
	rcv := geom.Coordinate{X: 30, Y: 0, Z: 1}

	paths := Compose(sc, cfg, src, rcv, "s1", "r1", true)
	if len(paths) != 0 {
		t.Fatalf("expected no candidate paths with both diffraction modes disabled and an obstructed line, got %d", len(paths))
	}
}

func twoFlankingBuildingsScene(t *testing.T) *scene.Scene {
	t.Helper()
	b := scene.NewBuilder()
	absorption := []float64{0.1, 0.1, 0.1, 0.1}
	if _, err := b.AddBuilding([]geom.Coordinate{
		{X: 8, Y: 2}, {X: 12, Y: 2}, {X: 12, Y: 6}, {X: 8, Y: 6},
	}, 6, absorption); err != nil {
		t.Fatalf("AddBuilding A: %v", err)
	}
	if _, err := b.AddBuilding([]geom.Coordinate{
		{X: 18, Y: -6}, {X: 22, Y: -6}, {X: 22, Y: -2}, {X: 18, Y: -2},
	}, 6, absorption); err != nil {
		t.Fatalf("AddBuilding B: %v", err)
	}
	sc, err := b.Finish(geom.Envelope{MinX: -20, MinY: -20, MaxX: 50, MaxY: 20})
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	return sc
}

// S2/S3: reflection search with buildings nearby should never emit a
// chain whose counted reflection order exceeds the configured bound.
func TestComposeReflectionOrderNeverExceedsConfiguredBound(t *testing.T) {
	sc := twoFlankingBuildingsScene(t)
	cfg := resolvedConfig(t)
	cfg.ReflexionOrder = 2
	cfg.ComputeHorizontalDiffraction = false
	cfg.ComputeVerticalDiffraction = false
	src := geom.Coordinate{X: 0, Y: 4, Z: 1}
	rcv := geom.Coordinate{X: 30, Y: 4, Z: 1}

	paths := Compose(sc, cfg, src, rcv, "s1", "r1", true)
	for _, p := range paths {
		if p.ReflexionOrder > cfg.ReflexionOrder {
			t.Fatalf("found a path with reflection order %d exceeding configured bound %d", p.ReflexionOrder, cfg.ReflexionOrder)
		}
		if err := p.Validate(); err != nil {
			t.Fatalf("emitted reflection path must validate: %v", err)
		}
	}
}

func TestComposeZeroReflectionOrderSkipsReflectionSearch(t *testing.T) {
	sc := twoFlankingBuildingsScene(t)
	cfg := resolvedConfig(t)
	cfg.ReflexionOrder = 0
	cfg.ComputeHorizontalDiffraction = false
	cfg.ComputeVerticalDiffraction = false
	src := geom.Coordinate{X: 0, Y: 4, Z: 1}
	rcv := geom.Coordinate{X: 30, Y: 4, Z: 1}

	paths := Compose(sc, cfg, src, rcv, "s1", "r1", true)
	for _, p := range paths {
		if p.ReflexionOrder != 0 {
			t.Fatalf("expected no reflection paths when reflexion_order is 0")
		}
	}
}
