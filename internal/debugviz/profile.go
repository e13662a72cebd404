// Package debugviz renders cut profiles and propagation paths for
// visual debugging: a static PNG via gonum/plot and an HTML chart via
// go-echarts, grounded on the teacher's monitor.GridPlotter and
// monitor.WebServer chart handlers.
package debugviz

import (
	"fmt"

	"github.com/banshee-data/soundpath/internal/cutprofile"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// RenderProfilePNG draws the (distance, z) trace of profile, marking
// BUILDING_WALL and TOPOGRAPHY points distinctly, and saves it to path.
func RenderProfilePNG(profile *cutprofile.CutProfile, path string) error {
	p := plot.New()
	p.Title.Text = "Cut profile"
	p.X.Label.Text = "Distance (parametric)"
	p.Y.Label.Text = "Altitude (m)"

	sight := make(plotter.XYs, 0, len(profile.Points))
	walls := make(plotter.XYs, 0)
	topo := make(plotter.XYs, 0)

	for _, pt := range profile.Points {
		xy := plotter.XY{X: pt.Distance, Y: pt.Coord.Z}
		sight = append(sight, xy)
		switch pt.Kind {
		case cutprofile.KindBuildingWall:
			walls = append(walls, xy)
		case cutprofile.KindTopography:
			topo = append(topo, xy)
		}
	}

	line, err := plotter.NewLine(sight)
	if err != nil {
		return fmt.Errorf("debugviz: build profile line: %w", err)
	}
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add("profile", line)

	if len(walls) > 0 {
		wallScatter, err := plotter.NewScatter(walls)
		if err != nil {
			return fmt.Errorf("debugviz: build wall scatter: %w", err)
		}
		p.Add(wallScatter)
		p.Legend.Add("building wall", wallScatter)
	}
	if len(topo) > 0 {
		topoScatter, err := plotter.NewScatter(topo)
		if err != nil {
			return fmt.Errorf("debugviz: build topography scatter: %w", err)
		}
		p.Add(topoScatter)
		p.Legend.Add("topography", topoScatter)
	}

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("debugviz: save profile plot %s: %w", path, err)
	}
	return nil
}
