package debugviz

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/banshee-data/soundpath/internal/cutprofile"
	"github.com/banshee-data/soundpath/internal/model"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Server serves interactive debug charts over HTTP, grounded on the
// teacher's monitor.WebServer echarts handlers.
type Server struct {
	// Profiles supplies the profile to render for a given profile id,
	// looked up by the "profile_id" query parameter.
	Profiles func(id string) (*cutprofile.CutProfile, bool)
	// Paths supplies the assembled paths for a given source/receiver
	// pair id, looked up by the "path_id" query parameter.
	Paths func(id string) ([]*model.PropagationPath, bool)
}

// ProfileHandler renders the (distance, z) scatter of the cut profile
// named by the "profile_id" query parameter as an interactive HTML chart.
func (s *Server) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("profile_id")
	profile, ok := s.Profiles(id)
	if !ok {
		http.Error(w, fmt.Sprintf("debugviz: unknown profile_id %q", id), http.StatusNotFound)
		return
	}

	data := make([]opts.ScatterData, 0, len(profile.Points))
	kinds := make([]float64, 0, len(profile.Points))
	for _, pt := range profile.Points {
		data = append(data, opts.ScatterData{Value: []interface{}{pt.Distance, pt.Coord.Z, int(pt.Kind)}})
		kinds = append(kinds, float64(pt.Kind))
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Cut profile " + id, Theme: "dark", Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Cut profile", Subtitle: fmt.Sprintf("profile_id=%s points=%d", id, len(data))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "distance", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "z (m)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(cutprofile.KindGroundEffect),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#31688e", "#35b779", "#fde725", "#f98c0a", "#d53e4f"}},
		}),
	)
	scatter.AddSeries("profile", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))

	renderChart(w, scatter)
}

// PathHandler renders every point of every path found for the
// source/receiver pair named by the "path_id" query parameter, one
// series per path so reflection and diffraction chains stay visually
// distinct.
func (s *Server) PathHandler(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("path_id")
	paths, ok := s.Paths(id)
	if !ok {
		http.Error(w, fmt.Sprintf("debugviz: unknown path_id %q", id), http.StatusNotFound)
		return
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Propagation paths " + id, Theme: "dark", Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Propagation paths", Subtitle: fmt.Sprintf("path_id=%s count=%d", id, len(paths))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "x (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "y (m)", NameLocation: "middle", NameGap: 30}),
	)
	for i, path := range paths {
		data := make([]opts.ScatterData, 0, len(path.Points))
		for _, pt := range path.Points {
			data = append(data, opts.ScatterData{Value: []interface{}{pt.Coord.X, pt.Coord.Y, pt.Coord.Z}})
		}
		scatter.AddSeries("path "+strconv.Itoa(i)+" "+pathLabel(path), data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))
	}

	renderChart(w, scatter)
}

func pathLabel(p *model.PropagationPath) string {
	if p.ReflexionOrder > 0 {
		return fmt.Sprintf("(order %d)", p.ReflexionOrder)
	}
	return "(direct)"
}

func renderChart(w http.ResponseWriter, chart interface{ Render(...io.Writer) error }) {
	var buf bytes.Buffer
	if err := chart.Render(&buf); err != nil {
		http.Error(w, fmt.Sprintf("debugviz: render chart: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
