// Command pathfinder runs the outdoor sound propagation path search over
// a demo scene and reports per-receiver path counts, mirroring the
// teacher's cmd/radar flag-driven entrypoint shape.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/banshee-data/soundpath/internal/config"
	"github.com/banshee-data/soundpath/internal/cutprofile"
	"github.com/banshee-data/soundpath/internal/debugviz"
	"github.com/banshee-data/soundpath/internal/geom"
	"github.com/banshee-data/soundpath/internal/logging"
	"github.com/banshee-data/soundpath/internal/model"
	"github.com/banshee-data/soundpath/internal/scene"
	"github.com/banshee-data/soundpath/internal/scheduler"
	"github.com/banshee-data/soundpath/internal/sink"
	"github.com/banshee-data/soundpath/internal/source"
)

var (
	configFile = flag.String("config", config.DefaultConfigPath, "Path to JSON tuning configuration file")
	listen     = flag.String("listen", "", "If set, serve debug charts at this HTTP address instead of exiting")
	verbose    = flag.Bool("verbose", false, "Enable diagnostic and trace logging in addition to ops logging")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if *verbose {
		logging.SetAll(os.Stdout)
	} else {
		logging.SetWriters(os.Stdout, nil, nil)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("failed to load tuning config from %s: %v", *configFile, err)
	}
	resolved, err := cfg.Resolve()
	if err != nil {
		log.Fatalf("invalid tuning config: %v", err)
	}
	log.Printf("loaded tuning configuration from %s", *configFile)

	sc, err := buildDemoScene()
	if err != nil {
		log.Fatalf("failed to build demo scene: %v", err)
	}

	sources := demoSources()
	catalog := source.NewCatalog(sources)
	receivers := demoReceivers()

	pathSink := sink.NewInMemorySink(nil)
	sched := &scheduler.Scheduler{
		Scene:   sc,
		Catalog: catalog,
		Config:  resolved,
		Sink:    pathSink,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	visitor := &scheduler.AtomicVisitor{}
	go func() {
		<-ctx.Done()
		log.Printf("received shutdown signal, canceling run")
		visitor.Cancel()
	}()

	if err := sched.Run(receivers, visitor); err != nil {
		log.Fatalf("scheduler run failed: %v", err)
	}

	for _, rcv := range receivers {
		paths := pathSink.PathsFor(rcv.ID)
		log.Printf("receiver %s: %d paths", rcv.ID, len(paths))
	}

	if *listen != "" {
		serveDebug(*listen, sc, pathSink, sources, receivers)
	}
}

// serveDebug exposes the demo scene's cut profiles and assembled paths
// as interactive charts, keyed by "<sourceID>->><receiverID>" for
// profiles and by the receiver id for paths (every source's paths to
// that receiver).
func serveDebug(addr string, sc *scene.Scene, pathSink *sink.InMemorySink, sources []*source.Source, receivers []scheduler.Receiver) {
	profiles := make(map[string]*cutprofile.CutProfile)
	for _, src := range sources {
		if len(src.Lines) == 0 || len(src.Lines[0]) == 0 {
			continue
		}
		for _, rcv := range receivers {
			key := src.ID + "->>" + rcv.ID
			profiles[key] = sc.GetProfile(src.Lines[0][0], rcv.Coord, 0)
		}
	}

	paths := make(map[string][]*model.PropagationPath)
	for _, rcv := range receivers {
		paths[rcv.ID] = pathSink.PathsFor(rcv.ID)
	}

	srv := &debugviz.Server{
		Profiles: func(id string) (*cutprofile.CutProfile, bool) {
			p, ok := profiles[id]
			return p, ok
		},
		Paths: func(id string) ([]*model.PropagationPath, bool) {
			p, ok := paths[id]
			return p, ok
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/profile", srv.ProfileHandler)
	mux.HandleFunc("/debug/paths", srv.PathHandler)

	log.Printf("serving debug charts on %s (/debug/profile?profile_id=..., /debug/paths?path_id=...)", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("debug server failed: %v", err)
	}
}

func buildDemoScene() (*scene.Scene, error) {
	b := scene.NewBuilder()
	_, err := b.AddBuilding([]geom.Coordinate{
		{X: 20, Y: 20, Z: 0},
		{X: 40, Y: 20, Z: 0},
		{X: 40, Y: 35, Z: 0},
		{X: 20, Y: 35, Z: 0},
	}, 12, []float64{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1})
	if err != nil {
		return nil, err
	}
	_, err = b.AddGroundRegion([]geom.Coordinate{
		{X: 0, Y: 0, Z: 0},
		{X: 100, Y: 0, Z: 0},
		{X: 100, Y: 100, Z: 0},
		{X: 0, Y: 100, Z: 0},
	}, 0.5)
	if err != nil {
		return nil, err
	}
	return b.Finish(geom.Envelope{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100})
}

func demoSources() []*source.Source {
	return []*source.Source{
		{
			ID:    "road-1",
			Kind:  source.KindLineString,
			Lines: [][]geom.Coordinate{{{X: 0, Y: 10, Z: 0}, {X: 100, Y: 10, Z: 0}}},
			Power: []float64{70, 70, 68, 65, 62, 58, 54, 50},
		},
	}
}

func demoReceivers() []scheduler.Receiver {
	return []scheduler.Receiver{
		{ID: "r1", Coord: geom.Coordinate{X: 30, Y: 60, Z: 4}, Favourable: false},
		{ID: "r2", Coord: geom.Coordinate{X: 55, Y: 25, Z: 4}, Favourable: true},
	}
}
