// Package scheduler fans a receiver list out across worker goroutines,
// running the full source-iteration and path-composition pipeline for
// each receiver and delivering results to a sink (spec §5).
package scheduler

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/banshee-data/soundpath/internal/config"
	"github.com/banshee-data/soundpath/internal/geom"
	"github.com/banshee-data/soundpath/internal/logging"
	"github.com/banshee-data/soundpath/internal/pathcompose"
	"github.com/banshee-data/soundpath/internal/pathfindererr"
	"github.com/banshee-data/soundpath/internal/scene"
	"github.com/banshee-data/soundpath/internal/sink"
	"github.com/banshee-data/soundpath/internal/source"
)

// Receiver is one query point handed to the scheduler.
type Receiver struct {
	ID         string
	Coord      geom.Coordinate
	Favourable bool
}

// Scheduler owns the immutable inputs shared read-only by every worker
// (spec §5: "Scene and R-trees are constructed once ... and are
// read-only thereafter; all workers share them by borrow").
type Scheduler struct {
	Scene   *scene.Scene
	Catalog *source.Catalog
	Config  *config.Resolved
	Sink    sink.PathSink

	aborted atomic.Bool
}

// canceled reports whether the caller's visitor requested cancellation
// or a worker already aborted the run (a panic or sink error), without
// requiring every ProgressVisitor implementation to expose a setter.
func (s *Scheduler) canceled(visitor ProgressVisitor) bool {
	return visitor.IsCanceled() || s.aborted.Load()
}

// Run partitions receivers into splitCount contiguous batches (default:
// number of CPU cores) and processes each batch in its own worker
// goroutine (spec §5). Receivers within a batch are processed in
// ascending index order; batch order across workers is unspecified. A
// worker panic is recovered, converted to an error, and re-raised here
// after every worker has joined.
func (s *Scheduler) Run(receivers []Receiver, visitor ProgressVisitor) error {
	if visitor == nil {
		visitor = &AtomicVisitor{}
	}
	splitCount := s.Config.ThreadCount
	if splitCount <= 0 {
		splitCount = runtime.NumCPU()
	}
	if splitCount < 1 {
		splitCount = 1
	}

	batches := partition(receivers, splitCount)
	errs := make([]error, len(batches))
	var wg sync.WaitGroup

	for i, batch := range batches {
		wg.Add(1)
		go func(i int, batch []Receiver) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("scheduler: worker panic: %v", r)
					s.aborted.Store(true)
				}
			}()
			errs[i] = s.runBatch(batch, visitor)
		}(i, batch)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func partition(receivers []Receiver, splitCount int) [][]Receiver {
	if splitCount < 1 {
		splitCount = 1
	}
	n := len(receivers)
	if n == 0 {
		return nil
	}
	batchSize := (n + splitCount - 1) / splitCount
	var batches [][]Receiver
	for start := 0; start < n; start += batchSize {
		end := start + batchSize
		if end > n {
			end = n
		}
		batches = append(batches, receivers[start:end])
	}
	return batches
}

func (s *Scheduler) runBatch(batch []Receiver, visitor ProgressVisitor) error {
	for _, rcv := range batch {
		if s.canceled(visitor) {
			return nil
		}
		visitor.ReceiverStarted(rcv.ID)
		if err := s.runReceiver(rcv, visitor); err != nil {
			if _, ok := err.(*pathfindererr.SinkError); ok {
				return err
			}
			logging.Opsf("scheduler: receiver %s: %v", rcv.ID, err)
		}
		visitor.ReceiverFinished(rcv.ID)
	}
	return nil
}

func (s *Scheduler) runReceiver(rcv Receiver, visitor ProgressVisitor) error {
	if err := s.Scene.RequireInEnvelope(rcv.Coord, "receiver", rcv.ID); err != nil {
		logging.Opsf("scheduler: %v", err)
		return s.Sink.FinalizeReceiver(rcv.ID)
	}

	candidates := s.Catalog.Near(rcv.Coord, s.Config.MaxSrcDist)
	var points []source.PointSource
	for _, src := range candidates {
		points = append(points, source.Discretize(src, rcv.Coord)...)
	}
	points = source.OrderByDescendingWeight(points, rcv.Coord)
	stop := source.EarlyStopIndex(points, rcv.Coord, s.Config.MaximumError)

	for _, ps := range points[:stop] {
		if s.canceled(visitor) {
			break
		}
		if geom.Distance3D(ps.Coord, rcv.Coord) < s.Config.MinRecDist {
			continue
		}
		paths := pathcompose.Compose(s.Scene, s.Config, ps.Coord, rcv.Coord, ps.SourceID, rcv.ID, rcv.Favourable)
		if len(paths) == 0 {
			continue
		}
		if _, err := s.Sink.AddPropagationPaths(ps.SourceID, ps.Li, rcv.ID, paths); err != nil {
			s.aborted.Store(true)
			return &pathfindererr.SinkError{Cause: err}
		}
	}
	return s.Sink.FinalizeReceiver(rcv.ID)
}
