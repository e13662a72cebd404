// Package sink defines the external path-receiving contract (spec §6)
// and an in-memory reference implementation used by tests and the
// demo CLI. Grounded on the teacher's PersistenceSink/PublishSink
// interfaces in pipeline/pipeline.go — a narrow, concurrency-safe
// consumer boundary the core hands completed work to without knowing
// what happens downstream.
package sink

import (
	"fmt"
	"sync"

	"github.com/banshee-data/soundpath/internal/model"
)

// PathSink is the abstract receiver of path lists (spec §6). Callers
// (typically an acoustic evaluator) implement this to turn geometry into
// per-band attenuations. Implementations must be safe for concurrent use
// by multiple scheduler workers.
type PathSink interface {
	// AddPropagationPaths delivers every path found for one source/receiver
	// pair, with li the source's line-density coefficient (spec §4.6), and
	// returns the resulting per-band attenuation.
	AddPropagationPaths(srcID string, li float64, rcvID string, paths []*model.PropagationPath) ([]float64, error)
	// FinalizeReceiver signals that every source contributing to rcvID has
	// been processed.
	FinalizeReceiver(rcvID string) error
	// SubProcess returns a Sink scoped to receiver batch [startIdx, endIdx),
	// used so a scheduler worker can hand each batch an independently
	// synchronized view (spec §6).
	SubProcess(startIdx, endIdx int) PathSink
}

// InMemorySink is a PathSink that accumulates every path in memory,
// keyed by receiver id. It is safe for concurrent use.
type InMemorySink struct {
	mu         sync.Mutex
	paths      map[string][]*model.PropagationPath
	finalized  map[string]bool
	attenuator func(paths []*model.PropagationPath) []float64
}

// NewInMemorySink returns an empty InMemorySink. attenuator, if non-nil,
// computes the per-band result returned from AddPropagationPaths; if nil,
// AddPropagationPaths returns a nil result (the sink is purely a collector).
func NewInMemorySink(attenuator func(paths []*model.PropagationPath) []float64) *InMemorySink {
	return &InMemorySink{
		paths:      make(map[string][]*model.PropagationPath),
		finalized:  make(map[string]bool),
		attenuator: attenuator,
	}
}

func (s *InMemorySink) AddPropagationPaths(srcID string, li float64, rcvID string, paths []*model.PropagationPath) ([]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalized[rcvID] {
		return nil, fmt.Errorf("sink: receiver %s already finalized", rcvID)
	}
	s.paths[rcvID] = append(s.paths[rcvID], paths...)
	if s.attenuator != nil {
		return s.attenuator(paths), nil
	}
	return nil, nil
}

func (s *InMemorySink) FinalizeReceiver(rcvID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finalized[rcvID] = true
	return nil
}

// SubProcess returns s itself: InMemorySink's locking already makes the
// full sink safe for concurrent sub-ranges, so no new scope is needed.
func (s *InMemorySink) SubProcess(startIdx, endIdx int) PathSink {
	return s
}

// PathsFor returns the accumulated paths for rcvID, for test assertions.
func (s *InMemorySink) PathsFor(rcvID string) []*model.PropagationPath {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.PropagationPath, len(s.paths[rcvID]))
	copy(out, s.paths[rcvID])
	return out
}

// Finalized reports whether FinalizeReceiver has been called for rcvID.
func (s *InMemorySink) Finalized(rcvID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalized[rcvID]
}
