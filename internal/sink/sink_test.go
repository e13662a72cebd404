package sink

import (
	"sync"
	"testing"

	"github.com/banshee-data/soundpath/internal/model"
)

func samplePath() *model.PropagationPath {
	return &model.PropagationPath{
		SourceID:   "s1",
		ReceiverID: "r1",
		Points: []model.PointPath{
			{Kind: model.PointSource},
			{Kind: model.PointReceiver},
		},
	}
}

func TestInMemorySinkAccumulatesPaths(t *testing.T) {
	s := NewInMemorySink(nil)
	if _, err := s.AddPropagationPaths("s1", 1, "r1", []*model.PropagationPath{samplePath()}); err != nil {
		t.Fatalf("AddPropagationPaths: %v", err)
	}
	if _, err := s.AddPropagationPaths("s2", 1, "r1", []*model.PropagationPath{samplePath()}); err != nil {
		t.Fatalf("AddPropagationPaths: %v", err)
	}
	if got := len(s.PathsFor("r1")); got != 2 {
		t.Fatalf("expected 2 accumulated paths for r1, got %d", got)
	}
}

func TestInMemorySinkRejectsAddAfterFinalize(t *testing.T) {
	s := NewInMemorySink(nil)
	if err := s.FinalizeReceiver("r1"); err != nil {
		t.Fatalf("FinalizeReceiver: %v", err)
	}
	if !s.Finalized("r1") {
		t.Fatalf("expected r1 to be reported finalized")
	}
	if _, err := s.AddPropagationPaths("s1", 1, "r1", []*model.PropagationPath{samplePath()}); err == nil {
		t.Fatalf("expected an error adding paths to a finalized receiver")
	}
}

func TestInMemorySinkUsesAttenuatorWhenProvided(t *testing.T) {
	s := NewInMemorySink(func(paths []*model.PropagationPath) []float64 {
		return []float64{float64(len(paths))}
	})
	result, err := s.AddPropagationPaths("s1", 1, "r1", []*model.PropagationPath{samplePath(), samplePath()})
	if err != nil {
		t.Fatalf("AddPropagationPaths: %v", err)
	}
	if len(result) != 1 || result[0] != 2 {
		t.Fatalf("expected attenuator result [2], got %v", result)
	}
}

func TestInMemorySinkConcurrentAddsAreSafe(t *testing.T) {
	s := NewInMemorySink(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.AddPropagationPaths("s1", 1, "r1", []*model.PropagationPath{samplePath()})
		}()
	}
	wg.Wait()
	if got := len(s.PathsFor("r1")); got != 50 {
		t.Fatalf("expected 50 accumulated paths from concurrent adds, got %d", got)
	}
}

func TestInMemorySinkSubProcessReturnsUsableSink(t *testing.T) {
	s := NewInMemorySink(nil)
	sub := s.SubProcess(0, 10)
	if _, err := sub.AddPropagationPaths("s1", 1, "r1", []*model.PropagationPath{samplePath()}); err != nil {
		t.Fatalf("AddPropagationPaths via SubProcess: %v", err)
	}
	if got := len(s.PathsFor("r1")); got != 1 {
		t.Fatalf("expected the sub-process sink to write through to the parent, got %d", got)
	}
}
