package scheduler

import "sync/atomic"

// ProgressVisitor is the process-wide cooperative cancellation and
// progress-reporting hook polled at the head of every receiver and every
// source iteration (spec §5).
type ProgressVisitor interface {
	IsCanceled() bool
	ReceiverStarted(id string)
	ReceiverFinished(id string)
}

// AtomicVisitor is a ProgressVisitor backed by an atomic flag, the
// default used when the caller has no external progress UI to drive.
type AtomicVisitor struct {
	canceled atomic.Bool
}

func (v *AtomicVisitor) IsCanceled() bool { return v.canceled.Load() }

// Cancel requests cooperative cancellation; in-flight paths for the
// receiver currently being processed may or may not be emitted (spec §5).
func (v *AtomicVisitor) Cancel() { v.canceled.Store(true) }

func (v *AtomicVisitor) ReceiverStarted(id string)  {}
func (v *AtomicVisitor) ReceiverFinished(id string) {}
