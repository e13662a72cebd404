// Package pathfindererr defines the error kinds emitted by the pathfinder
// core (spec §7). Cancellation is represented structurally via
// context/ProgressVisitor rather than as an error value here.
package pathfindererr

import "fmt"

// InvalidGeometry reports a malformed polygon, degenerate wall, or
// unsupported source type. The offending element is skipped by the
// caller; this error is logged, not propagated to the scheduler.
type InvalidGeometry struct {
	Element string
	Reason  string
}

func (e *InvalidGeometry) Error() string {
	return fmt.Sprintf("invalid geometry %s: %s", e.Element, e.Reason)
}

// OutOfRange reports a receiver or source outside the scene envelope.
// The receiver yields no paths; the call still returns successfully.
type OutOfRange struct {
	What string
	ID   string
}

func (e *OutOfRange) Error() string {
	return fmt.Sprintf("%s %s is outside the scene envelope", e.What, e.ID)
}

// NonConvergence reports a side-hull whose perimeter exceeded the
// configured ratio against |src-rcv|. The diffraction attempt returns
// empty; other path kinds continue.
type NonConvergence struct {
	Perimeter float64
	Ratio     float64
}

func (e *NonConvergence) Error() string {
	return fmt.Sprintf("side hull did not converge: perimeter=%.3f exceeds %.3fx the src-rcv baseline", e.Perimeter, e.Ratio)
}

// SinkError wraps an error returned by the caller-supplied PathSink. It
// aborts the owning worker and triggers global cancellation of the run.
type SinkError struct {
	Cause error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("sink error: %v", e.Cause)
}

func (e *SinkError) Unwrap() error { return e.Cause }
