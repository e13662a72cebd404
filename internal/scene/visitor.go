package scene

// VisitResult tells a traversal whether to continue or stop early.
// Design Note 9.2: the source performed early exit from R-tree traversal
// by throwing an exception; here the visitor's return value carries the
// same intent without using panics for control flow.
type VisitResult int

const (
	VisitContinue VisitResult = iota
	VisitStop
)

// BuildingVisitor is called once per candidate Building during a path
// query; returning VisitStop ends the traversal immediately.
type BuildingVisitor func(b *Building) VisitResult
