// Package logging provides the three-tier ops/diag/trace logging streams
// shared by every package in this module.
package logging

import (
	"io"
	"log"
	"sync"
)

var (
	mu          sync.RWMutex
	opsLogger   *log.Logger
	diagLogger  *log.Logger
	traceLogger *log.Logger
)

// SetWriters configures the three logging streams. Pass nil for any writer
// to disable that stream.
func SetWriters(ops, diag, trace io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	opsLogger = newLogger("[soundpath] ", ops)
	diagLogger = newLogger("[soundpath] ", diag)
	traceLogger = newLogger("[soundpath] ", trace)
}

// SetAll routes all three streams to a single writer, or disables all
// logging when w is nil.
func SetAll(w io.Writer) {
	SetWriters(w, w, w)
}

func newLogger(prefix string, w io.Writer) *log.Logger {
	if w == nil {
		return nil
	}
	return log.New(w, prefix, log.LstdFlags|log.Lmicroseconds)
}

// Opsf logs an actionable warning or error: rejected geometry, sink
// failures, cancellation.
func Opsf(format string, args ...interface{}) {
	mu.RLock()
	l := opsLogger
	mu.RUnlock()
	if l != nil {
		l.Printf(format, args...)
	}
}

// Diagf logs per-receiver/per-query diagnostics.
func Diagf(format string, args ...interface{}) {
	mu.RLock()
	l := diagLogger
	mu.RUnlock()
	if l != nil {
		l.Printf(format, args...)
	}
}

// Tracef logs high-frequency per-candidate-path telemetry.
func Tracef(format string, args ...interface{}) {
	mu.RLock()
	l := traceLogger
	mu.RUnlock()
	if l != nil {
		l.Printf(format, args...)
	}
}
