package core

import (
	"fmt"
	"time"
)

// =============================================================================
// PanicHandler: Interface for handling panics escaping a task run
// =============================================================================

// PanicHandler is called when a panic escapes a task's lifecycle wrapper on a
// pool worker. The body's own panics are captured as errors by Run; what
// reaches this handler is the last-resort path (hook panics, framework bugs).
//
// Implementations should be thread-safe as they may be called concurrently.
type PanicHandler interface {
	// HandlePanic is called with the pool name, the label of the worker the
	// panic occurred on, the recovered panic value and the stack trace at the
	// time of panic.
	HandlePanic(poolName string, worker string, panicInfo any, stackTrace []byte)
}

// DefaultPanicHandler provides a basic panic handler that logs to stdout.
type DefaultPanicHandler struct{}

// HandlePanic prints panic information to stdout.
func (h *DefaultPanicHandler) HandlePanic(poolName string, worker string, panicInfo any, stackTrace []byte) {
	fmt.Printf("[%s @ %s] Panic: %v\nStack trace:\n%s",
		worker, poolName, panicInfo, stackTrace)
}

// =============================================================================
// Metrics: Interface for observability and monitoring
// =============================================================================

// Metrics defines the interface for collecting task execution metrics.
// Implementations can send metrics to monitoring systems (Prometheus, StatsD, etc.).
//
// Methods should be non-blocking and fast to avoid impacting task execution
// performance.
type Metrics interface {
	// RecordTaskRun records a completed task run: the pool it ran on, the
	// terminal state it reached and how long the run took.
	RecordTaskRun(poolName string, state State, duration time.Duration)

	// RecordTaskPanic records that a panic escaped a task run.
	RecordTaskPanic(poolName string, panicInfo any)

	// RecordQueueDepth records the current queue depth. This can be called
	// periodically to track queue growth/shrinkage.
	RecordQueueDepth(poolName string, depth int)

	// RecordTaskRejected records that a task was rejected (e.g., submitted to
	// a pool that is shutting down).
	RecordTaskRejected(poolName string, reason string)
}

// NilMetrics provides a no-op metrics implementation that does nothing.
// This is the default when no metrics interface is provided.
type NilMetrics struct{}

// RecordTaskRun is a no-op.
func (m *NilMetrics) RecordTaskRun(poolName string, state State, duration time.Duration) {
}

// RecordTaskPanic is a no-op.
func (m *NilMetrics) RecordTaskPanic(poolName string, panicInfo any) {
}

// RecordQueueDepth is a no-op.
func (m *NilMetrics) RecordQueueDepth(poolName string, depth int) {
}

// RecordTaskRejected is a no-op.
func (m *NilMetrics) RecordTaskRejected(poolName string, reason string) {
}

// =============================================================================
// RejectedTaskHandler: Interface for handling rejected tasks
// =============================================================================

// RejectedTaskHandler is called when a pool rejects a task. This happens when
// tasks are submitted after Shutdown or ShutdownNow.
//
// Implementations should be thread-safe as they may be called concurrently.
type RejectedTaskHandler interface {
	// HandleRejectedTask is called with the pool name and why the task was
	// rejected (e.g., "shutdown").
	HandleRejectedTask(poolName string, reason string)
}

// DefaultRejectedTaskHandler provides a basic handler that logs rejected tasks.
type DefaultRejectedTaskHandler struct{}

// HandleRejectedTask logs the rejected task.
func (h *DefaultRejectedTaskHandler) HandleRejectedTask(poolName string, reason string) {
	fmt.Printf("[Pool %s] Task rejected: %s\n", poolName, reason)
}
