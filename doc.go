// Package taskpool provides cooperative task execution with cancellation and
// progress monitoring on a bounded worker pool.
//
// A task is anything embedding core.Base (or core.ProgressTask) that
// implements Execute. Cancellation never preempts: requesting it only raises
// a flag, and the body honors it at its own checkpoints.
//
// # Quick Start
//
// Create a pool and run tasks to completion:
//
//	pool, err := taskpool.New("ROOT", 4)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer func() { pool.Shutdown(); pool.Join() }()
//
//	err = pool.Execute(ctx, tasks...)
//
// # Key Concepts
//
// Task: the lifecycle Ready -> Running -> Succeeded|Cancelled|Failed, held in
// single-word atomics. The body polls Cancel() at its checkpoints; errors are
// captured on the task and surfaced through Err or Check, never thrown across
// the pool.
//
// Group: fail-fast aggregation. When one member fails, cancellation is
// requested on every sibling; tasks still running observe it at their next
// checkpoint.
//
// Monitor: lock-free multi-level progress tracking. The running task writes
// through Notify methods; any number of observers poll Progress(i) snapshots
// on a timer without synchronizing with the worker.
//
// Pool: a fixed set of labeled worker goroutines pulling from a FIFO queue.
// Execute blocks until all tasks terminate; Submit schedules and returns;
// WaitForTermination rendezvouses later. Shutdown drains, ShutdownNow drops
// queued work and cancels in-flight bodies cooperatively.
//
// # Observability
//
// The pool records execution history (Recent) and stats snapshots (Stats),
// and accepts pluggable Logger, Metrics, PanicHandler and
// RejectedTaskHandler collaborators through Config. The
// observability/prometheus package adapts Metrics to Prometheus collectors
// and polls pool and monitor snapshots into gauges.
//
// # Example
//
//	type step struct {
//		core.ProgressTask
//		n int
//	}
//
//	func (s *step) Execute() error {
//		m := s.Monitor()
//		m.NotifyStart(0)
//		for i := 0; i < s.n; i++ {
//			if s.Cancel() {
//				return nil
//			}
//			m.NotifyProgress(0, 1, int64(s.n))
//		}
//		return nil
//	}
package taskpool
