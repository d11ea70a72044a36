package taskpool

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/taskpool/taskpool/core"
)

// DefaultName is the pool name used by NewDefault.
const DefaultName = "ROOT"

// ErrPoolClosed is returned when tasks are handed to a pool after Shutdown or
// ShutdownNow. Compare with errors.Is.
var ErrPoolClosed = errors.New("taskpool: pool closed")

// Config holds the pluggable collaborators of a Pool. All fields are
// optional; nil fields fall back to defaults (no-op logger, stdout panic and
// rejection handlers, no-op metrics, a 100-record history).
type Config struct {
	// Logger receives pool lifecycle and failure events. Defaults to NoOpLogger.
	Logger core.Logger

	// PanicHandler is called when a panic escapes a task run on a worker.
	// Defaults to DefaultPanicHandler.
	PanicHandler core.PanicHandler

	// Metrics records task runs, panics, rejections and queue depth.
	// Defaults to NilMetrics.
	Metrics core.Metrics

	// RejectedHandler is called when the pool rejects submitted tasks.
	// Defaults to DefaultRejectedTaskHandler.
	RejectedHandler core.RejectedTaskHandler

	// HistorySize bounds the execution-record ring buffer. Defaults to 100.
	HistorySize int
}

// Pool executes tasks on a fixed set of worker goroutines pulling from a FIFO
// queue. It orchestrates execution only: it never owns a task's lifetime, and
// it never preempts a running body. Stopping work inside a task is always the
// cooperative protocol on the task itself.
//
// Workers carry deterministic labels of the form <name>-THREAD-<index>, the
// index zero-padded to the digit count of the pool size, threaded through
// logs, panic reports and execution records.
type Pool struct {
	name string
	size int

	queue  *runQueue
	signal chan struct{}

	ctx      context.Context
	cancel   context.CancelFunc
	quit     chan struct{}
	quitOnce sync.Once
	closed   atomic.Bool

	wg     sync.WaitGroup
	active atomic.Int32

	logger   core.Logger
	panics   core.PanicHandler
	metrics  core.Metrics
	rejected core.RejectedTaskHandler
	history  executionHistory
}

// pending is one queued unit of work: the task plus an optional completion
// callback used by Execute's barrier.
type pending struct {
	task core.Task
	done func()
}

// New creates a pool with the given name and worker count and starts its
// workers. size < 1 is a configuration error: an error is returned and no
// pool is created.
func New(name string, size int) (*Pool, error) {
	return NewWithConfig(name, size, Config{})
}

// NewDefault creates a pool named "ROOT" sized to the available hardware
// parallelism.
func NewDefault() *Pool {
	p, err := New(DefaultName, runtime.NumCPU())
	if err != nil {
		// NumCPU is always >= 1.
		panic(err)
	}
	return p
}

// NewWithConfig creates a pool with injected collaborators. See Config for
// the defaults applied to nil fields.
func NewWithConfig(name string, size int, cfg Config) (*Pool, error) {
	if size < 1 {
		return nil, fmt.Errorf("taskpool: invalid pool size %d", size)
	}
	if name == "" {
		name = DefaultName
	}

	logger := cfg.Logger
	if logger == nil {
		logger = core.NewNoOpLogger()
	}
	panics := cfg.PanicHandler
	if panics == nil {
		panics = &core.DefaultPanicHandler{}
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = &core.NilMetrics{}
	}
	rejected := cfg.RejectedHandler
	if rejected == nil {
		rejected = &core.DefaultRejectedTaskHandler{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		name:     name,
		size:     size,
		queue:    newRunQueue(),
		signal:   make(chan struct{}, size*2),
		ctx:      ctx,
		cancel:   cancel,
		quit:     make(chan struct{}),
		logger:   logger,
		panics:   panics,
		metrics:  metrics,
		rejected: rejected,
		history:  newExecutionHistory(cfg.HistorySize),
	}

	for i := 0; i < size; i++ {
		label := workerLabel(name, i, size)
		p.wg.Add(1)
		go p.workerLoop(label)
	}
	p.logger.Debug("pool started", core.F("pool", name), core.F("workers", size))

	return p, nil
}

// workerLabel builds the deterministic worker label: the index zero-padded to
// the decimal digit count of the pool size.
func workerLabel(name string, index, size int) string {
	pad := len(strconv.Itoa(size))
	return fmt.Sprintf("%s-THREAD-%0*d", name, pad, index)
}

// Name returns the pool name.
func (p *Pool) Name() string {
	return p.name
}

// WorkerCount returns the number of workers.
func (p *Pool) WorkerCount() int {
	return p.size
}

// Execute submits the tasks and blocks until every one of them has reached a
// terminal state. Each task's lifecycle runs exactly once; one task's failure
// never aborts the others' scheduling.
//
// When ctx ends first, Execute returns ctx.Err() immediately but the
// submitted tasks keep running (cancellation stays cooperative; request it on
// the tasks themselves). Returns ErrPoolClosed when the pool no longer
// accepts work.
func (p *Pool) Execute(ctx context.Context, tasks ...core.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var wg sync.WaitGroup
	wg.Add(len(tasks))
	if err := p.enqueue(wg.Done, tasks); err != nil {
		return err
	}

	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ExecuteGroup submits the group's tasks and blocks until all terminate.
func (p *Pool) ExecuteGroup(ctx context.Context, g *core.Group) error {
	return p.Execute(ctx, g.Tasks()...)
}

// Submit schedules the tasks for asynchronous execution and returns
// immediately. Tasks from different submissions interleave in queue order; no
// ordering is promised across submissions. Returns ErrPoolClosed when the
// pool no longer accepts work.
func (p *Pool) Submit(tasks ...core.Task) error {
	return p.enqueue(nil, tasks)
}

// SubmitGroup schedules the group's tasks for asynchronous execution.
func (p *Pool) SubmitGroup(g *core.Group) error {
	return p.Submit(g.Tasks()...)
}

// WaitForTermination busy-polls, yielding the goroutine between sweeps, until
// every task reports HasTerminated, or until ctx ends, in which case it
// returns ctx.Err(). It is the rendezvous companion to Submit; unlike Execute
// it watches tasks it did not necessarily schedule.
func (p *Pool) WaitForTermination(ctx context.Context, tasks ...core.Task) error {
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		all := true
		for _, t := range tasks {
			runtime.Gosched()
			if !t.HasTerminated() {
				all = false
				break
			}
		}
		if all {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// WaitForGroup busy-polls until every member of the group has terminated.
func (p *Pool) WaitForGroup(ctx context.Context, g *core.Group) error {
	return p.WaitForTermination(ctx, g.Tasks()...)
}

// Shutdown stops intake of new work. Queued and in-flight tasks drain, then
// the workers exit. Non-blocking; use Join to wait for the workers.
func (p *Pool) Shutdown() {
	if p.closed.CompareAndSwap(false, true) {
		p.logger.Info("pool shutting down", core.F("pool", p.name))
	}
	p.quitOnce.Do(func() { close(p.quit) })
}

// ShutdownNow stops intake, drops queued work and cancels the pool context so
// in-flight bodies observe ShouldCancel at their next checkpoint. Dropped
// tasks never run and stay Ready. Best-effort and non-blocking: a body that
// never checks its cancellation flag runs to completion regardless.
func (p *Pool) ShutdownNow() {
	first := p.closed.CompareAndSwap(false, true)
	dropped := p.queue.drain()
	p.cancel()
	p.quitOnce.Do(func() { close(p.quit) })
	for _, it := range dropped {
		if it.done != nil {
			it.done()
		}
	}
	if first {
		p.logger.Info("pool shutting down now",
			core.F("pool", p.name), core.F("dropped", len(dropped)))
	}
}

// Join blocks until all workers have exited. Call after Shutdown or
// ShutdownNow.
func (p *Pool) Join() {
	p.wg.Wait()
}

// Stats returns a snapshot of the pool's runtime state.
func (p *Pool) Stats() core.PoolStats {
	return core.PoolStats{
		Name:    p.name,
		Workers: p.size,
		Queued:  p.queue.len(),
		Active:  int(p.active.Load()),
		Running: !p.closed.Load(),
	}
}

// Recent returns up to limit execution records, newest first. limit <= 0
// returns all retained records.
func (p *Pool) Recent(limit int) []core.TaskRecord {
	return p.history.Recent(limit)
}

// enqueue pushes the tasks onto the queue and wakes idle workers. done, when
// non-nil, is invoked once per task after its run (or on drop by ShutdownNow).
func (p *Pool) enqueue(done func(), tasks []core.Task) error {
	if p.closed.Load() {
		p.rejected.HandleRejectedTask(p.name, "shutdown")
		p.metrics.RecordTaskRejected(p.name, "shutdown")
		return ErrPoolClosed
	}
	for _, t := range tasks {
		p.queue.push(pending{task: t, done: done})
		select {
		case p.signal <- struct{}{}:
		default:
		}
	}
	p.metrics.RecordQueueDepth(p.name, p.queue.len())
	return nil
}

// workerLoop pulls queued work until the pool shuts down. On graceful
// shutdown the remaining queue drains before the worker exits.
func (p *Pool) workerLoop(label string) {
	defer p.wg.Done()

	for {
		if item, ok := p.queue.pop(); ok {
			p.runOne(label, item)
			continue
		}

		select {
		case <-p.signal:
		case <-p.quit:
			if item, ok := p.queue.pop(); ok {
				p.runOne(label, item)
				continue
			}
			p.logger.Debug("worker exiting", core.F("worker", label))
			return
		case <-p.ctx.Done():
			p.logger.Debug("worker exiting", core.F("worker", label))
			return
		}
	}
}

// runOne drives one task through its lifecycle and records the outcome.
func (p *Pool) runOne(label string, it pending) {
	p.active.Add(1)
	startedAt := time.Now()
	p.guardedRun(label, it.task)
	finishedAt := time.Now()
	p.active.Add(-1)

	state := it.task.State()
	errText := ""
	if err := it.task.Err(); err != nil {
		errText = err.Error()
	}
	p.history.Add(core.TaskRecord{
		TaskID:     it.task.ID(),
		Name:       core.ResolveTaskName(it.task),
		Worker:     label,
		State:      state,
		Err:        errText,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Duration:   finishedAt.Sub(startedAt),
	})
	p.metrics.RecordTaskRun(p.name, state, finishedAt.Sub(startedAt))
	p.metrics.RecordQueueDepth(p.name, p.queue.len())

	if it.done != nil {
		it.done()
	}
}

// guardedRun invokes the task's lifecycle wrapper inside the worker's
// last-resort recover. Run already captures everything the body throws; what
// lands here (hook panics) is reported and swallowed so the worker and its
// siblings keep serving.
func (p *Pool) guardedRun(label string, t core.Task) {
	defer func() {
		if r := recover(); r != nil {
			p.metrics.RecordTaskPanic(p.name, r)
			p.panics.HandlePanic(p.name, label, r, debug.Stack())
			p.logger.Error("panic escaped task run",
				core.F("pool", p.name), core.F("worker", label),
				core.F("task", t.ID()), core.F("panic", r))
		}
	}()
	core.Run(p.ctx, t)
}
