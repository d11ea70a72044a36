package core

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// TaskID identifies a task object in logs and execution records.
type TaskID string

// GenerateTaskID returns a new random task identifier.
func GenerateTaskID() TaskID {
	return TaskID(uuid.NewString())
}

// IsZero reports whether the id is unset.
func (id TaskID) IsZero() bool {
	return id == ""
}

func (id TaskID) String() string {
	return string(id)
}

// =============================================================================
// Task: cancellable, observable unit of work
// =============================================================================

// Task is a unit of cancellable, observable work. Execute is the work body;
// the rest is the lifecycle surface provided by Base. Implementations embed
// Base (or ProgressTask) and implement Execute:
//
//	type fetchTask struct {
//		core.Base
//		url string
//	}
//
//	func (t *fetchTask) Execute() error { ... }
//
// The body runs on whichever goroutine invokes Run, a pool worker or any
// caller goroutine. Cancellation is cooperative: RequestCancel only raises a
// flag, and the body is expected to call Cancel at its own checkpoints,
// typically once per loop iteration. Nothing ever preempts a running body.
type Task interface {
	// Execute performs the work. A returned error marks the task Failed.
	Execute() error

	// State returns the current lifecycle state.
	State() State

	// Err returns the error captured by the last run, if any.
	Err() error

	// ID returns the task's identifier, generating it on first use. The id is
	// stable for the lifetime of the task object, across reruns.
	ID() TaskID

	// RequestCancel raises the cooperative cancel flag. Never blocks.
	RequestCancel()

	// ShouldCancel reports whether the body ought to stop: true when the
	// context bound by Run has ended or a cancellation was requested.
	ShouldCancel() bool

	// Cancel commits a pending cancellation: when ShouldCancel is true it
	// moves the task to StateCancelled and returns true, otherwise it does
	// nothing and returns false. This is the one call a body needs at its
	// cancellation checkpoints.
	Cancel() bool

	IsReady() bool
	IsRunning() bool
	HasSucceeded() bool
	WasCancelled() bool
	HasFailed() bool

	// HasTerminated reports whether the task reached a terminal state.
	HasTerminated() bool

	// Reinitialize resets a non-running task to StateReady, clearing the
	// captured error and the cancel flag so the task can run again fresh.
	// Calling it while the task is running is a caller bug; the result is
	// undefined.
	Reinitialize()

	// base restricts implementations to types embedding Base.
	base() *Base
}

// BeforeHook is implemented by tasks that want a callback immediately before
// Execute. The hook runs outside the error boundary: a panic here escapes Run.
type BeforeHook interface {
	BeforeExecute()
}

// AfterHook is implemented by tasks that want a callback after the terminal
// state has been decided. Like BeforeHook it runs outside the error boundary.
type AfterHook interface {
	AfterExecute()
}

// Base carries the task state machine. The zero value is ready to use; embed
// it by value and use the outer type through a pointer.
//
// Every field is a single-word atomic, so the status queries, the cancel
// flags and the monitor mirror are lock-free and constant-time: a body can
// poll them every iteration and observers can poll them on a timer without
// contending with the worker.
type Base struct {
	state  atomic.Int32
	cancel atomic.Bool
	err    atomic.Pointer[error]
	group  atomic.Pointer[Group]
	ctx    atomic.Pointer[context.Context]
	id     atomic.Pointer[TaskID]

	// onState, when set, observes every state transition (see ProgressTask).
	onState atomic.Pointer[func(State)]
}

func (b *Base) base() *Base {
	return b
}

// State returns the current lifecycle state.
func (b *Base) State() State {
	return State(b.state.Load())
}

func (b *Base) setState(s State) {
	b.state.Store(int32(s))
	if fn := b.onState.Load(); fn != nil {
		(*fn)(s)
	}
}

// setStateHook registers an observer for state transitions. At most one hook;
// the last registration wins.
func (b *Base) setStateHook(fn func(State)) {
	b.onState.Store(&fn)
}

// Err returns the error captured by the last run, if any.
func (b *Base) Err() error {
	if p := b.err.Load(); p != nil {
		return *p
	}
	return nil
}

// ID returns the task's identifier, generating it on first use.
func (b *Base) ID() TaskID {
	if p := b.id.Load(); p != nil {
		return *p
	}
	id := GenerateTaskID()
	if b.id.CompareAndSwap(nil, &id) {
		return id
	}
	return *b.id.Load()
}

// RequestCancel raises the cooperative cancel flag.
func (b *Base) RequestCancel() {
	b.cancel.Store(true)
}

// ShouldCancel reports whether the body ought to stop.
func (b *Base) ShouldCancel() bool {
	if b.cancel.Load() {
		return true
	}
	if p := b.ctx.Load(); p != nil && (*p).Err() != nil {
		return true
	}
	return false
}

// Cancel commits a pending cancellation, returning true when it did.
func (b *Base) Cancel() bool {
	if !b.ShouldCancel() {
		return false
	}
	b.setState(StateCancelled)
	return true
}

func (b *Base) IsReady() bool {
	return b.State() == StateReady
}

func (b *Base) IsRunning() bool {
	return b.State() == StateRunning
}

func (b *Base) HasSucceeded() bool {
	return b.State() == StateSucceeded
}

func (b *Base) WasCancelled() bool {
	return b.State() == StateCancelled
}

func (b *Base) HasFailed() bool {
	return b.State() == StateFailed
}

// HasTerminated reports whether the task reached a terminal state.
func (b *Base) HasTerminated() bool {
	return b.State().IsTerminal()
}

// Reinitialize resets the task to StateReady and clears the captured error,
// the cancel flag and the bound context.
func (b *Base) Reinitialize() {
	b.err.Store(nil)
	b.cancel.Store(false)
	b.ctx.Store(nil)
	b.setState(StateReady)
}

func (b *Base) bindContext(ctx context.Context) {
	b.ctx.Store(&ctx)
}

func (b *Base) unbindContext() {
	b.ctx.Store(nil)
}

// =============================================================================
// Run: the lifecycle wrapper
// =============================================================================

// Run drives one full execution of the task on the calling goroutine: the
// BeforeExecute hook, the transition to Running, the body inside an error
// boundary, the terminal-state decision, and the AfterExecute hook.
//
// The terminal decision follows a strict precedence. A captured error (a
// non-nil return from Execute, or a panic inside it) marks the task Failed
// and, when the task belongs to a group, requests cancellation of every
// member; the Failed store happens before the fan-out. Otherwise a
// cancellation committed by the body leaves the task Cancelled. Otherwise the
// task Succeeded.
//
// Run never returns or rethrows the body's error; it is stored on the task
// and surfaced through Err or Check. Hook panics are not captured and escape
// to the caller; a pool worker swallows them as a last resort.
//
// ctx is bound to the task for the duration of the run, so ShouldCancel
// observes the caller's context cancellation as well as RequestCancel. The
// same code path serves fire-and-forget and submit-and-wait execution.
func Run(ctx context.Context, t Task) {
	if ctx == nil {
		ctx = context.Background()
	}
	b := t.base()
	b.bindContext(ctx)
	defer b.unbindContext()

	if h, ok := t.(BeforeHook); ok {
		h.BeforeExecute()
	}

	b.setState(StateRunning)
	err := runBody(t)

	if err != nil {
		b.err.Store(&err)
		b.setState(StateFailed)
		if g := b.group.Load(); g != nil {
			g.RequestCancel()
		}
	} else if b.State() != StateCancelled {
		b.setState(StateSucceeded)
	}

	if h, ok := t.(AfterHook); ok {
		h.AfterExecute()
	}
}

// runBody invokes Execute, converting a panic into an ordinary captured error.
func runBody(t Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return t.Execute()
}

// Check returns the first non-nil captured error among the tasks, in argument
// order, or nil when every task is error-free. It is the batch companion to
// Err for callers that ran a whole set:
//
//	if err := core.Check(group.Tasks()...); err != nil {
//		log.Fatal(err)
//	}
func Check(tasks ...Task) error {
	for _, t := range tasks {
		if err := t.Err(); err != nil {
			return err
		}
	}
	return nil
}
