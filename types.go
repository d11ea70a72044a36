package taskpool

import "github.com/taskpool/taskpool/core"

// Re-export commonly used types from core package for convenience.
// This allows users to import only the taskpool package for most use cases.

// Task is the unit of cancellable, observable work
type Task = core.Task

// Base is the embeddable task state machine
type Base = core.Base

// ProgressTask is a Base that owns a Monitor and a title
type ProgressTask = core.ProgressTask

// Group aggregates tasks for fail-fast cancellation
type Group = core.Group

// Monitor tracks multi-level progress for concurrent observers
type Monitor = core.Monitor

// Progress is an immutable snapshot of one monitor level
type Progress = core.Progress

// State is the task lifecycle state
type State = core.State

// TaskID identifies a task in logs and execution records
type TaskID = core.TaskID

// Logger and Field for structured logging through Config
type Logger = core.Logger
type Field = core.Field

// State constants
const (
	StateReady     State = core.StateReady
	StateRunning   State = core.StateRunning
	StateSucceeded State = core.StateSucceeded
	StateCancelled State = core.StateCancelled
	StateFailed    State = core.StateFailed
)

// Convenience forwards to core constructors and helpers
var (
	NewGroup   = core.NewGroup
	NewMonitor = core.NewMonitor
	Run        = core.Run
	Check      = core.Check
	F          = core.F
)
