package core

import (
	"reflect"
	"time"
)

// TaskRecord captures one completed task run on a pool.
type TaskRecord struct {
	TaskID     TaskID
	Name       string
	Worker     string
	State      State
	Err        string
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration
}

// PoolStats represents runtime observability state for a pool.
type PoolStats struct {
	Name    string
	Workers int
	Queued  int
	Active  int
	Running bool
}

// Named is implemented by tasks that carry a human-readable name for
// execution records and log fields.
type Named interface {
	Name() string
}

// ResolveTaskName returns the task's Name when it implements Named, otherwise
// the reflected type name.
func ResolveTaskName(task Task) string {
	if task == nil {
		return "anonymous"
	}
	if n, ok := task.(Named); ok {
		if name := n.Name(); name != "" {
			return name
		}
	}
	t := reflect.TypeOf(task)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return "anonymous"
	}
	return t.Name()
}
