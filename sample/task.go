package sample

import (
	"fmt"
	"time"

	"github.com/taskpool/taskpool/core"
)

// Task is a progress-reporting sample task: a Loops body that reports a
// message and one unit of progress per iteration on monitor level 0.
type Task struct {
	core.ProgressTask

	loops *Loops
}

// NewTask creates a sample task iterating the given number of times, sleeping
// sleep per iteration. failAfter > 0 induces a failure at that iteration.
func NewTask(iterations int, sleep time.Duration, failAfter int) *Task {
	t := &Task{}
	t.loops = NewLoops(t, iterations, sleep, failAfter)
	return t
}

// Loops exposes the underlying loop driver.
func (t *Task) Loops() *Loops {
	return t.loops
}

// Execute runs the iteration, reporting progress per step.
func (t *Task) Execute() error {
	t.loops.Reset()
	total := int64(t.loops.Iterations())
	monitor := t.Monitor()
	monitor.NotifyStart(0)
	defer monitor.NotifyEnd(0)

	for {
		next, err := t.loops.Next()
		if err != nil {
			return err
		}
		if !next {
			return nil
		}
		monitor.NotifyMessage(0, fmt.Sprintf("Performing iteration %d", t.loops.Iteration()))
		monitor.NotifyProgress(0, 1, total)
	}
}
