// Package sample provides small ready-made tasks for exercising the
// framework: a bounded iteration helper with built-in cancellation
// checkpoints and a progress-reporting task running it. Tests and the
// runnable demos use them as stand-ins for real work bodies.
package sample

import (
	"fmt"
	"time"

	"github.com/taskpool/taskpool/core"
)

// Loops drives a bounded iteration on behalf of a task. Each step sleeps for
// a configured interval, checks the owning task's cancellation checkpoint and
// optionally fails after a configured iteration to simulate a broken body.
type Loops struct {
	task       core.Task
	iterations int
	sleep      time.Duration
	failAfter  int

	iteration int
}

// NewLoops creates a loop driver bound to the task whose checkpoints it
// honors. failAfter <= 0 disables the induced failure.
func NewLoops(task core.Task, iterations int, sleep time.Duration, failAfter int) *Loops {
	if failAfter <= 0 {
		failAfter = -1
	}
	return &Loops{
		task:       task,
		iterations: iterations,
		sleep:      sleep,
		failAfter:  failAfter,
	}
}

// Iteration returns the current iteration.
func (l *Loops) Iteration() int {
	return l.iteration
}

// Iterations returns the total number of iterations.
func (l *Loops) Iterations() int {
	return l.iterations
}

// Next performs the next step. It returns false when the iterations are
// exhausted or the task committed a cancellation, and an error when the
// induced failure iteration is reached.
func (l *Loops) Next() (bool, error) {
	if l.task.Cancel() {
		return false, nil
	}
	if l.iteration >= l.iterations {
		return false, nil
	}
	l.iteration++
	time.Sleep(l.sleep)
	if l.failAfter > 0 && l.iteration >= l.failAfter {
		return false, fmt.Errorf("fail iterations reached: %d", l.failAfter)
	}
	return true, nil
}

// Reset rewinds the iterator for a fresh pass.
func (l *Loops) Reset() {
	l.iteration = 0
}
