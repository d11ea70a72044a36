package main

import (
	"fmt"
	"time"

	"github.com/taskpool/taskpool"
	"github.com/taskpool/taskpool/sample"
)

func main() {
	fmt.Println("=== Shutdown Example ===")

	// Graceful: queued work drains before the workers exit.
	graceful, err := taskpool.New("GRACEFUL", 1)
	if err != nil {
		panic(err)
	}
	queued := make([]taskpool.Task, 3)
	for i := range queued {
		queued[i] = sample.NewTask(3, 10*time.Millisecond, 0)
	}
	if err := graceful.Submit(queued...); err != nil {
		panic(err)
	}
	graceful.Shutdown()
	graceful.Join()
	for i, task := range queued {
		fmt.Printf("graceful task %d -> %s\n", i+1, task.State())
	}

	// Immediate: queued work is dropped and the in-flight body observes the
	// cancellation at its next checkpoint.
	immediate, err := taskpool.New("NOW", 1)
	if err != nil {
		panic(err)
	}
	inFlight := sample.NewTask(1000, 10*time.Millisecond, 0)
	dropped := sample.NewTask(3, 10*time.Millisecond, 0)
	if err := immediate.Submit(inFlight, dropped); err != nil {
		panic(err)
	}
	time.Sleep(50 * time.Millisecond) // let the worker pick up the first task
	immediate.ShutdownNow()
	immediate.Join()
	fmt.Printf("in-flight -> %s, dropped -> %s\n", inFlight.State(), dropped.State())

	// Submissions after shutdown are rejected with a sentinel error.
	if err := immediate.Submit(sample.NewTask(1, time.Millisecond, 0)); err != nil {
		fmt.Println("late submit:", err)
	}
}
