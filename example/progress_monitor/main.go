package main

import (
	"context"
	"fmt"
	"time"

	"github.com/taskpool/taskpool"
	"github.com/taskpool/taskpool/sample"
)

func main() {
	pool, err := taskpool.New("ROOT", 2)
	if err != nil {
		panic(err)
	}
	defer func() {
		pool.Shutdown()
		pool.Join()
	}()

	fmt.Println("=== Progress Monitor Example ===")

	task := sample.NewTask(20, 50*time.Millisecond, 0)
	task.SetTitle("Long computation")
	if err := pool.Submit(task); err != nil {
		panic(err)
	}

	// Observe the monitor on a timer while the worker runs the task. The
	// snapshot is advisory telemetry assembled from atomic reads; no lock is
	// shared with the worker.
	monitor := task.Monitor()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for !task.HasTerminated() {
		<-ticker.C
		p := monitor.Progress(0)
		if p.StartTime == nil {
			fmt.Println("not started yet")
			continue
		}
		line := fmt.Sprintf("[%s] %s %d/%d (%.0f%%) elapsed %v",
			monitor.State(), p.Message, p.WorkDone, p.TotalWork,
			p.Ratio()*100, p.Elapsed.Round(time.Millisecond))
		if p.Estimated != nil {
			line += fmt.Sprintf(" estimated %v", p.Estimated.Round(time.Millisecond))
		}
		fmt.Println(line)
	}

	if err := pool.WaitForTermination(context.Background(), task); err != nil {
		panic(err)
	}
	fmt.Printf("%s -> %s\n", task.Title(), task.State())
}
