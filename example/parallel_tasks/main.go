package main

import (
	"context"
	"fmt"
	"time"

	"github.com/taskpool/taskpool"
	"github.com/taskpool/taskpool/sample"
)

func main() {
	// 1. Create a 4-worker pool
	pool, err := taskpool.New("ROOT", 4)
	if err != nil {
		panic(err)
	}
	defer func() {
		pool.Shutdown()
		pool.Join()
	}()

	fmt.Println("=== Parallel Tasks Example ===")

	// 2. Build ten independent tasks
	tasks := make([]taskpool.Task, 10)
	for i := range tasks {
		t := sample.NewTask(5, 20*time.Millisecond, 0)
		t.SetTitle(fmt.Sprintf("Task %d", i+1))
		tasks[i] = t
	}

	// 3. Execute blocks until every task terminated
	start := time.Now()
	if err := pool.Execute(context.Background(), tasks...); err != nil {
		panic(err)
	}
	fmt.Printf("10 tasks of 5x20ms finished in %v on 4 workers\n", time.Since(start).Round(time.Millisecond))

	// 4. Check the batch for captured errors
	if err := taskpool.Check(tasks...); err != nil {
		fmt.Println("batch error:", err)
	} else {
		fmt.Println("all tasks succeeded")
	}

	// 5. Inspect the execution history
	for _, rec := range pool.Recent(3) {
		fmt.Printf("%-8s %-10s on %s in %v\n", rec.Name, rec.State, rec.Worker, rec.Duration.Round(time.Millisecond))
	}
}
