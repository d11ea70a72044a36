package main

import (
	"context"
	"fmt"
	"time"

	"github.com/taskpool/taskpool"
	"github.com/taskpool/taskpool/sample"
)

func main() {
	pool, err := taskpool.New("ROOT", 4)
	if err != nil {
		panic(err)
	}
	defer func() {
		pool.Shutdown()
		pool.Join()
	}()

	fmt.Println("=== Group Cancel Example ===")

	// One member fails at iteration 5; the siblings would run 200 iterations.
	// The failure requests cancellation of the whole group, and each sibling
	// observes it at its next loop checkpoint.
	group := taskpool.NewGroup()
	failing := sample.NewTask(200, 10*time.Millisecond, 5)
	failing.SetTitle("Failing member")
	group.Add(failing)
	for i := 0; i < 3; i++ {
		sibling := sample.NewTask(200, 10*time.Millisecond, 0)
		sibling.SetTitle(fmt.Sprintf("Sibling %d", i+1))
		group.Add(sibling)
	}

	if err := pool.ExecuteGroup(context.Background(), group); err != nil {
		panic(err)
	}

	for _, task := range group.Tasks() {
		fmt.Printf("%-15s -> %s\n", task.(*sample.Task).Title(), task.State())
	}
	fmt.Println("first error:", taskpool.Check(group.Tasks()...))
}
