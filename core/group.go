package core

// Group aggregates related tasks for fail-fast coordination. When any member
// ends Failed, Run requests cancellation of the whole group, so one failure
// cancels the siblings without a central supervisor. Members that already
// terminated are unaffected; running members observe the request at their
// next checkpoint.
//
// A group never executes anything and does not own its members' lifetimes.
// Membership must be fully populated before the tasks are handed to a pool:
// Add is not synchronized against a concurrent RequestCancel fan-out.
type Group struct {
	tasks []Task
}

// NewGroup creates an empty group.
func NewGroup() *Group {
	return &Group{}
}

// Add attaches the task to this group and appends it to the membership list.
// A task belongs to at most one group; adding it to a second group rebinds
// its back-reference.
func (g *Group) Add(t Task) {
	t.base().group.Store(g)
	g.tasks = append(g.tasks, t)
}

// AddAll adds the tasks in order.
func (g *Group) AddAll(tasks ...Task) {
	for _, t := range tasks {
		g.Add(t)
	}
}

// Tasks returns a copy of the membership list in insertion order.
func (g *Group) Tasks() []Task {
	out := make([]Task, len(g.tasks))
	copy(out, g.tasks)
	return out
}

// Size returns the number of members.
func (g *Group) Size() int {
	return len(g.tasks)
}

// RequestCancel raises the cooperative cancel flag on every member.
func (g *Group) RequestCancel() {
	for _, t := range g.tasks {
		t.RequestCancel()
	}
}
