package core

import (
	"sync/atomic"
)

// ProgressTask is the Base for tasks that report progress. It owns a Monitor
// and a title, and mirrors every task state change into the monitor the
// moment it happens, so an observer polling the monitor never sees a state
// stale relative to the task itself. SetTitle writes the local field and the
// monitor title together.
//
// Embed it instead of Base and implement Execute. The monitor has a single
// level unless InitLevels is called during construction:
//
//	type trainTask struct {
//		core.ProgressTask
//	}
//
//	t := &trainTask{}
//	t.InitLevels(2) // level 0: epochs, level 1: batches
type ProgressTask struct {
	Base

	levels  atomic.Int32
	monitor atomic.Pointer[Monitor]
	title   atomic.Pointer[string]
}

// InitLevels fixes the monitor's level count. Call it before the monitor is
// first used; it panics on n < 1 or once the monitor already exists.
func (p *ProgressTask) InitLevels(n int) {
	if n < 1 {
		panic("core: progress task needs at least one level")
	}
	if p.monitor.Load() != nil {
		panic("core: monitor already created, InitLevels must come first")
	}
	p.levels.Store(int32(n))
}

// Monitor returns the task's monitor, creating it on first use. The new
// monitor is seeded with the task's current state and title, and from then on
// receives every state transition.
func (p *ProgressTask) Monitor() *Monitor {
	if m := p.monitor.Load(); m != nil {
		return m
	}

	n := int(p.levels.Load())
	if n < 1 {
		n = 1
	}
	m := NewMonitor(n)
	m.NotifyTitle(p.Title())
	if !p.monitor.CompareAndSwap(nil, m) {
		return p.monitor.Load()
	}
	p.setStateHook(p.mirrorState)
	// Seed after the hook is live so a transition racing the creation is not
	// lost.
	m.NotifyState(p.State())
	return m
}

func (p *ProgressTask) mirrorState(s State) {
	if m := p.monitor.Load(); m != nil {
		m.NotifyState(s)
	}
}

// SetTitle updates the task title and the monitor title together.
func (p *ProgressTask) SetTitle(title string) {
	p.title.Store(&title)
	p.Monitor().NotifyTitle(title)
}

// Name implements Named: execution records and log fields use the title.
func (p *ProgressTask) Name() string {
	return p.Title()
}

// Title returns the task title.
func (p *ProgressTask) Title() string {
	if t := p.title.Load(); t != nil {
		return *t
	}
	return ""
}
