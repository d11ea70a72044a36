package core

import (
	"sync/atomic"
	"time"
)

// Progress is an immutable snapshot of one monitor level, built for observers
// that poll on a timer and render title, message, elapsed and remaining time.
//
// Nil pointer fields mean "not available": StartTime is nil until the level
// has been started, EndTime is nil until NotifyEnd, and the two estimation
// fields are nil while the level is unstarted or marked indeterminate.
//
// The snapshot is assembled from independent atomic reads. Under a concurrent
// writer it may combine an old message with a new counter; that is accepted,
// the snapshot is advisory telemetry rather than a transactional view.
type Progress struct {
	CurrentTime   time.Time
	StartTime     *time.Time
	EndTime       *time.Time
	Message       string
	WorkDone      int64
	TotalWork     int64
	Indeterminate bool

	// Elapsed is CurrentTime minus StartTime; zero while unstarted.
	Elapsed time.Duration

	// Estimated extrapolates the total duration linearly from the work done
	// so far: elapsed * total / max(done, 1), truncated to milliseconds.
	Estimated *time.Duration

	// ProjectedEnd is StartTime plus Estimated.
	ProjectedEnd *time.Time
}

// Ratio returns work done over total work, clamped to [0, 1]; zero when the
// total is unknown.
func (p Progress) Ratio() float64 {
	if p.TotalWork <= 0 {
		return 0
	}
	r := float64(p.WorkDone) / float64(p.TotalWork)
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

// level is one independently tracked progress channel.
type level struct {
	start         atomic.Pointer[time.Time]
	end           atomic.Pointer[time.Time]
	message       atomic.Pointer[string]
	workDone      atomic.Int64
	totalWork     atomic.Int64
	indeterminate atomic.Bool
}

// Monitor tracks the progress of a running task across one or more levels,
// for example level 0 for epochs and level 1 for the batches inside each
// epoch. It also carries a shared title and a mirror of the owning task's
// state (see ProgressTask).
//
// Writers call the Notify methods from the goroutine executing the task, one
// writer per level; levels are independent and need no coordination between
// them. Readers call Progress, Title and State from any goroutine at any
// time. Every field is an individual atomic; there are no locks.
type Monitor struct {
	levels []level
	title  atomic.Pointer[string]
	state  atomic.Int32
}

// NewMonitor creates a monitor with the given number of levels, all
// unstarted. It panics when levels < 1.
func NewMonitor(levels int) *Monitor {
	if levels < 1 {
		panic("core: monitor needs at least one level")
	}
	return &Monitor{levels: make([]level, levels)}
}

// Size returns the number of levels.
func (m *Monitor) Size() int {
	return len(m.levels)
}

// NotifyStart (re)starts tracking for the level: the start time becomes now,
// and the end time, message, counters and indeterminate flag are reset.
// Calling it again reuses the level for a fresh pass, leaving sibling levels
// untouched.
func (m *Monitor) NotifyStart(i int) {
	l := &m.levels[i]
	now := time.Now()
	l.start.Store(&now)
	l.end.Store(nil)
	l.message.Store(nil)
	l.workDone.Store(0)
	l.totalWork.Store(0)
	l.indeterminate.Store(false)
}

// NotifyEnd records now as the level's end time. Counters keep their values;
// only NotifyStart resets them.
func (m *Monitor) NotifyEnd(i int) {
	now := time.Now()
	m.levels[i].end.Store(&now)
}

// NotifyIndeterminate marks whether total-work extrapolation is meaningful
// for the level.
func (m *Monitor) NotifyIndeterminate(i int, indeterminate bool) {
	m.levels[i].indeterminate.Store(indeterminate)
}

// NotifyMessage sets the level's status text, last write wins.
func (m *Monitor) NotifyMessage(i int, message string) {
	m.levels[i].message.Store(&message)
}

// NotifyProgress adds delta to the level's work-done counter and overwrites
// its total-work target. The counter accumulates until the next NotifyStart;
// pass the full target as total on every call.
func (m *Monitor) NotifyProgress(i int, delta, total int64) {
	l := &m.levels[i]
	l.workDone.Add(delta)
	l.totalWork.Store(total)
}

// NotifyState mirrors the owning task's state. Shared across levels.
func (m *Monitor) NotifyState(s State) {
	m.state.Store(int32(s))
}

// NotifyTitle sets the monitor title. Shared across levels.
func (m *Monitor) NotifyTitle(title string) {
	m.title.Store(&title)
}

// State returns the last mirrored task state, StateReady before any notify.
func (m *Monitor) State() State {
	return State(m.state.Load())
}

// Title returns the monitor title.
func (m *Monitor) Title() string {
	if p := m.title.Load(); p != nil {
		return *p
	}
	return ""
}

// Progress returns a snapshot of the level. A level that was never started
// yields a snapshot carrying only the current time.
func (m *Monitor) Progress(i int) Progress {
	l := &m.levels[i]
	p := Progress{CurrentTime: time.Now()}

	start := l.start.Load()
	if start == nil {
		return p
	}
	p.StartTime = start
	p.EndTime = l.end.Load()
	if msg := l.message.Load(); msg != nil {
		p.Message = *msg
	}
	p.WorkDone = l.workDone.Load()
	p.TotalWork = l.totalWork.Load()
	p.Indeterminate = l.indeterminate.Load()
	p.Elapsed = p.CurrentTime.Sub(*start)

	if p.Indeterminate {
		return p
	}

	// Linear extrapolation; a zero done-count is floored to one work unit to
	// avoid dividing by zero.
	workCalc := float64(p.WorkDone)
	if p.WorkDone <= 0 {
		workCalc = 1
	}
	estimatedMillis := int64(float64(p.Elapsed.Milliseconds()) * float64(p.TotalWork) / workCalc)
	estimated := time.Duration(estimatedMillis) * time.Millisecond
	projected := start.Add(estimated)
	p.Estimated = &estimated
	p.ProjectedEnd = &projected
	return p
}
