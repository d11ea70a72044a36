package core

import (
	"testing"
	"time"
)

// TestNewMonitor_InvalidLevelCount verifies the construction-time guard
// Given: A level count below one
// When: NewMonitor is called
// Then: It panics
func TestNewMonitor_InvalidLevelCount(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewMonitor(0) should panic")
		}
	}()
	NewMonitor(0)
}

// TestMonitor_UnstartedSnapshot verifies the never-started level shape
// Given: A fresh monitor
// When: Progress is read before any NotifyStart
// Then: Only the current time is set; start, end and estimation fields are absent
func TestMonitor_UnstartedSnapshot(t *testing.T) {
	// Arrange
	m := NewMonitor(1)

	// Act
	p := m.Progress(0)

	// Assert
	if p.CurrentTime.IsZero() {
		t.Fatal("snapshot should carry the current time")
	}
	if p.StartTime != nil {
		t.Fatal("unstarted level should have nil start time")
	}
	if p.EndTime != nil || p.Estimated != nil || p.ProjectedEnd != nil {
		t.Fatal("unstarted level should have no end or estimation fields")
	}
	if p.Elapsed != 0 || p.WorkDone != 0 || p.TotalWork != 0 {
		t.Fatal("unstarted level should have zero counters")
	}
}

// TestMonitor_ProgressAccumulates verifies the done counter is an accumulator
// Given: A started level
// When: NotifyProgress(5, 10) is called twice
// Then: The first snapshot shows 5/10 and the second 10/10
func TestMonitor_ProgressAccumulates(t *testing.T) {
	// Arrange
	m := NewMonitor(1)
	m.NotifyStart(0)

	// Act
	m.NotifyProgress(0, 5, 10)

	// Assert
	p := m.Progress(0)
	if p.WorkDone != 5 || p.TotalWork != 10 {
		t.Fatalf("snapshot = %d/%d, want 5/10", p.WorkDone, p.TotalWork)
	}

	// Act - accumulate, not overwrite
	m.NotifyProgress(0, 5, 10)

	// Assert
	p = m.Progress(0)
	if p.WorkDone != 10 || p.TotalWork != 10 {
		t.Fatalf("snapshot = %d/%d, want 10/10", p.WorkDone, p.TotalWork)
	}
}

// TestMonitor_StartEndRoundTrip verifies end-time recording
// Given: A started level
// When: NotifyEnd is called
// Then: The snapshot carries an end time not before the start time, counters intact
func TestMonitor_StartEndRoundTrip(t *testing.T) {
	// Arrange
	m := NewMonitor(1)
	m.NotifyStart(0)
	m.NotifyProgress(0, 3, 3)
	time.Sleep(5 * time.Millisecond)

	// Act
	m.NotifyEnd(0)

	// Assert
	p := m.Progress(0)
	if p.EndTime == nil {
		t.Fatal("end time should be set after NotifyEnd")
	}
	if p.EndTime.Before(*p.StartTime) {
		t.Fatalf("end %v before start %v", p.EndTime, p.StartTime)
	}
	if p.WorkDone != 3 {
		t.Fatalf("NotifyEnd must not reset counters, work done = %d", p.WorkDone)
	}
}

// TestMonitor_RestartResetsLevelOnly verifies per-level restart isolation
// Given: A two-level monitor with both levels progressed
// When: Level 0 is restarted
// Then: Level 0 counters, message and end time reset while level 1 is untouched
func TestMonitor_RestartResetsLevelOnly(t *testing.T) {
	// Arrange
	m := NewMonitor(2)
	m.NotifyStart(0)
	m.NotifyProgress(0, 7, 10)
	m.NotifyMessage(0, "epoch 1")
	m.NotifyIndeterminate(0, true)
	m.NotifyEnd(0)
	m.NotifyStart(1)
	m.NotifyProgress(1, 4, 8)

	// Act
	m.NotifyStart(0)

	// Assert
	p0 := m.Progress(0)
	if p0.WorkDone != 0 || p0.TotalWork != 0 {
		t.Fatalf("restarted level counters = %d/%d, want 0/0", p0.WorkDone, p0.TotalWork)
	}
	if p0.Message != "" || p0.Indeterminate || p0.EndTime != nil {
		t.Fatal("restart should clear message, indeterminate flag and end time")
	}
	if p0.StartTime == nil {
		t.Fatal("restart should set a fresh start time")
	}

	p1 := m.Progress(1)
	if p1.WorkDone != 4 || p1.TotalWork != 8 {
		t.Fatalf("sibling level = %d/%d, want 4/8 untouched", p1.WorkDone, p1.TotalWork)
	}
}

// TestMonitor_EstimationFormula verifies the linear extrapolation
// Given: A started level with 2 of 10 units done after a measurable delay
// When: Progress is read
// Then: Estimated equals elapsed_ms * total / done (millisecond truncation) and
//       ProjectedEnd equals start plus that estimate
func TestMonitor_EstimationFormula(t *testing.T) {
	// Arrange
	m := NewMonitor(1)
	m.NotifyStart(0)
	time.Sleep(20 * time.Millisecond)
	m.NotifyProgress(0, 2, 10)

	// Act
	p := m.Progress(0)

	// Assert - recompute from the snapshot's own fields
	if p.Estimated == nil || p.ProjectedEnd == nil {
		t.Fatal("determinate started level should carry estimation fields")
	}
	wantMillis := int64(float64(p.Elapsed.Milliseconds()) * float64(p.TotalWork) / float64(p.WorkDone))
	want := time.Duration(wantMillis) * time.Millisecond
	if *p.Estimated != want {
		t.Fatalf("Estimated = %v, want %v", *p.Estimated, want)
	}
	if !p.ProjectedEnd.Equal(p.StartTime.Add(want)) {
		t.Fatalf("ProjectedEnd = %v, want start+%v", *p.ProjectedEnd, want)
	}
}

// TestMonitor_EstimationFloorsZeroWorkDone verifies the divisor floor
// Given: A started level with total work set and zero work done
// When: Progress is read
// Then: The estimate extrapolates from one unit instead of dividing by zero
func TestMonitor_EstimationFloorsZeroWorkDone(t *testing.T) {
	// Arrange
	m := NewMonitor(1)
	m.NotifyStart(0)
	time.Sleep(10 * time.Millisecond)
	m.NotifyProgress(0, 0, 10)

	// Act
	p := m.Progress(0)

	// Assert
	if p.Estimated == nil {
		t.Fatal("estimate should be present with zero work done")
	}
	wantMillis := int64(float64(p.Elapsed.Milliseconds()) * float64(p.TotalWork) / 1.0)
	want := time.Duration(wantMillis) * time.Millisecond
	if *p.Estimated != want {
		t.Fatalf("Estimated = %v, want %v", *p.Estimated, want)
	}
}

// TestMonitor_IndeterminateSuppressesEstimate verifies the indeterminate flag
// Given: A started level marked indeterminate
// When: Progress is read
// Then: Elapsed is reported but no estimate or projected end
func TestMonitor_IndeterminateSuppressesEstimate(t *testing.T) {
	// Arrange
	m := NewMonitor(1)
	m.NotifyStart(0)
	m.NotifyIndeterminate(0, true)
	m.NotifyProgress(0, 5, 10)

	// Act
	p := m.Progress(0)

	// Assert
	if !p.Indeterminate {
		t.Fatal("snapshot should carry the indeterminate flag")
	}
	if p.Estimated != nil || p.ProjectedEnd != nil {
		t.Fatal("indeterminate level should not carry estimation fields")
	}
}

// TestMonitor_MessageTitleState verifies the last-write-wins shared fields
// Given: A monitor
// When: Message, title and state are written twice
// Then: The latest values are observed
func TestMonitor_MessageTitleState(t *testing.T) {
	// Arrange
	m := NewMonitor(1)
	m.NotifyStart(0)

	// Act
	m.NotifyMessage(0, "first")
	m.NotifyMessage(0, "second")
	m.NotifyTitle("Training")
	m.NotifyState(StateRunning)
	m.NotifyState(StateSucceeded)

	// Assert
	if got := m.Progress(0).Message; got != "second" {
		t.Fatalf("message = %q, want %q", got, "second")
	}
	if got := m.Title(); got != "Training" {
		t.Fatalf("title = %q, want %q", got, "Training")
	}
	if got := m.State(); got != StateSucceeded {
		t.Fatalf("state = %v, want Succeeded", got)
	}
	if m.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", m.Size())
	}
}

// TestProgress_Ratio verifies the clamped completion ratio helper
// Given: Snapshots with various done/total combinations
// When: Ratio is computed
// Then: The value is done/total clamped to [0, 1], zero for unknown totals
func TestProgress_Ratio(t *testing.T) {
	cases := []struct {
		done, total int64
		want        float64
	}{
		{0, 0, 0},
		{5, 10, 0.5},
		{15, 10, 1},
		{-1, 10, 0},
	}
	for _, c := range cases {
		p := Progress{WorkDone: c.done, TotalWork: c.total}
		if got := p.Ratio(); got != c.want {
			t.Errorf("Ratio(%d/%d) = %v, want %v", c.done, c.total, got, c.want)
		}
	}
}
