package app

import (
	"testing"
	"time"
)

func TestMetrics_RecordFrame(t *testing.T) {
	m := NewMetrics()
	m.RecordFrame(2 * time.Millisecond)
	m.RecordFrame(4 * time.Millisecond)
	m.RecordFrame(1 * time.Millisecond)

	s := m.Snapshot()
	if s.FrameCount != 3 {
		t.Errorf("FrameCount = %d, want 3", s.FrameCount)
	}
	if s.MaxFrameTimeNs != (4 * time.Millisecond).Nanoseconds() {
		t.Errorf("MaxFrameTimeNs = %d", s.MaxFrameTimeNs)
	}
	if s.AvgFrameTimeNs != (7 * time.Millisecond).Nanoseconds()/3 {
		t.Errorf("AvgFrameTimeNs = %d", s.AvgFrameTimeNs)
	}
	if s.LastFrame() != time.Millisecond {
		t.Errorf("LastFrame() = %v, want 1ms", s.LastFrame())
	}
}

func TestMetrics_RecordInput(t *testing.T) {
	m := NewMetrics()
	m.RecordInput(time.Millisecond)
	m.RecordInput(3 * time.Millisecond)

	s := m.Snapshot()
	if s.InputCount != 2 || s.AvgInputTimeNs != (2*time.Millisecond).Nanoseconds() {
		t.Errorf("inputs = %d avg %d", s.InputCount, s.AvgInputTimeNs)
	}
}

func TestMetrics_RecordScan(t *testing.T) {
	m := NewMetrics()
	if m.Snapshot().AvgScanLines() != 0 {
		t.Error("no scans should average 0")
	}

	m.RecordScan(10)
	m.RecordScan(20)
	m.RecordScan(-1)

	s := m.Snapshot()
	if s.ScanCount != 3 || s.ScanLines != 30 {
		t.Errorf("scans = %d lines %d, want 3/30", s.ScanCount, s.ScanLines)
	}
	if s.AvgScanLines() != 10 {
		t.Errorf("AvgScanLines() = %v, want 10", s.AvgScanLines())
	}
}

func TestMetrics_EmptySnapshot(t *testing.T) {
	s := NewMetrics().Snapshot()
	if s.FrameCount != 0 || s.AvgFrameTimeNs != 0 || s.AvgInputTimeNs != 0 {
		t.Errorf("unexpected snapshot: %+v", s)
	}
	if s.Uptime < 0 {
		t.Error("uptime should not be negative")
	}
}

func TestTimer(t *testing.T) {
	timer := StartTimer()
	time.Sleep(5 * time.Millisecond)
	if timer.Elapsed() < 5*time.Millisecond {
		t.Error("Elapsed() too short")
	}
	first := timer.Stop()
	if first < 5*time.Millisecond {
		t.Errorf("Stop() = %v", first)
	}
	if timer.Elapsed() >= first {
		t.Error("Stop() should restart the timer")
	}
}
