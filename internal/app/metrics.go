package app

import (
	"sync/atomic"
	"time"
)

// Metrics tracks viewer performance counters.
type Metrics struct {
	// Frame timing
	frameCount   atomic.Uint64
	frameTotalNs atomic.Int64
	frameMaxNs   atomic.Int64
	lastFrameNs  atomic.Int64

	// Input handling
	inputCount   atomic.Uint64
	inputTotalNs atomic.Int64

	// Guide scans applied
	scanCount atomic.Uint64
	scanLines atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordFrame records the time spent painting one frame.
func (m *Metrics) RecordFrame(duration time.Duration) {
	ns := duration.Nanoseconds()

	m.frameCount.Add(1)
	m.frameTotalNs.Add(ns)
	m.lastFrameNs.Store(ns)

	for {
		old := m.frameMaxNs.Load()
		if ns <= old || m.frameMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordInput records the time spent handling one input event.
func (m *Metrics) RecordInput(duration time.Duration) {
	m.inputCount.Add(1)
	m.inputTotalNs.Add(duration.Nanoseconds())
}

// RecordScan records an applied scan covering lines lines.
func (m *Metrics) RecordScan(lines int) {
	m.scanCount.Add(1)
	if lines > 0 {
		m.scanLines.Add(uint64(lines))
	}
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	frames := m.frameCount.Load()
	inputs := m.inputCount.Load()

	var avgFrame, avgInput int64
	if frames > 0 {
		avgFrame = m.frameTotalNs.Load() / int64(frames)
	}
	if inputs > 0 {
		avgInput = m.inputTotalNs.Load() / int64(inputs)
	}

	return MetricsSnapshot{
		Uptime:         time.Since(m.startTime),
		FrameCount:     frames,
		AvgFrameTimeNs: avgFrame,
		MaxFrameTimeNs: m.frameMaxNs.Load(),
		LastFrameNs:    m.lastFrameNs.Load(),
		InputCount:     inputs,
		AvgInputTimeNs: avgInput,
		ScanCount:      m.scanCount.Load(),
		ScanLines:      m.scanLines.Load(),
	}
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime         time.Duration
	FrameCount     uint64
	AvgFrameTimeNs int64
	MaxFrameTimeNs int64
	LastFrameNs    int64
	InputCount     uint64
	AvgInputTimeNs int64
	ScanCount      uint64
	ScanLines      uint64
}

// AvgScanLines returns the mean scan window.
func (s MetricsSnapshot) AvgScanLines() float64 {
	if s.ScanCount == 0 {
		return 0
	}
	return float64(s.ScanLines) / float64(s.ScanCount)
}

// LastFrame returns the duration of the last frame.
func (s MetricsSnapshot) LastFrame() time.Duration {
	return time.Duration(s.LastFrameNs)
}

// Timer provides a simple way to measure elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer creates a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Stop returns the elapsed time and resets the timer.
func (t *Timer) Stop() time.Duration {
	elapsed := t.Elapsed()
	t.start = time.Now()
	return elapsed
}
