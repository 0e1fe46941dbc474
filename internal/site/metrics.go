package site

import (
	"sync"
	"time"
)

// Metrics tracks builds across a session, such as a watch loop.
type Metrics struct {
	TotalBuilds      int64
	SuccessfulBuilds int64
	FailedBuilds     int64
	PagesWritten     int64
	LastDuration     time.Duration
	TotalDuration    time.Duration
	mutex            sync.RWMutex
}

// NewMetrics creates a new metrics tracker
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordBuild records a build report and its outcome
func (m *Metrics) RecordBuild(report *Report, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.TotalBuilds++
	m.TotalDuration += report.Duration
	m.LastDuration = report.Duration
	m.PagesWritten += int64(len(report.Pages))

	if err != nil {
		m.FailedBuilds++
	} else {
		m.SuccessfulBuilds++
	}
}

// Snapshot returns a copy of the current metrics
func (m *Metrics) Snapshot() Metrics {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return Metrics{
		TotalBuilds:      m.TotalBuilds,
		SuccessfulBuilds: m.SuccessfulBuilds,
		FailedBuilds:     m.FailedBuilds,
		PagesWritten:     m.PagesWritten,
		LastDuration:     m.LastDuration,
		TotalDuration:    m.TotalDuration,
	}
}

// AverageDuration returns the mean build time
func (m *Metrics) AverageDuration() time.Duration {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.TotalBuilds == 0 {
		return 0
	}
	return m.TotalDuration / time.Duration(m.TotalBuilds)
}

// SuccessRate returns the success rate as a percentage
func (m *Metrics) SuccessRate() float64 {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.TotalBuilds == 0 {
		return 0.0
	}
	return float64(m.SuccessfulBuilds) / float64(m.TotalBuilds) * 100.0
}
