package metrics

import (
	"log/slog"
	"sync"
	"time"
)

// Metrics aggregates job outcomes across pool runs. The zero value is ready
// to use and safe for concurrent use.
type Metrics struct {
	mu             sync.Mutex
	totalJobs      int
	failedJobs     int
	totalExecution time.Duration
	maxExecution   time.Duration
}

type Snapshot struct {
	TotalJobs        int
	SuccessfulJobs   int
	FailedJobs       int
	AvgExecutionTime time.Duration
	MaxExecutionTime time.Duration
}

// Record counts one finished job; a non-nil err marks it failed.
func (m *Metrics) Record(duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalJobs++
	if err != nil {
		m.failedJobs++
	}
	m.totalExecution += duration
	m.maxExecution = max(m.maxExecution, duration)
}

func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Snapshot{
		TotalJobs:        m.totalJobs,
		SuccessfulJobs:   m.totalJobs - m.failedJobs,
		FailedJobs:       m.failedJobs,
		MaxExecutionTime: m.maxExecution,
	}
	if m.totalJobs > 0 {
		s.AvgExecutionTime = m.totalExecution / time.Duration(m.totalJobs)
	}
	return s
}

func (m *Metrics) PrintMetrics(log *slog.Logger) {
	s := m.Snapshot()

	log.Info("job metrics",
		"total", s.TotalJobs,
		"successful", s.SuccessfulJobs,
		"failed", s.FailedJobs,
		"avg_execution", s.AvgExecutionTime,
		"max_execution", s.MaxExecutionTime,
	)
}
