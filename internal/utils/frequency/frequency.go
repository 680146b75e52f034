package frequency

import (
	"log/slog"
	"time"
)

// Frequency counts events and reports the running rate at most once per
// Interval. It is not safe for concurrent use.
type Frequency struct {
	Interval time.Duration
	count    int
	total    int
	start    time.Time
	LastTime time.Time
}

func New(interval time.Duration) *Frequency {
	now := time.Now()
	return &Frequency{
		Interval: interval,
		start:    now,
		LastTime: now,
	}
}

func (f *Frequency) Add(count int) {
	f.count += count
	f.total += count
}

func (f *Frequency) Total() int {
	return f.total
}

// Check logs the events counted since the previous report and the average
// rate per second since creation, once Interval has elapsed. It reports
// whether a line was logged.
func (f *Frequency) Check(log *slog.Logger, msg string) bool {
	now := time.Now()
	if now.Sub(f.LastTime) < f.Interval {
		return false
	}

	average := 0.0
	if elapsed := now.Sub(f.start).Seconds(); elapsed > 0 {
		average = float64(f.total) / elapsed
	}
	log.Debug(msg, "count", f.count, "total", f.total, "per_second", average)

	f.count = 0
	f.LastTime = now
	return true
}
