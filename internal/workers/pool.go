package workers

import (
	"context"
	"sync"
	"sync/atomic"

	"plagcheck/internal/utils/metrics"
)

// WorkerPool runs jobs on a fixed number of goroutines. Producers call
// AddJob and then CloseJobs; consumers drain Results until it is closed.
type WorkerPool[A, R any] struct {
	workersCount  int
	jobs          chan Job[A, R]
	results       chan Result[R]
	Done          chan struct{}
	activeWorkers int32
	metrics       *metrics.Metrics
}

func New[A, R any](numWorkers int, m *metrics.Metrics) *WorkerPool[A, R] {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if m == nil {
		m = &metrics.Metrics{}
	}
	return &WorkerPool[A, R]{
		workersCount: numWorkers,
		jobs:         make(chan Job[A, R]),
		results:      make(chan Result[R], numWorkers),
		Done:         make(chan struct{}),
		metrics:      m,
	}
}

// AddJob blocks until a worker accepts the job or ctx is done.
func (wp *WorkerPool[A, R]) AddJob(ctx context.Context, job Job[A, R]) error {
	select {
	case wp.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (wp *WorkerPool[A, R]) CloseJobs() {
	close(wp.jobs)
}

func (wp *WorkerPool[A, R]) Results() <-chan Result[R] {
	return wp.results
}

func (wp *WorkerPool[A, R]) ActiveWorkersCount() int32 {
	return atomic.LoadInt32(&wp.activeWorkers)
}

func (wp *WorkerPool[A, R]) Metrics() *metrics.Metrics {
	return wp.metrics
}

// Run blocks until every worker has returned, then closes Results and Done.
func (wp *WorkerPool[A, R]) Run(ctx context.Context) {
	var wg sync.WaitGroup

	for i := 0; i < wp.workersCount; i++ {
		wg.Add(1)
		go worker(ctx, &wg, wp)
	}

	wg.Wait()
	close(wp.results)
	close(wp.Done)
}

func worker[A, R any](ctx context.Context, wg *sync.WaitGroup, wp *WorkerPool[A, R]) {
	defer wg.Done()

	atomic.AddInt32(&wp.activeWorkers, 1)
	defer atomic.AddInt32(&wp.activeWorkers, -1)

	for {
		select {
		case job, ok := <-wp.jobs:
			if !ok {
				return
			}
			result := job.execute(ctx)
			wp.metrics.Record(result.Duration, result.Err)
			select {
			case wp.results <- result:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
