package worker

import (
	"context"
	"sync/atomic"
	"testing"
)

type countingJob struct {
	counter *atomic.Int64
}

type countingResult struct {
	err error
}

func (r *countingResult) GetError() error { return r.err }

func (j *countingJob) Execute(ctx context.Context) Result {
	j.counter.Add(1)
	return &countingResult{}
}

func TestPoolRunsAllJobs(t *testing.T) {
	var counter atomic.Int64

	pool := NewPool(2)
	pool.Start()

	const jobs = 10
	for i := 0; i < jobs; i++ {
		pool.Submit(&countingJob{counter: &counter})
	}

	results := pool.Wait()
	if len(results) != jobs {
		t.Errorf("got %d results, want %d", len(results), jobs)
	}
	if counter.Load() != jobs {
		t.Errorf("executed %d jobs, want %d", counter.Load(), jobs)
	}
}

func TestPoolBufferedAbsorbsLargeBatches(t *testing.T) {
	var counter atomic.Int64

	const jobs = 200
	pool := NewPoolBuffered(4, jobs)
	pool.Start()

	for i := 0; i < jobs; i++ {
		pool.Submit(&countingJob{counter: &counter})
	}

	results := pool.Wait()
	if len(results) != jobs {
		t.Errorf("got %d results, want %d", len(results), jobs)
	}
}

func TestPoolMinimumOneWorker(t *testing.T) {
	var counter atomic.Int64

	pool := NewPool(0)
	pool.Start()
	pool.Submit(&countingJob{counter: &counter})

	if results := pool.Wait(); len(results) != 1 {
		t.Errorf("got %d results, want 1", len(results))
	}
}

func TestPoolShutdown(t *testing.T) {
	pool := NewPool(2)
	pool.Start()
	pool.Shutdown()

	// Submit after shutdown is a no-op, not a panic.
	var counter atomic.Int64
	pool.Submit(&countingJob{counter: &counter})
	if counter.Load() != 0 {
		t.Error("job executed after shutdown")
	}
}
