package decode

import (
	"image"
	"runtime"
	"sync"
)

// WorkerPool fans batch decode jobs out across a bounded set of goroutines.
type WorkerPool struct {
	workers  int
	jobQueue chan func()
	wg       sync.WaitGroup
	once     sync.Once
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// Non-positive worker counts default to the CPU count.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &WorkerPool{
		workers:  workers,
		jobQueue: make(chan func(), workers*2),
	}
}

// Start launches the workers. Safe to call more than once.
func (wp *WorkerPool) Start() {
	wp.once.Do(func() {
		for i := 0; i < wp.workers; i++ {
			go wp.worker()
		}
	})
}

func (wp *WorkerPool) worker() {
	for job := range wp.jobQueue {
		job()
		wp.wg.Done()
	}
}

// Submit queues a job. Blocks when the queue is full.
func (wp *WorkerPool) Submit(job func()) {
	wp.wg.Add(1)
	wp.jobQueue <- job
}

// Wait blocks until every submitted job has finished.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Close shuts down the worker pool. Submit must not be called afterwards.
func (wp *WorkerPool) Close() {
	close(wp.jobQueue)
}

// DecodeBatch runs the cascade over several images concurrently and returns
// results in input order.
func (p *Pipeline) DecodeBatch(images []image.Image, workers int) []Result {
	results := make([]Result, len(images))

	pool := NewWorkerPool(workers)
	pool.Start()
	defer pool.Close()

	for i, img := range images {
		i, img := i, img
		pool.Submit(func() {
			results[i] = p.Decode(img)
		})
	}
	pool.Wait()

	return results
}
