package decode

import (
	"image"
	"sync/atomic"
	"testing"
)

func TestWorkerPool_RunsAllJobs(t *testing.T) {
	pool := NewWorkerPool(4)
	pool.Start()
	defer pool.Close()

	var counter int64
	for i := 0; i < 100; i++ {
		pool.Submit(func() {
			atomic.AddInt64(&counter, 1)
		})
	}
	pool.Wait()

	if counter != 100 {
		t.Errorf("Expected 100 jobs to run, got %d", counter)
	}
}

func TestWorkerPool_DefaultsWorkerCount(t *testing.T) {
	pool := NewWorkerPool(0)
	if pool.workers <= 0 {
		t.Errorf("Expected positive default worker count, got %d", pool.workers)
	}
}

func TestWorkerPool_StartIsIdempotent(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Start()
	pool.Start()
	defer pool.Close()

	var counter int64
	for i := 0; i < 10; i++ {
		pool.Submit(func() { atomic.AddInt64(&counter, 1) })
	}
	pool.Wait()

	if counter != 10 {
		t.Errorf("Expected 10 jobs to run, got %d", counter)
	}
}

func TestDecodeBatch_PreservesOrder(t *testing.T) {
	pipeline := NewPipeline(NewZXingEngine())

	images := []image.Image{
		qrImage(t, "first", 256),
		blankImage(200, 200),
		qrImage(t, "third", 256),
	}

	results := pipeline.DecodeBatch(images, 3)
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if !results[0].Found() || results[0].Symbols[0].Text != "first" {
		t.Errorf("Expected first slot to decode to first, got %+v", results[0])
	}
	if results[1].Found() {
		t.Error("Expected second slot to find nothing")
	}
	if results[1].ErrorMessage != ErrNoSymbolMessage {
		t.Errorf("Expected contract error message, got %q", results[1].ErrorMessage)
	}
	if !results[2].Found() || results[2].Symbols[0].Text != "third" {
		t.Errorf("Expected third slot to decode to third, got %+v", results[2])
	}
}
