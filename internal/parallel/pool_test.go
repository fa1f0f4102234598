package parallel

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// =============================================================================
// WorkerPool Creation Tests
// =============================================================================

func TestWorkerPool_Create(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	if pool.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pool.Workers())
	}

	if !pool.IsRunning() {
		t.Error("Pool should be running after creation")
	}
}

func TestWorkerPool_CreateNonPositiveWorkers(t *testing.T) {
	for _, n := range []int{0, -5} {
		pool := NewWorkerPool(n)
		expected := runtime.GOMAXPROCS(0)
		if pool.Workers() != expected {
			t.Errorf("NewWorkerPool(%d).Workers() = %d, want %d (GOMAXPROCS)", n, pool.Workers(), expected)
		}
		pool.Close()
	}
}

// =============================================================================
// ExecuteAll Tests
// =============================================================================

func TestWorkerPool_ExecuteAll(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	numTasks := 100

	work := make([]func(), numTasks)
	for i := range work {
		work[i] = func() {
			counter.Add(1)
		}
	}

	pool.ExecuteAll(work)

	if counter.Load() != int64(numTasks) {
		t.Errorf("counter = %d, want %d", counter.Load(), numTasks)
	}
}

func TestWorkerPool_ExecuteAll_AllIndices(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var mu sync.Mutex
	seen := make(map[int]bool)

	work := make([]func(), 10)
	for i := range work {
		work[i] = func() {
			mu.Lock()
			seen[i] = true
			mu.Unlock()
		}
	}

	pool.ExecuteAll(work)

	for i := range 10 {
		if !seen[i] {
			t.Errorf("missing index %d in results", i)
		}
	}
}

func TestWorkerPool_ExecuteAll_Empty(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	// Should not panic or block
	pool.ExecuteAll(nil)
	pool.ExecuteAll([]func(){})
}

// ExecuteAll must not return while any task is still running.
func TestWorkerPool_ExecuteAll_JoinsSlowTasks(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	var finished atomic.Int64
	work := make([]func(), 6)
	for i := range work {
		work[i] = func() {
			time.Sleep(5 * time.Millisecond)
			finished.Add(1)
		}
	}

	pool.ExecuteAll(work)

	if got := finished.Load(); got != 6 {
		t.Errorf("finished = %d after ExecuteAll returned, want 6", got)
	}
}

func TestWorkerPool_ExecuteAll_PanicPropagates(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var ran atomic.Int64
	boom := errors.New("boom")

	work := make([]func(), 16)
	for i := range work {
		work[i] = func() {
			ran.Add(1)
			if i == 3 {
				panic(boom)
			}
		}
	}

	func() {
		defer func() {
			r := recover()
			if r == nil {
				t.Fatal("ExecuteAll should re-raise the task panic")
			}
			tp, ok := r.(*TaskPanic)
			if !ok {
				t.Fatalf("recovered %T, want *TaskPanic", r)
			}
			if !errors.Is(tp, boom) {
				t.Errorf("TaskPanic does not wrap the original error: %v", tp)
			}
			if len(tp.Stack) == 0 {
				t.Error("TaskPanic.Stack is empty")
			}
		}()
		pool.ExecuteAll(work)
	}()

	if got := ran.Load(); got != 16 {
		t.Errorf("ran = %d, want all 16 tasks to run before the panic is raised", got)
	}

	// The pool survives a task panic.
	var after atomic.Bool
	pool.ExecuteAll([]func(){func() { after.Store(true) }})
	if !after.Load() {
		t.Error("pool did not execute work after a task panic")
	}
}

// =============================================================================
// Close Tests
// =============================================================================

func TestWorkerPool_CloseIdempotent(t *testing.T) {
	pool := NewWorkerPool(4)

	pool.Close()
	pool.Close()

	if pool.IsRunning() {
		t.Error("Pool should not be running after close")
	}
}

func TestWorkerPool_ExecuteAllAfterClosePanics(t *testing.T) {
	pool := NewWorkerPool(4)
	pool.Close()

	var executed atomic.Bool
	defer func() {
		if r := recover(); r != ErrPoolClosed {
			t.Errorf("recovered %v, want ErrPoolClosed", r)
		}
		if executed.Load() {
			t.Error("Work was executed on closed pool")
		}
	}()
	pool.ExecuteAll([]func(){
		func() { executed.Store(true) },
	})
}

// =============================================================================
// Concurrency Tests
// =============================================================================

func TestWorkerPool_Concurrent(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	numGoroutines := 10
	numTasksPerGoroutine := 50

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for range numGoroutines {
		go func() {
			defer wg.Done()

			work := make([]func(), numTasksPerGoroutine)
			for i := range work {
				work[i] = func() {
					counter.Add(1)
				}
			}

			pool.ExecuteAll(work)
		}()
	}

	wg.Wait()

	expected := int64(numGoroutines * numTasksPerGoroutine)
	if counter.Load() != expected {
		t.Errorf("counter = %d, want %d", counter.Load(), expected)
	}
}

func TestWorkerPool_NoGoroutineLeak(t *testing.T) {
	runtime.GC()
	time.Sleep(50 * time.Millisecond)
	baseline := runtime.NumGoroutine()

	for range 5 {
		pool := NewWorkerPool(4)

		work := make([]func(), 100)
		for j := range work {
			work[j] = func() {}
		}
		pool.ExecuteAll(work)

		pool.Close()
	}

	runtime.GC()
	time.Sleep(100 * time.Millisecond)

	final := runtime.NumGoroutine()
	if final > baseline+2 {
		t.Errorf("goroutine count: baseline=%d, final=%d (leak detected)", baseline, final)
	}
}

func TestWorkerPool_SingleWorker(t *testing.T) {
	pool := NewWorkerPool(1)
	defer pool.Close()

	var counter atomic.Int64
	work := make([]func(), DefaultPartitions)
	for i := range work {
		work[i] = func() { counter.Add(1) }
	}
	pool.ExecuteAll(work)

	if counter.Load() != DefaultPartitions {
		t.Errorf("counter = %d, want %d", counter.Load(), DefaultPartitions)
	}
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkWorkerPool_ExecuteAll_DefaultBands(b *testing.B) {
	pool := NewWorkerPool(DefaultWorkers)
	defer pool.Close()

	work := make([]func(), DefaultPartitions)
	for i := range work {
		work[i] = func() {}
	}

	b.ResetTimer()
	for b.Loop() {
		pool.ExecuteAll(work)
	}
}

func BenchmarkWorkerPool_vs_Goroutines(b *testing.B) {
	const tasks = DefaultPartitions

	b.Run("Pool", func(b *testing.B) {
		pool := NewWorkerPool(DefaultWorkers)
		defer pool.Close()
		work := make([]func(), tasks)
		for i := range work {
			work[i] = func() {}
		}
		for b.Loop() {
			pool.ExecuteAll(work)
		}
	})

	b.Run("Goroutines", func(b *testing.B) {
		for b.Loop() {
			var wg sync.WaitGroup
			wg.Add(tasks)
			for range tasks {
				go wg.Done()
			}
			wg.Wait()
		}
	})
}
