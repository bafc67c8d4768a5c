package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akolanti/JobMatch/internal/domain/matchModel"
)

// MockIngester tracks the objects handed to it.
type MockIngester struct {
	ProcessedCount int32
	OnHandle       func(ctx context.Context, ref matchModel.ObjectRef) (matchModel.Outcome, error)
}

func (m *MockIngester) Handle(ctx context.Context, ref matchModel.ObjectRef) (matchModel.Outcome, error) {
	atomic.AddInt32(&m.ProcessedCount, 1)
	if m.OnHandle != nil {
		return m.OnHandle(ctx, ref)
	}
	return matchModel.Outcome{Object: ref, State: matchModel.StatePersisted}, nil
}

func testOptions() Options {
	return Options{
		BufferLimit:          10,
		MinWorkers:           1,
		MaxWorkers:           3,
		RequestsPerNewWorker: 1,
		IdleTimeout:          time.Minute,
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met within timeout")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestWorkerPool_Flow(t *testing.T) {
	ingester := &MockIngester{}
	pool := NewPool(ingester, testOptions())
	pool.Start()

	t.Run("Starts with the minimum", func(t *testing.T) {
		if got := pool.WorkerCount(); got != 1 {
			t.Errorf("Expected 1 worker, got %d", got)
		}
	})

	t.Run("Worker processes a task and reports back", func(t *testing.T) {
		done := make(chan matchModel.Outcome, 1)
		ref := matchModel.ObjectRef{Bucket: "b", Key: "resumes/a.pdf"}
		err := pool.Submit(context.Background(), Task{
			Ref:     ref,
			TraceId: "trace-1",
			Done:    func(o matchModel.Outcome, err error) { done <- o },
		})
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		select {
		case o := <-done:
			if o.Object != ref || o.State != matchModel.StatePersisted {
				t.Errorf("unexpected outcome %+v", o)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("task was not processed")
		}
	})

	t.Run("Dispatcher grows the pool up to the maximum", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			if err := pool.Submit(context.Background(), Task{Ref: matchModel.ObjectRef{Key: "k"}}); err != nil {
				t.Fatal(err)
			}
		}
		waitFor(t, func() bool { return atomic.LoadInt32(&ingester.ProcessedCount) == 11 })
		waitFor(t, func() bool { return pool.WorkerCount() >= 2 })
		if got := pool.WorkerCount(); got > 3 {
			t.Errorf("Expected at most 3 workers, got %d", got)
		}
	})

	t.Run("Stop retires workers", func(t *testing.T) {
		done := make(chan struct{})
		go func() {
			pool.Stop()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("Workers did not stop within timeout")
		}
		if got := pool.WorkerCount(); got != 0 {
			t.Errorf("Expected 0 workers after stop, got %d", got)
		}
		if err := pool.Submit(context.Background(), Task{}); !errors.Is(err, ErrPoolStopped) {
			t.Errorf("Submit after stop got %v", err)
		}
	})
}

func TestWorker_TraceIdReachesIngester(t *testing.T) {
	var seen atomic.Value
	ingester := &MockIngester{OnHandle: func(ctx context.Context, ref matchModel.ObjectRef) (matchModel.Outcome, error) {
		seen.Store(ctx.Value("traceId"))
		return matchModel.Outcome{State: matchModel.StateSkipped}, nil
	}}
	pool := NewPool(ingester, testOptions())
	pool.Start()
	defer pool.Stop()

	var wg sync.WaitGroup
	wg.Add(1)
	pool.Submit(context.Background(), Task{TraceId: "abc", Done: func(matchModel.Outcome, error) { wg.Done() }})
	wg.Wait()
	if seen.Load() != "abc" {
		t.Errorf("trace id got %v", seen.Load())
	}
}

func TestWorker_FailureIsReported(t *testing.T) {
	boom := errors.New("boom")
	ingester := &MockIngester{OnHandle: func(ctx context.Context, ref matchModel.ObjectRef) (matchModel.Outcome, error) {
		return matchModel.Outcome{State: matchModel.StateFailed}, boom
	}}
	pool := NewPool(ingester, testOptions())
	pool.Start()
	defer pool.Stop()

	got := make(chan error, 1)
	pool.Submit(context.Background(), Task{Done: func(_ matchModel.Outcome, err error) { got <- err }})
	if err := <-got; !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestWorker_IdleTimeout(t *testing.T) {
	opts := testOptions()
	opts.MinWorkers = 1
	opts.MaxWorkers = 2
	opts.IdleTimeout = 50 * time.Millisecond
	pool := NewPool(&MockIngester{}, opts)
	pool.Start()
	defer pool.Stop()

	pool.createWorker()
	if got := pool.WorkerCount(); got != 2 {
		t.Fatalf("Expected 2 workers, got %d", got)
	}

	waitFor(t, func() bool { return pool.WorkerCount() == 1 })

	// the last worker stays even after several idle periods
	time.Sleep(4 * opts.IdleTimeout)
	if got := pool.WorkerCount(); got != 1 {
		t.Errorf("Idle retirement went below the minimum: %d", got)
	}
}

func TestSubmit_ContextCancelledWhileBufferFull(t *testing.T) {
	block := make(chan struct{})
	ingester := &MockIngester{OnHandle: func(ctx context.Context, ref matchModel.ObjectRef) (matchModel.Outcome, error) {
		<-block
		return matchModel.Outcome{}, nil
	}}
	opts := testOptions()
	opts.BufferLimit = 0
	opts.MaxWorkers = 1
	pool := NewPool(ingester, opts)
	pool.Start()
	defer func() {
		close(block)
		pool.Stop()
	}()

	// occupy the only worker
	if err := pool.Submit(context.Background(), Task{}); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return atomic.LoadInt32(&ingester.ProcessedCount) == 1 })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := pool.Submit(ctx, Task{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}
