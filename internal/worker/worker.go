package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/JobMatch/internal/config"
	"github.com/akolanti/JobMatch/internal/domain/matchModel"
	"github.com/akolanti/JobMatch/internal/metrics"
	"github.com/akolanti/JobMatch/pkg/logger_i"
)

var ErrPoolStopped = errors.New("worker pool stopped")

// Task is one object to ingest. Done, when set, is called exactly once with
// the result of the ingestion.
type Task struct {
	Ref     matchModel.ObjectRef
	TraceId string
	Done    func(matchModel.Outcome, error)
}

type Options struct {
	BufferLimit          int
	MinWorkers           int64
	MaxWorkers           int64
	RequestsPerNewWorker int64
	IdleTimeout          time.Duration
}

func DefaultOptions() Options {
	return Options{
		BufferLimit:          config.BufferLimit,
		MinWorkers:           config.MinWorkerCount,
		MaxWorkers:           config.MaxWorkerCount,
		RequestsPerNewWorker: config.RequestsPerNewWorkerCount,
		IdleTimeout:          config.IdleWorkerTimeout,
	}
}

// Pool is an elastic set of workers. It starts with MinWorkers, grows by one
// every RequestsPerNewWorker submissions up to MaxWorkers, and shrinks back
// as workers sit idle.
type Pool struct {
	ingester matchModel.Ingester
	opts     Options

	taskChannel       chan Task
	dispatcherChannel chan bool
	stopChannel       chan struct{}
	stopOnce          sync.Once
	workerWaitGroup   sync.WaitGroup

	requestCount       int64
	currentWorkerCount int64
	logger             *logger_i.Logger
}

func NewPool(ingester matchModel.Ingester, opts Options) *Pool {
	if opts.MinWorkers < 1 {
		opts.MinWorkers = 1
	}
	if opts.MaxWorkers < opts.MinWorkers {
		opts.MaxWorkers = opts.MinWorkers
	}
	if opts.RequestsPerNewWorker < 1 {
		opts.RequestsPerNewWorker = 1
	}
	return &Pool{
		ingester:          ingester,
		opts:              opts,
		taskChannel:       make(chan Task, opts.BufferLimit),
		dispatcherChannel: make(chan bool, 1),
		stopChannel:       make(chan struct{}),
		logger:            logger_i.NewLogger("WorkerPool"),
	}
}

func (p *Pool) Start() {
	p.logger.Info("Initializing worker pool", "min", p.opts.MinWorkers, "max", p.opts.MaxWorkers)
	for i := int64(0); i < p.opts.MinWorkers; i++ {
		p.createWorker()
	}
	go p.dispatcher()
}

// Submit queues a task, blocking while the buffer is full so a burst of
// events applies back pressure to the trigger.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	select {
	case <-p.stopChannel:
		return ErrPoolStopped
	default:
	}

	select {
	case p.taskChannel <- task:
	case <-p.stopChannel:
		return ErrPoolStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	metrics.IncrementJobsInQueue()

	if atomic.AddInt64(&p.requestCount, 1)%p.opts.RequestsPerNewWorker == 0 {
		select {
		case p.dispatcherChannel <- true:
			metrics.StartDispatcherSignalCount()
		default:
		}
	}
	return nil
}

// Stop retires every worker and waits for in-flight tasks to finish. Tasks
// still queued are dropped; their Done is never called.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopChannel)
	})
	p.workerWaitGroup.Wait()
	p.logger.Info("Worker pool stopped")
}

func (p *Pool) WorkerCount() int64 {
	return atomic.LoadInt64(&p.currentWorkerCount)
}

func (p *Pool) dispatcher() {
	p.logger.Info("Dispatcher started")
	for {
		select {
		case <-p.dispatcherChannel:
			if atomic.LoadInt64(&p.currentWorkerCount) < p.opts.MaxWorkers {
				p.logger.Info("Creating new worker", "WorkerCount", p.WorkerCount())
				p.createWorker()
			}
		case <-p.stopChannel:
			return
		}
	}
}

func (p *Pool) createWorker() {
	p.workerWaitGroup.Add(1)
	atomic.AddInt64(&p.currentWorkerCount, 1)
	metrics.IncrementActiveWorkerCount()
	go p.worker()
}

func (p *Pool) worker() {
	idle := time.NewTimer(p.opts.IdleTimeout)
	defer idle.Stop()

	for {
		select {
		case task := <-p.taskChannel:
			metrics.DecrementJobsInQueue()
			p.executeTask(task)
			resetTimer(idle, p.opts.IdleTimeout)

		case <-p.stopChannel:
			p.removeWorker("Stop worker signal received")
			return

		case <-idle.C:
			if p.tryRetire() {
				p.removeWorker("Idle worker timeout")
				return
			}
			idle.Reset(p.opts.IdleTimeout)
		}
	}
}

// tryRetire claims a slot above MinWorkers; it never takes the pool below it.
func (p *Pool) tryRetire() bool {
	for {
		current := atomic.LoadInt64(&p.currentWorkerCount)
		if current <= p.opts.MinWorkers {
			return false
		}
		if atomic.CompareAndSwapInt64(&p.currentWorkerCount, current, current-1) {
			return true
		}
	}
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
