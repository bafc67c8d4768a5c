package worker

import (
	"context"
	"sync/atomic"

	"github.com/akolanti/JobMatch/internal/config"
	"github.com/akolanti/JobMatch/internal/metrics"
)

func (p *Pool) executeTask(task Task) {
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, task.TraceId)
	log := p.logger.With("traceId", task.TraceId, "bucket", task.Ref.Bucket, "key", task.Ref.Key)
	log.Debug("Processing task")

	outcome, err := p.ingester.Handle(ctx, task.Ref)
	if err != nil {
		log.Error("Task failed", "state", outcome.State, "error", err)
	}
	if task.Done != nil {
		task.Done(outcome, err)
	}
}

// removeWorker releases a worker. Idle retirement has already decremented the
// count in tryRetire.
func (p *Pool) removeWorker(reason string) {
	if reason != "Idle worker timeout" {
		atomic.AddInt64(&p.currentWorkerCount, -1)
	}
	p.workerWaitGroup.Done()
	metrics.DecrementActiveWorkerCount()
	p.logger.Info("Removed worker", "reason", reason, "workerCount", p.WorkerCount())
}
