package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/ansarhun/restic-volume-populator/internal/metrics"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"k8s.io/client-go/util/workqueue"
)

const QueueName = "restic-volume-populator"

type Func func(ctx context.Context) error

type task struct {
	kind string
	key  string
	run  Func
}

// Executor runs submitted work one item at a time in submission order. Nothing runs before the
// gate opens; submissions made earlier are queued.
type Executor struct {
	gate   *Gate
	queue  workqueue.TypedInterface[*task]
	logger logr.Logger
}

func NewExecutor(gate *Gate, logger logr.Logger) *Executor {
	return &Executor{
		gate: gate,
		queue: workqueue.NewTypedWithConfig(workqueue.TypedQueueConfig[*task]{
			Name: QueueName,
		}),
		logger: logger,
	}
}

// Submit enqueues work. kind and key only label logs and metrics. Submissions after shutdown
// are dropped.
func (e *Executor) Submit(kind, key string, fn Func) {
	e.queue.Add(&task{kind: kind, key: key, run: fn})
}

func (e *Executor) Len() int {
	return e.queue.Len()
}

// Start implements manager.Runnable.
func (e *Executor) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		e.queue.ShutDown()
	}()

	if err := e.gate.Wait(ctx); err != nil {
		return nil
	}
	e.logger.Info("Starting worker")
	for e.processNext(ctx) {
	}
	e.logger.Info("Worker stopped")
	return nil
}

// NeedLeaderElection implements manager.LeaderElectionRunnable.
func (e *Executor) NeedLeaderElection() bool {
	return false
}

func (e *Executor) processNext(ctx context.Context) bool {
	t, shutdown := e.queue.Get()
	if shutdown {
		return false
	}
	defer e.queue.Done(t)

	if ctx.Err() != nil {
		return false
	}
	e.execute(ctx, t)
	return true
}

func (e *Executor) execute(ctx context.Context, t *task) {
	log := e.logger.WithValues("task", t.kind, "key", t.key, "reconcileID", uuid.NewString())
	ctx = logr.NewContext(ctx, log)
	start := time.Now()

	result := metrics.ResultSuccess
	defer func() {
		if r := recover(); r != nil {
			result = metrics.ResultPanic
			metrics.ReconcilePanics.Inc()
			log.Error(fmt.Errorf("panic: %v", r), "Observed a panic in reconcile task")
		}
		metrics.ReconcileTasks.WithLabelValues(t.kind, result).Inc()
		log.V(2).Info("Task finished", "result", result, "duration", time.Since(start))
	}()

	if err := t.run(ctx); err != nil {
		result = metrics.ResultError
		log.Error(err, "Reconcile task failed")
	}
}
