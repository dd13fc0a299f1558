package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/garyjia/invoice-desk/internal/application/port"
	"go.uber.org/zap"
)

// ReplicationWorkerConfig holds configuration for the replication worker
type ReplicationWorkerConfig struct {
	QueueSize int
}

// DefaultReplicationWorkerConfig returns default configuration
func DefaultReplicationWorkerConfig() ReplicationWorkerConfig {
	return ReplicationWorkerConfig{QueueSize: 64}
}

// ReplicationWorker forwards published mutations to the sink in publish order.
// Publishing never blocks: a full queue drops the mutation, and so does
// publishing once the worker has stopped.
type ReplicationWorker struct {
	sink   port.ReplicationSink
	queue  chan port.Mutation
	logger *zap.Logger

	mu         sync.RWMutex
	isRunning  bool
	closed     bool // the loop has exited; nothing drains the queue
	stop       chan struct{}
	done       chan struct{}
	dispatched int
	failed     int
	dropped    int
}

// NewReplicationWorker creates a new replication worker
func NewReplicationWorker(config ReplicationWorkerConfig, sink port.ReplicationSink, logger *zap.Logger) *ReplicationWorker {
	size := config.QueueSize
	if size <= 0 {
		size = DefaultReplicationWorkerConfig().QueueSize
	}
	return &ReplicationWorker{
		sink:   sink,
		queue:  make(chan port.Mutation, size),
		logger: logger,
	}
}

// Publish implements port.MutationPublisher
func (w *ReplicationWorker) Publish(m port.Mutation) {
	// the read lock is held across the send so the loop cannot close and drain in between
	w.mu.RLock()
	if w.closed {
		w.mu.RUnlock()
		w.drop(m, "Replication worker stopped, mutation dropped")
		return
	}
	select {
	case w.queue <- m:
		w.mu.RUnlock()
		return
	default:
	}
	w.mu.RUnlock()
	w.drop(m, "Replication queue full, mutation dropped")
}

func (w *ReplicationWorker) drop(m port.Mutation, msg string) {
	w.mu.Lock()
	w.dropped++
	w.mu.Unlock()
	w.logger.Warn(msg,
		zap.String("action", string(m.Action)),
		zap.Int("queue_size", cap(w.queue)))
}

// Start begins draining the queue
func (w *ReplicationWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.isRunning {
		w.mu.Unlock()
		return fmt.Errorf("replication worker already running")
	}
	w.isRunning = true
	w.closed = false
	w.stop = make(chan struct{})
	w.done = make(chan struct{})
	w.mu.Unlock()

	w.logger.Info("ReplicationWorker started", zap.Int("queue_size", cap(w.queue)))

	go w.loop(ctx, w.stop, w.done)
	return nil
}

// Stop forwards whatever is already queued, then returns
func (w *ReplicationWorker) Stop() error {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return nil
	}
	w.isRunning = false
	stop, done := w.stop, w.done
	w.mu.Unlock()

	close(stop)
	<-done

	w.mu.RLock()
	w.logger.Info("ReplicationWorker stopped",
		zap.Int("dispatched_count", w.dispatched),
		zap.Int("failed_count", w.failed),
		zap.Int("dropped_count", w.dropped))
	w.mu.RUnlock()
	return nil
}

// Name returns the worker name for identification
func (w *ReplicationWorker) Name() string {
	return "ReplicationWorker"
}

// Stats returns dispatched, failed and dropped counts
func (w *ReplicationWorker) Stats() (dispatched, failed, dropped int) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.dispatched, w.failed, w.dropped
}

func (w *ReplicationWorker) loop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		select {
		case m := <-w.queue:
			w.forward(m)
		case <-stop:
			w.close()
			return
		case <-ctx.Done():
			w.close()
			return
		}
	}
}

// close refuses further publishes, then forwards what is already queued
func (w *ReplicationWorker) close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	w.drain()
}

func (w *ReplicationWorker) drain() {
	for {
		select {
		case m := <-w.queue:
			w.forward(m)
		default:
			return
		}
	}
}

// forward runs detached from the worker context so shutdown does not abort an in-flight request
func (w *ReplicationWorker) forward(m port.Mutation) {
	out := w.sink.Forward(context.Background(), m)

	w.mu.Lock()
	defer w.mu.Unlock()
	switch {
	case !out.OK():
		w.failed++
	case out.Status == port.StatusDispatched:
		w.dispatched++
	}
}

var _ port.MutationPublisher = (*ReplicationWorker)(nil)
var _ Worker = (*ReplicationWorker)(nil)
