package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/garyjia/invoice-desk/internal/application/port"
	"github.com/garyjia/invoice-desk/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSink struct {
	mu       sync.Mutex
	received []port.Mutation
	release  chan struct{}
	status   port.DispatchStatus
}

func (s *recordingSink) Forward(_ context.Context, m port.Mutation) port.Outcome {
	if s.release != nil {
		<-s.release
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.received = append(s.received, m)
	return port.Outcome{Status: s.status}
}

func (s *recordingSink) actions() []port.SinkAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]port.SinkAction, 0, len(s.received))
	for _, m := range s.received {
		out = append(out, m.Action)
	}
	return out
}

func TestReplicationWorker_ForwardsInOrderAndDrainsOnStop(t *testing.T) {
	sink := &recordingSink{status: port.StatusDispatched}
	w := NewReplicationWorker(ReplicationWorkerConfig{QueueSize: 8}, sink, zap.NewNop())

	require.NoError(t, w.Start(context.Background()))
	w.Publish(port.DeleteInvoiceMutation("INV-0001"))
	w.Publish(port.SaveCompanyInfoMutation(entityCompany()))
	require.NoError(t, w.Stop())

	assert.Equal(t, []port.SinkAction{port.ActionDeleteInvoice, port.ActionSaveCompanyInfo}, sink.actions())
	dispatched, failed, dropped := w.Stats()
	assert.Equal(t, 2, dispatched)
	assert.Zero(t, failed)
	assert.Zero(t, dropped)
}

func TestReplicationWorker_DropsWhenFull(t *testing.T) {
	sink := &recordingSink{status: port.StatusDispatched}
	w := NewReplicationWorker(ReplicationWorkerConfig{QueueSize: 1}, sink, zap.NewNop())

	// Not started, so nothing drains the queue
	w.Publish(port.DeleteInvoiceMutation("INV-0001"))
	w.Publish(port.DeleteInvoiceMutation("INV-0002"))

	_, _, dropped := w.Stats()
	assert.Equal(t, 1, dropped)

	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Stop())
	require.Len(t, sink.actions(), 1)
	assert.Equal(t, "INV-0001", sink.received[0].InvoiceNumber)
}

func TestReplicationWorker_PublishDoesNotBlockOnSlowSink(t *testing.T) {
	sink := &recordingSink{status: port.StatusTransportFailed, release: make(chan struct{})}
	w := NewReplicationWorker(ReplicationWorkerConfig{QueueSize: 4}, sink, zap.NewNop())
	require.NoError(t, w.Start(context.Background()))

	published := make(chan struct{})
	go func() {
		for i := 0; i < 3; i++ {
			w.Publish(port.DeleteInvoiceMutation("INV-0001"))
		}
		close(published)
	}()

	select {
	case <-published:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on the sink")
	}

	close(sink.release)
	require.NoError(t, w.Stop())
	_, failed, _ := w.Stats()
	assert.Equal(t, 3, failed)
}

func TestReplicationWorker_DropsAfterStop(t *testing.T) {
	sink := &recordingSink{status: port.StatusDispatched}
	w := NewReplicationWorker(ReplicationWorkerConfig{QueueSize: 8}, sink, zap.NewNop())

	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Stop())

	w.Publish(port.DeleteInvoiceMutation("INV-0007"))

	dispatched, _, dropped := w.Stats()
	assert.Zero(t, dispatched)
	assert.Equal(t, 1, dropped)
	assert.Empty(t, sink.actions())

	// a restart accepts mutations again
	require.NoError(t, w.Start(context.Background()))
	w.Publish(port.DeleteInvoiceMutation("INV-0008"))
	require.NoError(t, w.Stop())
	assert.Equal(t, []port.SinkAction{port.ActionDeleteInvoice}, sink.actions())
}

func TestReplicationWorker_DropsAfterContextCancel(t *testing.T) {
	sink := &recordingSink{status: port.StatusDispatched}
	w := NewReplicationWorker(ReplicationWorkerConfig{QueueSize: 8}, sink, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool {
		w.Publish(port.DeleteInvoiceMutation("INV-0001"))
		_, _, dropped := w.Stats()
		return dropped > 0
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, w.Stop())

	// everything accepted before the loop exited was still forwarded
	dispatched, _, dropped := w.Stats()
	assert.Equal(t, 1, dropped)
	assert.Equal(t, dispatched, len(sink.actions()))
}

func TestReplicationWorker_DoubleStart(t *testing.T) {
	w := NewReplicationWorker(DefaultReplicationWorkerConfig(), &recordingSink{}, zap.NewNop())
	require.NoError(t, w.Start(context.Background()))
	assert.Error(t, w.Start(context.Background()))
	require.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}

func TestWorkerManager_Lifecycle(t *testing.T) {
	sink := &recordingSink{status: port.StatusDispatched}
	w := NewReplicationWorker(DefaultReplicationWorkerConfig(), sink, zap.NewNop())

	m := NewWorkerManager(zap.NewNop())
	m.Register(w)
	assert.Equal(t, 1, m.WorkerCount())

	require.NoError(t, m.StartAll(context.Background()))
	assert.True(t, m.IsRunning())
	assert.Error(t, m.StartAll(context.Background()))

	w.Publish(port.DeleteInvoiceMutation("INV-0005"))
	require.NoError(t, m.StopAll())
	assert.False(t, m.IsRunning())
	assert.Len(t, sink.actions(), 1)
}

func entityCompany() entity.CompanyInfo {
	return entity.CompanyInfo{Name: "Acme"}
}
