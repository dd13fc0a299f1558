package service

import (
	"context"
	"sync"
	"time"

	"github.com/garyjia/invoice-desk/internal/application/port"
	"github.com/garyjia/invoice-desk/internal/domain/billing"
	"github.com/garyjia/invoice-desk/internal/export"
	"github.com/garyjia/invoice-desk/internal/infrastructure/persistence/repository"
	"go.uber.org/zap"
)

// memKV is an in-memory port.KVStore
type memKV struct {
	mu     sync.Mutex
	data   map[string][]byte
	putErr error
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string][]byte)}
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return append([]byte(nil), v...), ok, nil
}

func (m *memKV) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

type passthroughTx struct {
	mu    sync.Mutex
	calls int
}

func (t *passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	t.calls++
	t.mu.Unlock()
	return fn(ctx)
}

type recordingPublisher struct {
	mu        sync.Mutex
	mutations []port.Mutation
}

func (p *recordingPublisher) Publish(m port.Mutation) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mutations = append(p.mutations, m)
}

func (p *recordingPublisher) actions() []port.SinkAction {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]port.SinkAction, 0, len(p.mutations))
	for _, m := range p.mutations {
		out = append(out, m.Action)
	}
	return out
}

type mockSink struct {
	forwardFunc func(ctx context.Context, m port.Mutation) port.Outcome
	forwarded   []port.Mutation
}

func (s *mockSink) Forward(ctx context.Context, m port.Mutation) port.Outcome {
	s.forwarded = append(s.forwarded, m)
	if s.forwardFunc != nil {
		return s.forwardFunc(ctx, m)
	}
	return port.Outcome{Status: port.StatusDispatched}
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// fixedClock ticks one second per call from start
func fixedClock(start time.Time) Clock {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := current
		current = current.Add(time.Second)
		return now
	}
}

type fixture struct {
	kv        *memKV
	tx        *passthroughTx
	invoices  *repository.InvoiceRepository
	companies *repository.CompanyRepository
	settings  *repository.SettingsRepository
	publisher *recordingPublisher
	sequencer Sequencer
	invoice   InvoiceService
	company   CompanyService
	backup    BackupService
	exporter  ExportService
}

var testStart = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	f := &fixture{
		kv:        newMemKV(),
		tx:        &passthroughTx{},
		publisher: &recordingPublisher{},
	}
	clock := fixedClock(testStart)

	f.invoices = repository.NewInvoiceRepository(f.kv, nil, repository.Clock(clock), zap.NewNop())
	f.companies = repository.NewCompanyRepository(f.kv, zap.NewNop())
	f.settings = repository.NewSettingsRepository(f.kv, nil)
	f.sequencer = NewSequencer(f.settings, &passthroughTx{}, SequencerConfig{Prefix: "INV", Width: 4})

	documents := export.NewDocumentBuilder(export.NewCurrencyFormatter("¥"))
	f.invoice = NewInvoiceService(
		f.invoices, f.companies, f.sequencer, billing.NewValidator(), documents, f.publisher,
		InvoiceDefaults{TaxRate: 10, DueDays: 30}, clock, nopLogger{},
	)
	f.company = NewCompanyService(f.companies, &passthroughTx{}, f.publisher, DefaultLogoConfig(), nopLogger{})
	f.backup = NewBackupService(f.invoices, f.companies, f.tx, clock, nopLogger{})
	f.exporter = NewExportService(f.invoices, export.NewProjector(time.UTC), clock, nopLogger{})
	return f
}
