package checkout

import (
	"context"
	"sync"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/ariefcatur/go-storefront/internal/paypal"
)

// memStore implements Store in memory and counts every call.
type memStore struct {
	mu        sync.Mutex
	snapshots map[string][]LineItem
	history   map[string][]HistoryEntry
	calls     int
	saveErr   error
}

func newMemStore() *memStore {
	return &memStore{snapshots: map[string][]LineItem{}, history: map[string][]HistoryEntry{}}
}

func (m *memStore) SaveSnapshot(_ context.Context, sid string, items []LineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.snapshots[sid] = items
	return nil
}

func (m *memStore) LoadSnapshot(_ context.Context, sid string) ([]LineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.snapshots[sid], nil
}

func (m *memStore) DeleteSnapshot(ctx context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if err := ctx.Err(); err != nil {
		return err
	}
	delete(m.snapshots, sid)
	return nil
}

func (m *memStore) LoadHistory(_ context.Context, sid string) ([]HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.history[sid], nil
}

func (m *memStore) SaveHistory(_ context.Context, sid string, entries []HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.history[sid] = entries
	return nil
}

func (m *memStore) hasSnapshot(sid string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.snapshots[sid]
	return ok
}

// fakeProcessor records requests and returns canned answers.
type fakeProcessor struct {
	createOrder *paypal.Order
	createErr   error
	captureResp *paypal.Order
	captureErr  error

	onCreate func(in paypal.OrderRequest)
	// blockCapture makes CaptureOrder hang until ctx ends.
	blockCapture bool

	createCalls  int
	captureCalls int
	lastRequest  paypal.OrderRequest
	lastCaptured string
}

func (f *fakeProcessor) CreateOrder(_ context.Context, in paypal.OrderRequest) (*paypal.Order, error) {
	f.createCalls++
	f.lastRequest = in
	if f.onCreate != nil {
		f.onCreate(in)
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOrder, nil
}

func (f *fakeProcessor) CaptureOrder(ctx context.Context, orderID string) (*paypal.Order, error) {
	f.captureCalls++
	f.lastCaptured = orderID
	if f.blockCapture {
		<-ctx.Done()
		return nil, apperr.Wrap(apperr.KindCapture, ctx.Err())
	}
	if f.captureErr != nil {
		return nil, f.captureErr
	}
	return f.captureResp, nil
}

type recordingSink struct {
	outcomes []Outcome
	ctxErrs  []error
}

func (r *recordingSink) OutcomeReached(ctx context.Context, _ string, out Outcome) {
	r.outcomes = append(r.outcomes, out)
	r.ctxErrs = append(r.ctxErrs, ctx.Err())
}
